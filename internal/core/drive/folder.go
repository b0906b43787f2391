// Package drive は共有ドライブ上の個人フォルダ命名規則とリンク生成を扱います。
// フォルダの作成は行いません。
package drive

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const folderBaseURL = "https://drive.google.com/drive/folders/"

var whitespaceRun = regexp.MustCompile(`\s+`)

// GenerateFolderName は氏名と生年月日 (YYYY-MM-DD) から "Name_YYYYMMDD" 形式のフォルダ名を生成します。
// 前後の空白は除いてから変換します。" A B " は "A_B_..." になります。
// いずれかが空の場合は空文字列を返します。空白以外の記号はそのまま残ります。
func GenerateFolderName(name, dateOfBirth string) string {
	name = strings.TrimSpace(name)
	dateOfBirth = strings.TrimSpace(dateOfBirth)
	if name == "" || dateOfBirth == "" {
		return ""
	}

	cleanName := whitespaceRun.ReplaceAllString(name, "_")
	cleanDate := strings.ReplaceAll(dateOfBirth, "-", "")
	return cleanName + "_" + cleanDate
}

// Linker は設定された共有フォルダ ID からリンクを組み立てます。
type Linker struct {
	folderID string
}

// NewLinker は Linker を生成します。
func NewLinker(sharedFolderID string) *Linker {
	return &Linker{folderID: strings.TrimSpace(sharedFolderID)}
}

// SharedDriveLink は共有フォルダのリンクを返します。
func (l *Linker) SharedDriveLink() string {
	return folderBaseURL + l.folderID
}

// FolderSearchLink は共有フォルダ内でフォルダ名を検索するリンクを返します。
// 参照先のフォルダが存在するとは限りません。
func (l *Linker) FolderSearchLink(folderName string) string {
	if folderName == "" {
		return l.SharedDriveLink()
	}
	q := url.Values{}
	q.Set("q", folderName)
	return l.SharedDriveLink() + "?" + q.Encode()
}

// FolderInstructions は手動でフォルダを作成するための案内文を返します。
func (l *Linker) FolderInstructions(folderName string) string {
	if folderName == "" {
		return ""
	}
	return fmt.Sprintf("Create a folder named %q in the shared drive: %s", folderName, l.SharedDriveLink())
}
