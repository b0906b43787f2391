package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore はサインイン状態をプロセスを跨いで保持します。
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore はトークンを所有者のみ読み書きできるファイルに保存します。
type FileTokenStore struct {
	path string
}

// NewFileTokenStore は path に保存する FileTokenStore を生成します。
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load は保存済みのトークンを返します。ファイルが無い場合は空文字列です。
func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save は token を書き込みます。
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear は保存済みのトークンを削除します。
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

type noopTokenStore struct{}

func (noopTokenStore) Load() (string, error) { return "", nil }
func (noopTokenStore) Save(string) error     { return nil }
func (noopTokenStore) Clear() error          { return nil }
