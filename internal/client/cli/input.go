package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"golang.org/x/term"
)

// clearMarker を入力すると任意項目を空にします。
const clearMarker = "-"

// 端末操作のテスト用の差し替え口です。
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errInvalidDate = errors.New("date must be YYYY-MM-DD")

func (a *App) readLine(label string) (string, error) {
	a.printf("%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readChange は現在値を示して入力を読みます。空入力は変更なしで nil です。
func (a *App) readChange(label, current string) (*string, error) {
	raw, err := a.readLine(fmt.Sprintf("%s [%s]", label, current))
	if err != nil || raw == "" {
		return nil, err
	}
	if raw == clearMarker {
		raw = ""
	}
	return &raw, nil
}

func (a *App) readPassword(label string) (string, error) {
	if a.stdin == nil || !isTerminal(int(a.stdin.Fd())) {
		return a.readLine(label)
	}
	a.printf("%s: ", label)
	pw, err := readPassword(int(a.stdin.Fd()))
	a.println("")
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func (a *App) readDate(label string) (*time.Time, error) {
	raw, err := a.readLine(label + " (YYYY-MM-DD)")
	if err != nil {
		return nil, err
	}
	return parseDate(label, raw)
}

func (a *App) readConfirm(label string) (bool, error) {
	raw, err := a.readLine(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func parseDate(label, raw string) (*time.Time, error) {
	t, err := personnel.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(label), errInvalidDate)
	}
	return t, nil
}

// pickIndex は "#" 列の番号か ID を解決します。
func pickIndex(raw string, n int, idAt func(int) string) (int, bool) {
	if i, err := strconv.Atoi(raw); err == nil {
		if i >= 1 && i <= n {
			return i - 1, true
		}
		return 0, false
	}
	for i := 0; i < n; i++ {
		if idAt(i) == raw {
			return i, true
		}
	}
	return 0, false
}
