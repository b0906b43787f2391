// Package cli は番号付きメニューで人員・請求書・異動を操作する端末クライアントです。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/ogurasousui/engineer-admin/internal/client/session"
	"github.com/ogurasousui/engineer-admin/internal/client/view"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
)

// Deps は App が操作する画面と認証ゲートです。
type Deps struct {
	Gate      *session.Gate
	Personnel *view.PersonnelView
	Invoices  *view.InvoiceView
	Transfers *view.TransferView
	Logger    *logger.Logger
}

// App は対話ループです。
type App struct {
	Deps

	in    *bufio.Reader
	out   io.Writer
	stdin *os.File

	// stale はサインイン直後に一覧を取得し直すためのフラグです。
	stale    atomic.Bool
	signedIn atomic.Bool
}

type menuItem struct {
	label string
	run   func(context.Context) error
}

// New は App を生成します。in が端末の場合、パスワードはエコーせずに読み取ります。
func New(deps Deps, in io.Reader, out io.Writer) *App {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	a := &App{Deps: deps, in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		a.stdin = f
	}
	return a
}

// Run は入力が終わるか Exit が選ばれるまでメニューを表示します。
// 認証されていない間はサインインメニューのみを表示します。
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.Gate.Subscribe(a.onSession)
	defer unsubscribe()

	for ctx.Err() == nil {
		var (
			quit bool
			err  error
		)
		if a.Gate.Current().State == session.StateAuthenticated {
			quit, err = a.mainMenu(ctx)
		} else {
			quit, err = a.loginMenu(ctx)
		}
		if errors.Is(err, io.EOF) {
			quit = true
		} else if err != nil {
			return err
		}
		if quit {
			a.println("Bye!")
			return nil
		}
	}
	return nil
}

func (a *App) onSession(s session.Snapshot) {
	switch s.State {
	case session.StateAuthenticated:
		a.stale.Store(true)
		a.signedIn.Store(true)
		if s.Identity != nil {
			a.printf("Signed in as %s.\n", s.Identity.Email)
		}
	case session.StateUnauthenticated:
		if a.signedIn.Swap(false) {
			a.println("Signed out.")
		}
	}
}

func (a *App) mainMenu(ctx context.Context) (bool, error) {
	if a.stale.CompareAndSwap(true, false) {
		a.refresh(ctx)
	}
	return a.menu(ctx, "Engineer admin", []menuItem{
		{"List personnel", a.listPersonnel},
		{"Add person", a.addPerson},
		{"Edit person", a.editPerson},
		{"Delete person", a.deletePerson},
		{"Company summary", a.companySummary},
		{"Drive folder", a.driveFolder},
		{"List invoices", a.listInvoices},
		{"Add invoice", a.addInvoice},
		{"Edit invoice", a.editInvoice},
		{"Delete invoice", a.deleteInvoice},
		{"Record transfer", a.recordTransfer},
		{"Transfer history", a.listTransfers},
		{"Delete transfer", a.deleteTransfer},
		{"Sign out", a.signOut},
	})
}

func (a *App) loginMenu(ctx context.Context) (bool, error) {
	return a.menu(ctx, "Sign in required", []menuItem{
		{"Sign in", a.signIn},
		{"Sign up", a.signUp},
	})
}

func (a *App) menu(ctx context.Context, title string, items []menuItem) (bool, error) {
	a.println("")
	a.printf("== %s ==\n", title)
	for i, item := range items {
		a.printf("%2d) %s\n", i+1, item.label)
	}
	a.println(" 0) Exit")

	raw, err := a.readLine("Select")
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > len(items) {
		a.printf("Unknown option: %s\n", raw)
		return false, nil
	}
	if n == 0 {
		return true, nil
	}

	if err := items[n-1].run(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			return false, err
		}
		a.report(err)
	}
	return false, nil
}

// refresh は全画面の一覧を取得し直します。失敗は表示のみ行います。
func (a *App) refresh(ctx context.Context) {
	if err := a.Personnel.Load(ctx); err != nil {
		a.report(err)
	}
	if err := a.Invoices.Load(ctx); err != nil {
		a.report(err)
	}
	if err := a.Transfers.Load(ctx, ""); err != nil {
		a.report(err)
	}
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
