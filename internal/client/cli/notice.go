package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/ogurasousui/engineer-admin/internal/client/view"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

var errNotSelected = errors.New("no matching record; enter the # shown in the list or an ID")

// report は操作の失敗を利用者向けの通知として表示します。
func (a *App) report(err error) {
	a.Logger.Debug().Err(err).Msg("action failed")

	var (
		warning *transfer.ConsistencyWarning
		authErr *auth.Error
	)
	switch {
	case errors.Is(err, view.ErrSubmissionInFlight):
		warningColor.Fprintln(a.out, "The previous request is still being saved. Try again shortly.")
	case errors.As(err, &warning):
		warningColor.Fprintf(a.out, "Warning: transfer %s was recorded but the company was not changed to %q: %v\n",
			warning.Record.ID, warning.Record.ToCompany, warning.Err)
		if warning.CompensationErr != nil {
			warningColor.Fprintf(a.out, "Removing the record also failed: %v\n", warning.CompensationErr)
		}
	case errors.As(err, &authErr):
		errorColor.Fprintf(a.out, "Authentication failed: %s\n", authErr.Reason)
	case errors.Is(err, storeerr.ErrNotFound):
		errorColor.Fprintln(a.out, "Record not found. It may have been deleted.")
	case storeerr.IsRead(err):
		errorColor.Fprintf(a.out, "Could not load data: %v\n", err)
	case storeerr.IsWrite(err):
		errorColor.Fprintf(a.out, "Could not save changes: %v\n", err)
	default:
		errorColor.Fprintf(a.out, "Error: %v\n", err)
	}
}
