package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/client/view"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("amount must be a number")

func (a *App) listInvoices(ctx context.Context) error {
	if err := a.Invoices.Load(ctx); err != nil {
		return err
	}
	items := a.Invoices.Items()
	a.printInvoices(items)
	if len(items) == 0 {
		return nil
	}

	totals := a.Invoices.TotalsByStatus()
	for _, s := range []invoice.Status{invoice.StatusPending, invoice.StatusPaid, invoice.StatusOverdue} {
		if amount, ok := totals[s]; ok {
			a.printf("%-8s %s\n", s, view.DisplayAmount(amount))
		}
	}
	return nil
}

func (a *App) printInvoices(items []*invoice.Invoice) {
	if len(items) == 0 {
		a.println("No invoices yet.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNUMBER\tCOMPANY\tISSUED\tDUE\tAMOUNT\tSTATUS")
	for i, inv := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, inv.InvoiceNumber, inv.Company,
			inv.IssueDate.Format(personnel.DateLayout), inv.DueDate.Format(personnel.DateLayout),
			view.DisplayAmount(inv.Amount), inv.Status)
	}
	w.Flush()
}

func (a *App) addInvoice(ctx context.Context) error {
	var in invoice.CreateInvoiceInput
	var err error

	if in.InvoiceNumber, err = a.readLine("Invoice number"); err != nil {
		return err
	}
	if in.Company, err = a.readLine("Company"); err != nil {
		return err
	}
	if in.IssueDate, err = a.readDate("Issue date"); err != nil {
		return err
	}
	if in.DueDate, err = a.readDate("Due date"); err != nil {
		return err
	}
	rawAmount, err := a.readLine("Amount (VND)")
	if err != nil {
		return err
	}
	if in.Amount, err = parseAmount(rawAmount); err != nil {
		return err
	}
	rawStatus, err := a.readLine("Status (pending/paid/overdue) [pending]")
	if err != nil {
		return err
	}
	if rawStatus != "" {
		s, err := invoice.ParseStatus(rawStatus)
		if err != nil {
			return err
		}
		in.Status = &s
	}
	if in.Description, err = a.readLine("Description (optional)"); err != nil {
		return err
	}

	created, err := a.Invoices.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Added invoice %s for %s.\n", created.InvoiceNumber, view.DisplayAmount(created.Amount))
	a.warnDueDate(created)
	return nil
}

func (a *App) editInvoice(ctx context.Context) error {
	inv, err := a.pickInvoice(ctx)
	if err != nil {
		return err
	}

	in := invoice.UpdateInvoiceInput{ID: inv.ID}
	a.printf("Press Enter to keep a value, %q to clear the description.\n", clearMarker)

	if in.InvoiceNumber, err = a.readChange("Invoice number", inv.InvoiceNumber); err != nil {
		return err
	}
	if in.Company, err = a.readChange("Company", inv.Company); err != nil {
		return err
	}
	if in.IssueDate, err = a.readDateChange("Issue date", inv.IssueDate.Format(personnel.DateLayout)); err != nil {
		return err
	}
	if in.DueDate, err = a.readDateChange("Due date", inv.DueDate.Format(personnel.DateLayout)); err != nil {
		return err
	}
	rawAmount, err := a.readChange("Amount", inv.Amount.String())
	if err != nil {
		return err
	}
	if rawAmount != nil {
		amount, err := parseAmount(*rawAmount)
		if err != nil {
			return err
		}
		in.Amount = &amount
	}
	rawStatus, err := a.readChange("Status", string(inv.Status))
	if err != nil {
		return err
	}
	if rawStatus != nil {
		s, err := invoice.ParseStatus(*rawStatus)
		if err != nil {
			return err
		}
		in.Status = &s
	}
	if in.Description, err = a.readChange("Description", orDash(inv.Description)); err != nil {
		return err
	}

	updated, err := a.Invoices.Update(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Updated invoice %s.\n", updated.InvoiceNumber)
	a.warnDueDate(updated)
	return nil
}

func (a *App) warnDueDate(inv *invoice.Invoice) {
	if !inv.DueBeforeIssue() {
		return
	}
	warningColor.Fprintf(a.out, "Warning: due date %s is before issue date %s.\n",
		inv.DueDate.Format(personnel.DateLayout), inv.IssueDate.Format(personnel.DateLayout))
}

func (a *App) deleteInvoice(ctx context.Context) error {
	inv, err := a.pickInvoice(ctx)
	if err != nil {
		return err
	}
	ok, err := a.readConfirm(fmt.Sprintf("Delete invoice %s?", inv.InvoiceNumber))
	if err != nil || !ok {
		return err
	}
	if err := a.Invoices.Delete(ctx, inv.ID); err != nil {
		return err
	}
	a.printf("Deleted invoice %s.\n", inv.InvoiceNumber)
	return nil
}

func (a *App) pickInvoice(ctx context.Context) (*invoice.Invoice, error) {
	if err := a.Invoices.Load(ctx); err != nil {
		return nil, err
	}
	items := a.Invoices.Items()
	if len(items) == 0 {
		return nil, errNotSelected
	}
	a.printInvoices(items)

	raw, err := a.readLine("Invoice # or ID")
	if err != nil {
		return nil, err
	}
	i, ok := pickIndex(raw, len(items), func(i int) string { return items[i].ID })
	if !ok {
		return nil, errNotSelected
	}
	return items[i], nil
}

// readDateChange は必須の日付項目を編集します。空入力は変更なしです。
func (a *App) readDateChange(label, current string) (*time.Time, error) {
	raw, err := a.readChange(label, current)
	if err != nil || raw == nil {
		return nil, err
	}
	t, err := parseDate(label, *raw)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%s is required: %w", label, errInvalidDate)
	}
	return t, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errInvalidAmount
	}
	return d, nil
}
