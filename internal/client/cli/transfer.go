package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ogurasousui/engineer-admin/internal/client/view"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

func (a *App) recordTransfer(ctx context.Context) error {
	p, err := a.pickPerson(ctx)
	if err != nil {
		return err
	}

	form := view.OpenTransferForm(p)
	a.printf("%s currently works at %s.\n", form.EngineerName, form.FromCompany)

	if form.ToCompany, err = a.readLine("New company"); err != nil {
		return err
	}
	if form.TransferDate, err = a.readDate("Transfer date"); err != nil {
		return err
	}
	if form.Reason, err = a.readLine("Reason (optional)"); err != nil {
		return err
	}

	res, err := a.Transfers.Submit(ctx, form)
	if err != nil {
		return err
	}
	a.printf("Transferred %s from %s to %s.\n", res.Record.EngineerName, res.Record.FromCompany, res.Record.ToCompany)
	return nil
}

func (a *App) listTransfers(ctx context.Context) error {
	raw, err := a.readLine("Person # or ID (Enter for all)")
	if err != nil {
		return err
	}

	engineerID := ""
	if raw != "" {
		people := a.Personnel.Items()
		i, ok := pickIndex(raw, len(people), func(i int) string { return people[i].ID })
		if ok {
			engineerID = people[i].ID
		} else {
			// 削除済みの人員の履歴も ID で参照できます。
			engineerID = raw
		}
	}

	if err := a.Transfers.Load(ctx, engineerID); err != nil {
		return err
	}
	a.printTransfers(a.Transfers.Items())
	return nil
}

func (a *App) printTransfers(records []*transfer.Record) {
	if len(records) == 0 {
		a.println("No transfers recorded.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tNAME\tFROM\tTO\tREASON")
	for i, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, r.TransferDate.Format(personnel.DateLayout), r.EngineerName, r.FromCompany, r.ToCompany, orDash(r.Reason))
	}
	w.Flush()
}

// deleteTransfer は直前に表示した履歴から記録を選んで削除します。人員の所属会社は戻しません。
func (a *App) deleteTransfer(ctx context.Context) error {
	records := a.Transfers.Items()
	if len(records) == 0 {
		return errNotSelected
	}
	a.printTransfers(records)

	raw, err := a.readLine("Transfer # or ID")
	if err != nil {
		return err
	}
	i, ok := pickIndex(raw, len(records), func(i int) string { return records[i].ID })
	if !ok {
		return errNotSelected
	}
	r := records[i]

	confirmed, err := a.readConfirm(fmt.Sprintf("Delete the %s transfer of %s? The current company is not changed", r.TransferDate.Format(personnel.DateLayout), r.EngineerName))
	if err != nil || !confirmed {
		return err
	}
	if err := a.Transfers.Delete(ctx, r.ID); err != nil {
		return err
	}
	a.println("Deleted transfer record.")
	return nil
}
