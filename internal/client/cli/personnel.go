package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
)

func (a *App) listPersonnel(ctx context.Context) error {
	if err := a.Personnel.Load(ctx); err != nil {
		return err
	}
	a.printPersonnel(a.Personnel.Items())
	return nil
}

func (a *App) printPersonnel(people []*personnel.Person) {
	if len(people) == 0 {
		a.println("No personnel yet.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tTYPE\tCOMPANY\tPOSITION\tSTART\tDRIVE FOLDER")
	for i, p := range people {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, p.Name, p.Type, p.Company, p.Position, p.StartDate.Format(personnel.DateLayout), orDash(p.DriveFolderName))
	}
	w.Flush()
}

func (a *App) addPerson(ctx context.Context) error {
	var in personnel.CreatePersonInput
	var err error

	if in.Name, err = a.readLine("Name"); err != nil {
		return err
	}
	rawType, err := a.readLine("Type (engineer/intern) [engineer]")
	if err != nil {
		return err
	}
	if rawType != "" {
		if in.Type, err = personnel.ParseType(rawType); err != nil {
			return err
		}
	}
	if in.DateOfBirth, err = a.readDate("Date of birth"); err != nil {
		return err
	}
	if in.Company, err = a.readLine("Company"); err != nil {
		return err
	}
	if in.Position, err = a.readLine("Position"); err != nil {
		return err
	}
	if in.StartDate, err = a.readDate("Start date"); err != nil {
		return err
	}
	if in.Email, err = a.readLine("Email (optional)"); err != nil {
		return err
	}
	if in.Phone, err = a.readLine("Phone (optional)"); err != nil {
		return err
	}

	created, err := a.Personnel.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Added %s.\n", created.Name)
	a.printFolder(created)
	return nil
}

func (a *App) editPerson(ctx context.Context) error {
	p, err := a.pickPerson(ctx)
	if err != nil {
		return err
	}

	in := personnel.UpdatePersonInput{ID: p.ID}
	a.printf("Press Enter to keep a value, %q to clear an optional one.\n", clearMarker)

	if in.Name, err = a.readChange("Name", p.Name); err != nil {
		return err
	}
	rawType, err := a.readChange("Type", string(p.Type))
	if err != nil {
		return err
	}
	if rawType != nil {
		t, err := personnel.ParseType(*rawType)
		if err != nil {
			return err
		}
		in.Type = &t
	}
	rawDOB, err := a.readChange("Date of birth", personnel.FormatDate(p.DateOfBirth))
	if err != nil {
		return err
	}
	if rawDOB != nil {
		if in.DateOfBirth, err = parseDate("Date of birth", *rawDOB); err != nil {
			return err
		}
		in.DateOfBirthSet = true
	}
	if in.Company, err = a.readChange("Company", p.Company); err != nil {
		return err
	}
	if in.Position, err = a.readChange("Position", p.Position); err != nil {
		return err
	}
	rawStart, err := a.readChange("Start date", p.StartDate.Format(personnel.DateLayout))
	if err != nil {
		return err
	}
	if rawStart != nil {
		if in.StartDate, err = parseDate("Start date", *rawStart); err != nil {
			return err
		}
		if in.StartDate == nil {
			return personnel.ErrInvalidStartDate
		}
	}
	if in.Email, err = a.readChange("Email", orDash(p.Email)); err != nil {
		return err
	}
	if in.Phone, err = a.readChange("Phone", orDash(p.Phone)); err != nil {
		return err
	}

	updated, err := a.Personnel.Update(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Updated %s.\n", updated.Name)
	return nil
}

func (a *App) deletePerson(ctx context.Context) error {
	p, err := a.pickPerson(ctx)
	if err != nil {
		return err
	}
	ok, err := a.readConfirm(fmt.Sprintf("Delete %s? Transfer history is kept", p.Name))
	if err != nil || !ok {
		return err
	}
	if err := a.Personnel.Delete(ctx, p.ID); err != nil {
		return err
	}
	a.printf("Deleted %s.\n", p.Name)
	return nil
}

func (a *App) companySummary(ctx context.Context) error {
	summaries, err := a.Personnel.Summaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		a.println("No personnel yet.")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tENGINEERS\tINTERNS\tTOTAL")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Company, s.Engineers, s.Interns, s.Total())
	}
	w.Flush()
	return nil
}

func (a *App) driveFolder(ctx context.Context) error {
	p, err := a.pickPerson(ctx)
	if err != nil {
		return err
	}
	a.printFolder(p)
	return nil
}

func (a *App) printFolder(p *personnel.Person) {
	if p.DriveFolderName == nil {
		a.printf("No date of birth recorded, so there is no folder name. Shared drive: %s\n", a.Personnel.SharedDriveLink())
		return
	}
	a.printf("Drive folder: %s\n", *p.DriveFolderName)
	a.printf("Search: %s\n", a.Personnel.FolderLink(p))
	a.println(a.Personnel.FolderInstructions(p))
}

// pickPerson は一覧を表示し、番号か ID で人員を選ばせます。
func (a *App) pickPerson(ctx context.Context) (*personnel.Person, error) {
	if err := a.Personnel.Load(ctx); err != nil {
		return nil, err
	}
	people := a.Personnel.Items()
	if len(people) == 0 {
		return nil, errNotSelected
	}
	a.printPersonnel(people)

	raw, err := a.readLine("Person # or ID")
	if err != nil {
		return nil, err
	}
	i, ok := pickIndex(raw, len(people), func(i int) string { return people[i].ID })
	if !ok {
		return nil, errNotSelected
	}
	return people[i], nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return clearMarker
	}
	return *s
}
