package personnel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

type fakePersonRepo struct {
	people   map[string]*Person
	sequence int
	base     time.Time
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{
		people: make(map[string]*Person),
		base:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakePersonRepo) tick() time.Time {
	r.sequence++
	return r.base.Add(time.Duration(r.sequence) * time.Second)
}

func (r *fakePersonRepo) Create(_ context.Context, p *Person) (*Person, error) {
	clone := clonePerson(p)
	now := r.tick()
	clone.ID = fmt.Sprintf("person-%d", r.sequence)
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.people[clone.ID] = clone
	return clonePerson(clone), nil
}

func (r *fakePersonRepo) Update(_ context.Context, p *Person) (*Person, error) {
	existing, ok := r.people[p.ID]
	if !ok {
		return nil, storeerr.Write(Collection, storeerr.OpUpdate, storeerr.ErrNotFound)
	}
	clone := clonePerson(p)
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = r.tick()
	r.people[p.ID] = clone
	return clonePerson(clone), nil
}

func (r *fakePersonRepo) UpdateCompany(_ context.Context, id, company string) (*Person, error) {
	existing, ok := r.people[id]
	if !ok {
		return nil, storeerr.Write(Collection, storeerr.OpUpdate, storeerr.ErrNotFound)
	}
	existing.Company = company
	existing.UpdatedAt = r.tick()
	return clonePerson(existing), nil
}

func (r *fakePersonRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.people[id]; !ok {
		return storeerr.Write(Collection, storeerr.OpDelete, storeerr.ErrNotFound)
	}
	delete(r.people, id)
	return nil
}

func (r *fakePersonRepo) FindByID(_ context.Context, id string) (*Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, storeerr.Read(Collection, storeerr.OpGet, storeerr.ErrNotFound)
	}
	return clonePerson(p), nil
}

func (r *fakePersonRepo) List(_ context.Context) ([]*Person, error) {
	out := make([]*Person, 0, len(r.people))
	for _, p := range r.people {
		out = append(out, clonePerson(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePersonRepo) SummarizeByCompany(_ context.Context) ([]CompanySummary, error) {
	byCompany := map[string]*CompanySummary{}
	for _, p := range r.people {
		s, ok := byCompany[p.Company]
		if !ok {
			s = &CompanySummary{Company: p.Company}
			byCompany[p.Company] = s
		}
		if p.Type == TypeIntern {
			s.Interns++
		} else {
			s.Engineers++
		}
	}
	out := make([]CompanySummary, 0, len(byCompany))
	for _, s := range byCompany {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}

func clonePerson(p *Person) *Person {
	if p == nil {
		return nil
	}
	copy := *p
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		copy.DateOfBirth = &dob
	}
	if p.Email != nil {
		email := *p.Email
		copy.Email = &email
	}
	if p.Phone != nil {
		phone := *p.Phone
		copy.Phone = &phone
	}
	if p.DriveFolderName != nil {
		folder := *p.DriveFolderName
		copy.DriveFolderName = &folder
	}
	return &copy
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedPerson(t *testing.T, svc *Service, name, company string) *Person {
	t.Helper()

	p, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name:      name,
		Company:   company,
		Position:  "Developer",
		StartDate: date(2024, 4, 1),
	})
	if err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}
	return p
}

func TestService_CreatePerson_Success(t *testing.T) {
	t.Parallel()

	repo := newFakePersonRepo()
	svc := NewService(repo, nil)

	dob := time.Date(1995, 3, 2, 15, 30, 0, 0, time.FixedZone("JST", 9*60*60))
	created, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name:        "  Nguyen Van A ",
		Type:        TypeIntern,
		DateOfBirth: &dob,
		Company:     " Company A ",
		Position:    "Developer",
		StartDate:   date(2024, 4, 1),
		Email:       "A@Example.com",
		Phone:       " ",
	})
	if err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected store assigned id")
	}
	if created.Name != "Nguyen Van A" || created.Company != "Company A" {
		t.Fatalf("expected trimmed fields, got %q %q", created.Name, created.Company)
	}
	if created.Type != TypeIntern {
		t.Fatalf("expected intern, got %s", created.Type)
	}
	if created.DriveFolderName == nil || *created.DriveFolderName != "Nguyen_Van_A_19950302" {
		t.Fatalf("unexpected drive folder name: %+v", created.DriveFolderName)
	}
	if created.Email == nil || *created.Email != "A@Example.com" {
		t.Fatalf("expected email as typed, got %+v", created.Email)
	}
	if created.Phone != nil {
		t.Fatalf("expected blank phone to be absent, got %q", *created.Phone)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected equal timestamps on create")
	}
}

func TestService_CreatePerson_DefaultsAndValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)

	p := seedPerson(t, svc, "Tran B", "Company A")
	if p.Type != TypeEngineer {
		t.Fatalf("expected default type engineer, got %s", p.Type)
	}
	if p.DriveFolderName != nil {
		t.Fatalf("expected no folder name without date of birth")
	}

	cases := []struct {
		name string
		in   CreatePersonInput
		want error
	}{
		{"missing name", CreatePersonInput{Company: "A", Position: "P", StartDate: date(2024, 1, 1)}, ErrInvalidName},
		{"bad type", CreatePersonInput{Name: "N", Type: "manager", Company: "A", Position: "P", StartDate: date(2024, 1, 1)}, ErrInvalidType},
		{"missing company", CreatePersonInput{Name: "N", Position: "P", StartDate: date(2024, 1, 1)}, ErrInvalidCompany},
		{"missing position", CreatePersonInput{Name: "N", Company: "A", StartDate: date(2024, 1, 1)}, ErrInvalidPosition},
		{"missing start", CreatePersonInput{Name: "N", Company: "A", Position: "P"}, ErrInvalidStartDate},
		{"bad email", CreatePersonInput{Name: "N", Company: "A", Position: "P", StartDate: date(2024, 1, 1), Email: "nope"}, ErrInvalidEmail},
		{"email with display name", CreatePersonInput{Name: "N", Company: "A", Position: "P", StartDate: date(2024, 1, 1), Email: "Bob <bob@example.com>"}, ErrInvalidEmail},
	}

	for _, tc := range cases {
		if _, err := svc.CreatePerson(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestService_CreateThenList_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)

	created, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name:        "Le C",
		DateOfBirth: date(1990, 1, 1),
		Company:     "Company B",
		Position:    "Tester",
		StartDate:   date(2023, 10, 1),
		Email:       "  Le.C@Example.COM ",
		Phone:       "090-0000-0000",
	})
	if err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}

	list, err := svc.ListPersonnel(context.Background())
	if err != nil {
		t.Fatalf("ListPersonnel returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 person, got %d", len(list))
	}

	got := list[0]
	if got.ID != created.ID || got.Name != "Le C" || got.Company != "Company B" || got.Position != "Tester" {
		t.Fatalf("listed record differs from submitted: %+v", got)
	}
	if FormatDate(got.DateOfBirth) != "1990-01-01" || FormatDate(&got.StartDate) != "2023-10-01" {
		t.Fatalf("unexpected dates: %s %s", FormatDate(got.DateOfBirth), FormatDate(&got.StartDate))
	}
	if got.Phone == nil || *got.Phone != "090-0000-0000" {
		t.Fatalf("unexpected phone: %+v", got.Phone)
	}
	if got.Email == nil || *got.Email != "Le.C@Example.COM" {
		t.Fatalf("email should be stored as typed, got %+v", got.Email)
	}
}

func TestService_ListPersonnel_NewestFirst(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	first := seedPerson(t, svc, "First", "A")
	second := seedPerson(t, svc, "Second", "A")
	third := seedPerson(t, svc, "Third", "A")

	list, err := svc.ListPersonnel(context.Background())
	if err != nil {
		t.Fatalf("ListPersonnel returned error: %v", err)
	}

	want := []string{third.ID, second.ID, first.ID}
	for i, p := range list {
		if p.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], p.ID)
		}
	}
}

func TestService_UpdatePerson_PartialMerge(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	created, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name:        "Nguyen Van A",
		DateOfBirth: date(1995, 3, 2),
		Company:     "Company A",
		Position:    "Developer",
		StartDate:   date(2024, 4, 1),
		Email:       "a@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}

	position := "Lead"
	updated, err := svc.UpdatePerson(context.Background(), UpdatePersonInput{ID: created.ID, Position: &position})
	if err != nil {
		t.Fatalf("UpdatePerson returned error: %v", err)
	}

	if updated.Position != "Lead" {
		t.Fatalf("expected position to change, got %s", updated.Position)
	}
	if updated.Name != created.Name || updated.Company != created.Company || *updated.Email != *created.Email {
		t.Fatalf("unspecified fields changed: %+v", updated)
	}
	if updated.DriveFolderName == nil || *updated.DriveFolderName != "Nguyen_Van_A_19950302" {
		t.Fatalf("folder name should be kept, got %+v", updated.DriveFolderName)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updated_at to be refreshed")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at must not change")
	}
}

func TestService_UpdatePerson_RecomputesFolderName(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	created, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name:        "Nguyen Van A",
		DateOfBirth: date(1995, 3, 2),
		Company:     "Company A",
		Position:    "Developer",
		StartDate:   date(2024, 4, 1),
	})
	if err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}

	name := "Nguyen Van B"
	renamed, err := svc.UpdatePerson(context.Background(), UpdatePersonInput{ID: created.ID, Name: &name})
	if err != nil {
		t.Fatalf("UpdatePerson returned error: %v", err)
	}
	if renamed.DriveFolderName == nil || *renamed.DriveFolderName != "Nguyen_Van_B_19950302" {
		t.Fatalf("expected recomputed folder name, got %+v", renamed.DriveFolderName)
	}

	cleared, err := svc.UpdatePerson(context.Background(), UpdatePersonInput{ID: created.ID, DateOfBirthSet: true})
	if err != nil {
		t.Fatalf("UpdatePerson returned error: %v", err)
	}
	if cleared.DateOfBirth != nil || cleared.DriveFolderName != nil {
		t.Fatalf("expected date of birth and folder name to be cleared, got %+v", cleared)
	}
}

func TestService_UpdatePerson_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	name := "X"
	_, err := svc.UpdatePerson(context.Background(), UpdatePersonInput{ID: "missing", Name: &name})
	if !errors.Is(err, storeerr.ErrNotFound) || !storeerr.IsWrite(err) {
		t.Fatalf("expected write ErrNotFound, got %v", err)
	}

	if _, err := svc.UpdatePerson(context.Background(), UpdatePersonInput{ID: " "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_DeletePerson_TwiceLeavesOthersIntact(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	keep := seedPerson(t, svc, "Keep", "A")
	drop := seedPerson(t, svc, "Drop", "A")

	if err := svc.DeletePerson(context.Background(), DeletePersonInput{ID: drop.ID}); err != nil {
		t.Fatalf("DeletePerson returned error: %v", err)
	}
	err := svc.DeletePerson(context.Background(), DeletePersonInput{ID: drop.ID})
	if !errors.Is(err, storeerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	list, err := svc.ListPersonnel(context.Background())
	if err != nil {
		t.Fatalf("ListPersonnel returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID || list[0].Name != "Keep" {
		t.Fatalf("unrelated record affected: %+v", list)
	}
}

func TestService_SummarizeCompanies(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakePersonRepo(), nil)
	seedPerson(t, svc, "E1", "B Corp")
	seedPerson(t, svc, "E2", "A Corp")
	if _, err := svc.CreatePerson(context.Background(), CreatePersonInput{
		Name: "I1", Type: TypeIntern, Company: "A Corp", Position: "Intern", StartDate: date(2024, 1, 1),
	}); err != nil {
		t.Fatalf("CreatePerson returned error: %v", err)
	}

	summary, err := svc.SummarizeCompanies(context.Background())
	if err != nil {
		t.Fatalf("SummarizeCompanies returned error: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(summary))
	}
	if summary[0].Company != "A Corp" || summary[0].Engineers != 1 || summary[0].Interns != 1 || summary[0].Total() != 2 {
		t.Fatalf("unexpected summary for A Corp: %+v", summary[0])
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	if got, err := ParseType(" Intern "); err != nil || got != TypeIntern {
		t.Fatalf("unexpected %q %v", got, err)
	}
	if _, err := ParseType("contractor"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("1990-05-15")
	if err != nil || got == nil || FormatDate(got) != "1990-05-15" {
		t.Fatalf("unexpected %v %v", got, err)
	}
	if got, err := ParseDate("  "); err != nil || got != nil {
		t.Fatalf("expected nil date, got %v %v", got, err)
	}
	if _, err := ParseDate("15/05/1990"); err == nil {
		t.Fatalf("expected parse error")
	}
}
