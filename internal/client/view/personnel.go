package view

import (
	"context"
	"sync"

	"github.com/ogurasousui/engineer-admin/internal/core/drive"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
)

// PersonnelView は人員一覧画面です。
type PersonnelView struct {
	guard

	svc    personnel.UseCase
	linker *drive.Linker

	mu    sync.RWMutex
	items []*personnel.Person
}

// NewPersonnelView は PersonnelView を生成します。
func NewPersonnelView(svc personnel.UseCase, linker *drive.Linker) *PersonnelView {
	return &PersonnelView{svc: svc, linker: linker}
}

// Load は一覧を取得し直します。失敗した場合は以前の一覧を保持します。
func (v *PersonnelView) Load(ctx context.Context) error {
	items, err := v.svc.ListPersonnel(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items は保持している一覧を返します。
func (v *PersonnelView) Items() []*personnel.Person {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*personnel.Person(nil), v.items...)
}

// Find は一覧から id の人員を探します。
func (v *PersonnelView) Find(id string) (*personnel.Person, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.items {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Create は人員を作成し、一覧を取得し直します。
func (v *PersonnelView) Create(ctx context.Context, in personnel.CreatePersonInput) (*personnel.Person, error) {
	var created *personnel.Person
	err := v.run(func() error {
		var err error
		if created, err = v.svc.CreatePerson(ctx, in); err != nil {
			return err
		}
		return v.Load(ctx)
	})
	return created, err
}

// Update は人員を更新し、一覧を取得し直します。
func (v *PersonnelView) Update(ctx context.Context, in personnel.UpdatePersonInput) (*personnel.Person, error) {
	var updated *personnel.Person
	err := v.run(func() error {
		var err error
		if updated, err = v.svc.UpdatePerson(ctx, in); err != nil {
			return err
		}
		return v.Load(ctx)
	})
	return updated, err
}

// Delete は人員を削除し、一覧を取得し直します。異動履歴は残ります。
func (v *PersonnelView) Delete(ctx context.Context, id string) error {
	return v.run(func() error {
		if err := v.svc.DeletePerson(ctx, personnel.DeletePersonInput{ID: id}); err != nil {
			return err
		}
		return v.Load(ctx)
	})
}

// Summaries は会社ごとの人数を取得します。一覧は変更しません。
func (v *PersonnelView) Summaries(ctx context.Context) ([]personnel.CompanySummary, error) {
	return v.svc.SummarizeCompanies(ctx)
}

// FolderLink は人員のフォルダを共有ドライブで検索するリンクを返します。
func (v *PersonnelView) FolderLink(p *personnel.Person) string {
	return v.linker.FolderSearchLink(folderName(p))
}

// FolderInstructions は人員のフォルダを作成する案内を返します。
func (v *PersonnelView) FolderInstructions(p *personnel.Person) string {
	return v.linker.FolderInstructions(folderName(p))
}

// SharedDriveLink は共有フォルダのリンクを返します。
func (v *PersonnelView) SharedDriveLink() string {
	return v.linker.SharedDriveLink()
}

func folderName(p *personnel.Person) string {
	if p == nil || p.DriveFolderName == nil {
		return ""
	}
	return *p.DriveFolderName
}
