package personnel

import "context"

// Collection はストア上のコレクション名です。
const Collection = "personnel"

// Repository は人員レコード永続化の抽象です。
// 存在しない ID に対する操作は storeerr.ErrNotFound を返します。
type Repository interface {
	Create(ctx context.Context, p *Person) (*Person, error)
	Update(ctx context.Context, p *Person) (*Person, error)
	UpdateCompany(ctx context.Context, id, company string) (*Person, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
	SummarizeByCompany(ctx context.Context) ([]CompanySummary, error)
}
