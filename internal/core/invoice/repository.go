package invoice

import "context"

// Collection はストア上のコレクション名です。
const Collection = "invoices"

// Repository は請求書永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) (*Invoice, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
}
