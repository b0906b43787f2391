package transfer

import "context"

// Collection はストア上のコレクション名です。
const Collection = "transfer_history"

// Repository は異動履歴の永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, r *Record) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Record, error)
	// ListByEngineer は異動日の新しい順に返します。
	ListByEngineer(ctx context.Context, engineerID string) ([]*Record, error)
}
