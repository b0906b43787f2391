package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
)

// TxCollection はトランザクション自体の失敗を分類する際のコレクション名です。
const TxCollection = "transaction"

// maxAttempts は直列化失敗とデッドロックに対する試行回数の上限です。
const maxAttempts = 3

// transactionContextKey はコンテキストにトランザクションを格納するためのキーです。
type transactionContextKey struct{}

var txContextKey = transactionContextKey{}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は pgx を用いたトランザクション制御を提供します。
// 異動の記録と所属会社の更新はこのトランザクションを共有します。
type TransactionManager struct {
	pool txStarter
	log  *logger.Logger
}

// NewTransactionManager は TransactionManager を生成します。pool が nil の場合は nil を返します。
func NewTransactionManager(pool txStarter, log *logger.Logger) *TransactionManager {
	if pool == nil {
		return nil
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionManager{pool: pool, log: log}
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
// 直列化失敗またはデッドロックで中断された場合は fn を最初から実行し直します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = m.attempt(ctx, opts, fn)
		if !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		m.log.Debug().Err(err).Int("attempt", attempt).Msg("transaction aborted, retrying")
	}
	return err
}

func (m *TransactionManager) attempt(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return classify(opts, storeerr.OpBegin, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(contextWithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.log.Warn().Err(rbErr).Msg("rollback failed")
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if !errors.Is(err, pgx.ErrTxClosed) {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.log.Warn().Err(rbErr).Msg("rollback after commit failure failed")
			}
		}
		return classify(opts, storeerr.OpCommit, err)
	}

	committed = true
	return nil
}

// classify はトランザクション制御の失敗をストアのエラーとして分類します。
func classify(opts pgx.TxOptions, op storeerr.Op, err error) error {
	if opts.AccessMode == pgx.ReadOnly {
		return storeerr.Read(TxCollection, op, err)
	}
	return storeerr.Write(TxCollection, op, err)
}

// isRetryable は serialization_failure または deadlock_detected かを返します。
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func contextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext はコンテキスト内にトランザクションが存在すればそれを返し、存在しなければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
