package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs a function inside one store transaction. Services use it to
// collapse scope-check, mutation and audit write into a single atomic unit,
// so a concurrent reassignment of an ownership edge cannot slip between the
// check and the act, and a committed mutation is never left without its
// audit record.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager builds a GORM-backed transaction manager.
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction handle bound to ctx, or the fallback
// connection when the call runs outside a TxManager.Do block.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
