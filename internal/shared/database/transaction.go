package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var errNilTxFunc = errors.New("database: nil transaction function")

// WithTransaction runs fn in one transaction bound to ctx and commits when fn returns nil.
// fn must use only the tx it receives: SQLite test databases hold a single connection,
// so touching the root handle inside fn deadlocks.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return errNilTxFunc
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx).Transaction(fn)
}
