package sqldb

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// Conn returns the transaction carried by ctx, or db when there is none,
// bound to ctx either way.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := GetTransaction(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
