package mysql

import (
	"context"

	"Hive_Community/internal/service"

	"gorm.io/gorm"
)

// Store 聚合仓储，实现 service.Store
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx 回调里拿到的 Store 绑定同一事务
func (s *Store) InTx(ctx context.Context, fn func(service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
