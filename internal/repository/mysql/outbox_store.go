package mysql

import (
	"context"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

const outboxMaxRetry = 5

func (s *Store) AppendOutbox(ctx context.Context, ob *model.MemberOutbox) error {
	return s.db.WithContext(ctx).Create(ob).Error
}

func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]model.MemberOutbox, error) {
	var rows []model.MemberOutbox
	err := s.db.WithContext(ctx).
		Where("status = 0 AND retry < ?", outboxMaxRetry).
		Order("id asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *Store) MarkOutboxSent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.MemberOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}

// MarkOutboxRetry 投递失败累加重试次数，超过上限标记为 failed
func (s *Store) MarkOutboxRetry(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.MemberOutbox{}).Where("id = ?", id).
		Updates(map[string]any{
			// mysql 的 SET 从左到右生效，status 表达式里读到的已是加一后的 retry
			"retry":  gorm.Expr("retry + 1"),
			"status": gorm.Expr("IF(retry >= ?, 2, 0)", outboxMaxRetry),
		}).Error
}
