package mysql

import (
	"context"
	"strings"

	"Hive_Community/internal/model"
)

func (s *Store) CreateCommunity(ctx context.Context, c *model.Community) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) FindCommunityByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := s.db.WithContext(ctx).First(&community, id).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

// FindCommunityByName 大小写不敏感查找
func (s *Store) FindCommunityByName(ctx context.Context, name string) (*model.Community, error) {
	var community model.Community
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&community).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (s *Store) UpdateCommunity(ctx context.Context, id uint64, fields map[string]any) error {
	return s.db.WithContext(ctx).Model(&model.Community{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) ListCommunities(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := s.db.WithContext(ctx).Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
