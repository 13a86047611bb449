package mysql

import (
	"context"

	"Hive_Community/internal/model"

	"gorm.io/gorm/clause"
)

func (s *Store) CreateMembership(ctx context.Context, m *model.Membership) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) FindMembership(ctx context.Context, communityID, userID uint64) (*model.Membership, error) {
	var m model.Membership
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) FindMembershipByID(ctx context.Context, id uint64) (*model.Membership, error) {
	var m model.Membership
	err := s.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, communityID uint64) ([]model.Membership, error) {
	var list []model.Membership
	err := s.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("role desc, id asc").
		Find(&list).Error
	return list, err
}

func (s *Store) UpdateMembershipRole(ctx context.Context, id uint64, role model.Role) error {
	return s.db.WithContext(ctx).Model(&model.Membership{}).Where("id = ?", id).
		Update("role", role).Error
}

func (s *Store) DeleteMembership(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Membership{}, id).Error
}

// CountAdmins 带 select for update 锁住管理员行，事务内的先数后删不被并发打穿
func (s *Store) CountAdmins(ctx context.Context, communityID uint64) (int64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Membership{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("community_id = ? AND role = ?", communityID, model.RoleAdmin).
		Pluck("id", &ids).Error
	return int64(len(ids)), err
}
