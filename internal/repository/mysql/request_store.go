package mysql

import (
	"context"

	"Hive_Community/internal/model"
)

func (s *Store) CreateJoinRequest(ctx context.Context, r *model.JoinRequest) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) FindJoinRequest(ctx context.Context, communityID, userID uint64) (*model.JoinRequest, error) {
	var r model.JoinRequest
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) FindJoinRequestByID(ctx context.Context, id uint64) (*model.JoinRequest, error) {
	var r model.JoinRequest
	err := s.db.WithContext(ctx).First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListJoinRequests(ctx context.Context, communityID uint64, status model.RequestStatus) ([]model.JoinRequest, error) {
	var list []model.JoinRequest
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND status = ?", communityID, status).
		Order("id asc").
		Find(&list).Error
	return list, err
}

func (s *Store) UpdateJoinRequestStatus(ctx context.Context, id uint64, status model.RequestStatus) error {
	return s.db.WithContext(ctx).Model(&model.JoinRequest{}).Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) DeleteJoinRequest(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.JoinRequest{}, id).Error
}
