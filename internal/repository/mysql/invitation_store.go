package mysql

import (
	"context"

	"Hive_Community/internal/model"
)

func (s *Store) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *Store) FindInvitation(ctx context.Context, communityID, inviteeID uint64) (*model.Invitation, error) {
	var inv model.Invitation
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND invitee_id = ?", communityID, inviteeID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) FindInvitationByID(ctx context.Context, id uint64) (*model.Invitation, error) {
	var inv model.Invitation
	err := s.db.WithContext(ctx).First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) ListInvitationsForUser(ctx context.Context, inviteeID uint64, status model.RequestStatus) ([]model.Invitation, error) {
	var list []model.Invitation
	err := s.db.WithContext(ctx).
		Where("invitee_id = ? AND status = ?", inviteeID, status).
		Order("id desc").
		Find(&list).Error
	return list, err
}

func (s *Store) UpdateInvitationStatus(ctx context.Context, id uint64, status model.RequestStatus) error {
	return s.db.WithContext(ctx).Model(&model.Invitation{}).Where("id = ?", id).
		Update("status", status).Error
}

// ReissueInvitation 终态邀请重发：拉回 pending 并换邀请人
func (s *Store) ReissueInvitation(ctx context.Context, id, inviterID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Invitation{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     model.StatusPending,
			"inviter_id": inviterID,
		}).Error
}
