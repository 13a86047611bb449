package service

import (
	"context"
	"errors"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

type MemberService struct {
	st    Store
	cache RoleCache
}

func NewMemberService(st Store, cache RoleCache) *MemberService {
	return &MemberService{st: st, cache: cache}
}

func (s *MemberService) invalidateRole(ctx context.Context, communityID, userID uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, communityID, userID)
	}
}

// actorRole 读取操作者在社区内的成员角色，非成员视为无权限
func (s *MemberService) actorRole(ctx context.Context, communityID, actorID uint64) (model.Role, error) {
	actor, err := s.st.FindMembership(ctx, communityID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotAuthorized
		}
		return 0, err
	}
	return actor.Role, nil
}

// UpdateRole 管理员调整成员角色。把最后一名管理员降级会破坏社区约束，直接拒绝。
func (s *MemberService) UpdateRole(ctx context.Context, actorID, communityID, membershipID uint64, newRole model.Role) error {
	if !newRole.Valid() {
		return ErrValidation
	}

	actorRole, err := s.actorRole(ctx, communityID, actorID)
	if err != nil {
		return err
	}
	if !CanManageRoles(actorRole) {
		return ErrNotAuthorized
	}

	var targetUserID uint64
	err = s.st.InTx(ctx, func(tx Store) error {
		target, err := tx.FindMembershipByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.CommunityID != communityID {
			return ErrNotFound
		}
		targetUserID = target.UserID
		if target.Role == newRole {
			return nil
		}
		if target.Role == model.RoleAdmin && newRole != model.RoleAdmin {
			count, err := tx.CountAdmins(ctx, communityID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}
		if err := tx.UpdateMembershipRole(ctx, target.ID, newRole); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, "role_changed", communityID, target.UserID, newRole)
	})
	if err != nil {
		return err
	}
	s.invalidateRole(ctx, communityID, targetUserID)
	return nil
}

// Remove 移除成员。版主只能移除普通成员，移除最后一名管理员被拒绝。
func (s *MemberService) Remove(ctx context.Context, actorID, communityID, membershipID uint64) error {
	actorRole, err := s.actorRole(ctx, communityID, actorID)
	if err != nil {
		return err
	}
	if !actorRole.AtLeast(model.RoleModerator) {
		return ErrNotAuthorized
	}

	var removedUserID uint64
	err = s.st.InTx(ctx, func(tx Store) error {
		target, err := tx.FindMembershipByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.CommunityID != communityID {
			return ErrNotFound
		}
		if !CanRemoveMember(actorRole, target.Role) {
			return ErrInsufficientRole
		}
		if target.Role == model.RoleAdmin {
			count, err := tx.CountAdmins(ctx, communityID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}
		if err := tx.DeleteMembership(ctx, target.ID); err != nil {
			return err
		}
		removedUserID = target.UserID
		return appendOutbox(ctx, tx, "removed", communityID, target.UserID, target.Role)
	})
	if err != nil {
		return err
	}
	s.invalidateRole(ctx, communityID, removedUserID)
	return nil
}

// HandleJoinRequest 处理入社申请。accept 时状态流转和建成员同一事务，要么都成要么都不成。
func (s *MemberService) HandleJoinRequest(ctx context.Context, actorID, requestID uint64, accept bool) error {
	request, err := s.st.FindJoinRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if request.Status != model.StatusPending {
		return ErrValidation
	}

	actorRole, err := s.actorRole(ctx, request.CommunityID, actorID)
	if err != nil {
		return err
	}
	if !CanHandleRequests(actorRole) {
		return ErrNotAuthorized
	}

	if !accept {
		return s.st.UpdateJoinRequestStatus(ctx, request.ID, model.StatusRejected)
	}

	err = s.st.InTx(ctx, func(tx Store) error {
		if err := tx.UpdateJoinRequestStatus(ctx, request.ID, model.StatusAccepted); err != nil {
			return err
		}
		if err := tx.CreateMembership(ctx, &model.Membership{
			CommunityID: request.CommunityID,
			UserID:      request.UserID,
			Role:        model.RoleUser,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return appendOutbox(ctx, tx, "joined", request.CommunityID, request.UserID, model.RoleUser)
	})
	if err != nil {
		return err
	}
	s.invalidateRole(ctx, request.CommunityID, request.UserID)
	return nil
}

func (s *MemberService) ListMembers(ctx context.Context, actorID, communityID uint64) ([]model.Membership, error) {
	if _, err := s.actorRole(ctx, communityID, actorID); err != nil {
		return nil, err
	}
	return s.st.ListMembers(ctx, communityID)
}

// ListPendingRequests 管理员/版主查看待处理申请
func (s *MemberService) ListPendingRequests(ctx context.Context, actorID, communityID uint64) ([]model.JoinRequest, error) {
	actorRole, err := s.actorRole(ctx, communityID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanHandleRequests(actorRole) {
		return nil, ErrNotAuthorized
	}
	return s.st.ListJoinRequests(ctx, communityID, model.StatusPending)
}
