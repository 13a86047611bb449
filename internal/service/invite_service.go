package service

import (
	"context"
	"errors"
	"sync"

	"Hive_Community/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// BulkInviteMax 单次批量邀请的目标数上限，超限整批拒绝
const BulkInviteMax = 50

// bulkInviteWorkers 批量邀请的并发度，每个目标只动自己那几行，可以放心并行
const bulkInviteWorkers = 8

type InviteService struct {
	st    Store
	cache RoleCache
}

func NewInviteService(st Store, cache RoleCache) *InviteService {
	return &InviteService{st: st, cache: cache}
}

// BulkInviteResult 批量邀请的分桶结果，一次性返回
type BulkInviteResult struct {
	Invited        []string `json:"invited"`
	AlreadyMembers []string `json:"already_members"`
	AlreadyInvited []string `json:"already_invited"`
	NotFound       []string `json:"not_found"`
	Failed         []string `json:"failed,omitempty"`
	InvitedCount   int      `json:"invited_count"`
}

func (s *InviteService) actorRole(ctx context.Context, communityID, actorID uint64) (model.Role, error) {
	actor, err := s.st.FindMembership(ctx, communityID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotAuthorized
		}
		return 0, err
	}
	return actor.Role, nil
}

// inviteOne 单个目标的解析和落库，失败以业务错误区分分桶
func (s *InviteService) inviteOne(ctx context.Context, actorID, communityID uint64, username string) (*model.Invitation, error) {
	invitee, err := s.st.FindUserByUsername(ctx, model.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.st.FindMembership(ctx, communityID, invitee.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	existing, err := s.st.FindInvitation(ctx, communityID, invitee.ID)
	switch {
	case err == nil:
		if existing.Status == model.StatusPending {
			return nil, ErrAlreadyInvited
		}
		// 终态邀请可以重发：拉回 pending，记录新的邀请人
		if err := s.st.ReissueInvitation(ctx, existing.ID, actorID); err != nil {
			return nil, err
		}
		existing.Status = model.StatusPending
		existing.InviterID = actorID
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		inv := &model.Invitation{
			CommunityID: communityID,
			InviterID:   actorID,
			InviteeID:   invitee.ID,
			Status:      model.StatusPending,
		}
		if err := s.st.CreateInvitation(ctx, inv); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAlreadyInvited
			}
			return nil, err
		}
		return inv, nil
	default:
		return nil, err
	}
}

// Invite 管理员/版主邀请单个用户
func (s *InviteService) Invite(ctx context.Context, actorID, communityID uint64, username string) (*model.Invitation, error) {
	if _, err := s.st.FindCommunityByID(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	actorRole, err := s.actorRole(ctx, communityID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanInvite(actorRole) {
		return nil, ErrNotAuthorized
	}
	return s.inviteOne(ctx, actorID, communityID, username)
}

// BulkInvite 批量邀请。目标之间互不影响，有限并发跑，单个失败不中断整批。
func (s *InviteService) BulkInvite(ctx context.Context, actorID, communityID uint64, usernames []string) (*BulkInviteResult, error) {
	if len(usernames) > BulkInviteMax {
		return nil, ErrTooManyTargets
	}
	if _, err := s.st.FindCommunityByID(ctx, communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	actorRole, err := s.actorRole(ctx, communityID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanInvite(actorRole) {
		return nil, ErrNotAuthorized
	}

	// 入参去重，重复用户名只处理一次
	seen := make(map[string]struct{}, len(usernames))
	targets := make([]string, 0, len(usernames))
	for _, raw := range usernames {
		name := model.NormalizeUsername(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		targets = append(targets, name)
	}

	result := &BulkInviteResult{
		Invited:        []string{},
		AlreadyMembers: []string{},
		AlreadyInvited: []string{},
		NotFound:       []string{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkInviteWorkers)
	for _, name := range targets {
		g.Go(func() error {
			_, err := s.inviteOne(gctx, actorID, communityID, name)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Invited = append(result.Invited, name)
			case errors.Is(err, ErrUserNotFound):
				result.NotFound = append(result.NotFound, name)
			case errors.Is(err, ErrAlreadyMember):
				result.AlreadyMembers = append(result.AlreadyMembers, name)
			case errors.Is(err, ErrAlreadyInvited):
				result.AlreadyInvited = append(result.AlreadyInvited, name)
			default:
				// 存储层意外失败只记录该目标，不中断整批
				result.Failed = append(result.Failed, name)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.InvitedCount = len(result.Invited)
	return result, nil
}

// HandleInvitation 只有被邀请人能接受或拒绝。accept 时状态流转和建成员同一事务。
func (s *InviteService) HandleInvitation(ctx context.Context, actorID, invitationID uint64, accept bool) error {
	invitation, err := s.st.FindInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if invitation.InviteeID != actorID {
		return ErrNotAuthorized
	}
	if invitation.Status != model.StatusPending {
		return ErrValidation
	}

	if !accept {
		return s.st.UpdateInvitationStatus(ctx, invitation.ID, model.StatusRejected)
	}

	err = s.st.InTx(ctx, func(tx Store) error {
		if err := tx.UpdateInvitationStatus(ctx, invitation.ID, model.StatusAccepted); err != nil {
			return err
		}
		if err := tx.CreateMembership(ctx, &model.Membership{
			CommunityID: invitation.CommunityID,
			UserID:      invitation.InviteeID,
			Role:        model.RoleUser,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return appendOutbox(ctx, tx, "invite_accepted", invitation.CommunityID, invitation.InviteeID, model.RoleUser)
	})
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, invitation.CommunityID, invitation.InviteeID)
	}
	return nil
}

// ListMine 被邀请人查看自己的 pending 邀请
func (s *InviteService) ListMine(ctx context.Context, actorID uint64) ([]model.Invitation, error) {
	return s.st.ListInvitationsForUser(ctx, actorID, model.StatusPending)
}
