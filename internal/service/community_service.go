package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

type CommunityService struct {
	st    Store
	cache RoleCache
}

func NewCommunityService(st Store, cache RoleCache) *CommunityService {
	return &CommunityService{st: st, cache: cache}
}

// JoinOutcome 标识 Join 走了哪条路径，前端据此渲染“已加入/已申请”
type JoinOutcome string

const (
	JoinOutcomeJoined    JoinOutcome = "joined"
	JoinOutcomeRequested JoinOutcome = "requested"
)

// appendOutbox 与成员变更同事务写事件行
func appendOutbox(ctx context.Context, tx Store, eventType string, communityID, userID uint64, role model.Role) error {
	payload, err := json.Marshal(map[string]any{
		"community_id": communityID,
		"user_id":      userID,
		"role":         role.String(),
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, &model.MemberOutbox{
		EventType:   eventType,
		CommunityID: communityID,
		UserID:      userID,
		Payload:     string(payload),
	})
}

func (s *CommunityService) invalidateRole(ctx context.Context, communityID, userID uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, communityID, userID)
	}
}

// Create 建社区并让创建者成为管理员，两步同一事务
func (s *CommunityService) Create(ctx context.Context, actorID uint64, name, desc string, vis model.Visibility, imageURL string) (*model.Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	if vis == "" {
		vis = model.VisibilityPublic
	}
	if !vis.Valid() {
		return nil, ErrValidation
	}

	// 名字大小写不敏感唯一
	if _, err := s.st.FindCommunityByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		Visibility:  vis,
		ImageURL:    imageURL,
		CreatorID:   actorID,
	}

	err := s.st.InTx(ctx, func(tx Store) error {
		if err := tx.CreateCommunity(ctx, community); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrNameTaken
			}
			return err
		}
		if err := tx.CreateMembership(ctx, &model.Membership{
			CommunityID: community.ID,
			UserID:      actorID,
			Role:        model.RoleAdmin,
		}); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, "joined", community.ID, actorID, model.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// Update 管理员更新社区资料，name 变更时重新校验唯一性
func (s *CommunityService) Update(ctx context.Context, actorID, communityID uint64, fields map[string]any) error {
	community, err := s.st.FindCommunityByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	actor, err := s.st.FindMembership(ctx, communityID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if !CanEditCommunity(actor.Role) {
		return ErrNotAuthorized
	}

	if raw, ok := fields["name"]; ok {
		name, _ := raw.(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrValidation
		}
		fields["name"] = name
		if !strings.EqualFold(name, community.Name) {
			if _, err := s.st.FindCommunityByName(ctx, name); err == nil {
				return ErrNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
	}
	if raw, ok := fields["visibility"]; ok {
		v, _ := raw.(string)
		if !model.Visibility(v).Valid() {
			return ErrValidation
		}
	}

	if err := s.st.UpdateCommunity(ctx, communityID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrNameTaken
		}
		return err
	}
	return nil
}

func (s *CommunityService) Get(ctx context.Context, communityID uint64) (*model.Community, error) {
	community, err := s.st.FindCommunityByID(ctx, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return community, err
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.st.ListCommunities(ctx, offset, size)
}

// Join 公开社区直接入社，私有社区落一条 pending 申请
func (s *CommunityService) Join(ctx context.Context, actorID, communityID uint64) (JoinOutcome, error) {
	community, err := s.st.FindCommunityByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if _, err := s.st.FindMembership(ctx, communityID, actorID); err == nil {
		return "", ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if community.Visibility == model.VisibilityPrivate {
		existing, err := s.st.FindJoinRequest(ctx, communityID, actorID)
		switch {
		case err == nil:
			if existing.Status == model.StatusPending {
				return "", ErrAlreadyRequested
			}
			// 被拒绝过的申请复用原行，拉回 pending
			if err := s.st.UpdateJoinRequestStatus(ctx, existing.ID, model.StatusPending); err != nil {
				return "", err
			}
			return JoinOutcomeRequested, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.st.CreateJoinRequest(ctx, &model.JoinRequest{
				CommunityID: communityID,
				UserID:      actorID,
				Status:      model.StatusPending,
			}); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return "", ErrAlreadyRequested
				}
				return "", err
			}
			return JoinOutcomeRequested, nil
		default:
			return "", err
		}
	}

	err = s.st.InTx(ctx, func(tx Store) error {
		if err := tx.CreateMembership(ctx, &model.Membership{
			CommunityID: communityID,
			UserID:      actorID,
			Role:        model.RoleUser,
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 并发重复加入，唯一键兜底
				return ErrAlreadyMember
			}
			return err
		}
		return appendOutbox(ctx, tx, "joined", communityID, actorID, model.RoleUser)
	})
	if err != nil {
		return "", err
	}
	s.invalidateRole(ctx, communityID, actorID)
	return JoinOutcomeJoined, nil
}

// Leave 退社。最后一名管理员不允许退出，计数和删除同一事务并加锁。
func (s *CommunityService) Leave(ctx context.Context, actorID, communityID uint64) error {
	err := s.st.InTx(ctx, func(tx Store) error {
		membership, err := tx.FindMembership(ctx, communityID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return err
		}
		if membership.Role == model.RoleAdmin {
			count, err := tx.CountAdmins(ctx, communityID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}
		if err := tx.DeleteMembership(ctx, membership.ID); err != nil {
			return err
		}
		return appendOutbox(ctx, tx, "left", communityID, actorID, membership.Role)
	})
	if err != nil {
		return err
	}
	s.invalidateRole(ctx, communityID, actorID)
	return nil
}

// CancelJoinRequest 自己撤回 pending 申请，终态不可撤
func (s *CommunityService) CancelJoinRequest(ctx context.Context, actorID, communityID uint64) error {
	request, err := s.st.FindJoinRequest(ctx, communityID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoPendingRequest
		}
		return err
	}
	if request.Status != model.StatusPending {
		return ErrNoPendingRequest
	}
	return s.st.DeleteJoinRequest(ctx, request.ID)
}

// RoleOf 读取成员角色，缓存只读穿透，写路径负责失效
func (s *CommunityService) RoleOf(ctx context.Context, communityID, userID uint64) (model.Role, bool, error) {
	if s.cache != nil {
		if role, ok := s.cache.GetRole(ctx, communityID, userID); ok {
			return role, true, nil
		}
	}
	membership, err := s.st.FindMembership(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if s.cache != nil {
		s.cache.SetRole(ctx, communityID, userID, membership.Role)
	}
	return membership.Role, true, nil
}
