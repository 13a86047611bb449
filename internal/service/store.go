package service

import (
	"context"

	"Hive_Community/internal/model"
)

// 存储接口约定：未命中返回 gorm.ErrRecordNotFound，唯一键冲突返回 gorm.ErrDuplicatedKey，
// 由 service 层翻译为业务错误。

type CommunityStore interface {
	CreateCommunity(ctx context.Context, c *model.Community) error
	FindCommunityByID(ctx context.Context, id uint64) (*model.Community, error)
	// FindCommunityByName 按小写规范化后的名字查找
	FindCommunityByName(ctx context.Context, name string) (*model.Community, error)
	UpdateCommunity(ctx context.Context, id uint64, fields map[string]any) error
	ListCommunities(ctx context.Context, offset, limit int) ([]model.Community, error)
}

type MembershipStore interface {
	CreateMembership(ctx context.Context, m *model.Membership) error
	FindMembership(ctx context.Context, communityID, userID uint64) (*model.Membership, error)
	FindMembershipByID(ctx context.Context, id uint64) (*model.Membership, error)
	ListMembers(ctx context.Context, communityID uint64) ([]model.Membership, error)
	UpdateMembershipRole(ctx context.Context, id uint64, role model.Role) error
	DeleteMembership(ctx context.Context, id uint64) error
	// CountAdmins 事务内调用时对管理员行加锁，防止并发退出打破最后管理员约束
	CountAdmins(ctx context.Context, communityID uint64) (int64, error)
}

type JoinRequestStore interface {
	CreateJoinRequest(ctx context.Context, r *model.JoinRequest) error
	FindJoinRequest(ctx context.Context, communityID, userID uint64) (*model.JoinRequest, error)
	FindJoinRequestByID(ctx context.Context, id uint64) (*model.JoinRequest, error)
	ListJoinRequests(ctx context.Context, communityID uint64, status model.RequestStatus) ([]model.JoinRequest, error)
	UpdateJoinRequestStatus(ctx context.Context, id uint64, status model.RequestStatus) error
	DeleteJoinRequest(ctx context.Context, id uint64) error
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *model.Invitation) error
	FindInvitation(ctx context.Context, communityID, inviteeID uint64) (*model.Invitation, error)
	FindInvitationByID(ctx context.Context, id uint64) (*model.Invitation, error)
	ListInvitationsForUser(ctx context.Context, inviteeID uint64, status model.RequestStatus) ([]model.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, id uint64, status model.RequestStatus) error
	// ReissueInvitation 将终态邀请拉回 pending 并更新邀请人
	ReissueInvitation(ctx context.Context, id, inviterID uint64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindUserByID(ctx context.Context, id uint64) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id uint64, hash string) error
}

type OutboxStore interface {
	AppendOutbox(ctx context.Context, ob *model.MemberOutbox) error
	ListPendingOutbox(ctx context.Context, limit int) ([]model.MemberOutbox, error)
	MarkOutboxSent(ctx context.Context, id uint64) error
	MarkOutboxRetry(ctx context.Context, id uint64) error
}

// Store 聚合仓储，InTx 内回调拿到绑定同一事务的 Store
type Store interface {
	CommunityStore
	MembershipStore
	JoinRequestStore
	InvitationStore
	UserStore
	OutboxStore

	InTx(ctx context.Context, fn func(Store) error) error
}

// RoleCache 成员角色只读缓存，写路径一律失效，不作权威数据
type RoleCache interface {
	GetRole(ctx context.Context, communityID, userID uint64) (model.Role, bool)
	SetRole(ctx context.Context, communityID, userID uint64, role model.Role)
	Invalidate(ctx context.Context, communityID, userID uint64)
}
