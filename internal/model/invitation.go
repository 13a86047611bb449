package model

import "time"

// Invitation 管理员/版主发起的邀请，终态记录可被重新拉回 pending
type Invitation struct {
	ID          uint64        `gorm:"primaryKey"`
	CommunityID uint64        `gorm:"not null;index;uniqueIndex:uk_invite_community_invitee"`
	InviterID   uint64        `gorm:"not null"`
	InviteeID   uint64        `gorm:"not null;index;uniqueIndex:uk_invite_community_invitee"`
	Status      RequestStatus `gorm:"size:16;not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Invitation) TableName() string { return "invitations" }
