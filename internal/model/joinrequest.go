package model

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// JoinRequest 私有社区的入社申请，每个 (community, user) 至多一条
type JoinRequest struct {
	ID          uint64        `gorm:"primaryKey"`
	CommunityID uint64        `gorm:"not null;index;uniqueIndex:uk_request_community_user"`
	UserID      uint64        `gorm:"not null;index;uniqueIndex:uk_request_community_user"`
	Status      RequestStatus `gorm:"size:16;not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (JoinRequest) TableName() string { return "join_requests" }
