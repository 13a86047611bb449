package model

import "time"

// MemberOutbox 成员事件外发表，与成员变更同事务写入
type MemberOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"` // joined / left / removed / role_changed / invite_accepted
	CommunityID uint64 `gorm:"not null;index"`
	UserID      uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MemberOutbox) TableName() string { return "member_outbox" }
