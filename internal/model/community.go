package model

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type Community struct {
	ID          uint64     `gorm:"primaryKey"`
	Name        string     `gorm:"uniqueIndex;size:64;not null"`
	Description string     `gorm:"type:text"`
	Visibility  Visibility `gorm:"size:16;not null;default:'PUBLIC'"`
	ImageURL    string     `gorm:"size:255"`
	CreatorID   uint64     `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Membership struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        Role   `gorm:"not null;default:0"` // 0=user, 1=moderator, 2=admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Membership) TableName() string { return "memberships" }
