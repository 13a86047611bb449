package model

import (
	"strings"
	"time"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeUsername 用户名统一小写后存储和查询
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
