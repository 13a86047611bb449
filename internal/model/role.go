package model

import (
	"errors"
	"strings"
)

// Role 社区成员角色，数值越大权限越高
type Role int

const (
	RoleUser      Role = 0
	RoleModerator Role = 1
	RoleAdmin     Role = 2
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleModerator:
		return "MODERATOR"
	case RoleUser:
		return "USER"
	}
	return "UNKNOWN"
}

// ParseRole 解析请求体里的角色字符串
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "MODERATOR":
		return RoleModerator, nil
	case "USER":
		return RoleUser, nil
	}
	return RoleUser, ErrInvalidRole
}

// AtLeast 角色全序比较
func (r Role) AtLeast(other Role) bool {
	return r >= other
}
