package service

import "Hive_Community/internal/model"

// 权限判定全部是纯函数，角色全序 ADMIN > MODERATOR > USER。
// 判否时由调用方决定返回 ErrNotAuthorized 还是 ErrInsufficientRole。

// CanManageRoles 只有管理员能调整成员角色
func CanManageRoles(actor model.Role) bool {
	return actor == model.RoleAdmin
}

// CanEditCommunity 只有管理员能改社区资料
func CanEditCommunity(actor model.Role) bool {
	return actor == model.RoleAdmin
}

// CanInvite 管理员和版主可以邀请
func CanInvite(actor model.Role) bool {
	return actor.AtLeast(model.RoleModerator)
}

// CanHandleRequests 管理员和版主可以处理入社申请
func CanHandleRequests(actor model.Role) bool {
	return actor.AtLeast(model.RoleModerator)
}

// CanRemoveMember 版主只能移除普通成员，管理员可以移除任何人
func CanRemoveMember(actor, target model.Role) bool {
	if actor == model.RoleAdmin {
		return true
	}
	if actor == model.RoleModerator {
		return target == model.RoleUser
	}
	return false
}
