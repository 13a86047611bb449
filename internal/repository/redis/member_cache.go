package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"Hive_Community/internal/model"
)

const (
	MemberRolePrefix = "community:member:role"
	MemberRoleTTL    = 10 * time.Minute
)

// MemberCache 成员角色只读缓存。数据库永远是权威，写路径一律 Invalidate，
// 读路径未命中时由 service 回源再回填。
type MemberCache struct{}

func NewMemberCache() *MemberCache {
	return &MemberCache{}
}

func memberRoleKey(communityID, userID uint64) string {
	return fmt.Sprintf("%s:%d:%d", MemberRolePrefix, communityID, userID)
}

func (c *MemberCache) GetRole(ctx context.Context, communityID, userID uint64) (model.Role, bool) {
	val, err := Client.Get(ctx, memberRoleKey(communityID, userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil || !model.Role(n).Valid() {
		return 0, false
	}
	return model.Role(n), true
}

func (c *MemberCache) SetRole(ctx context.Context, communityID, userID uint64, role model.Role) {
	// 回填失败不影响主流程
	_ = Client.Set(ctx, memberRoleKey(communityID, userID), int(role), MemberRoleTTL).Err()
}

func (c *MemberCache) Invalidate(ctx context.Context, communityID, userID uint64) {
	_ = Client.Del(ctx, memberRoleKey(communityID, userID)).Err()
}
