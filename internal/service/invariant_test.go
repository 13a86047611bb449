package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"Hive_Community/internal/model"
)

// adminCount 直接数底层成员表，不走缓存
func adminCount(st *memStore, communityID uint64) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, m := range st.memberships {
		if m.CommunityID == communityID && m.Role == model.RoleAdmin {
			n++
		}
	}
	return n
}

// TestEveryCommunityKeepsAnAdmin 随机打一串成员操作，任何时刻社区都不能失去最后一个管理员
func TestEveryCommunityKeepsAnAdmin(t *testing.T) {
	st := newMemStore()
	cache := newFakeCache()
	commSvc := NewCommunityService(st, cache)
	memberSvc := NewMemberService(st, cache)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	var users []*model.User
	for i := 0; i < 8; i++ {
		users = append(users, st.addUser("u"+string(rune('a'+i))))
	}

	var communityIDs []uint64
	for i, name := range []string{"alpha", "beta", "gamma"} {
		c, err := commSvc.Create(ctx, users[i].ID, name, "", model.VisibilityPublic, "")
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		communityIDs = append(communityIDs, c.ID)
	}

	membershipID := func(communityID, userID uint64) (uint64, bool) {
		st.mu.Lock()
		defer st.mu.Unlock()
		for _, m := range st.memberships {
			if m.CommunityID == communityID && m.UserID == userID {
				return m.ID, true
			}
		}
		return 0, false
	}

	allowed := []error{
		ErrAlreadyMember, ErrNotAMember, ErrNotAuthorized, ErrInsufficientRole,
		ErrLastAdmin, ErrNotFound, ErrValidation,
	}
	isExpected := func(err error) bool {
		for _, want := range allowed {
			if errors.Is(err, want) {
				return true
			}
		}
		return false
	}

	for step := 0; step < 500; step++ {
		communityID := communityIDs[rng.Intn(len(communityIDs))]
		actor := users[rng.Intn(len(users))]
		target := users[rng.Intn(len(users))]

		var err error
		switch rng.Intn(4) {
		case 0:
			_, err = commSvc.Join(ctx, actor.ID, communityID)
		case 1:
			err = commSvc.Leave(ctx, actor.ID, communityID)
		case 2:
			if mid, ok := membershipID(communityID, target.ID); ok {
				role := model.Role(rng.Intn(3))
				err = memberSvc.UpdateRole(ctx, actor.ID, communityID, mid, role)
			}
		case 3:
			if mid, ok := membershipID(communityID, target.ID); ok {
				err = memberSvc.Remove(ctx, actor.ID, communityID, mid)
			}
		}
		if err != nil && !isExpected(err) {
			t.Fatalf("step %d: unexpected error %v", step, err)
		}

		for _, cid := range communityIDs {
			if n := adminCount(st, cid); n < 1 {
				t.Fatalf("step %d: community %d left with %d admins", step, cid, n)
			}
		}
	}
}

// TestPrivateCommunityLifecycle 私有社区从建立到成员管理的完整流程
func TestPrivateCommunityLifecycle(t *testing.T) {
	st := newMemStore()
	cache := newFakeCache()
	commSvc := NewCommunityService(st, cache)
	memberSvc := NewMemberService(st, cache)
	inviteSvc := NewInviteService(st, cache)
	ctx := context.Background()

	founder := st.addUser("founder")
	applicant := st.addUser("applicant")
	guest := st.addUser("guest")

	community, err := commSvc.Create(ctx, founder.ID, "hidden-garden", "invite only", model.VisibilityPrivate, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 申请加入 -> 审批通过 -> 成为普通成员
	outcome, err := commSvc.Join(ctx, applicant.ID, community.ID)
	if err != nil || outcome != JoinOutcomeRequested {
		t.Fatalf("join = %v (%v), want requested", outcome, err)
	}
	requests, err := memberSvc.ListPendingRequests(ctx, founder.ID, community.ID)
	if err != nil || len(requests) != 1 {
		t.Fatalf("requests = %v (%v), want one pending", requests, err)
	}
	if err := memberSvc.HandleJoinRequest(ctx, founder.ID, requests[0].ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	role, isMember, err := commSvc.RoleOf(ctx, community.ID, applicant.ID)
	if err != nil || !isMember || role != model.RoleUser {
		t.Fatalf("role = %v member=%v (%v), want plain member", role, isMember, err)
	}

	// 提拔为版主，版主随后邀请第三人
	mid, ok := func() (uint64, bool) {
		m, err := st.FindMembership(ctx, community.ID, applicant.ID)
		if err != nil {
			return 0, false
		}
		return m.ID, true
	}()
	if !ok {
		t.Fatal("applicant membership missing")
	}
	if err := memberSvc.UpdateRole(ctx, founder.ID, community.ID, mid, model.RoleModerator); err != nil {
		t.Fatalf("promote: %v", err)
	}
	inv, err := inviteSvc.Invite(ctx, applicant.ID, community.ID, "guest")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if err := inviteSvc.HandleInvitation(ctx, guest.ID, inv.ID, true); err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	if _, err := st.FindMembership(ctx, community.ID, guest.ID); err != nil {
		t.Fatalf("guest membership missing: %v", err)
	}

	// 普通成员退出不影响管理员约束
	if err := commSvc.Leave(ctx, guest.ID, community.ID); err != nil {
		t.Fatalf("guest leave: %v", err)
	}
	if n := adminCount(st, community.ID); n != 1 {
		t.Fatalf("admins after guest leave = %d, want 1", n)
	}

	// 创始人是唯一管理员，走不掉；交棒后才能离开
	if err := commSvc.Leave(ctx, founder.ID, community.ID); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("founder leave err = %v, want ErrLastAdmin", err)
	}
	if err := memberSvc.UpdateRole(ctx, founder.ID, community.ID, mid, model.RoleAdmin); err != nil {
		t.Fatalf("hand over: %v", err)
	}
	if err := commSvc.Leave(ctx, founder.ID, community.ID); err != nil {
		t.Fatalf("founder leave after handover: %v", err)
	}
	if n := adminCount(st, community.ID); n != 1 {
		t.Fatalf("admins = %d, want 1", n)
	}
}
