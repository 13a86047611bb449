package service

import (
	"context"
	"strings"
	"sync"

	"Hive_Community/internal/model"

	"gorm.io/gorm"
)

// memStore 内存版 Store，行为对齐 mysql 实现：
// 未命中返回 gorm.ErrRecordNotFound，唯一键冲突返回 gorm.ErrDuplicatedKey，
// InTx 失败时整体回滚（快照恢复）。
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  uint64

	communities map[uint64]*model.Community
	memberships map[uint64]*model.Membership
	requests    map[uint64]*model.JoinRequest
	invitations map[uint64]*model.Invitation
	users       map[uint64]*model.User
	outbox      []model.MemberOutbox

	// 测试钩子：模拟事务中途失败
	failCreateMembership error
}

func newMemStore() *memStore {
	return &memStore{
		communities: map[uint64]*model.Community{},
		memberships: map[uint64]*model.Membership{},
		requests:    map[uint64]*model.JoinRequest{},
		invitations: map[uint64]*model.Invitation{},
		users:       map[uint64]*model.User{},
	}
}

func (s *memStore) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *memStore) addUser(username string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{ID: s.nextID(), Username: username, Email: username + "@example.com"}
	s.users[u.ID] = u
	return u
}

type memSnapshot struct {
	seq         uint64
	communities map[uint64]*model.Community
	memberships map[uint64]*model.Membership
	requests    map[uint64]*model.JoinRequest
	invitations map[uint64]*model.Invitation
	users       map[uint64]*model.User
	outbox      []model.MemberOutbox
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		seq:         s.seq,
		communities: map[uint64]*model.Community{},
		memberships: map[uint64]*model.Membership{},
		requests:    map[uint64]*model.JoinRequest{},
		invitations: map[uint64]*model.Invitation{},
		users:       map[uint64]*model.User{},
		outbox:      append([]model.MemberOutbox(nil), s.outbox...),
	}
	for id, v := range s.communities {
		c := *v
		snap.communities[id] = &c
	}
	for id, v := range s.memberships {
		m := *v
		snap.memberships[id] = &m
	}
	for id, v := range s.requests {
		r := *v
		snap.requests[id] = &r
	}
	for id, v := range s.invitations {
		inv := *v
		snap.invitations[id] = &inv
	}
	for id, v := range s.users {
		u := *v
		snap.users[id] = &u
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.seq = snap.seq
	s.communities = snap.communities
	s.memberships = snap.memberships
	s.requests = snap.requests
	s.invitations = snap.invitations
	s.users = snap.users
	s.outbox = snap.outbox
}

// InTx 事务串行执行，失败时快照回滚，模拟数据库的原子性
func (s *memStore) InTx(ctx context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

// --- communities ---

func (s *memStore) CreateCommunity(ctx context.Context, c *model.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.communities {
		if strings.EqualFold(existing.Name, c.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = s.nextID()
	cp := *c
	s.communities[c.ID] = &cp
	return nil
}

func (s *memStore) FindCommunityByID(ctx context.Context, id uint64) (*model.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) FindCommunityByName(ctx context.Context, name string) (*model.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.communities {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) UpdateCommunity(ctx context.Context, id uint64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		c.Description = v.(string)
	}
	if v, ok := fields["visibility"]; ok {
		c.Visibility = model.Visibility(v.(string))
	}
	if v, ok := fields["image_url"]; ok {
		c.ImageURL = v.(string)
	}
	return nil
}

func (s *memStore) ListCommunities(ctx context.Context, offset, limit int) ([]model.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Community
	for _, c := range s.communities {
		list = append(list, *c)
	}
	return list, nil
}

// --- memberships ---

func (s *memStore) CreateMembership(ctx context.Context, m *model.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateMembership != nil {
		return s.failCreateMembership
	}
	for _, existing := range s.memberships {
		if existing.CommunityID == m.CommunityID && existing.UserID == m.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.ID = s.nextID()
	cp := *m
	s.memberships[m.ID] = &cp
	return nil
}

func (s *memStore) FindMembership(ctx context.Context, communityID, userID uint64) (*model.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.CommunityID == communityID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindMembershipByID(ctx context.Context, id uint64) (*model.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) ListMembers(ctx context.Context, communityID uint64) ([]model.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Membership
	for _, m := range s.memberships {
		if m.CommunityID == communityID {
			list = append(list, *m)
		}
	}
	return list, nil
}

func (s *memStore) UpdateMembershipRole(ctx context.Context, id uint64, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Role = role
	return nil
}

func (s *memStore) DeleteMembership(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships, id)
	return nil
}

func (s *memStore) CountAdmins(ctx context.Context, communityID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, m := range s.memberships {
		if m.CommunityID == communityID && m.Role == model.RoleAdmin {
			count++
		}
	}
	return count, nil
}

// --- join requests ---

func (s *memStore) CreateJoinRequest(ctx context.Context, r *model.JoinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.CommunityID == r.CommunityID && existing.UserID == r.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.ID = s.nextID()
	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *memStore) FindJoinRequest(ctx context.Context, communityID, userID uint64) (*model.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.CommunityID == communityID && r.UserID == userID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindJoinRequestByID(ctx context.Context, id uint64) (*model.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ListJoinRequests(ctx context.Context, communityID uint64, status model.RequestStatus) ([]model.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.JoinRequest
	for _, r := range s.requests {
		if r.CommunityID == communityID && r.Status == status {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (s *memStore) UpdateJoinRequestStatus(ctx context.Context, id uint64, status model.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	return nil
}

func (s *memStore) DeleteJoinRequest(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, id)
	return nil
}

// --- invitations ---

func (s *memStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invitations {
		if existing.CommunityID == inv.CommunityID && existing.InviteeID == inv.InviteeID {
			return gorm.ErrDuplicatedKey
		}
	}
	inv.ID = s.nextID()
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}

func (s *memStore) FindInvitation(ctx context.Context, communityID, inviteeID uint64) (*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.CommunityID == communityID && inv.InviteeID == inviteeID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindInvitationByID(ctx context.Context, id uint64) (*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *memStore) ListInvitationsForUser(ctx context.Context, inviteeID uint64, status model.RequestStatus) ([]model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Invitation
	for _, inv := range s.invitations {
		if inv.InviteeID == inviteeID && inv.Status == status {
			list = append(list, *inv)
		}
	}
	return list, nil
}

func (s *memStore) UpdateInvitationStatus(ctx context.Context, id uint64, status model.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Status = status
	return nil
}

func (s *memStore) ReissueInvitation(ctx context.Context, id, inviterID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Status = model.StatusPending
	inv.InviterID = inviterID
	return nil
}

// --- users ---

func (s *memStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = s.nextID()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) FindUserByID(ctx context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) UpdateUserPassword(ctx context.Context, id uint64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hash
	return nil
}

// --- outbox ---

func (s *memStore) AppendOutbox(ctx context.Context, ob *model.MemberOutbox) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob.ID = s.nextID()
	s.outbox = append(s.outbox, *ob)
	return nil
}

func (s *memStore) ListPendingOutbox(ctx context.Context, limit int) ([]model.MemberOutbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []model.MemberOutbox
	for _, ob := range s.outbox {
		if ob.Status == 0 {
			rows = append(rows, ob)
		}
		if len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

func (s *memStore) MarkOutboxSent(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].Status = 1
		}
	}
	return nil
}

func (s *memStore) MarkOutboxRetry(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == id {
			s.outbox[i].Retry++
		}
	}
	return nil
}

var _ Store = (*memStore)(nil)

// fakeCache 记录失效调用的内存角色缓存
type fakeCache struct {
	mu          sync.Mutex
	roles       map[[2]uint64]model.Role
	invalidated [][2]uint64
}

func newFakeCache() *fakeCache {
	return &fakeCache{roles: map[[2]uint64]model.Role{}}
}

func (c *fakeCache) GetRole(ctx context.Context, communityID, userID uint64) (model.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := c.roles[[2]uint64{communityID, userID}]
	return role, ok
}

func (c *fakeCache) SetRole(ctx context.Context, communityID, userID uint64, role model.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[[2]uint64{communityID, userID}] = role
}

func (c *fakeCache) Invalidate(ctx context.Context, communityID, userID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]uint64{communityID, userID}
	delete(c.roles, key)
	c.invalidated = append(c.invalidated, key)
}

var _ RoleCache = (*fakeCache)(nil)
