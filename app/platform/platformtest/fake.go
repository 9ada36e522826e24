// Package platformtest provides an in-memory platform.Platform for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// Sent records a posted or edited message.
type Sent struct {
	ChannelID string
	MessageID string
	Message   platform.Message
}

// Annotation records an AnnotateMessage call.
type Annotation struct {
	ChannelID string
	MessageID string
	Status    platform.EmbedField
	Color     int
}

// Thread records a created private thread.
type Thread struct {
	ID                 string
	ChannelID          string
	Name               string
	AutoArchiveMinutes int
	Members            []string
}

// FakePlatform keeps members, messages and threads in memory. Any XxxFunc
// field overrides the default behaviour of the matching method.
type FakePlatform struct {
	mu     sync.Mutex
	trace  []string
	nextID int

	Members     map[string]*platform.Member
	RoleHolders map[string][]string
	Sent        []Sent
	Edited      []Sent
	Annotations []Annotation
	Threads     []*Thread
	messages    map[string]platform.Message

	MemberFunc              func(ctx context.Context, userID string) (*platform.Member, error)
	AddRoleFunc             func(ctx context.Context, userID, roleID string) error
	RemoveRoleFunc          func(ctx context.Context, userID, roleID string) error
	SetNicknameFunc         func(ctx context.Context, userID, nickname string) error
	RoleMembersFunc         func(ctx context.Context, roleID string) ([]string, error)
	SendMessageFunc         func(ctx context.Context, channelID string, msg platform.Message) (string, error)
	EditMessageFunc         func(ctx context.Context, channelID, messageID string, msg platform.Message) error
	MessageExistsFunc       func(ctx context.Context, channelID, messageID string) (bool, error)
	AnnotateMessageFunc     func(ctx context.Context, channelID, messageID string, status platform.EmbedField, color int) error
	CreatePrivateThreadFunc func(ctx context.Context, channelID, name string, autoArchiveMinutes int) (string, error)
	AddThreadMemberFunc     func(ctx context.Context, threadID, userID string) error
}

// New returns an empty fake.
func New() *FakePlatform {
	return &FakePlatform{
		Members:     map[string]*platform.Member{},
		RoleHolders: map[string][]string{},
		messages:    map[string]platform.Message{},
	}
}

// AddMember registers a member and returns it.
func (f *FakePlatform) AddMember(id, username string, roles ...string) *platform.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &platform.Member{ID: id, Username: username, RoleIDs: append([]string(nil), roles...)}
	f.Members[id] = m
	return m
}

// SeedMessage stores a message as if it had been posted earlier.
func (f *FakePlatform) SeedMessage(channelID, messageID string, msg platform.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID+"/"+messageID] = msg
}

// Trace returns the ordered list of calls.
func (f *FakePlatform) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Calls counts calls to the named method.
func (f *FakePlatform) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, step := range f.trace {
		if step == method {
			n++
		}
	}
	return n
}

// Roles returns a copy of a member's roles.
func (f *FakePlatform) Roles(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return nil
	}
	return append([]string(nil), m.RoleIDs...)
}

// Nickname returns a member's nickname.
func (f *FakePlatform) Nickname(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.Members[userID]; ok {
		return m.Nickname
	}
	return ""
}

func (f *FakePlatform) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakePlatform) Member(ctx context.Context, userID string) (*platform.Member, error) {
	f.record("Member")
	if f.MemberFunc != nil {
		return f.MemberFunc(ctx, userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %s: %w", userID, platform.ErrUnavailable)
	}
	cp := *m
	cp.RoleIDs = append([]string(nil), m.RoleIDs...)
	return &cp, nil
}

func (f *FakePlatform) AddRole(ctx context.Context, userID, roleID string) error {
	f.record("AddRole")
	if f.AddRoleFunc != nil {
		return f.AddRoleFunc(ctx, userID, roleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return platform.ErrUnavailable
	}
	if !m.HasRole(roleID) {
		m.RoleIDs = append(m.RoleIDs, roleID)
	}
	return nil
}

func (f *FakePlatform) RemoveRole(ctx context.Context, userID, roleID string) error {
	f.record("RemoveRole")
	if f.RemoveRoleFunc != nil {
		return f.RemoveRoleFunc(ctx, userID, roleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return platform.ErrUnavailable
	}
	kept := m.RoleIDs[:0]
	for _, r := range m.RoleIDs {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.RoleIDs = kept
	return nil
}

func (f *FakePlatform) SetNickname(ctx context.Context, userID, nickname string) error {
	f.record("SetNickname")
	if f.SetNicknameFunc != nil {
		return f.SetNicknameFunc(ctx, userID, nickname)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return platform.ErrUnavailable
	}
	m.Nickname = nickname
	return nil
}

func (f *FakePlatform) RoleMembers(ctx context.Context, roleID string) ([]string, error) {
	f.record("RoleMembers")
	if f.RoleMembersFunc != nil {
		return f.RoleMembersFunc(ctx, roleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.RoleHolders[roleID]...), nil
}

func (f *FakePlatform) SendMessage(ctx context.Context, channelID string, msg platform.Message) (string, error) {
	f.record("SendMessage")
	if f.SendMessageFunc != nil {
		return f.SendMessageFunc(ctx, channelID, msg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.messages[channelID+"/"+id] = msg
	f.Sent = append(f.Sent, Sent{ChannelID: channelID, MessageID: id, Message: msg})
	return id, nil
}

func (f *FakePlatform) EditMessage(ctx context.Context, channelID, messageID string, msg platform.Message) error {
	f.record("EditMessage")
	if f.EditMessageFunc != nil {
		return f.EditMessageFunc(ctx, channelID, messageID, msg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := channelID + "/" + messageID
	if _, ok := f.messages[key]; !ok {
		return platform.ErrUnavailable
	}
	f.messages[key] = msg
	f.Edited = append(f.Edited, Sent{ChannelID: channelID, MessageID: messageID, Message: msg})
	return nil
}

func (f *FakePlatform) MessageExists(ctx context.Context, channelID, messageID string) (bool, error) {
	f.record("MessageExists")
	if f.MessageExistsFunc != nil {
		return f.MessageExistsFunc(ctx, channelID, messageID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.messages[channelID+"/"+messageID]
	return ok, nil
}

func (f *FakePlatform) AnnotateMessage(ctx context.Context, channelID, messageID string, status platform.EmbedField, color int) error {
	f.record("AnnotateMessage")
	if f.AnnotateMessageFunc != nil {
		return f.AnnotateMessageFunc(ctx, channelID, messageID, status, color)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Annotations = append(f.Annotations, Annotation{ChannelID: channelID, MessageID: messageID, Status: status, Color: color})
	return nil
}

func (f *FakePlatform) CreatePrivateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (string, error) {
	f.record("CreatePrivateThread")
	if f.CreatePrivateThreadFunc != nil {
		return f.CreatePrivateThreadFunc(ctx, channelID, name, autoArchiveMinutes)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	th := &Thread{ID: fmt.Sprintf("thread-%d", f.nextID), ChannelID: channelID, Name: name, AutoArchiveMinutes: autoArchiveMinutes}
	f.Threads = append(f.Threads, th)
	return th.ID, nil
}

func (f *FakePlatform) AddThreadMember(ctx context.Context, threadID, userID string) error {
	f.record("AddThreadMember")
	if f.AddThreadMemberFunc != nil {
		return f.AddThreadMemberFunc(ctx, threadID, userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, th := range f.Threads {
		if th.ID == threadID {
			th.Members = append(th.Members, userID)
			return nil
		}
	}
	return platform.ErrUnavailable
}

var _ platform.Platform = (*FakePlatform)(nil)
