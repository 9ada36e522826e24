// Package platform is the capability surface the bot needs from the chat platform.
package platform

import (
	"context"
	"errors"
)

// ErrUnavailable wraps failures reported by the chat platform.
var ErrUnavailable = errors.New("chat platform unavailable")

// Member is a guild member as seen by the bot.
type Member struct {
	ID       string
	Username string
	// Nickname is empty when the member has no guild nickname.
	Nickname string
	RoleIDs  []string
}

// NicknamePtr returns the nickname or nil when unset.
func (m *Member) NicknamePtr() *string {
	if m.Nickname == "" {
		return nil
	}
	n := m.Nickname
	return &n
}

// HasRole reports whether the member holds roleID.
func (m *Member) HasRole(roleID string) bool {
	for _, r := range m.RoleIDs {
		if r == roleID {
			return true
		}
	}
	return false
}

// ButtonStyle selects the visual style of a button.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
	ButtonLink
)

// Button is an interactive control attached to a message.
type Button struct {
	CustomID string
	Label    string
	Emoji    string
	Style    ButtonStyle
	URL      string
}

// EmbedField is a name/value pair shown in an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	ImageURL    string
	Timestamp   bool
}

// File is an attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a platform-neutral outgoing message.
type Message struct {
	Content string
	Embeds  []Embed
	Buttons []Button
	Files   []File
}

// Platform is implemented by the chat gateway adapter.
type Platform interface {
	Member(ctx context.Context, userID string) (*Member, error)
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
	SetNickname(ctx context.Context, userID, nickname string) error
	RoleMembers(ctx context.Context, roleID string) ([]string, error)

	SendMessage(ctx context.Context, channelID string, msg Message) (string, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	MessageExists(ctx context.Context, channelID, messageID string) (bool, error)
	// AnnotateMessage keeps the first embed, appends status, recolours it and
	// removes every interactive control.
	AnnotateMessage(ctx context.Context, channelID, messageID string, status EmbedField, color int) error

	CreatePrivateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (string, error)
	AddThreadMember(ctx context.Context, threadID, userID string) error
}

// Embed colours shared by the modules.
const (
	ColorGold   = 0xFFD700
	ColorBlue   = 0x3498DB
	ColorOrange = 0xFFA500
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
)

// Actor is the member who triggered an operation.
type Actor struct {
	ID  string
	Tag string
}

// Mention renders a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
