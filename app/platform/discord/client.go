package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/bwmarrin/discordgo"
)

const guildMembersPageSize = 1000

// Client implements platform.Platform for a single guild.
type Client struct {
	session Session
	guildID string
}

// NewClient creates a Client bound to guildID.
func NewClient(session Session, guildID string) *Client {
	return &Client{session: session, guildID: guildID}
}

func unavailable(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, platform.ErrUnavailable, err)
}

func (c *Client) Member(ctx context.Context, userID string) (*platform.Member, error) {
	m, err := c.session.GuildMember(c.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, unavailable("fetch member", err)
	}
	return toMember(m), nil
}

func (c *Client) AddRole(ctx context.Context, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(c.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return unavailable("add role", err)
	}
	return nil
}

func (c *Client) RemoveRole(ctx context.Context, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(c.guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return unavailable("remove role", err)
	}
	return nil
}

func (c *Client) SetNickname(ctx context.Context, userID, nickname string) error {
	if err := c.session.GuildMemberNickname(c.guildID, userID, nickname, discordgo.WithContext(ctx)); err != nil {
		return unavailable("set nickname", err)
	}
	return nil
}

// RoleMembers pages through the guild member list and keeps holders of roleID.
func (c *Client) RoleMembers(ctx context.Context, roleID string) ([]string, error) {
	var (
		ids   []string
		after string
	)
	for {
		page, err := c.session.GuildMembers(c.guildID, after, guildMembersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, unavailable("list members", err)
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			for _, r := range m.Roles {
				if r == roleID {
					ids = append(ids, m.User.ID)
					break
				}
			}
		}
		if len(page) < guildMembersPageSize || page[len(page)-1].User == nil {
			return ids, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *Client) SendMessage(ctx context.Context, channelID string, msg platform.Message) (string, error) {
	sent, err := c.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return "", unavailable("send message", err)
	}
	return sent.ID, nil
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, msg platform.Message) error {
	if _, err := c.session.ChannelMessageEditComplex(toMessageEdit(channelID, messageID, msg), discordgo.WithContext(ctx)); err != nil {
		return unavailable("edit message", err)
	}
	return nil
}

// MessageExists reports false without error when Discord answers 404 or
// "unknown message".
func (c *Client) MessageExists(ctx context.Context, channelID, messageID string) (bool, error) {
	_, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, unavailable("fetch message", err)
}

func (c *Client) AnnotateMessage(ctx context.Context, channelID, messageID string, status platform.EmbedField, color int) error {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return unavailable("fetch message", err)
	}

	embed := &discordgo.MessageEmbed{}
	if len(msg.Embeds) > 0 && msg.Embeds[0] != nil {
		cp := *msg.Embeds[0]
		cp.Fields = append([]*discordgo.MessageEmbedField(nil), msg.Embeds[0].Fields...)
		embed = &cp
	}
	embed.Color = color
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: status.Name, Value: status.Value, Inline: status.Inline})

	embeds := []*discordgo.MessageEmbed{embed}
	components := []discordgo.MessageComponent{}
	_, err = c.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return unavailable("annotate message", err)
	}
	return nil
}

func (c *Client) CreatePrivateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (string, error) {
	ch, err := c.session.ThreadStartComplex(channelID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: autoArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
		Invitable:           false,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", unavailable("create thread", err)
	}
	return ch.ID, nil
}

func (c *Client) AddThreadMember(ctx context.Context, threadID, userID string) error {
	if err := c.session.ThreadMemberAdd(threadID, userID, discordgo.WithContext(ctx)); err != nil {
		return unavailable("add thread member", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func toMember(m *discordgo.Member) *platform.Member {
	out := &platform.Member{
		Nickname: m.Nick,
		RoleIDs:  append([]string(nil), m.Roles...),
	}
	if m.User != nil {
		out.ID = m.User.ID
		out.Username = m.User.Username
	}
	return out
}

var _ platform.Platform = (*Client)(nil)
