package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(registrar CommandRegistrar, members *FakeMembers) *Gateway {
	return &Gateway{
		registrar: registrar,
		guildID:   "guild-1",
		members:   members,
		logger:    discardLogger(),
		ctx:       context.Background(),
	}
}

func TestGateway_OnReady(t *testing.T) {
	registrar := &FakeRegistrar{}
	members := &FakeMembers{}
	g := newTestGateway(registrar, members)

	g.onReady(context.Background(), "app-1")
	g.onReady(context.Background(), "app-1")

	require.Len(t, registrar.Commands, 2, "commands are overwritten on every reconnect")
	assert.Len(t, registrar.Commands[0], len(Commands()))
	assert.Equal(t, []string{"PostStartupMessages"}, members.Calls())
}

func TestGateway_OnReadyRegistrationFailure(t *testing.T) {
	members := &FakeMembers{}
	g := newTestGateway(&FakeRegistrar{Err: errors.New("forbidden")}, members)

	g.onReady(context.Background(), "app-1")

	assert.Equal(t, []string{"PostStartupMessages"}, members.Calls())
}

func TestGateway_MemberEvents(t *testing.T) {
	member := func(guildID string, bot bool) *discordgo.Member {
		return &discordgo.Member{GuildID: guildID, User: &discordgo.User{ID: "user-1", Bot: bot}, Roles: []string{"r1"}}
	}

	tests := []struct {
		name string
		run  func(g *Gateway)
		want []string
	}{
		{
			name: "join",
			run:  func(g *Gateway) { g.onMemberAdd(context.Background(), &discordgo.GuildMemberAdd{Member: member("guild-1", false)}) },
			want: []string{"HandleJoin:user-1"},
		},
		{
			name: "join in another guild",
			run:  func(g *Gateway) { g.onMemberAdd(context.Background(), &discordgo.GuildMemberAdd{Member: member("guild-2", false)}) },
		},
		{
			name: "bot join",
			run:  func(g *Gateway) { g.onMemberAdd(context.Background(), &discordgo.GuildMemberAdd{Member: member("guild-1", true)}) },
		},
		{
			name: "update without cached state",
			run: func(g *Gateway) {
				g.onMemberUpdate(context.Background(), &discordgo.GuildMemberUpdate{Member: member("guild-1", false)})
			},
			want: []string{"HandleRolesChanged:user-1"},
		},
		{
			name: "update with cached state",
			run: func(g *Gateway) {
				g.onMemberUpdate(context.Background(), &discordgo.GuildMemberUpdate{
					Member:       member("guild-1", false),
					BeforeUpdate: &discordgo.Member{Roles: []string{"r0"}},
				})
			},
			want: []string{"HandleRolesChanged:user-1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := &FakeMembers{}
			tt.run(newTestGateway(&FakeRegistrar{}, members))
			assert.Equal(t, tt.want, members.Calls())
		})
	}
}

func TestCommands(t *testing.T) {
	byName := map[string]*discordgo.ApplicationCommand{}
	for _, c := range Commands() {
		byName[c.Name] = c
	}

	for _, name := range []string{CommandAddLP, CommandSetLP, CommandAddSP, CommandRemoveSP, CommandPublishLeaderboard, CommandExportPoints} {
		require.Contains(t, byName, name)
		require.NotNil(t, byName[name].DefaultMemberPermissions, name)
		assert.EqualValues(t, discordgo.PermissionManageRoles, *byName[name].DefaultMemberPermissions, name)
	}
	for _, name := range []string{CommandMyPoints, CommandLeaderboard} {
		require.Contains(t, byName, name)
		assert.Nil(t, byName[name].DefaultMemberPermissions, name)
	}

	setlp := byName[CommandSetLP]
	require.Len(t, setlp.Options, 2)
	assert.Equal(t, optionUser, setlp.Options[0].Name)
	assert.Equal(t, optionValue, setlp.Options[1].Name)
	assert.Equal(t, 0.0, *setlp.Options[1].MinValue)
}
