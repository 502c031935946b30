package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/syria-community/role-bridge/internal/domain"
	"github.com/syria-community/role-bridge/internal/repository/ports"
)

// Gateway wraps a discordgo session. The session owns the websocket and its
// reconnects; Gateway only tracks whether it is currently usable.
type Gateway struct {
	session *discordgo.Session
	ready   atomic.Bool
}

var _ ports.GuildGateway = (*Gateway)(nil)

// ErrMissingToken is returned by Open when the gateway was built without a
// bot token. Such a gateway never becomes ready.
var ErrMissingToken = errors.New("discord: empty bot token")

func New(token string) (*Gateway, error) {
	token = strings.TrimSpace(token)
	if token != "" && !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	g := &Gateway{session: session}
	session.AddHandler(g.onReady)
	session.AddHandler(g.onResumed)
	session.AddHandler(g.onDisconnect)
	return g, nil
}

// Open logs the bot in and starts the gateway connection.
func (g *Gateway) Open() error {
	if g.session.Token == "" {
		return ErrMissingToken
	}
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("discord: login: %w", err)
	}
	return nil
}

func (g *Gateway) Close() error {
	g.ready.Store(false)
	return g.session.Close()
}

func (g *Gateway) IsReady() bool {
	return g.ready.Load()
}

func (g *Gateway) Guild(_ context.Context, guildID string) (*domain.Guild, error) {
	guild, err := g.session.State.Guild(guildID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return nil, ports.ErrGuildNotFound
		}
		return nil, err
	}
	return &domain.Guild{ID: guild.ID}, nil
}

// FetchMember checks the state cache first and falls back to the REST API.
func (g *Gateway) FetchMember(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	if member, err := g.session.State.Member(guildID, userID); err == nil {
		return toDomainMember(guildID, member), nil
	}

	member, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMember(err) {
			return nil, fmt.Errorf("%w: %s", ports.ErrMemberNotFound, userID)
		}
		return nil, err
	}
	return toDomainMember(guildID, member), nil
}

func (g *Gateway) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	g.ready.Store(true)
	if r != nil && r.User != nil {
		log.Printf("Logged In As %s", r.User.String())
	}
}

func (g *Gateway) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	g.ready.Store(true)
	log.Println("discord: session resumed")
}

func (g *Gateway) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	g.ready.Store(false)
	log.Println("discord: gateway disconnected")
}

func toDomainMember(guildID string, m *discordgo.Member) *domain.Member {
	out := &domain.Member{
		GuildID: guildID,
		RoleIDs: append([]string(nil), m.Roles...),
	}
	if m.User != nil {
		out.UserID = m.User.ID
	}
	return out
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
