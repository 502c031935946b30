package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/syria-community/role-bridge/internal/repository/ports"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := New("test-token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return g
}

func TestEmptyTokenGatewayNeverLogsIn(t *testing.T) {
	g, err := New("   ")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := g.Open(); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if g.IsReady() {
		t.Fatal("expected gateway without token to stay not ready")
	}
}

func TestNewPrefixesBotToken(t *testing.T) {
	g := newTestGateway(t)
	if g.session.Token != "Bot test-token" {
		t.Fatalf("expected bot-prefixed token, got %q", g.session.Token)
	}
	want := discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	if g.session.Identify.Intents != want {
		t.Fatalf("expected intents %v, got %v", want, g.session.Identify.Intents)
	}
}

func TestReadinessFollowsGatewayEvents(t *testing.T) {
	g := newTestGateway(t)
	if g.IsReady() {
		t.Fatal("expected gateway to start not ready")
	}

	g.onReady(g.session, &discordgo.Ready{User: &discordgo.User{Username: "syria-bot"}})
	if !g.IsReady() {
		t.Fatal("expected gateway to be ready after Ready event")
	}

	g.onDisconnect(g.session, &discordgo.Disconnect{})
	if g.IsReady() {
		t.Fatal("expected gateway to be not ready after Disconnect event")
	}

	g.onResumed(g.session, &discordgo.Resumed{})
	if !g.IsReady() {
		t.Fatal("expected gateway to be ready after Resumed event")
	}
}

func TestGuildLookupUsesState(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	if _, err := g.Guild(ctx, "100"); !errors.Is(err, ports.ErrGuildNotFound) {
		t.Fatalf("expected ErrGuildNotFound, got %v", err)
	}

	if err := g.session.State.GuildAdd(&discordgo.Guild{ID: "100", Name: "Syria"}); err != nil {
		t.Fatalf("GuildAdd returned error: %v", err)
	}
	guild, err := g.Guild(ctx, "100")
	if err != nil {
		t.Fatalf("Guild returned error: %v", err)
	}
	if guild.ID != "100" {
		t.Fatalf("unexpected guild %+v", guild)
	}
}

func TestFetchMemberFromState(t *testing.T) {
	g := newTestGateway(t)
	if err := g.session.State.GuildAdd(&discordgo.Guild{ID: "100"}); err != nil {
		t.Fatalf("GuildAdd returned error: %v", err)
	}
	if err := g.session.State.MemberAdd(&discordgo.Member{
		GuildID: "100",
		User:    &discordgo.User{ID: "123", Username: "sami"},
		Roles:   []string{"699296516455661709"},
	}); err != nil {
		t.Fatalf("MemberAdd returned error: %v", err)
	}

	member, err := g.FetchMember(context.Background(), "100", "123")
	if err != nil {
		t.Fatalf("FetchMember returned error: %v", err)
	}
	if member.UserID != "123" || member.GuildID != "100" {
		t.Fatalf("unexpected member %+v", member)
	}
	if !member.HasRole("699296516455661709") {
		t.Fatal("expected member roles to be copied")
	}
}

func TestIsUnknownMember(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown member code", &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}, true},
		{"unknown user code", &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownUser}}, true},
		{"404 status", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}, true},
		{"forbidden", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUnknownMember(tc.err); got != tc.want {
				t.Fatalf("isUnknownMember() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOfflineGatewayIsNeverReady(t *testing.T) {
	var g ports.GuildGateway = Offline{}
	ctx := context.Background()
	if g.IsReady() {
		t.Fatal("expected offline gateway to be not ready")
	}
	if _, err := g.Guild(ctx, "100"); !errors.Is(err, ports.ErrGuildNotFound) {
		t.Fatalf("expected ErrGuildNotFound, got %v", err)
	}
	if _, err := g.FetchMember(ctx, "100", "123"); !errors.Is(err, ports.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
