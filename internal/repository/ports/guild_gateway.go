package ports

import (
	"context"
	"errors"

	"github.com/syria-community/role-bridge/internal/domain"
)

var (
	ErrGuildNotFound  = errors.New("guild not found")
	ErrMemberNotFound = errors.New("member not found")
)

// GuildGateway is the bot's view of the Discord connection. Implementations
// must be safe for concurrent use.
type GuildGateway interface {
	IsReady() bool
	Guild(ctx context.Context, guildID string) (*domain.Guild, error)
	FetchMember(ctx context.Context, guildID, userID string) (*domain.Member, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
}
