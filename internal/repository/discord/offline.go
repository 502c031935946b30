package discord

import (
	"context"

	"github.com/syria-community/role-bridge/internal/domain"
	"github.com/syria-community/role-bridge/internal/repository/ports"
)

// Offline stands in for a gateway whose session could not be created. It is
// never ready and resolves nothing.
type Offline struct{}

var _ ports.GuildGateway = Offline{}

func (Offline) IsReady() bool { return false }

func (Offline) Guild(context.Context, string) (*domain.Guild, error) {
	return nil, ports.ErrGuildNotFound
}

func (Offline) FetchMember(context.Context, string, string) (*domain.Member, error) {
	return nil, ports.ErrMemberNotFound
}

func (Offline) AddRole(context.Context, string, string, string) error {
	return ErrMissingToken
}
