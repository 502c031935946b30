package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentRequest struct {
	UserID  string `json:"userId"`
	RoleKey string `json:"roleKey"`
}

type AssignmentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AssignmentOutcome string

const (
	AssignmentOutcomeAssigned        AssignmentOutcome = "assigned"
	AssignmentOutcomeBotDisconnected AssignmentOutcome = "bot_disconnected"
	AssignmentOutcomeGuildMissing    AssignmentOutcome = "guild_missing"
	AssignmentOutcomeInvalidRoleKey  AssignmentOutcome = "invalid_role_key"
	AssignmentOutcomeMemberMissing   AssignmentOutcome = "member_missing"
	AssignmentOutcomeTimeout         AssignmentOutcome = "timeout"
	AssignmentOutcomeFailed          AssignmentOutcome = "failed"
)

// AssignmentRecord is the audit entry written for each attempt that reached
// the Discord gateway.
type AssignmentRecord struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	GuildID   string            `db:"guild_id" json:"guild_id"`
	UserID    string            `db:"user_id" json:"user_id"`
	RoleKey   string            `db:"role_key" json:"role_key"`
	RoleID    *string           `db:"role_id" json:"role_id,omitempty"`
	Outcome   AssignmentOutcome `db:"outcome" json:"outcome"`
	Message   string            `db:"message" json:"message"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}
