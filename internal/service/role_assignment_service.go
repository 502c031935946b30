package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syria-community/role-bridge/internal/domain"
	"github.com/syria-community/role-bridge/internal/repository/ports"
)

var (
	ErrInvalidRequest         = errors.New("missing user id or role key")
	ErrBotNotConnected        = errors.New("bot is not connected to discord")
	ErrGuildNotFound          = errors.New("guild not found or bot is not in server")
	ErrInvalidRoleKey         = errors.New("invalid role key")
	ErrMemberNotFound         = errors.New("user not found in server")
	ErrPlatformTimeout        = errors.New("discord request timed out")
	ErrAssignmentLogDisabled  = errors.New("assignment log not configured")
	defaultPlatformTimeout    = 10 * time.Second
	defaultAssignmentLogLimit = 20
	maxAssignmentLogLimit     = 100
)

// PlatformError carries a failure reported by Discord. Its message is the raw
// platform message so callers can surface it unchanged.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return e.Err.Error()
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

type RoleAssignmentConfig struct {
	GuildID        string
	RequestTimeout time.Duration
}

type RoleAssignmentService struct {
	gateway ports.GuildGateway
	roles   *domain.RoleTable
	log     ports.AssignmentLogRepository
	guildID string
	timeout time.Duration
	now     func() time.Time
}

// NewRoleAssignmentService wires the service. assignmentLog may be nil, in
// which case attempts are not recorded.
func NewRoleAssignmentService(gateway ports.GuildGateway, roles *domain.RoleTable, assignmentLog ports.AssignmentLogRepository, cfg RoleAssignmentConfig) (*RoleAssignmentService, error) {
	if roles == nil || roles.Len() == 0 {
		return nil, domain.ErrEmptyRoleTable
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultPlatformTimeout
	}
	return &RoleAssignmentService{
		gateway: gateway,
		roles:   roles,
		log:     assignmentLog,
		guildID: strings.TrimSpace(cfg.GuildID),
		timeout: timeout,
		now:     time.Now,
	}, nil
}

// Assign grants the role registered under roleKey to userID in the configured
// guild. Checks run in order and stop at the first failure.
func (s *RoleAssignmentService) Assign(ctx context.Context, userID, roleKey string) (*domain.AssignmentResult, error) {
	userID = strings.TrimSpace(userID)
	roleKey = strings.TrimSpace(roleKey)
	if userID == "" || roleKey == "" {
		return nil, ErrInvalidRequest
	}

	record := &domain.AssignmentRecord{
		GuildID: s.guildID,
		UserID:  userID,
		RoleKey: roleKey,
	}

	err := s.assign(ctx, record)
	s.finish(ctx, record, err)
	if err != nil {
		return nil, err
	}
	return &domain.AssignmentResult{
		Success: true,
		Message: fmt.Sprintf("Role %s Assigned Successfully", roleKey),
	}, nil
}

func (s *RoleAssignmentService) assign(ctx context.Context, record *domain.AssignmentRecord) error {
	if !s.gateway.IsReady() {
		return ErrBotNotConnected
	}

	guildCtx, cancel := context.WithTimeout(ctx, s.timeout)
	_, err := s.gateway.Guild(guildCtx, s.guildID)
	cancel()
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrGuildNotFound):
			return ErrGuildNotFound
		case errors.Is(err, context.DeadlineExceeded):
			return ErrPlatformTimeout
		default:
			return &PlatformError{Op: "lookup guild", Err: err}
		}
	}

	memberCtx, cancel := context.WithTimeout(ctx, s.timeout)
	member, err := s.gateway.FetchMember(memberCtx, s.guildID, record.UserID)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrPlatformTimeout
		}
		if !errors.Is(err, ports.ErrMemberNotFound) {
			log.Printf("role assignment: member lookup for %s failed: %v", record.UserID, err)
		}
		return ErrMemberNotFound
	}

	roleID, ok := s.roles.Lookup(record.RoleKey)
	if !ok {
		return ErrInvalidRoleKey
	}
	record.RoleID = &roleID

	// Discord treats re-adding a held role as a no-op; the call is still made.
	if member.HasRole(roleID) {
		log.Printf("role assignment: %s already has role %s", record.UserID, record.RoleKey)
	}

	addCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.gateway.AddRole(addCtx, s.guildID, record.UserID, roleID)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrPlatformTimeout
		}
		return &PlatformError{Op: "add role", Err: err}
	}
	return nil
}

func (s *RoleAssignmentService) finish(ctx context.Context, record *domain.AssignmentRecord, err error) {
	if s.log == nil {
		return
	}

	record.ID = uuid.New()
	record.CreatedAt = s.now().UTC()
	record.Outcome = outcomeFor(err)
	if err != nil {
		record.Message = err.Error()
	} else {
		record.Message = fmt.Sprintf("Role %s Assigned Successfully", record.RoleKey)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if werr := s.log.Record(writeCtx, record); werr != nil {
		log.Printf("role assignment: record attempt %s: %v", record.ID, werr)
	}
}

func outcomeFor(err error) domain.AssignmentOutcome {
	switch {
	case err == nil:
		return domain.AssignmentOutcomeAssigned
	case errors.Is(err, ErrBotNotConnected):
		return domain.AssignmentOutcomeBotDisconnected
	case errors.Is(err, ErrGuildNotFound):
		return domain.AssignmentOutcomeGuildMissing
	case errors.Is(err, ErrInvalidRoleKey):
		return domain.AssignmentOutcomeInvalidRoleKey
	case errors.Is(err, ErrMemberNotFound):
		return domain.AssignmentOutcomeMemberMissing
	case errors.Is(err, ErrPlatformTimeout):
		return domain.AssignmentOutcomeTimeout
	default:
		return domain.AssignmentOutcomeFailed
	}
}

// RoleKeys lists the keys clients may request.
func (s *RoleAssignmentService) RoleKeys() []string {
	return s.roles.Keys()
}

func (s *RoleAssignmentService) Ready() bool {
	return s.gateway.IsReady()
}

func (s *RoleAssignmentService) RecentAssignments(ctx context.Context, limit int) ([]domain.AssignmentRecord, error) {
	if s.log == nil {
		return nil, ErrAssignmentLogDisabled
	}
	if limit <= 0 {
		limit = defaultAssignmentLogLimit
	}
	if limit > maxAssignmentLogLimit {
		limit = maxAssignmentLogLimit
	}
	return s.log.ListRecent(ctx, limit)
}
