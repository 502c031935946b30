package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/syria-community/role-bridge/internal/domain"
)

// ErrAssignmentLogMissing is returned when the role_assignment_log table has
// not been created. See migrations/0001_role_assignment_log.sql.
var ErrAssignmentLogMissing = errors.New("role_assignment_log table does not exist")

const undefinedTableCode = "42P01"

type AssignmentLogRepository struct {
	db *sqlx.DB
}

func NewAssignmentLogRepo(db *sqlx.DB) *AssignmentLogRepository {
	return &AssignmentLogRepository{db: db}
}

func (r *AssignmentLogRepository) Record(ctx context.Context, record *domain.AssignmentRecord) error {
	const query = `
		INSERT INTO role_assignment_log (
			id, guild_id, user_id, role_key, role_id, outcome, message, created_at
		) VALUES (
			:id, :guild_id, :user_id, :role_key, :role_id, :outcome, :message, :created_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, record)
	return classify(err)
}

func (r *AssignmentLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.AssignmentRecord, error) {
	const query = `
		SELECT id, guild_id, user_id, role_key, role_id, outcome, message, created_at
		FROM role_assignment_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	var records []domain.AssignmentRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return fmt.Errorf("%w: %s", ErrAssignmentLogMissing, pgErr.Message)
	}
	return err
}
