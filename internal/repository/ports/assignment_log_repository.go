package ports

import (
	"context"

	"github.com/syria-community/role-bridge/internal/domain"
)

type AssignmentLogRepository interface {
	Record(ctx context.Context, record *domain.AssignmentRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.AssignmentRecord, error)
}
