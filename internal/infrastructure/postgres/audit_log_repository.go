package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo persistencia de audit_logs.
type AuditLogRepo struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository construye el adaptador de auditoría.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

// Create inserta una entrada; details se guarda como JSONB.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, user_id, target_type, target_id, details, status, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Action, nullIfEmpty(e.UserID), e.TargetType, e.TargetID, raw, e.Status, e.IPAddress, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
