package repository

import (
	"context"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// AuditLogRepository define el puerto de persistencia de la bitácora de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
}
