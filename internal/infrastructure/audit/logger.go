// Package audit persiste la bitácora de acciones administrativas fuera del camino crítico.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

const defaultTimeout = 5 * time.Second

var _ inventory.AuditLogger = (*Logger)(nil)

// Logger inserta entradas de auditoría en una goroutine con su propio timeout.
// Los errores se registran en el log y nunca llegan al llamador.
type Logger struct {
	repo    repository.AuditLogRepository
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewLogger construye el logger de auditoría.
func NewLogger(repo repository.AuditLogRepository) *Logger {
	return &Logger{repo: repo, timeout: defaultTimeout}
}

// Log encola la entrada. El contexto del request no se usa para la inserción:
// la entrada debe sobrevivir a la cancelación de la petición.
func (l *Logger) Log(_ context.Context, entry entity.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = entity.AuditStatusSuccess
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.repo.Create(ctx, &entry); err != nil {
			log.Error().Err(err).
				Str("action", entry.Action).
				Str("target_id", entry.TargetID).
				Msg("audit: no se pudo registrar la entrada")
		}
	}()
}

// Wait bloquea hasta que terminen las inserciones pendientes (apagado ordenado).
func (l *Logger) Wait() {
	l.wg.Wait()
}
