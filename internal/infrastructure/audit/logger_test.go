package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []entity.AuditLog
	err     error
}

func (r *memAuditRepo) Create(_ context.Context, e *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

func TestLogger_CompletaYPersiste(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // una petición cancelada no impide la auditoría
	l.Log(ctx, entity.AuditLog{Action: "inventory.adjust", UserID: "u-1"})
	l.Wait()

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, entity.AuditStatusSuccess, e.Status)
}

func TestLogger_ErrorNoSePropaga(t *testing.T) {
	repo := &memAuditRepo{err: errors.New("db caída")}
	l := NewLogger(repo)

	assert.NotPanics(t, func() {
		l.Log(context.Background(), entity.AuditLog{Action: "inventory.reconcile", Status: entity.AuditStatusFailure})
		l.Wait()
	})
	assert.Empty(t, repo.entries)
}
