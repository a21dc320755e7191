package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func TestInventory_Contadores(t *testing.T) {
	reg := NewRegistry()
	m := NewInventory(reg)

	m.MovementRecorded(entity.MovementSale)
	m.MovementRecorded(entity.MovementSale)
	m.MovementRecorded(entity.MovementReturn)
	m.ItemsReceived(3)
	m.ItemsReceived(0)
	m.ImportRow("failed")
	m.ReconcileDrift(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("sale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("return")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.received))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRow.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.drift))
}

func TestHandler_Expone(t *testing.T) {
	reg := NewRegistry()
	NewInventory(reg).ItemsReceived(1)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory_items_received_total 1")
}
