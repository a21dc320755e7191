package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func TestLedger_RechazaSignoIncoherente(t *testing.T) {
	store := inventorytest.NewStore()
	metrics := inventorytest.NewMetrics()
	ledger := inventory.NewLedger(metrics)
	movs := store.Repos().Movements
	ctx := context.Background()

	_, err := ledger.Record(ctx, movs, inventory.MovementInput{ProductID: "p1", Type: entity.MovementSale, QuantityChange: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sale positiva")

	_, err = ledger.Record(ctx, movs, inventory.MovementInput{ProductID: "p1", Type: entity.MovementReturn, QuantityChange: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "return negativa")

	_, err = ledger.Record(ctx, movs, inventory.MovementInput{ProductID: "p1", Type: "gift", QuantityChange: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.Record(ctx, movs, inventory.MovementInput{Type: entity.MovementSale, QuantityChange: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin producto")

	assert.Empty(t, store.Movements())
	assert.Empty(t, metrics.Movements)
}

func TestLedger_RegistraFila(t *testing.T) {
	store := inventorytest.NewStore()
	metrics := inventorytest.NewMetrics()
	ledger := inventory.NewLedger(metrics)

	var id string
	err := ledger.Run(context.Background(), store, func(r inventory.Repos) error {
		var err error
		id, err = ledger.Record(context.Background(), r.Movements, inventory.MovementInput{
			ProductID: "p1", VariantID: "v1", Type: entity.MovementSale, QuantityChange: -3, RelatedOrderID: "ORD-1",
		})
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, id, movs[0].ID)
	assert.Equal(t, -3, movs[0].QuantityChange)
	assert.Equal(t, "ORD-1", movs[0].RelatedOrderID)
	assert.False(t, movs[0].CreatedAt.IsZero())
	assert.Equal(t, 1, metrics.Movements[entity.MovementSale])
	assert.Equal(t, -3, store.LedgerSum("p1", "v1"))
}

// Una transacción revertida no deja filas ni cuenta movimientos.
func TestLedger_RunRevertidoNoPublicaMetricas(t *testing.T) {
	store := inventorytest.NewStore()
	metrics := inventorytest.NewMetrics()
	ledger := inventory.NewLedger(metrics)
	ctx := context.Background()

	err := ledger.Run(ctx, store, func(r inventory.Repos) error {
		for i := 0; i < 2; i++ {
			if _, err := ledger.Record(ctx, r.Movements, inventory.MovementInput{
				ProductID: "p1", Type: entity.MovementReturn, QuantityChange: 1,
			}); err != nil {
				return err
			}
		}
		return errInjected
	})
	require.ErrorIs(t, err, errInjected)
	assert.Empty(t, store.Movements())
	assert.Empty(t, metrics.Movements)

	// Fuera de Run el libro escribe la fila pero no publica métricas
	_, err = ledger.Record(ctx, store.Repos().Movements, inventory.MovementInput{
		ProductID: "p1", Type: entity.MovementReturn, QuantityChange: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, metrics.Movements)
}
