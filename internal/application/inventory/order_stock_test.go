package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func TestOrder_AsignarLiberarVender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uids := f.receiveN(t, "TRF-001", "", 2)

	it, err := f.orders.AllocateItem(ctx, uids[0], "ORD-1", testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusAllocated, it.Status)
	assert.Equal(t, "ORD-1", it.OrderID)
	assert.Equal(t, 1, f.productStock("TRF-001"))

	_, err = f.orders.ReleaseItem(ctx, uids[0], "ORD-2", testActor)
	assert.ErrorIs(t, err, domain.ErrConflict, "otro pedido no puede liberar el artículo")

	it, err = f.orders.ReleaseItem(ctx, uids[0], "ORD-1", testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusAvailable, it.Status)
	assert.Empty(t, it.OrderID)
	assert.Equal(t, 2, f.productStock("TRF-001"))
	assert.Equal(t, 1, f.countMovements(entity.MovementReturn))

	_, err = f.orders.AllocateItem(ctx, uids[0], "ORD-3", testActor)
	require.NoError(t, err)
	_, err = f.orders.SellItem(ctx, uids[0], "ORD-3", testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, f.productStock("TRF-001"), "vender un artículo asignado no vuelve a descontar")

	_, err = f.orders.SellItem(ctx, uids[1], "ORD-4", testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, f.productStock("TRF-001"))
	assert.Equal(t, 3, f.countMovements(entity.MovementSale))
	f.requireConsistent(t)
}

func TestOrder_NoSeAsignaUnArticuloDanado(t *testing.T) {
	f := newFixture(t)
	uids := f.receiveN(t, "TRF-001", "", 1)
	setStatus(t, f, uids[0], "damaged", "")

	_, err := f.orders.AllocateItem(context.Background(), uids[0], "ORD-1", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.orders.ReleaseItem(context.Background(), uids[0], "", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrder_VentaYDevolucionDeVariante(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receiveN(t, "TRF-100", "TRF-100-100G", 3)

	qty, err := f.orders.SellVariant(ctx, "TRF-100-100G", "ORD-9", 2, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	_, err = f.orders.SellVariant(ctx, "TRF-100-100G", "ORD-9", 2, testActor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, err = f.orders.ReturnVariant(ctx, "TRF-100-100G", "ORD-9", 1, testActor)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	_, err = f.orders.SellVariant(ctx, "TRF-100-100G", "ORD-9", 0, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.SellVariant(ctx, "TRF-100-1KG", "ORD-9", 1, testActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.requireConsistent(t)
}
