package inventory_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// Escenario: recibir 3 unidades de TRF-001.
func TestReceive_TresUnidadesProductoSimple(t *testing.T) {
	f := newFixture(t)
	uids := f.receiveN(t, "TRF-001", "", 3)

	pattern := regexp.MustCompile(`^TRF-001-[A-Z0-9]{8}$`)
	seen := map[string]bool{}
	for _, uid := range uids {
		assert.Regexp(t, pattern, uid)
		assert.False(t, seen[uid], "UID repetido %s", uid)
		seen[uid] = true
	}

	items := f.store.Items()
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, entity.ItemStatusAvailable, it.Status)
		assert.Equal(t, "LOT-2024-01", it.BatchNumber)
		assert.NotEmpty(t, it.QRCodePath)
		assert.NotEmpty(t, it.PassportPath)
		assert.NotEmpty(t, it.LabelPath)
	}
	assert.Equal(t, 3, f.productStock("TRF-001"))
	assert.Equal(t, 3, f.countMovements(entity.MovementReceiveSerialized))
	assert.Len(t, f.assets.Files, 9, "tres activos por unidad")
	assert.Equal(t, 3, f.metrics.Received)
	assert.Contains(t, f.audit.Actions(), "inventory.receive:success")
	assert.Equal(t, f.availableSimple(f.truffle.ID), f.productStock("TRF-001"))
	f.requireConsistent(t)
}

func TestReceive_VarianteSumaAlContadorDeLaVariante(t *testing.T) {
	f := newFixture(t)
	f.receiveN(t, "TRF-100", "TRF-100-50G", 4)

	assert.Equal(t, 4, f.variantStock("TRF-100-50G"))
	assert.Equal(t, 0, f.variantStock("TRF-100-100G"))
	assert.Equal(t, 0, f.productStock("TRF-100"), "el contador del producto no se usa en variable_weight")

	stock, err := f.query.ProductStock(context.Background(), "TRF-100")
	require.NoError(t, err)
	assert.Equal(t, 4, stock.AggregateStock)
	assert.Equal(t, 4, stock.ItemsByStatus["available"])
	f.requireConsistent(t)
}

// Si falla la generación de activos de cualquier unidad no persiste nada.
func TestReceive_FalloDeActivosRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.assets.FailOnCall = 3

	_, err := f.receive.Receive(context.Background(), inventory.ReceiveInput{
		ProductCode: "TRF-001", Quantity: 5, Actor: testActor,
	})
	require.Error(t, err)

	assert.Empty(t, f.store.Items(), "no debe persistir ningún artículo")
	assert.Empty(t, f.store.Movements(), "no debe persistir ningún movimiento")
	assert.Empty(t, f.assets.Files, "no deben quedar activos en disco")
	assert.Len(t, f.assets.Removed, 6, "se eliminan los activos de las dos unidades ya generadas")
	assert.Equal(t, 0, f.productStock("TRF-001"))
	assert.Contains(t, f.audit.Actions(), "inventory.receive:failure")
	assert.Empty(t, f.metrics.Movements, "un lote revertido no cuenta movimientos")
	assert.Zero(t, f.metrics.Received)
}

func TestReceive_FalloDelLibroEliminaActivos(t *testing.T) {
	f := newFixture(t)
	f.store.FailMovementCreate = func(m *entity.StockMovement) error {
		return errInjected
	}
	_, err := f.receive.Receive(context.Background(), inventory.ReceiveInput{
		ProductCode: "TRF-001", Quantity: 2, Actor: testActor,
	})
	require.ErrorIs(t, err, errInjected)
	assert.Empty(t, f.assets.Files)
	assert.Empty(t, f.store.Items())
}

func TestReceive_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	neg := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		in   inventory.ReceiveInput
		want error
	}{
		{"cantidad cero", inventory.ReceiveInput{ProductCode: "TRF-001", Quantity: 0}, domain.ErrInvalidInput},
		{"excede el lote máximo", inventory.ReceiveInput{ProductCode: "TRF-001", Quantity: 51}, domain.ErrInvalidInput},
		{"producto desconocido", inventory.ReceiveInput{ProductCode: "NOPE", Quantity: 1}, domain.ErrNotFound},
		{"variable_weight sin variante", inventory.ReceiveInput{ProductCode: "TRF-100", Quantity: 1}, domain.ErrInvalidInput},
		{"simple con variante", inventory.ReceiveInput{ProductCode: "TRF-001", VariantSKU: "TRF-100-50G", Quantity: 1}, domain.ErrInvalidInput},
		{"variante de otro producto", inventory.ReceiveInput{ProductCode: "TRF-100", VariantSKU: "TRF-999-50G", Quantity: 1}, domain.ErrNotFound},
		{"costo negativo", inventory.ReceiveInput{ProductCode: "TRF-001", Quantity: 1, CostPrice: &neg}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.receive.Receive(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.Items())
}

func TestReceiveFromRequest_FechaMalFormada(t *testing.T) {
	f := newFixture(t)
	_, err := f.receive.ReceiveFromRequest(context.Background(), testActor, dto.ReceiveSerializedRequest{
		ProductCode: "TRF-001", Quantity: 1, ProductionDate: "15/01/2024",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := f.receive.ReceiveFromRequest(context.Background(), testActor, dto.ReceiveSerializedRequest{
		ProductCode: "TRF-001", Quantity: 2, ProductionDate: "2024-01-15", ExpiryDate: "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Received)
	assert.Len(t, resp.ItemUIDs, 2)
}
