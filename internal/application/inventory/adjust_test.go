package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func TestAdjust_MasCincoUnaFila(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.Movements())

	resp, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductCode:    "TRF-100",
		VariantSKU:     "TRF-100-50G",
		QuantityChange: 5,
		AdjustmentType: "decouverte_stock",
		Reason:         "inventario físico",
		Actor:          testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.NewQuantity)
	assert.Equal(t, 5, f.variantStock("TRF-100-50G"))

	movs := f.store.Movements()
	require.Len(t, movs, before+1)
	last := movs[len(movs)-1]
	assert.Equal(t, 5, last.QuantityChange)
	assert.Equal(t, entity.MovementAdjustmentIn, last.MovementType)
	assert.Equal(t, "decouverte_stock", last.AdjustmentType)
	assert.Equal(t, resp.MovementID, last.ID)
	f.requireConsistent(t)
}

func TestAdjust_MapeoDeTipos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		code  string
		delta int
		want  entity.MovementType
	}{
		{"creation_lot", 10, entity.MovementProduction},
		{"perte", -2, entity.MovementDamage},
		{"retour_client", 1, entity.MovementReturn},
		{"correction", -1, entity.MovementAdjustmentOut},
		{"ajustement_manuel", 3, entity.MovementAdjustmentIn},
	}
	for _, tc := range cases {
		resp, err := f.adjust.Adjust(ctx, inventory.AdjustInput{
			ProductCode: "TRF-001", QuantityChange: tc.delta, AdjustmentType: tc.code, Reason: "test", Actor: testActor,
		})
		require.NoError(t, err, tc.code)
		movs := f.store.Movements()
		last := movs[len(movs)-1]
		assert.Equal(t, tc.want, last.MovementType, tc.code)
		assert.Equal(t, resp.NewQuantity, f.productStock("TRF-001"))
	}
	assert.Equal(t, 11, f.productStock("TRF-001"))
	f.requireConsistent(t)
}

func TestAdjust_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   inventory.AdjustInput
		want error
	}{
		{"tipo fuera de la lista", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: 1, AdjustmentType: "sale", Reason: "x"}, domain.ErrInvalidInput},
		{"delta cero", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: 0, AdjustmentType: "correction", Reason: "x"}, domain.ErrInvalidInput},
		{"perte positiva", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: 2, AdjustmentType: "perte", Reason: "x"}, domain.ErrInvalidInput},
		{"addition negativa", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: -2, AdjustmentType: "addition", Reason: "x"}, domain.ErrInvalidInput},
		{"sin motivo", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: 1, AdjustmentType: "addition"}, domain.ErrInvalidInput},
		{"producto desconocido", inventory.AdjustInput{ProductCode: "NOPE", QuantityChange: 1, AdjustmentType: "addition", Reason: "x"}, domain.ErrNotFound},
		{"variante desconocida", inventory.AdjustInput{ProductCode: "TRF-100", VariantSKU: "TRF-100-1KG", QuantityChange: 1, AdjustmentType: "addition", Reason: "x"}, domain.ErrNotFound},
		{"stock negativo", inventory.AdjustInput{ProductCode: "TRF-001", QuantityChange: -1, AdjustmentType: "perte", Reason: "x"}, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.adjust.Adjust(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.Movements(), "ningún ajuste rechazado escribe en el libro")
}
