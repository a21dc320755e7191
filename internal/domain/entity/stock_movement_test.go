package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// El libro exige que el signo del delta sea coherente con el tipo declarado.
func TestMovementType_AcceptsDelta(t *testing.T) {
	assert.True(t, entity.MovementSale.AcceptsDelta(-2))
	assert.False(t, entity.MovementSale.AcceptsDelta(3), "una venta no puede sumar stock")
	assert.True(t, entity.MovementReturn.AcceptsDelta(1))
	assert.False(t, entity.MovementReturn.AcceptsDelta(-1))
	assert.True(t, entity.MovementImportCSVNew.AcceptsDelta(0))
	assert.False(t, entity.MovementType("gift").AcceptsDelta(1))
}

func TestParseMovementType(t *testing.T) {
	mt, ok := entity.ParseMovementType("receive_serialized")
	assert.True(t, ok)
	assert.Equal(t, entity.MovementReceiveSerialized, mt)

	_, ok = entity.ParseMovementType("ajustement_manuel")
	assert.False(t, ok, "los códigos de ajuste manual no son tipos del libro")
}

func TestAdjustmentType_SignosYMapeo(t *testing.T) {
	at, ok := entity.ParseAdjustmentType("perte")
	assert.True(t, ok)
	assert.True(t, at.AcceptsDelta(-1))
	assert.False(t, at.AcceptsDelta(5))
	assert.Equal(t, entity.MovementDamage, at.MovementType(-1))

	assert.True(t, entity.AdjustmentCorrection.AcceptsDelta(5))
	assert.True(t, entity.AdjustmentCorrection.AcceptsDelta(-5))
	assert.False(t, entity.AdjustmentCorrection.AcceptsDelta(0))
	assert.Equal(t, entity.MovementAdjustmentIn, entity.AdjustmentCorrection.MovementType(5))
	assert.Equal(t, entity.MovementAdjustmentOut, entity.AdjustmentCorrection.MovementType(-5))

	assert.Equal(t, entity.MovementProduction, entity.AdjustmentBatchCreation.MovementType(3))
	assert.Equal(t, entity.MovementReturn, entity.AdjustmentCustomerReturn.MovementType(1))
	assert.False(t, entity.AdjustmentAddition.AcceptsDelta(-1))

	_, ok = entity.ParseAdjustmentType("sale")
	assert.False(t, ok)
}
