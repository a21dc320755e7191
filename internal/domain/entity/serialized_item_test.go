package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func TestCanTransition_EstadosAdmin(t *testing.T) {
	admin := []entity.ItemStatus{
		entity.ItemStatusAvailable, entity.ItemStatusDamaged, entity.ItemStatusRecalled,
		entity.ItemStatusReservedInternal, entity.ItemStatusMissing,
	}
	for _, from := range admin {
		for _, to := range admin {
			if from == to {
				assert.False(t, entity.CanTransition(from, to), "%s -> %s no es una transición", from, to)
				continue
			}
			assert.True(t, entity.CanTransition(from, to), "%s -> %s debe estar permitido", from, to)
		}
	}
}

func TestCanTransition_SoldEsTerminal(t *testing.T) {
	for _, to := range []entity.ItemStatus{
		entity.ItemStatusAvailable, entity.ItemStatusAllocated, entity.ItemStatusDamaged, entity.ItemStatusMissing,
	} {
		assert.False(t, entity.CanTransition(entity.ItemStatusSold, to))
	}
}

func TestCanTransition_FlujoPedido(t *testing.T) {
	assert.True(t, entity.CanTransition(entity.ItemStatusAvailable, entity.ItemStatusAllocated))
	assert.True(t, entity.CanTransition(entity.ItemStatusAllocated, entity.ItemStatusSold))
	assert.True(t, entity.CanTransition(entity.ItemStatusAllocated, entity.ItemStatusAvailable))
	assert.False(t, entity.CanTransition(entity.ItemStatusDamaged, entity.ItemStatusAllocated))
	assert.False(t, entity.CanTransition(entity.ItemStatusAllocated, entity.ItemStatusDamaged))
}

func TestIsAdminSettable(t *testing.T) {
	assert.True(t, entity.ItemStatusMissing.IsAdminSettable())
	assert.False(t, entity.ItemStatusSold.IsAdminSettable())
	assert.False(t, entity.ItemStatusAllocated.IsAdminSettable())

	_, ok := entity.ParseItemStatus("broken")
	assert.False(t, ok)
	st, ok := entity.ParseItemStatus("reserved_internal")
	assert.True(t, ok)
	assert.Equal(t, entity.ItemStatusReservedInternal, st)
}

func TestAvailabilityDelta(t *testing.T) {
	assert.Equal(t, -1, entity.AvailabilityDelta(entity.ItemStatusAvailable, entity.ItemStatusDamaged))
	assert.Equal(t, 1, entity.AvailabilityDelta(entity.ItemStatusDamaged, entity.ItemStatusAvailable))
	assert.Equal(t, 0, entity.AvailabilityDelta(entity.ItemStatusDamaged, entity.ItemStatusMissing))
	assert.Equal(t, 0, entity.AvailabilityDelta(entity.ItemStatusAvailable, entity.ItemStatusAvailable))
}
