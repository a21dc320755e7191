package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture común: almacén en memoria + casos de uso cableados
// ──────────────────────────────────────────────────────────────────────────────

var testActor = inventory.Actor{UserID: "admin-1", IP: "127.0.0.1"}

var errInjected = inventorytest.ErrInjected

type fixture struct {
	store   *inventorytest.Store
	assets  *inventorytest.Assets
	audit   *inventorytest.Audit
	metrics *inventorytest.Metrics
	ledger  *inventory.Ledger

	receive   *inventory.ReceiveUseCase
	status    *inventory.ItemStatusUseCase
	adjust    *inventory.AdjustUseCase
	bulk      *inventory.BulkTransferUseCase
	reconcile *inventory.ReconcileUseCase
	orders    *inventory.OrderStockUseCase
	query     *inventory.StockQueryUseCase

	truffle  *entity.Product // TRF-001, simple
	weighted *entity.Product // TRF-100, variable_weight
	v50      *entity.ProductWeightOption
	v100     *entity.ProductWeightOption
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   inventorytest.NewStore(),
		assets:  inventorytest.NewAssets(),
		audit:   &inventorytest.Audit{},
		metrics: inventorytest.NewMetrics(),
	}
	f.ledger = inventory.NewLedger(f.metrics)
	f.receive = inventory.NewReceiveUseCase(f.store, f.assets, f.ledger, f.audit, f.metrics, 50)
	f.status = inventory.NewItemStatusUseCase(f.store, f.ledger, f.audit)
	f.adjust = inventory.NewAdjustUseCase(f.store, f.ledger, f.audit)
	f.bulk = inventory.NewBulkTransferUseCase(f.store, f.store.Repos(), inventorytest.CSVCodec{}, f.assets, f.ledger, f.audit, f.metrics)
	f.reconcile = inventory.NewReconcileUseCase(f.store, f.store.Repos(), f.audit, f.metrics)
	f.orders = inventory.NewOrderStockUseCase(f.store, f.ledger, f.audit)
	f.query = inventory.NewStockQueryUseCase(f.store.Repos(), f.assets)

	cat := f.store.SeedCategory("NOIRE")
	f.truffle = f.store.SeedProduct("TRF-001", entity.ProductTypeSimple, cat.ID)
	f.weighted = f.store.SeedProduct("TRF-100", entity.ProductTypeVariableWeight, cat.ID)
	f.v50 = f.store.SeedVariant(f.weighted, "50G", 50)
	f.v100 = f.store.SeedVariant(f.weighted, "100G", 100)
	return f
}

// receiveN recibe n unidades y devuelve sus UIDs.
func (f *fixture) receiveN(t *testing.T, code, sku string, n int) []string {
	t.Helper()
	uids, err := f.receive.Receive(context.Background(), inventory.ReceiveInput{
		ProductCode: code,
		VariantSKU:  sku,
		Quantity:    n,
		BatchNumber: "LOT-2024-01",
		Actor:       testActor,
	})
	require.NoError(t, err)
	require.Len(t, uids, n)
	return uids
}

func (f *fixture) productStock(code string) int {
	return f.store.Product(code).StockQuantity
}

func (f *fixture) variantStock(sku string) int {
	return f.store.Variant(sku).AggregateStockQuantity
}

func (f *fixture) countMovements(mt entity.MovementType) int {
	n := 0
	for _, m := range f.store.Movements() {
		if m.MovementType == mt {
			n++
		}
	}
	return n
}

func (f *fixture) availableSimple(productID string) int {
	n := 0
	for _, it := range f.store.Items() {
		if it.ProductID == productID && it.VariantID == "" && it.Status == entity.ItemStatusAvailable {
			n++
		}
	}
	return n
}

// requireConsistent verifica contador == Σ libro para el producto simple y las variantes.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	require.Equal(t, f.store.LedgerSum(f.truffle.ID, ""), f.productStock("TRF-001"), "TRF-001: contador distinto del libro")
	for _, v := range []*entity.ProductWeightOption{f.v50, f.v100} {
		require.Equal(t, f.store.LedgerSum(f.weighted.ID, v.ID), f.variantStock(v.SKU), "%s: contador distinto del libro", v.SKU)
	}
}
