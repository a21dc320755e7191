package inventory_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

func csvFile(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(inventory.ExportColumns))
	for _, r := range rows {
		full := make([]string, len(inventory.ExportColumns))
		copy(full, r)
		require.NoError(t, w.Write(full))
	}
	w.Flush()
	return buf.Bytes()
}

// row construye una fila con item_uid, product_code, variant_sku_suffix y status.
func row(uid, code, suffix, status string) []string {
	return []string{uid, code, "", "", suffix, "", status, "LOT-CSV", "2024-01-10", "2024-04-10", "12.50", "", "", ""}
}

// 10 filas válidas + 2 con producto desconocido: 10 aplicadas, 2 fallidas sin escrituras.
func TestImport_ExitoParcial(t *testing.T) {
	f := newFixture(t)
	existing := f.receiveN(t, "TRF-001", "", 3)
	itemsBefore := len(f.store.Items())
	movsBefore := len(f.store.Movements())

	var rows [][]string
	for _, uid := range existing {
		rows = append(rows, row(uid, "TRF-001", "", "available"))
	}
	for i := 0; i < 4; i++ {
		rows = append(rows, row("", "TRF-001", "", ""))
	}
	rows = append(rows, row("", "TRF-999", "", ""))
	for i := 0; i < 3; i++ {
		rows = append(rows, row("", "TRF-100", "50G", "available"))
	}
	rows = append(rows, row("", "NOPE-1", "", ""))

	res, err := f.bulk.Import(context.Background(), csvFile(t, rows...), "csv", testActor)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 7, res.Imported)
	assert.Equal(t, 10, res.Imported+res.Updated)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 9, res.Failed[0].Row, "fila de datos 8 = línea 9 del archivo")
	assert.Equal(t, 13, res.Failed[1].Row)
	assert.True(t, strings.Contains(res.Failed[0].Error, "TRF-999"))

	assert.Len(t, f.store.Items(), itemsBefore+7)
	assert.Len(t, f.store.Movements(), movsBefore+7, "solo las filas nuevas escriben en el libro")
	assert.Equal(t, 7, f.countMovements(entity.MovementImportCSVNew))
	assert.Equal(t, 7, f.productStock("TRF-001"))
	assert.Equal(t, 3, f.variantStock("TRF-100-50G"))
	assert.Equal(t, 2, f.metrics.Rows[inventory.ImportResultFailed])
	f.requireConsistent(t)
}

func TestImport_EstadoNoDisponibleRegistraCero(t *testing.T) {
	f := newFixture(t)
	res, err := f.bulk.Import(context.Background(), csvFile(t, row("", "TRF-001", "", "damaged")), "csv", testActor)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	assert.Equal(t, 0, f.productStock("TRF-001"))
	movs := f.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementImportCSVNew, movs[0].MovementType)
	assert.Equal(t, 0, movs[0].QuantityChange)
	f.requireConsistent(t)
}

func TestImport_UIDDeOtroProductoSeRegenera(t *testing.T) {
	f := newFixture(t)
	uids := f.receiveN(t, "TRF-001", "", 1)

	res, err := f.bulk.Import(context.Background(), csvFile(t, row(uids[0], "TRF-100", "100G", "")), "csv", testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 0, res.Updated)

	var newUID string
	for _, it := range f.store.Items() {
		if it.ProductID == f.weighted.ID {
			newUID = it.ItemUID
		}
	}
	assert.Regexp(t, `^TRF-100-[A-Z0-9]{8}$`, newUID)
	assert.Equal(t, 1, f.productStock("TRF-001"), "el artículo original no cambia")
	assert.Equal(t, 1, f.variantStock("TRF-100-100G"))
}

func TestImport_ActualizaEstadoPorLaTablaDeTransiciones(t *testing.T) {
	f := newFixture(t)
	uids := f.receiveN(t, "TRF-001", "", 2)

	res, err := f.bulk.Import(context.Background(), csvFile(t,
		row(uids[0], "TRF-001", "", "damaged"),
		row(uids[1], "TRF-001", "", "allocated"),
	), "csv", testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Failed, 1, "allocated no se fija por importación")
	assert.Equal(t, 3, res.Failed[0].Row)

	assert.Equal(t, 1, f.productStock("TRF-001"))
	assert.Equal(t, 1, f.countMovements(entity.MovementDamage))
	f.requireConsistent(t)
}

func TestImport_FilaMalFormada(t *testing.T) {
	f := newFixture(t)
	bad := row("", "TRF-001", "", "")
	bad[10] = "doce"
	badDate := row("", "TRF-001", "", "")
	badDate[8] = "10/01/2024"
	wrongVariant := row("", "TRF-001", "50G", "")

	res, err := f.bulk.Import(context.Background(), csvFile(t, bad, badDate, wrongVariant), "csv", testActor)
	require.NoError(t, err)
	assert.Len(t, res.Failed, 3)
	assert.Empty(t, f.store.Items())
	assert.Empty(t, f.store.Movements())
}

func TestImport_ArchivoSinColumnaProducto(t *testing.T) {
	f := newFixture(t)
	_, err := f.bulk.Import(context.Background(), []byte("item_uid,status\nX,available\n"), "csv", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.bulk.Import(context.Background(), []byte("x"), "ods", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_ReimportarEsIdempotente(t *testing.T) {
	f := newFixture(t)
	f.receiveN(t, "TRF-001", "", 2)
	f.receiveN(t, "TRF-100", "TRF-100-50G", 1)
	uids := f.store.Items()
	setStatus(t, f, uids[0].ItemUID, "missing", "no encontrado")

	var buf bytes.Buffer
	n, err := f.bulk.Export(context.Background(), &buf, "csv")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, inventory.ExportColumns, records[0])

	movsBefore := len(f.store.Movements())
	res, err := f.bulk.Import(context.Background(), buf.Bytes(), "csv", testActor)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)
	assert.Empty(t, res.Failed, fmt.Sprint(res.Failed))
	assert.Len(t, f.store.Movements(), movsBefore)

	for _, it := range f.store.Items() {
		if it.ItemUID == uids[0].ItemUID {
			assert.Equal(t, 1, strings.Count(it.Notes, "\n")+1, "la bitácora no se duplica")
		}
	}
	f.requireConsistent(t)
}
