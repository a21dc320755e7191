package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// Formatos de transferencia masiva.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Resultados de fila de importación (etiqueta de métrica).
const (
	ImportResultImported = "imported"
	ImportResultUpdated  = "updated"
	ImportResultFailed   = "failed"
)

const importActor = "import"

// ExportColumns columnas fijas del volcado de artículos serializados.
var ExportColumns = []string{
	"item_uid", "product_code", "product_name_fr", "product_name_en",
	"variant_sku_suffix", "variant_weight_grams", "status", "batch_number",
	"production_date", "expiry_date", "cost_price", "actual_weight_grams",
	"notes", "received_at",
}

// BulkTransferUseCase exporta e importa artículos serializados en CSV o XLSX.
type BulkTransferUseCase struct {
	txRunner TxRunner
	reader   Repos
	codec    TableCodec
	assets   AssetGenerator
	ledger   *Ledger
	audit    AuditLogger
	metrics  Metrics
}

// NewBulkTransferUseCase construye el caso de uso. reader son repositorios atados al pool.
func NewBulkTransferUseCase(txRunner TxRunner, reader Repos, codec TableCodec, assets AssetGenerator, ledger *Ledger, audit AuditLogger, metrics Metrics) *BulkTransferUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &BulkTransferUseCase{
		txRunner: txRunner,
		reader:   reader,
		codec:    codec,
		assets:   assets,
		ledger:   ledger,
		audit:    audit,
		metrics:  metrics,
	}
}

// ParseFormat normaliza el formato ("csv" por defecto).
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: formato %q no soportado (csv|xlsx)", domain.ErrInvalidInput, s)
}

// Export escribe un artículo por fila con los metadatos de producto y variante.
func (uc *BulkTransferUseCase) Export(ctx context.Context, w io.Writer, format string) (int, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return 0, err
	}
	rows, err := uc.reader.Items.ListForExport(ctx)
	if err != nil {
		return 0, err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ItemUID,
			r.ProductCode,
			r.ProductNameFR,
			r.ProductNameEN,
			r.VariantSKUSuffix,
			formatDecimal(r.VariantWeightGrams),
			string(r.Status),
			r.BatchNumber,
			formatDate(r.ProductionDate),
			formatDate(r.ExpiryDate),
			formatDecimal(r.CostPrice),
			formatDecimal(r.ActualWeightGrams),
			r.Notes,
			r.ReceivedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := uc.codec.Encode(w, format, ExportColumns, out); err != nil {
		return 0, fmt.Errorf("exportar artículos: %w", err)
	}
	return len(out), nil
}

// importRow fila de importación ya validada sintácticamente.
type importRow struct {
	line              int
	itemUID           string
	productCode       string
	variantSuffix     string
	status            entity.ItemStatus
	batchNumber       string
	productionDate    *time.Time
	expiryDate        *time.Time
	costPrice         *decimal.Decimal
	actualWeightGrams *decimal.Decimal
	notes             string
}

// Import procesa cada fila en su propia transacción: una fila inválida se reporta en
// Failed sin afectar a las demás. Un item_uid existente del mismo producto se actualiza;
// en otro caso se inserta (con UID nuevo si falta o pertenece a otro producto).
func (uc *BulkTransferUseCase) Import(ctx context.Context, data []byte, format string, actor Actor) (*dto.ImportResult, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	table, err := uc.codec.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: archivo ilegible: %v", domain.ErrInvalidInput, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	cols := indexHeader(table[0])
	if _, ok := cols["product_code"]; !ok {
		return nil, fmt.Errorf("%w: falta la columna product_code", domain.ErrInvalidInput)
	}

	res := &dto.ImportResult{Failed: []dto.ImportFailure{}}
	for i, record := range table[1:] {
		line := i + 2
		if isBlankRecord(record) {
			continue
		}
		row, err := parseImportRow(line, cols, record)
		if err == nil {
			var updated bool
			updated, err = uc.importRow(ctx, row, actor)
			if err == nil {
				if updated {
					res.Updated++
					uc.metrics.ImportRow(ImportResultUpdated)
				} else {
					res.Imported++
					uc.metrics.ImportRow(ImportResultImported)
				}
				continue
			}
		}
		uc.metrics.ImportRow(ImportResultFailed)
		res.Failed = append(res.Failed, dto.ImportFailure{Row: line, ItemUID: cell(cols, record, "item_uid"), Error: err.Error()})
		if !isRowError(err) {
			log.Error().Err(err).Int("row", line).Msg("importación: error inesperado en fila")
		}
	}

	uc.audit.Log(ctx, entity.AuditLog{
		Action:     "inventory.import",
		UserID:     actor.UserID,
		TargetType: "serialized_item",
		TargetID:   format,
		Details:    map[string]any{"imported": res.Imported, "updated": res.Updated, "failed": len(res.Failed)},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  actor.IP,
	})
	return res, nil
}

// importRow aplica una fila. Devuelve true si actualizó un artículo existente.
func (uc *BulkTransferUseCase) importRow(ctx context.Context, row importRow, actor Actor) (bool, error) {
	var updated bool
	var written []string
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		written = written[:0]
		product, err := r.Products.GetByCodeForUpdate(ctx, row.productCode)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, row.productCode)
		}
		variant, err := resolveImportVariant(ctx, r, product, row.variantSuffix)
		if err != nil {
			return err
		}

		if row.itemUID != "" {
			existing, err := r.Items.GetByUIDForUpdate(ctx, row.itemUID)
			if err != nil {
				return err
			}
			if existing != nil && existing.ProductID == product.ID {
				updated = true
				return uc.updateItem(ctx, r, existing, variant, row, actor)
			}
		}
		paths, err := uc.insertItem(ctx, r, product, variant, row, actor)
		written = paths
		return err
	})
	if err != nil && len(written) > 0 {
		uc.assets.Remove(written...)
	}
	return updated, err
}

func resolveImportVariant(ctx context.Context, r Repos, product *entity.Product, suffix string) (*entity.ProductWeightOption, error) {
	if suffix == "" {
		if product.IsVariableWeight() {
			return nil, fmt.Errorf("%w: el producto %s requiere variant_sku_suffix", domain.ErrInvalidInput, product.Code)
		}
		return nil, nil
	}
	if !product.IsVariableWeight() {
		return nil, fmt.Errorf("%w: el producto %s no tiene variantes", domain.ErrInvalidInput, product.Code)
	}
	variant, err := r.Variants.GetByProductAndSuffix(ctx, product.ID, suffix)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, fmt.Errorf("%w: variante %s del producto %s", domain.ErrNotFound, suffix, product.Code)
	}
	// El contador que se modifica es el de la variante: se bloquea como en resolveTarget.
	return r.Variants.GetBySKUForUpdate(ctx, variant.SKU)
}

func (uc *BulkTransferUseCase) updateItem(ctx context.Context, r Repos, item *entity.SerializedInventoryItem, variant *entity.ProductWeightOption, row importRow, actor Actor) error {
	if variantID(variant) != item.VariantID {
		return fmt.Errorf("%w: no se puede cambiar la variante del artículo %s", domain.ErrInvalidInput, item.ItemUID)
	}
	if row.batchNumber != "" {
		item.BatchNumber = row.batchNumber
	}
	if row.productionDate != nil {
		item.ProductionDate = row.productionDate
	}
	if row.expiryDate != nil {
		item.ExpiryDate = row.expiryDate
	}
	if row.costPrice != nil {
		item.CostPrice = row.costPrice
	}
	if row.actualWeightGrams != nil {
		item.ActualWeightGrams = row.actualWeightGrams
	}
	now := time.Now().UTC()
	item.Notes = mergeNotes(item.Notes, row.notes, now, actorName(actor))
	item.UpdatedAt = now

	if row.status != "" && row.status != item.Status {
		if !row.status.IsAdminSettable() {
			return fmt.Errorf("%w: estado %q no permitido en importación", domain.ErrInvalidInput, row.status)
		}
		return transitionItem(ctx, r, uc.ledger, item, transition{
			To:    row.status,
			Actor: actorName(actor),
			Notes: "importación",
		})
	}
	return r.Items.Update(ctx, item)
}

func (uc *BulkTransferUseCase) insertItem(ctx context.Context, r Repos, product *entity.Product, variant *entity.ProductWeightOption, row importRow, actor Actor) ([]string, error) {
	status := row.status
	if status == "" {
		status = entity.ItemStatusAvailable
	}
	if !status.IsAdminSettable() {
		return nil, fmt.Errorf("%w: estado %q no permitido en importación", domain.ErrInvalidInput, status)
	}
	if variant != nil && !variant.Active && status == entity.ItemStatusAvailable {
		return nil, fmt.Errorf("%w: la variante %s está inactiva", domain.ErrInvalidInput, variant.SKU)
	}

	uid := row.itemUID
	if uid != "" {
		exists, err := r.Items.ExistsUID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if exists {
			log.Info().Str("item_uid", uid).Str("product_code", product.Code).
				Msg("importación: item_uid de otro producto, se genera uno nuevo")
			uid = ""
		}
	}
	if uid == "" {
		var err error
		if uid, err = mintItemUID(ctx, r.Items, product.Code, nil); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	item := &entity.SerializedInventoryItem{
		ID:                uuid.New().String(),
		ItemUID:           uid,
		ProductID:         product.ID,
		VariantID:         variantID(variant),
		Status:            status,
		BatchNumber:       row.batchNumber,
		ProductionDate:    row.productionDate,
		ExpiryDate:        row.expiryDate,
		CostPrice:         row.costPrice,
		ActualWeightGrams: row.actualWeightGrams,
		Notes:             mergeNotes("", row.notes, now, actorName(actor)),
		ReceivedAt:        now,
		UpdatedAt:         now,
	}

	var written []string
	if uc.assets != nil {
		var category *entity.Category
		if product.CategoryID != "" {
			var err error
			if category, err = r.Categories.GetByID(ctx, product.CategoryID); err != nil {
				return nil, err
			}
		}
		paths, err := uc.assets.Generate(ctx, AssetInput{Item: item, Product: product, Variant: variant, Category: category})
		if err != nil {
			return nil, fmt.Errorf("generar activos de %s: %w", uid, err)
		}
		written = paths.All()
		item.QRCodePath = paths.QRCode
		item.PassportPath = paths.Passport
		item.LabelPath = paths.Label
	}

	if err := r.Items.Create(ctx, item); err != nil {
		return written, err
	}
	delta := 0
	if status == entity.ItemStatusAvailable {
		delta = 1
	}
	_, _, err := ApplyMovement(ctx, r, uc.ledger, MovementInput{
		ProductID:         product.ID,
		VariantID:         item.VariantID,
		SerializedItemID:  item.ID,
		RelatedUserID:     actor.UserID,
		Type:              entity.MovementImportCSVNew,
		QuantityChange:    delta,
		WeightChangeGrams: row.actualWeightGrams,
		Reason:            "importación masiva",
		Notes:             fmt.Sprintf("fila %d", row.line),
	})
	return written, err
}

// mergeNotes mantiene la bitácora como solo-agregar: si el archivo trae la bitácora
// exportada más líneas nuevas, se adopta; si trae otro texto, se agrega como línea nueva.
func mergeNotes(existing, imported string, at time.Time, actor string) string {
	imported = strings.TrimSpace(imported)
	switch {
	case imported == "" || imported == existing:
		return existing
	case existing == "":
		return imported
	case strings.HasPrefix(imported, existing+"\n"):
		return imported
	case strings.Contains(existing, imported):
		return existing
	}
	return appendNote(existing, at, actor, "importación", imported)
}

func parseImportRow(line int, cols map[string]int, record []string) (importRow, error) {
	row := importRow{
		line:          line,
		itemUID:       cell(cols, record, "item_uid"),
		productCode:   cell(cols, record, "product_code"),
		variantSuffix: cell(cols, record, "variant_sku_suffix"),
		batchNumber:   cell(cols, record, "batch_number"),
		notes:         cell(cols, record, "notes"),
	}
	if row.productCode == "" {
		return row, fmt.Errorf("%w: product_code vacío", domain.ErrInvalidInput)
	}
	if s := cell(cols, record, "status"); s != "" {
		st, ok := entity.ParseItemStatus(s)
		if !ok {
			return row, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s)
		}
		row.status = st
	}
	var err error
	if row.productionDate, err = parseDate(cell(cols, record, "production_date"), "production_date"); err != nil {
		return row, err
	}
	if row.expiryDate, err = parseDate(cell(cols, record, "expiry_date"), "expiry_date"); err != nil {
		return row, err
	}
	if row.costPrice, err = parseDecimal(cell(cols, record, "cost_price"), "cost_price"); err != nil {
		return row, err
	}
	if row.costPrice != nil && row.costPrice.IsNegative() {
		return row, fmt.Errorf("%w: cost_price negativo", domain.ErrInvalidInput)
	}
	if row.actualWeightGrams, err = parseDecimal(cell(cols, record, "actual_weight_grams"), "actual_weight_grams"); err != nil {
		return row, err
	}
	if row.actualWeightGrams != nil && !row.actualWeightGrams.IsPositive() {
		return row, fmt.Errorf("%w: actual_weight_grams debe ser > 0", domain.ErrInvalidInput)
	}
	return row, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if h != "" {
			cols[h] = i
		}
	}
	return cols
}

func cell(cols map[string]int, record []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// isRowError indica si err es un fallo de datos de la fila (esperado) y no de infraestructura.
func isRowError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrConflict)
}

func parseDecimal(s, field string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("%w: %s no es numérico", domain.ErrInvalidInput, field)
	}
	return &d, nil
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func actorName(a Actor) string {
	if a.UserID == "" {
		return importActor
	}
	return a.UserID
}
