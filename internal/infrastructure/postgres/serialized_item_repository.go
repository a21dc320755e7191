package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

var _ repository.SerializedItemRepository = (*SerializedItemRepo)(nil)

const itemColumns = `id, item_uid, product_id, variant_id, status, batch_number, production_date, expiry_date,
	cost_price, actual_weight_grams, qr_code_path, passport_path, label_path, notes, order_id,
	received_at, updated_at`

// SerializedItemRepo persistencia de serialized_inventory_items.
type SerializedItemRepo struct {
	q Querier
}

// NewSerializedItemRepository construye el adaptador de artículos serializados.
func NewSerializedItemRepository(q Querier) *SerializedItemRepo {
	return &SerializedItemRepo{q: q}
}

// Create inserta un artículo. Un item_uid repetido devuelve ErrDuplicate.
func (r *SerializedItemRepo) Create(ctx context.Context, it *entity.SerializedInventoryItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO serialized_inventory_items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		it.ID, it.ItemUID, it.ProductID, nullIfEmpty(it.VariantID), string(it.Status), it.BatchNumber,
		it.ProductionDate, it.ExpiryDate, it.CostPrice, it.ActualWeightGrams,
		it.QRCodePath, it.PassportPath, it.LabelPath, it.Notes, nullIfEmpty(it.OrderID),
		it.ReceivedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, it.ItemUID)
		}
		return fmt.Errorf("insert serialized item: %w", err)
	}
	return nil
}

// GetByUID obtiene un artículo por item_uid.
func (r *SerializedItemRepo) GetByUID(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM serialized_inventory_items WHERE item_uid = $1`, uid)
}

// GetByUIDForUpdate obtiene el artículo bloqueando su fila.
func (r *SerializedItemRepo) GetByUIDForUpdate(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM serialized_inventory_items WHERE item_uid = $1 FOR UPDATE`, uid)
}

// ExistsUID indica si el item_uid ya está tomado.
func (r *SerializedItemRepo) ExistsUID(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM serialized_inventory_items WHERE item_uid = $1)`, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists item uid: %w", err)
	}
	return exists, nil
}

// Update reescribe los campos mutables del artículo. item_uid y product_id son inmutables.
func (r *SerializedItemRepo) Update(ctx context.Context, it *entity.SerializedInventoryItem) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE serialized_inventory_items SET
			variant_id = $2, status = $3, batch_number = $4, production_date = $5, expiry_date = $6,
			cost_price = $7, actual_weight_grams = $8, qr_code_path = $9, passport_path = $10,
			label_path = $11, notes = $12, order_id = $13, updated_at = $14
		 WHERE id = $1`,
		it.ID, nullIfEmpty(it.VariantID), string(it.Status), it.BatchNumber, it.ProductionDate, it.ExpiryDate,
		it.CostPrice, it.ActualWeightGrams, it.QRCodePath, it.PassportPath,
		it.LabelPath, it.Notes, nullIfEmpty(it.OrderID), it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update serialized item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ItemUID)
	}
	return nil
}

// List lista artículos por item_uid aplicando los filtros presentes.
func (r *SerializedItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.SerializedInventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + itemColumns + ` FROM serialized_inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY item_uid"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list serialized items: %w", err)
	}
	defer rows.Close()

	list := []*entity.SerializedInventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan serialized item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// CountByStatus cuenta los artículos del producto agrupados por estado.
func (r *SerializedItemRepo) CountByStatus(ctx context.Context, productID string) (map[entity.ItemStatus]int, error) {
	rows, err := r.q.Query(ctx,
		`SELECT status, COUNT(*)::int FROM serialized_inventory_items WHERE product_id = $1 GROUP BY status`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("count items by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.ItemStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.ItemStatus(status)] = n
	}
	return out, rows.Err()
}

// CountAvailableWithoutVariant cuenta artículos available sin variante.
func (r *SerializedItemRepo) CountAvailableWithoutVariant(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM serialized_inventory_items
		 WHERE product_id = $1 AND variant_id IS NULL AND status = 'available'`, productID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count available items: %w", err)
	}
	return n, nil
}

// ListForExport devuelve todos los artículos con los datos de producto y variante.
func (r *SerializedItemRepo) ListForExport(ctx context.Context) ([]repository.ItemExportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.item_uid, p.code, p.name_fr, p.name_en, v.sku_suffix, v.weight_grams, i.status,
			i.batch_number, i.production_date, i.expiry_date, i.cost_price, i.actual_weight_grams,
			i.notes, i.received_at
		FROM serialized_inventory_items i
		JOIN products p ON p.id = i.product_id
		LEFT JOIN product_weight_options v ON v.id = i.variant_id
		ORDER BY i.item_uid`)
	if err != nil {
		return nil, fmt.Errorf("list items for export: %w", err)
	}
	defer rows.Close()

	out := []repository.ItemExportRow{}
	for rows.Next() {
		var (
			row    repository.ItemExportRow
			suffix *string
			status string
		)
		if err := rows.Scan(&row.ItemUID, &row.ProductCode, &row.ProductNameFR, &row.ProductNameEN,
			&suffix, &row.VariantWeightGrams, &status, &row.BatchNumber, &row.ProductionDate,
			&row.ExpiryDate, &row.CostPrice, &row.ActualWeightGrams, &row.Notes, &row.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		row.VariantSKUSuffix = derefString(suffix)
		row.Status = entity.ItemStatus(status)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SerializedItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.SerializedInventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serialized item: %w", err)
	}
	return it, nil
}

func scanItem(row rowScanner) (*entity.SerializedInventoryItem, error) {
	var (
		it        entity.SerializedInventoryItem
		variantID *string
		orderID   *string
		status    string
	)
	err := row.Scan(&it.ID, &it.ItemUID, &it.ProductID, &variantID, &status, &it.BatchNumber,
		&it.ProductionDate, &it.ExpiryDate, &it.CostPrice, &it.ActualWeightGrams,
		&it.QRCodePath, &it.PassportPath, &it.LabelPath, &it.Notes, &orderID,
		&it.ReceivedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.VariantID = derefString(variantID)
	it.OrderID = derefString(orderID)
	it.Status = entity.ItemStatus(status)
	return &it, nil
}
