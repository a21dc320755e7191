package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, category_id, type, name_fr, name_en, description_fr, description_en,
	origin, price, stock_quantity, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador sobre un pool o una transacción.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, nullIfEmpty(p.CategoryID), p.Type, p.NameFR, p.NameEN, p.DescriptionFR, p.DescriptionEN,
		p.Origin, p.Price, p.StockQuantity, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// GetByCodeForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1 FOR UPDATE`, code)
}

// Update actualiza los datos de catálogo; stock_quantity no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, name_fr = $3, name_en = $4, description_fr = $5,
			description_en = $6, origin = $7, price = $8, active = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullIfEmpty(p.CategoryID), p.NameFR, p.NameEN, p.DescriptionFR, p.DescriptionEN,
		p.Origin, p.Price, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.Code)
	}
	return nil
}

// AddStock suma delta al contador agregado en una sola sentencia y devuelve el valor resultante.
func (r *ProductRepo) AddStock(ctx context.Context, productID string, delta int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now()
		 WHERE id = $1 RETURNING stock_quantity`, productID, delta,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		return 0, fmt.Errorf("add product stock: %w", err)
	}
	return qty, nil
}

// SetStock fija el contador agregado (solo reconciliación).
func (r *ProductRepo) SetStock(ctx context.Context, productID string, quantity int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`, productID, quantity)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

// List lista productos ordenados por código.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(
		&p.ID, &p.Code, &categoryID, &p.Type, &p.NameFR, &p.NameEN, &p.DescriptionFR, &p.DescriptionEN,
		&p.Origin, &p.Price, &p.StockQuantity, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CategoryID = derefString(categoryID)
	return &p, nil
}
