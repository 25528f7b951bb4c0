package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

const productColumns = `id, vendor_id, name, description, price, category, images,
	variants, addons, customization, is_active, is_deleted, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.PricePaise,
		&p.Category, &p.Images, &p.Variants, &p.Addons, &p.Customization,
		&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct добавляет товар в каталог продавца.
func (r *Repository) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (id, vendor_id, name, description, price, category, images, variants, addons, customization, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+productColumns,
		p.ID, p.VendorID, p.Name, p.Description, p.PricePaise, p.Category,
		p.Images, p.Variants, p.Addons, p.Customization, p.IsActive,
	)

	saved, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return saved, nil
}

// GetProductByID возвращает неудалённый товар по идентификатору.
func (r *Repository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND NOT is_deleted`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetProductsByIDs возвращает неудалённые товары по списку идентификаторов.
func (r *Repository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) AND NOT is_deleted`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select products by ids: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CatalogFilter задаёт фильтры публичного каталога.
type CatalogFilter struct {
	City     string
	Category string
	VendorID *uuid.UUID
	Query    string
	Limit    int
	Offset   int
}

// ListCatalog возвращает активные товары одобренных продавцов, находящихся онлайн.
func (r *Repository) ListCatalog(ctx context.Context, f CatalogFilter) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.vendor_id, p.name, p.description, p.price, p.category, p.images,
		        p.variants, p.addons, p.customization, p.is_active, p.is_deleted, p.created_at, p.updated_at
		 FROM products p
		 JOIN vendors v ON v.id = p.vendor_id
		 WHERE p.is_active AND NOT p.is_deleted
		   AND v.approval = 'approved' AND v.is_online
		   AND ($1 = '' OR v.city = $1)
		   AND ($2 = '' OR p.category = $2)
		   AND ($3::uuid IS NULL OR p.vendor_id = $3)
		   AND ($4 = '' OR p.name ILIKE '%' || $4 || '%')
		 ORDER BY p.created_at DESC
		 LIMIT $5 OFFSET $6`,
		f.City, f.Category, f.VendorID, f.Query, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListProductsByVendor возвращает каталог продавца, включая неактивные товары.
func (r *Repository) ListProductsByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE vendor_id = $1 AND NOT is_deleted
		 ORDER BY created_at DESC`,
		vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("select vendor products: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateProduct обновляет товар продавца. Чужие товары неотличимы от отсутствующих.
func (r *Repository) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $3, description = $4, price = $5, category = $6, images = $7,
		     variants = $8, addons = $9, customization = $10, is_active = $11, updated_at = now()
		 WHERE id = $1 AND vendor_id = $2 AND NOT is_deleted
		 RETURNING `+productColumns,
		p.ID, p.VendorID, p.Name, p.Description, p.PricePaise, p.Category,
		p.Images, p.Variants, p.Addons, p.Customization, p.IsActive,
	)

	saved, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return saved, nil
}

// SoftDeleteProduct помечает товар удалённым, сохраняя строку для истории заказов.
func (r *Repository) SoftDeleteProduct(ctx context.Context, vendorID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_deleted = TRUE, is_active = FALSE, updated_at = now()
		 WHERE id = $1 AND vendor_id = $2 AND NOT is_deleted`,
		id, vendorID,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
