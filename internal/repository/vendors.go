package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

const vendorColumns = `id, owner_id, name, description, city, latitude, longitude,
	is_online, approval, delivery_radius_km, commission_rate_bps, created_at, updated_at`

func scanVendor(row pgx.Row) (*model.Vendor, error) {
	var v model.Vendor
	var approval string
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.City,
		&v.Latitude, &v.Longitude, &v.IsOnline, &approval,
		&v.DeliveryRadiusKm, &v.CommissionRateBps, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Approval = model.VendorApproval(approval)
	return &v, nil
}

// CreateVendor регистрирует продавца в статусе pending.
func (r *Repository) CreateVendor(ctx context.Context, v *model.Vendor) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO vendors (id, owner_id, name, description, city, latitude, longitude, delivery_radius_km, commission_rate_bps)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+vendorColumns,
		v.ID, v.OwnerID, v.Name, v.Description, v.City, v.Latitude, v.Longitude,
		v.DeliveryRadiusKm, v.CommissionRateBps,
	)

	saved, err := scanVendor(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrVendorExists
		}
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return saved, nil
}

// GetVendorByID возвращает продавца по идентификатору.
func (r *Repository) GetVendorByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)

	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetVendorByOwner возвращает продавца по идентификатору владельца.
func (r *Repository) GetVendorByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE owner_id = $1`, ownerID)

	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("get vendor by owner: %w", err)
	}
	return v, nil
}

// ListVendors возвращает продавцов, отфильтрованных по статусу модерации.
// Пустой approval означает всех.
func (r *Repository) ListVendors(ctx context.Context, approval model.VendorApproval, limit, offset int) ([]model.Vendor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vendorColumns+`
		 FROM vendors
		 WHERE ($1 = '' OR approval = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		string(approval), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select vendors: %w", err)
	}
	defer rows.Close()

	var res []model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		res = append(res, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateVendorApproval изменяет статус модерации продавца.
// Отклонённый продавец принудительно переводится в offline.
func (r *Repository) UpdateVendorApproval(ctx context.Context, id uuid.UUID, approval model.VendorApproval) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vendors
		 SET approval = $2,
		     is_online = CASE WHEN $2 = 'rejected' THEN FALSE ELSE is_online END,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+vendorColumns,
		id, string(approval),
	)

	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("update vendor approval: %w", err)
	}
	return v, nil
}

// UpdateVendorProfile обновляет самоуправляемые поля профиля продавца.
func (r *Repository) UpdateVendorProfile(ctx context.Context, id uuid.UUID, description string, radiusKm float64) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vendors
		 SET description = $2, delivery_radius_km = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+vendorColumns,
		id, description, radiusKm,
	)

	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("update vendor profile: %w", err)
	}
	return v, nil
}

// SetVendorOnline переключает флаг приёма заказов.
func (r *Repository) SetVendorOnline(ctx context.Context, id uuid.UUID, online bool) (*model.Vendor, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vendors SET is_online = $2, updated_at = now() WHERE id = $1
		 RETURNING `+vendorColumns,
		id, online,
	)

	v, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("set vendor online: %w", err)
	}
	return v, nil
}

// CountActiveVendors возвращает число одобренных продавцов.
func (r *Repository) CountActiveVendors(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM vendors WHERE approval = 'approved'`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return n, nil
}
