package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

const addressColumns = `id, user_id, label, recipient_name, phone, street, city, postal_code, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.RecipientName, &a.Phone,
		&a.Street, &a.City, &a.PostalCode, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAddress добавляет адрес в адресную книгу пользователя.
func (r *Repository) CreateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO addresses (id, user_id, label, recipient_name, phone, street, city, postal_code, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+addressColumns,
		a.ID, a.UserID, a.Label, a.RecipientName, a.Phone, a.Street, a.City, a.PostalCode, a.IsDefault,
	)

	saved, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return saved, nil
}

// GetAddress возвращает адрес пользователя. Чужие адреса неотличимы от отсутствующих.
func (r *Repository) GetAddress(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// ListAddresses возвращает адресную книгу пользователя.
func (r *Repository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+`
		 FROM addresses
		 WHERE user_id = $1
		 ORDER BY is_default DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var res []model.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		res = append(res, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateAddress обновляет адрес пользователя.
func (r *Repository) UpdateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE addresses
		 SET label = $3, recipient_name = $4, phone = $5, street = $6, city = $7,
		     postal_code = $8, is_default = $9, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+addressColumns,
		a.ID, a.UserID, a.Label, a.RecipientName, a.Phone, a.Street, a.City, a.PostalCode, a.IsDefault,
	)

	saved, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("update address: %w", err)
	}
	return saved, nil
}

// DeleteAddress удаляет адрес из адресной книги пользователя.
// Размещённые заказы хранят собственный снимок адреса и не затрагиваются.
func (r *Repository) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}
