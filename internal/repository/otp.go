package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OTPRecord описывает выданный код подтверждения. Хранится только bcrypt-хэш кода.
type OTPRecord struct {
	ID        uuid.UUID
	Phone     string
	CodeHash  []byte
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// SaveOTP сохраняет новый код подтверждения, аннулируя предыдущие коды того же номера.
func (r *Repository) SaveOTP(ctx context.Context, rec *OTPRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE otp_codes SET consumed = TRUE WHERE phone = $1 AND NOT consumed`,
		rec.Phone,
	)
	if err != nil {
		return fmt.Errorf("invalidate prior otp: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO otp_codes (id, phone, code_hash, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Phone, rec.CodeHash, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LatestOTP возвращает последний непогашенный и непросроченный код номера.
func (r *Repository) LatestOTP(ctx context.Context, phone string) (*OTPRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, phone, code_hash, expires_at, consumed, created_at
		 FROM otp_codes
		 WHERE phone = $1 AND NOT consumed AND expires_at > now()
		 ORDER BY created_at DESC
		 LIMIT 1`,
		phone,
	)

	var rec OTPRecord
	err := row.Scan(&rec.ID, &rec.Phone, &rec.CodeHash, &rec.ExpiresAt, &rec.Consumed, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &rec, nil
}

// ConsumeOTP гасит код подтверждения после успешной проверки.
func (r *Repository) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE otp_codes SET consumed = TRUE WHERE id = $1 AND NOT consumed`,
		id,
	)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOTPNotFound
	}
	return nil
}
