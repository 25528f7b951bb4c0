package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// AwardCashback начисляет кэшбэк за оплаченный заказ.
// Начисление ключуется парой (заказ, причина), поэтому повторная доставка
// вебхука не создаёт второй записи.
func (r *Repository) AwardCashback(ctx context.Context, userID, orderID uuid.UUID, amountPaise int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cashback_entries (id, user_id, order_id, amount, reason)
		 VALUES ($1, $2, $3, $4, 'earned')
		 ON CONFLICT (order_id, reason) DO NOTHING`,
		uuid.New(), userID, orderID, amountPaise,
	)
	if err != nil {
		return fmt.Errorf("award cashback: %w", err)
	}
	return nil
}

// GetCashbackBalance возвращает текущий баланс кэшбэка пользователя.
func (r *Repository) GetCashbackBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM cashback_entries WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("sum cashback: %w", err)
	}
	return balance, nil
}

// ListCashbackEntries возвращает журнал кэшбэка пользователя, новые первыми.
func (r *Repository) ListCashbackEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CashbackEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, order_id, amount, reason, created_at
		 FROM cashback_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select cashback entries: %w", err)
	}
	defer rows.Close()

	var res []model.CashbackEntry
	for rows.Next() {
		var e model.CashbackEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderID, &e.AmountPaise, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cashback entry: %w", err)
		}
		res = append(res, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CashbackLiability возвращает суммарный невыбранный кэшбэк всех пользователей.
func (r *Repository) CashbackLiability(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM cashback_entries`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum cashback liability: %w", err)
	}
	return total, nil
}
