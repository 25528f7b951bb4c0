package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// OrderTotals содержит сводные показатели по заказам.
type OrderTotals struct {
	Orders       int64
	RevenuePaise int64
}

// GetOrderTotals возвращает число заказов и выручку по оплаченным заказам.
func (r *Repository) GetOrderTotals(ctx context.Context) (*OrderTotals, error) {
	var t OrderTotals
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total) FILTER (WHERE payment_status = 'completed'), 0)
		 FROM orders`,
	).Scan(&t.Orders, &t.RevenuePaise)
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}
	return &t, nil
}

// CountOrdersByStatus возвращает распределение заказов по статусам.
func (r *Repository) CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()

	res := make(map[model.OrderStatus]int64)
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		res[model.OrderStatus(st)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// SLASamples содержит выборки длительностей этапов заказа в минутах.
type SLASamples struct {
	// AcceptMinutes — длительности pending -> personalizing.
	AcceptMinutes []float64
	// MockupMinutes — длительности personalizing -> mockup_ready.
	MockupMinutes []float64
}

// GetSLASamples возвращает длительности этапов по заказам, созданным после since.
func (r *Repository) GetSLASamples(ctx context.Context, since time.Time) (*SLASamples, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(EPOCH FROM (accepted_at - created_at)) / 60,
		        EXTRACT(EPOCH FROM (mockup_at - accepted_at)) / 60
		 FROM orders
		 WHERE created_at >= $1 AND accepted_at IS NOT NULL`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("sla samples: %w", err)
	}
	defer rows.Close()

	var s SLASamples
	for rows.Next() {
		var acceptMin float64
		var mockupMin *float64
		if err := rows.Scan(&acceptMin, &mockupMin); err != nil {
			return nil, fmt.Errorf("scan sla sample: %w", err)
		}
		s.AcceptMinutes = append(s.AcceptMinutes, acceptMin)
		if mockupMin != nil {
			s.MockupMinutes = append(s.MockupMinutes, *mockupMin)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &s, nil
}
