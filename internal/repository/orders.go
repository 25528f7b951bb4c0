package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

const orderColumns = `id, number, customer_id, vendor_id, status,
	item_total, delivery_fee, platform_fee, cashback_used, total,
	delivery, payment_status, payment_id, razorpay_order_id,
	mockups, mockup_approved_at, accepted_at, mockup_at, delivered_at,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var st, ps string
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.VendorID, &st,
		&o.ItemTotal, &o.DeliveryFee, &o.PlatformFee, &o.CashbackUsed, &o.Total,
		&o.Delivery, &ps, &o.PaymentID, &o.RazorpayOrderID,
		&o.Mockups, &o.MockupApprovedAt, &o.AcceptedAt, &o.MockupAt, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(st)
	o.PaymentStatus = model.PaymentStatus(ps)
	return &o, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, product_name, quantity, unit_price, selected_variant, selected_addons, customization
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPricePaise,
			&it.SelectedVariant, &it.SelectedAddons, &it.Customization); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// CreateOrder создаёт заказ с позициями в одной транзакции.
// Внутри транзакции: списание кэшбэка под блокировкой строки пользователя
// и выдача сквозного номера заказа из таблицы последовательностей.
func (r *Repository) CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	var saved *model.Order

	err := r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if o.CashbackUsed > 0 {
			// Блокируем строку пользователя: параллельные списания не должны увести баланс в минус.
			var dummy int
			if err := tx.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, o.CustomerID).Scan(&dummy); err != nil {
				return fmt.Errorf("lock user for update: %w", err)
			}

			var balance int64
			err = tx.QueryRow(ctx,
				`SELECT COALESCE(SUM(amount), 0) FROM cashback_entries WHERE user_id = $1`,
				o.CustomerID,
			).Scan(&balance)
			if err != nil {
				return fmt.Errorf("sum cashback: %w", err)
			}

			if o.CashbackUsed > balance {
				return ErrInsufficientCashback
			}
		}

		var seq int64
		err = tx.QueryRow(ctx,
			`UPDATE order_sequences SET last_no = last_no + 1 WHERE name = 'order' RETURNING last_no`,
		).Scan(&seq)
		if err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		number := fmt.Sprintf("WK-%06d", seq)

		row := tx.QueryRow(ctx,
			`INSERT INTO orders (id, number, customer_id, vendor_id, status,
			                     item_total, delivery_fee, platform_fee, cashback_used, total,
			                     delivery, payment_status, razorpay_order_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING `+orderColumns,
			o.ID, number, o.CustomerID, o.VendorID, string(model.OrderStatusPending),
			o.ItemTotal, o.DeliveryFee, o.PlatformFee, o.CashbackUsed, o.Total,
			o.Delivery, string(model.PaymentPending), o.RazorpayOrderID,
		)

		saved, err = scanOrder(row)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, it := range o.Items {
			_, err = tx.Exec(ctx,
				`INSERT INTO order_items (order_id, position, product_id, product_name, quantity, unit_price, selected_variant, selected_addons, customization)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				o.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPricePaise,
				it.SelectedVariant, it.SelectedAddons, it.Customization,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if o.CashbackUsed > 0 {
			_, err = tx.Exec(ctx,
				`INSERT INTO cashback_entries (id, user_id, order_id, amount, reason)
				 VALUES ($1, $2, $3, $4, 'applied')`,
				uuid.New(), o.CustomerID, o.ID, -o.CashbackUsed,
			)
			if err != nil {
				return fmt.Errorf("insert cashback application: %w", err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved.Items = o.Items
	return saved, nil
}

// GetOrderByID возвращает заказ с позициями.
func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// OrderFilter задаёт фильтры списков заказов.
type OrderFilter struct {
	Status model.OrderStatus
	Limit  int
	Offset int
}

func (r *Repository) listOrders(ctx context.Context, where string, args []any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var res []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		res = append(res, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range res {
		items, err := r.loadOrderItems(ctx, res[i].ID)
		if err != nil {
			return nil, err
		}
		res[i].Items = items
	}

	return res, nil
}

// ListOrdersByCustomer возвращает заказы покупателя, новые первыми.
func (r *Repository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, f OrderFilter) ([]model.Order, error) {
	return r.listOrders(ctx,
		`WHERE customer_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		[]any{customerID, string(f.Status), f.Limit, f.Offset})
}

// ListOrdersByVendor возвращает заказы продавца, новые первыми.
func (r *Repository) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, f OrderFilter) ([]model.Order, error) {
	return r.listOrders(ctx,
		`WHERE vendor_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		[]any{vendorID, string(f.Status), f.Limit, f.Offset})
}

// ListAllOrders возвращает все заказы для административного обзора.
func (r *Repository) ListAllOrders(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	return r.listOrders(ctx,
		`WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		[]any{string(f.Status), f.Limit, f.Offset})
}

// TransitionUpdate описывает атомарную запись перехода статуса.
type TransitionUpdate struct {
	// Allowed — допустимые текущие статусы; проверяются в условии UPDATE,
	// поэтому проигравший гонку записывающий получает ErrStatusConflict, а не теряет чужую запись.
	Allowed []model.OrderStatus
	Next    model.OrderStatus

	SetAcceptedAt  bool
	SetMockupAt    bool
	SetDeliveredAt bool

	// Mockups при SetMockups=true заменяет карту макетов целиком.
	SetMockups bool
	Mockups    map[string][]string

	SetMockupApprovedAt bool
}

// TransitionOrder атомарно записывает новый статус заказа, если текущий входит в Allowed.
func (r *Repository) TransitionOrder(ctx context.Context, id uuid.UUID, upd TransitionUpdate) (*model.Order, error) {
	allowed := make([]string, 0, len(upd.Allowed))
	for _, s := range upd.Allowed {
		allowed = append(allowed, string(s))
	}

	mockups := upd.Mockups
	if mockups == nil {
		mockups = map[string][]string{}
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE orders
		 SET status = $2,
		     updated_at = now(),
		     accepted_at = CASE WHEN $3 THEN COALESCE(accepted_at, now()) ELSE accepted_at END,
		     mockup_at = CASE WHEN $4 THEN COALESCE(mockup_at, now()) ELSE mockup_at END,
		     delivered_at = CASE WHEN $5 THEN COALESCE(delivered_at, now()) ELSE delivered_at END,
		     mockups = CASE WHEN $6 THEN $7::jsonb ELSE mockups END,
		     mockup_approved_at = CASE WHEN $8 THEN COALESCE(mockup_approved_at, now()) ELSE mockup_approved_at END
		 WHERE id = $1 AND status = ANY($9)
		 RETURNING `+orderColumns,
		id, string(upd.Next),
		upd.SetAcceptedAt, upd.SetMockupAt, upd.SetDeliveredAt,
		upd.SetMockups, mockups, upd.SetMockupApprovedAt,
		allowed,
	)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо заказа нет, либо статус изменился между чтением и записью.
			var exists bool
			if exErr := r.pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); exErr != nil {
				return nil, fmt.Errorf("check order exists: %w", exErr)
			}
			if !exists {
				return nil, ErrOrderNotFound
			}
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("transition order: %w", err)
	}

	items, err := r.loadOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// UpdatePaymentByProviderOrder обновляет статус оплаты заказа по идентификатору
// платёжного заказа провайдера. Обновление идемпотентно по значению. Пустой
// идентификатор не сопоставляется ни с одной строкой: заказы, оставшиеся без
// платёжного заказа, хранят пустой razorpay_order_id.
func (r *Repository) UpdatePaymentByProviderOrder(ctx context.Context, providerOrderID string, ps model.PaymentStatus, paymentID string) (*model.Order, error) {
	if providerOrderID == "" {
		return nil, ErrOrderNotFound
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE orders
		 SET payment_status = $2, payment_id = $3, updated_at = now()
		 WHERE razorpay_order_id = $1 AND razorpay_order_id <> ''
		 RETURNING `+orderColumns,
		providerOrderID, string(ps), paymentID,
	)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return o, nil
}
