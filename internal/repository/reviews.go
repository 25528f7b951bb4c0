package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// CreateReview сохраняет отзыв. Повторный отзыв на товар из того же заказа отклоняется.
func (r *Repository) CreateReview(ctx context.Context, rv *model.Review) (*model.Review, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (id, product_id, author_id, order_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, product_id, author_id, order_id, rating, comment, created_at`,
		rv.ID, rv.ProductID, rv.AuthorID, rv.OrderID, rv.Rating, rv.Comment,
	)

	var saved model.Review
	err := row.Scan(&saved.ID, &saved.ProductID, &saved.AuthorID, &saved.OrderID,
		&saved.Rating, &saved.Comment, &saved.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &saved, nil
}

// ListReviewsByProduct возвращает отзывы о товаре с именами авторов, новые первыми.
func (r *Repository) ListReviewsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rv.id, rv.product_id, rv.author_id, u.name, rv.order_id, rv.rating, rv.comment, rv.created_at
		 FROM reviews rv
		 JOIN users u ON u.id = rv.author_id
		 WHERE rv.product_id = $1
		 ORDER BY rv.created_at DESC
		 LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var res []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.AuthorID, &rv.AuthorName,
			&rv.OrderID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		res = append(res, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ReviewableOrder возвращает доставленный заказ пользователя, содержащий товар
// и ещё не имеющий отзыва от него. Если такого заказа нет, возвращается uuid.Nil.
func (r *Repository) ReviewableOrder(ctx context.Context, userID, productID uuid.UUID) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT o.id
		 FROM orders o
		 JOIN order_items oi ON oi.order_id = o.id AND oi.product_id = $2
		 WHERE o.customer_id = $1
		   AND o.status = 'delivered'
		   AND NOT EXISTS (
		       SELECT 1 FROM reviews rv
		       WHERE rv.order_id = o.id AND rv.product_id = $2 AND rv.author_id = $1
		   )
		 ORDER BY o.delivered_at DESC
		 LIMIT 1`,
		userID, productID,
	).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("select reviewable order: %w", err)
	}
	return orderID, nil
}
