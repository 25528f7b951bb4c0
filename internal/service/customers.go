package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// CreateAddress добавляет адрес в адресную книгу пользователя.
func (s *Service) CreateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	a.ID = uuid.New()
	return s.repo.CreateAddress(ctx, a)
}

// GetAddress возвращает адрес пользователя.
func (s *Service) GetAddress(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	return s.repo.GetAddress(ctx, userID, id)
}

// ListAddresses возвращает адресную книгу пользователя.
func (s *Service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return s.repo.ListAddresses(ctx, userID)
}

// UpdateAddress обновляет адрес пользователя.
func (s *Service) UpdateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	return s.repo.UpdateAddress(ctx, a)
}

// DeleteAddress удаляет адрес пользователя.
func (s *Service) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteAddress(ctx, userID, id)
}

// ListCatalog возвращает публичный каталог товаров.
func (s *Service) ListCatalog(ctx context.Context, f repository.CatalogFilter) ([]model.Product, error) {
	return s.repo.ListCatalog(ctx, f)
}

// GetProduct возвращает товар каталога.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

// ListReviews возвращает отзывы о товаре.
func (s *Service) ListReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error) {
	return s.repo.ListReviewsByProduct(ctx, productID, limit, offset)
}

// CanReview сообщает, может ли пользователь оставить отзыв о товаре:
// есть доставленный заказ с этим товаром и отзыва ещё нет.
func (s *Service) CanReview(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	orderID, err := s.repo.ReviewableOrder(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	return orderID != uuid.Nil, nil
}

// CreateReview сохраняет отзыв, привязывая его к доставленному заказу пользователя.
func (s *Service) CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int32, comment string) (*model.Review, error) {
	orderID, err := s.repo.ReviewableOrder(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, ErrReviewNotAllowed
	}

	return s.repo.CreateReview(ctx, &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		AuthorID:  userID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
	})
}

// CashbackSummary содержит баланс и журнал кэшбэка пользователя.
type CashbackSummary struct {
	BalancePaise int64
	Entries      []model.CashbackEntry
}

// GetCashback возвращает баланс и журнал кэшбэка пользователя.
func (s *Service) GetCashback(ctx context.Context, userID uuid.UUID, limit, offset int) (*CashbackSummary, error) {
	balance, err := s.repo.GetCashbackBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListCashbackEntries(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &CashbackSummary{BalancePaise: balance, Entries: entries}, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.ListNotificationsByUser(ctx, userID, limit, offset)
}

// MarkNotificationRead помечает уведомление пользователя прочитанным.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkNotificationRead(ctx, userID, id)
}

// CountUnreadNotifications возвращает число непрочитанных уведомлений.
func (s *Service) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnreadNotifications(ctx, userID)
}
