package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/otp"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// ErrInvalidOTP возвращается при неверном или просроченном коде подтверждения.
var ErrInvalidOTP = otp.ErrInvalidCode

// SendOTP выдаёт и отправляет код подтверждения на номер.
func (s *Service) SendOTP(ctx context.Context, phone string) error {
	return s.otp.Issue(ctx, phone)
}

// VerifyOTP проверяет код и возвращает пользователя, создавая его при первом входе.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*model.User, error) {
	if err := s.otp.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByPhone(ctx, phone)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Первый вход: заводим учётную запись покупателя.
	u, err = s.repo.UpsertUser(ctx, &model.User{
		ID:    uuid.New(),
		Phone: phone,
		Role:  model.RoleCustomer,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// SyncUser обновляет профильные поля пользователя из провайдера аутентификации.
func (s *Service) SyncUser(ctx context.Context, userID uuid.UUID, name, email string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Name = name
	u.Email = email

	return s.repo.UpsertUser(ctx, u)
}
