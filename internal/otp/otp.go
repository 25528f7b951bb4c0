// Package otp реализует выдачу и проверку одноразовых кодов подтверждения.
// Коды хранятся только в виде bcrypt-хэша и действуют ограниченное время.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// TTL задаёт время жизни кода подтверждения.
const TTL = 5 * time.Minute

// ErrInvalidCode возвращается при несовпадении кода или отсутствии действующего кода.
var ErrInvalidCode = errors.New("invalid or expired code")

// Store описывает хранилище кодов подтверждения.
type Store interface {
	SaveOTP(ctx context.Context, rec *repository.OTPRecord) error
	LatestOTP(ctx context.Context, phone string) (*repository.OTPRecord, error)
	ConsumeOTP(ctx context.Context, id uuid.UUID) error
}

// Sender доставляет код владельцу номера.
type Sender interface {
	SendSMS(ctx context.Context, to, text string) error
}

// Manager выдаёт и проверяет коды подтверждения.
type Manager struct {
	store  Store
	sender Sender
}

// NewManager создаёт менеджер кодов подтверждения.
func NewManager(store Store, sender Sender) *Manager {
	return &Manager{store: store, sender: sender}
}

// GenerateCode возвращает криптослучайный шестизначный код.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue выдаёт новый код для номера: предыдущие коды аннулируются,
// хэш сохраняется, код отправляется по SMS. Сбой отправки фатален —
// код без доставки бесполезен.
func (m *Manager) Issue(ctx context.Context, phone string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	rec := &repository.OTPRecord{
		ID:        uuid.New(),
		Phone:     phone,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(TTL),
	}

	if err := m.store.SaveOTP(ctx, rec); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}

	if err := m.sender.SendSMS(ctx, phone, "Your Wyshkit verification code is "+code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}

	return nil
}

// Verify проверяет код для номера и гасит его при успехе.
func (m *Manager) Verify(ctx context.Context, phone, code string) error {
	rec, err := m.store.LatestOTP(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if time.Now().After(rec.ExpiresAt) {
		return ErrInvalidCode
	}

	if bcrypt.CompareHashAndPassword(rec.CodeHash, []byte(code)) != nil {
		return ErrInvalidCode
	}

	if err := m.store.ConsumeOTP(ctx, rec.ID); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}

	return nil
}
