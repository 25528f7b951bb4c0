package otp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

type stubStore struct {
	saved    *repository.OTPRecord
	latest   *repository.OTPRecord
	latestErr error
	consumed []uuid.UUID
}

func (s *stubStore) SaveOTP(ctx context.Context, rec *repository.OTPRecord) error {
	s.saved = rec
	return nil
}

func (s *stubStore) LatestOTP(ctx context.Context, phone string) (*repository.OTPRecord, error) {
	return s.latest, s.latestErr
}

func (s *stubStore) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	s.consumed = append(s.consumed, id)
	return nil
}

type stubSender struct {
	to      string
	text    string
	sendErr error
}

func (s *stubSender) SendSMS(ctx context.Context, to, text string) error {
	s.to = to
	s.text = text
	return s.sendErr
}

func TestGenerateCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if !re.MatchString(code) {
			t.Fatalf("code %q is not six digits", code)
		}
	}
}

func TestIssueStoresHashNotCode(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{}
	m := NewManager(store, sender)

	if err := m.Issue(context.Background(), "+919876543210"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if store.saved == nil {
		t.Fatalf("code was not saved")
	}
	if sender.to != "+919876543210" {
		t.Fatalf("sms sent to %q", sender.to)
	}

	// В хранилище не должно оказаться самого кода.
	code := regexp.MustCompile(`\d{6}`).FindString(sender.text)
	if code == "" {
		t.Fatalf("sms %q does not contain a code", sender.text)
	}
	if string(store.saved.CodeHash) == code {
		t.Fatalf("plaintext code stored")
	}

	if store.saved.ExpiresAt.Before(time.Now().Add(TTL - time.Minute)) {
		t.Fatalf("expiry %v too early", store.saved.ExpiresAt)
	}
}

func TestIssueFailsWhenSendFails(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{sendErr: errors.New("gateway down")}
	m := NewManager(store, sender)

	if err := m.Issue(context.Background(), "+919876543210"); err == nil {
		t.Fatalf("expected error when sms delivery fails")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{}
	m := NewManager(store, sender)

	if err := m.Issue(context.Background(), "+919876543210"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	code := regexp.MustCompile(`\d{6}`).FindString(sender.text)
	store.latest = store.saved

	if err := m.Verify(context.Background(), "+919876543210", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if len(store.consumed) != 1 || store.consumed[0] != store.saved.ID {
		t.Fatalf("code was not consumed")
	}
}

func TestVerifyWrongCode(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{}
	m := NewManager(store, sender)

	if err := m.Issue(context.Background(), "+919876543210"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	store.latest = store.saved

	err := m.Verify(context.Background(), "+919876543210", "000000")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	if len(store.consumed) != 0 {
		t.Fatalf("wrong code must not consume the record")
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	store := &stubStore{
		latest: &repository.OTPRecord{
			ID:        uuid.New(),
			Phone:     "+919876543210",
			CodeHash:  []byte("$2a$10$irrelevant"),
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}
	m := NewManager(store, &stubSender{})

	err := m.Verify(context.Background(), "+919876543210", "123456")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestVerifyNoCode(t *testing.T) {
	store := &stubStore{latestErr: repository.ErrOTPNotFound}
	m := NewManager(store, &stubSender{})

	err := m.Verify(context.Background(), "+919876543210", "123456")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}
