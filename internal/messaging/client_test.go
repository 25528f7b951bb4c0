package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSMS(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")

	if err := c.SendSMS(context.Background(), "+919876543210", "Your Wyshkit code is 123456"); err != nil {
		t.Fatalf("send sms: %v", err)
	}

	if got.Channel != "sms" {
		t.Fatalf("channel = %q, want sms", got.Channel)
	}
	if got.To != "+919876543210" {
		t.Fatalf("to = %q", got.To)
	}
}

func TestSendWhatsAppChannel(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")

	if err := c.SendWhatsApp(context.Background(), "+919876543210", "hello"); err != nil {
		t.Fatalf("send whatsapp: %v", err)
	}
	if got.Channel != "whatsapp" {
		t.Fatalf("channel = %q, want whatsapp", got.Channel)
	}
}

func TestSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")

	if err := c.SendSMS(context.Background(), "+919876543210", "text"); err == nil {
		t.Fatalf("expected error on gateway failure")
	}
}

func TestSendNotConfigured(t *testing.T) {
	c := NewClient("", "")
	if err := c.SendSMS(context.Background(), "+919876543210", "text"); err == nil {
		t.Fatalf("expected error for unconfigured client")
	}
}
