package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	secret := "whsec-test"

	if !VerifyWebhookSignature(body, sign(body, secret), secret) {
		t.Fatalf("valid signature rejected")
	}

	if VerifyWebhookSignature(body, sign(body, "other-secret"), secret) {
		t.Fatalf("signature with wrong secret accepted")
	}

	if VerifyWebhookSignature(body, "deadbeef", secret) {
		t.Fatalf("garbage signature accepted")
	}

	if VerifyWebhookSignature(body, "", secret) {
		t.Fatalf("empty signature accepted")
	}

	tampered := []byte(`{"event":"payment.failed"}`)
	if VerifyWebhookSignature(tampered, sign(body, secret), secret) {
		t.Fatalf("signature over different body accepted")
	}
}

func TestParseEvent(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {"id": "pay_123", "order_id": "order_456", "status": "captured", "amount": 106000}
			}
		}
	}`)

	ev, err := ParseEvent(body)
	if err != nil {
		t.Fatalf("parse event: %v", err)
	}

	if ev.Event != EventPaymentCaptured {
		t.Fatalf("event = %q, want %q", ev.Event, EventPaymentCaptured)
	}
	if ev.Payload.Payment.Entity.ID != "pay_123" {
		t.Fatalf("payment id = %q, want pay_123", ev.Payload.Payment.Entity.ID)
	}
	if ev.Payload.Payment.Entity.OrderID != "order_456" {
		t.Fatalf("order id = %q, want order_456", ev.Payload.Payment.Entity.OrderID)
	}
}

func TestParseEventInvalidJSON(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Fatalf("basic auth not set")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["currency"] != "INR" {
			t.Fatalf("currency = %v, want INR", req["currency"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_test_1"}`))
	}))
	defer srv.Close()

	c := NewClient("key", "secret")
	c.baseURL = srv.URL

	id, err := c.CreateOrder(context.Background(), 106000, "wk-order-uuid")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if id != "order_test_1" {
		t.Fatalf("order id = %q, want order_test_1", id)
	}
}

func TestCreateOrderNotConfigured(t *testing.T) {
	var c *Client
	if _, err := c.CreateOrder(context.Background(), 100, "r"); err == nil {
		t.Fatalf("expected error for unconfigured client")
	}
}
