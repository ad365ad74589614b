package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPaymentWebhookHandler_RejectsMissingSecret(t *testing.T) {
	h := NewPledgeHandlers(nil, nil, "expected-secret", 120)

	req := httptest.NewRequest("POST", "/webhooks/payment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.PaymentWebhookHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret header, got %d", rec.Code)
	}
}

func TestPaymentWebhookHandler_RejectsWrongSecret(t *testing.T) {
	h := NewPledgeHandlers(nil, nil, "expected-secret", 120)

	req := httptest.NewRequest("POST", "/webhooks/payment", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "wrong-secret")
	rec := httptest.NewRecorder()
	h.PaymentWebhookHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", rec.Code)
	}
}

func TestPaymentWebhookHandler_RejectsWhenSecretUnconfigured(t *testing.T) {
	h := NewPledgeHandlers(nil, nil, "", 120)

	req := httptest.NewRequest("POST", "/webhooks/payment", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "")
	rec := httptest.NewRecorder()
	h.PaymentWebhookHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no secret is configured, got %d", rec.Code)
	}
}

func TestPaymentWebhookHandler_AcknowledgesUnknownEventType(t *testing.T) {
	h := NewPledgeHandlers(nil, nil, "expected-secret", 120)

	body := `{"type":"invoice.finalized","payment_ref":"pi_123"}`
	req := httptest.NewRequest("POST", "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", "expected-secret")
	rec := httptest.NewRecorder()
	h.PaymentWebhookHandler(rec, req)

	// Unknown types are acknowledged so the processor stops retrying.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unhandled event type, got %d", rec.Code)
	}
}

func TestPaymentWebhookHandler_RequiresPaymentRef(t *testing.T) {
	h := NewPledgeHandlers(nil, nil, "expected-secret", 120)

	body := `{"type":"payment_intent.succeeded","amount":1000}`
	req := httptest.NewRequest("POST", "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("X-Webhook-Secret", "expected-secret")
	rec := httptest.NewRecorder()
	h.PaymentWebhookHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without payment_ref, got %d", rec.Code)
	}
}

func TestInternalAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		requiredKey string
		providedKey string
		wantStatus  int
	}{
		{name: "matching key passes", requiredKey: "internal-key", providedKey: "internal-key", wantStatus: http.StatusNoContent},
		{name: "wrong key rejected", requiredKey: "internal-key", providedKey: "other", wantStatus: http.StatusUnauthorized},
		{name: "missing key rejected", requiredKey: "internal-key", providedKey: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured key disables endpoint", requiredKey: "", providedKey: "anything", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := InternalAuthMiddleware(tt.requiredKey)(next)
			req := httptest.NewRequest("POST", "/internal/pledges", nil)
			if tt.providedKey != "" {
				req.Header.Set("X-Internal-API-Key", tt.providedKey)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
