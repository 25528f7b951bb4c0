package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/razorpay"
)

// maxWebhookBody ограничивает размер тела вебхука.
const maxWebhookBody = 1 << 20

// RazorpayWebhook обрабатывает события платёжного провайдера.
// Подпись проверяется над сырым телом до разбора; неподписанные запросы
// не приводят ни к каким изменениям. Повторные доставки идемпотентны по значению.
func (h *Handler) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unreadable body", nil)
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !razorpay.VerifyWebhookSignature(body, signature, h.cfg.RazorpayWebhookSecret) {
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "invalid signature", nil)
		return
	}

	event, err := razorpay.ParseEvent(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "malformed event", nil)
		return
	}

	if err := h.service.HandlePaymentEvent(r.Context(), event); err != nil {
		h.logger.Error("payment event error", zap.Error(err), zap.String("event", event.Event))
		writeError(w, http.StatusInternalServerError, codeInternal, "event not processed", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthPingTimeout ограничивает проверку хранилища пробой здоровья.
const healthPingTimeout = 2 * time.Second

// HealthStore проверяет доступность базы данных.
func (h *Handler) HealthStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.service.PingStore(ctx); err != nil {
		h.logger.Warn("store ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthConfig сообщает о незаданных обязательных параметрах конфигурации.
// В ответе только имена параметров, никогда значения.
func (h *Handler) HealthConfig(w http.ResponseWriter, r *http.Request) {
	missing := h.cfg.Missing()
	if len(missing) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "incomplete",
			"missing": missing,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
