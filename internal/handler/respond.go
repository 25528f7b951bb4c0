package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/otp"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
	"github.com/devwyshkit/wyshkit-sub002/internal/service"
	"github.com/devwyshkit/wyshkit-sub002/internal/status"
	"github.com/devwyshkit/wyshkit-sub002/internal/validation"
)

// fieldDetails извлекает пофилдовые сообщения валидатора для details конверта.
func fieldDetails(err error) any {
	if fields := validation.FieldErrors(err); len(fields) > 0 {
		return fields
	}
	return nil
}

// Коды машиночитаемой классификации ошибок в конверте ответа.
const (
	codeAuthRequired       = "AUTH_REQUIRED"
	codeForbidden          = "FORBIDDEN"
	codeValidationFailed   = "VALIDATION_FAILED"
	codeNotFound           = "NOT_FOUND"
	codePreconditionFailed = "PRECONDITION_FAILED"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
	codeInternal           = "INTERNAL"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, statusCode int, code, msg string, details any) {
	writeJSON(w, statusCode, errorResponse{Error: msg, Code: code, Details: details})
}

// respondError переводит ошибку бизнес-логики в конверт ответа по таксономии:
// не найдено и чужая строка неразличимы, нарушение предусловия не меняет заказ.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var trErr *status.TransitionError

	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrAddressNotFound),
		errors.Is(err, repository.ErrVendorNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrNotificationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)

	case errors.Is(err, service.ErrNotOrderVendor),
		errors.Is(err, service.ErrNotOrderCustomer),
		errors.Is(err, service.ErrVendorNotApproved):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error(), nil)

	case errors.As(err, &trErr), errors.Is(err, repository.ErrStatusConflict):
		writeError(w, http.StatusBadRequest, codePreconditionFailed, err.Error(), nil)

	case errors.Is(err, service.ErrVendorUnavailable),
		errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrReviewNotAllowed),
		errors.Is(err, repository.ErrReviewExists),
		errors.Is(err, repository.ErrVendorExists),
		errors.Is(err, repository.ErrInsufficientCashback):
		writeError(w, http.StatusBadRequest, codePreconditionFailed, err.Error(), nil)

	case errors.Is(err, service.ErrMixedVendors),
		errors.Is(err, service.ErrUnknownAddon),
		errors.Is(err, service.ErrUnknownVariant),
		errors.Is(err, service.ErrOutsideDeliveryRadius),
		errors.Is(err, service.ErrTotalsMismatch):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error(), nil)

	case errors.Is(err, otp.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "invalid or expired code", nil)

	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		msg := "internal server error"
		if !h.cfg.IsProduction() {
			msg = err.Error()
		}
		writeError(w, http.StatusInternalServerError, codeInternal, msg, nil)
	}
}
