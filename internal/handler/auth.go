package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/otp"
	"github.com/devwyshkit/wyshkit-sub002/internal/validation"
)

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP выдаёт код подтверждения на индийский номер в формате E.164.
// Сбой шлюза сообщений означает, что код не доставлен, и отражается как 503.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}

	if !validation.IsValidPhone(req.Phone) {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid phone number",
			map[string]string{"phone": "must be an Indian E.164 number"})
		return
	}

	if err := h.service.SendOTP(r.Context(), req.Phone); err != nil {
		h.logger.Error("send otp error", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "could not deliver code", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type verifyOTPResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// VerifyOTP проверяет код, создаёт пользователя при первом входе и выдаёт сессионный токен.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}

	if !validation.IsValidPhone(req.Phone) || len(req.Code) != 6 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid phone or code", nil)
		return
	}

	user, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			writeError(w, http.StatusUnauthorized, codeAuthRequired, "invalid or expired code", nil)
			return
		}
		h.respondError(w, r, err)
		return
	}

	token, err := h.authMiddleware.IssueToken(user.ID, user.Role, sessionTTL)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
		return
	}

	writeJSON(w, http.StatusOK, verifyOTPResponse{Token: token, User: toUserResponse(user)})
}

type syncUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SyncUser обновляет профильные поля субъекта токена из провайдера аутентификации.
func (h *Handler) SyncUser(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req syncUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}

	user, err := h.service.SyncUser(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
