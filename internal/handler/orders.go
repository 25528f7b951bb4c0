package handler

import (
	"encoding/json"
	"net/http"

	"github.com/devwyshkit/wyshkit-sub002/internal/validation"
)

// Checkout оформляет заказ: валидация DTO, серверный пересчёт сумм,
// списание кэшбэка, платёжный заказ провайдера, уведомление продавца.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req validation.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	order, err := h.service.Checkout(r.Context(), userID, &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// GetOrders возвращает заказы вызывающего покупателя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListCustomerOrders(r.Context(), userID, orderFilter(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// GetOrder возвращает заказ вызывающего покупателя.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := h.service.GetCustomerOrder(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ApproveMockup подтверждает макет от имени покупателя-владельца заказа.
func (h *Handler) ApproveMockup(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := h.service.ApproveMockup(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type provideDetailsRequest struct {
	Details string `json:"details" validate:"required,max=2000"`
}

// ProvideDetails передаёт продавцу недостающие детали персонализации.
func (h *Handler) ProvideDetails(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	var req provideDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	order, err := h.service.ProvideOrderDetails(r.Context(), userID, id, req.Details)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// CancelOrder отменяет нетерминальный заказ. Доступна покупателю-владельцу и администратору.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := h.service.CancelOrder(r.Context(), userID, role, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
