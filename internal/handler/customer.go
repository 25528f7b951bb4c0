package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

type addressRequest struct {
	Label         string `json:"label" validate:"max=50"`
	RecipientName string `json:"recipientName" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,phone_in"`
	Street        string `json:"street" validate:"required,max=300"`
	City          string `json:"city" validate:"required,max=100"`
	PostalCode    string `json:"postalCode" validate:"required,len=6,numeric"`
	IsDefault     bool   `json:"isDefault"`
}

func (h *Handler) decodeAddress(w http.ResponseWriter, r *http.Request) (*addressRequest, bool) {
	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return nil, false
	}
	return &req, true
}

// CreateAddress добавляет адрес в адресную книгу вызывающего.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeAddress(w, r)
	if !ok {
		return
	}

	saved, err := h.service.CreateAddress(r.Context(), &model.Address{
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAddressResponse(saved))
}

// ListAddresses возвращает адресную книгу вызывающего.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	addresses, err := h.service.ListAddresses(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]addressResponse, 0, len(addresses))
	for i := range addresses {
		resp = append(resp, toAddressResponse(&addresses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAddress возвращает адрес вызывающего. Чужие адреса неотличимы от отсутствующих.
func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	address, err := h.service.GetAddress(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAddressResponse(address))
}

// UpdateAddress обновляет адрес вызывающего.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	req, ok := h.decodeAddress(w, r)
	if !ok {
		return
	}

	saved, err := h.service.UpdateAddress(r.Context(), &model.Address{
		ID:            id,
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAddressResponse(saved))
}

// DeleteAddress удаляет адрес вызывающего.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	if err := h.service.DeleteAddress(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts возвращает публичный каталог: активные товары одобренных
// продавцов в статусе онлайн.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	f := repository.CatalogFilter{
		City:     r.URL.Query().Get("city"),
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := r.URL.Query().Get("vendorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid vendorId", nil)
			return
		}
		f.VendorID = &id
	}

	products, err := h.service.ListCatalog(r.Context(), f)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct возвращает товар каталога.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// ListReviews возвращает отзывы о товаре.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	limit, offset := pagination(r)
	reviews, err := h.service.ListReviews(r.Context(), id, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, toReviewResponse(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CanReview сообщает, может ли вызывающий оставить отзыв о товаре.
func (h *Handler) CanReview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	allowed, err := h.service.CanReview(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"canReview": allowed})
}

type reviewRequest struct {
	Rating  int32  `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// CreateReview сохраняет отзыв вызывающего о товаре из доставленного заказа.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	review, err := h.service.CreateReview(r.Context(), userID, id, req.Rating, req.Comment)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

type cashbackResponse struct {
	BalancePaise int64                   `json:"balancePaise"`
	Entries      []cashbackEntryResponse `json:"entries"`
}

// GetCashback возвращает баланс и журнал кэшбэка вызывающего.
func (h *Handler) GetCashback(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	summary, err := h.service.GetCashback(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	entries := make([]cashbackEntryResponse, 0, len(summary.Entries))
	for i := range summary.Entries {
		entries = append(entries, toCashbackEntryResponse(&summary.Entries[i]))
	}
	writeJSON(w, http.StatusOK, cashbackResponse{BalancePaise: summary.BalancePaise, Entries: entries})
}

// ListNotifications возвращает уведомления вызывающего, новые первыми.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	notifications, err := h.service.ListNotifications(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		resp = append(resp, toNotificationResponse(&notifications[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkNotificationRead помечает уведомление вызывающего прочитанным.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount возвращает число непрочитанных уведомлений вызывающего.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	count, err := h.service.CountUnreadNotifications(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
