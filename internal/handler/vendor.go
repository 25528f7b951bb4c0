package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

type registerVendorRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	City      string  `json:"city" validate:"required,max=100"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`

	Description      string  `json:"description" validate:"max=2000"`
	DeliveryRadiusKm float64 `json:"deliveryRadiusKm" validate:"gt=0,lte=100"`
}

// RegisterVendor регистрирует продавца за вызывающим пользователем.
// Приём заказов открывается только после одобрения администратором.
func (h *Handler) RegisterVendor(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req registerVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	vendor, err := h.service.RegisterVendor(r.Context(), userID, &model.Vendor{
		Name:             req.Name,
		Description:      req.Description,
		City:             req.City,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		DeliveryRadiusKm: req.DeliveryRadiusKm,
		Approval:         model.VendorPending,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVendorResponse(vendor))
}

// VendorProfile возвращает профиль продавца вызывающего.
func (h *Handler) VendorProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	vendor, err := h.service.GetVendorProfile(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponse(vendor))
}

type updateVendorProfileRequest struct {
	Description      string  `json:"description" validate:"max=2000"`
	DeliveryRadiusKm float64 `json:"deliveryRadiusKm" validate:"gt=0,lte=100"`
}

// UpdateVendorProfile обновляет описание и радиус доставки продавца вызывающего.
func (h *Handler) UpdateVendorProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req updateVendorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	vendor, err := h.service.UpdateVendorProfile(r.Context(), userID, req.Description, req.DeliveryRadiusKm)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponse(vendor))
}

type vendorOnlineRequest struct {
	Online bool `json:"online"`
}

// SetVendorOnline переключает приём заказов продавца вызывающего.
func (h *Handler) SetVendorOnline(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req vendorOnlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}

	vendor, err := h.service.SetVendorOnline(r.Context(), userID, req.Online)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponse(vendor))
}

type productRequest struct {
	Name          string                    `json:"name" validate:"required,max=200"`
	Description   string                    `json:"description" validate:"max=2000"`
	PricePaise    int64                     `json:"pricePaise" validate:"required,gt=0"`
	Category      string                    `json:"category" validate:"max=100"`
	Images        []string                  `json:"images" validate:"max=10,dive,max=300"`
	Variants      []model.ProductVariant    `json:"variants" validate:"max=10"`
	Addons        []model.ProductAddon      `json:"addons" validate:"max=20"`
	Customization model.CustomizationSchema `json:"customization"`
	IsActive      bool                      `json:"isActive"`
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (*productRequest, bool) {
	var req productRequest
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

// CreateVendorProduct добавляет товар в каталог продавца вызывающего.
func (h *Handler) CreateVendorProduct(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateVendorProduct(r.Context(), userID, &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		PricePaise:    req.PricePaise,
		Category:      req.Category,
		Images:        req.Images,
		Variants:      req.Variants,
		Addons:        req.Addons,
		Customization: req.Customization,
		IsActive:      req.IsActive,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// ListVendorProducts возвращает каталог продавца вызывающего, включая неактивные товары.
func (h *Handler) ListVendorProducts(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	products, err := h.service.ListVendorProducts(r.Context(), userID)
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

// UpdateVendorProduct обновляет товар продавца вызывающего.
func (h *Handler) UpdateVendorProduct(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateVendorProduct(r.Context(), userID, &model.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		PricePaise:    req.PricePaise,
		Category:      req.Category,
		Images:        req.Images,
		Variants:      req.Variants,
		Addons:        req.Addons,
		Customization: req.Customization,
		IsActive:      req.IsActive,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteVendorProduct мягко удаляет товар продавца вызывающего.
func (h *Handler) DeleteVendorProduct(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	if err := h.service.DeleteVendorProduct(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VendorOrders возвращает заказы продавца вызывающего.
func (h *Handler) VendorOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListVendorOrders(r.Context(), userID, orderFilter(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// VendorOrder возвращает заказ продавца вызывающего.
func (h *Handler) VendorOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := h.service.GetVendorOrder(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// transition выполняет операцию перехода без тела запроса от имени продавца.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error),
) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := op(r, userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// AcceptOrder принимает заказ в работу от имени продавца-владельца.
func (h *Handler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error) {
		return h.service.AcceptOrder(r.Context(), userID, orderID)
	})
}

// RequestDetails запрашивает у покупателя недостающие детали персонализации.
func (h *Handler) RequestDetails(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error) {
		return h.service.RequestOrderDetails(r.Context(), userID, orderID)
	})
}

type uploadMockupRequest struct {
	// Mockups отображает идентификатор товара в список ссылок на изображения.
	Mockups map[string][]string `json:"mockups" validate:"required,min=1,dive,min=1,dive,max=300"`
}

// UploadMockup сохраняет макеты и переводит заказ в mockup_ready.
func (h *Handler) UploadMockup(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	var req uploadMockupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}
	for productID := range req.Mockups {
		if _, err := uuid.Parse(productID); err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed",
				map[string]string{"mockups": "keys must be product ids"})
			return
		}
	}

	order, err := h.service.UploadMockup(r.Context(), userID, id, req.Mockups)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// StartCrafting переводит заказ approved -> crafting.
func (h *Handler) StartCrafting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error) {
		return h.service.StartCrafting(r.Context(), userID, orderID)
	})
}

// MarkOrderReady переводит заказ в ready_for_pickup.
func (h *Handler) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error) {
		return h.service.MarkOrderReady(r.Context(), userID, orderID)
	})
}

// DispatchOrder переводит заказ в out_for_delivery.
func (h *Handler) DispatchOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID, orderID uuid.UUID) (*model.Order, error) {
		return h.service.DispatchOrder(r.Context(), userID, orderID)
	})
}

// DeliverOrder завершает доставку. Доступна продавцу-владельцу и администратору.
func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	order, err := h.service.DeliverOrder(r.Context(), userID, role, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
