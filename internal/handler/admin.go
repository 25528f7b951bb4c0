package handler

import (
	"encoding/json"
	"net/http"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/service"
)

// AdminVendors возвращает продавцов с фильтром по статусу модерации.
func (h *Handler) AdminVendors(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	approval := model.VendorApproval(r.URL.Query().Get("approval"))

	vendors, err := h.service.ListVendorsForAdmin(r.Context(), approval, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]vendorResponse, 0, len(vendors))
	for i := range vendors {
		resp = append(resp, toVendorResponse(&vendors[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ApproveVendor одобряет продавца и уведомляет владельца.
func (h *Handler) ApproveVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	vendor, err := h.service.ApproveVendor(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponse(vendor))
}

type rejectVendorRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// RejectVendor отклоняет продавца с указанием причины и уведомляет владельца.
func (h *Handler) RejectVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
		return
	}

	var req rejectVendorRequest
	if r.Body != nil {
		// Тело необязательно: отклонение без причины допустимо.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "validation failed", fieldDetails(err))
		return
	}

	vendor, err := h.service.RejectVendor(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponse(vendor))
}

// AdminOrders возвращает все заказы для административного обзора.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAllOrders(r.Context(), orderFilter(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

type slaResponse struct {
	AcceptMedianMin float64 `json:"acceptMedianMin"`
	AcceptP90Min    float64 `json:"acceptP90Min"`
	MockupMedianMin float64 `json:"mockupMedianMin"`
	MockupP90Min    float64 `json:"mockupP90Min"`
}

type dashboardResponse struct {
	Orders            int64            `json:"orders"`
	RevenuePaise      int64            `json:"revenuePaise"`
	ActiveVendors     int64            `json:"activeVendors"`
	Customers         int64            `json:"customers"`
	OrdersByStatus    map[string]int64 `json:"ordersByStatus"`
	CashbackLiability int64            `json:"cashbackLiabilityPaise"`
	SLA               slaResponse      `json:"sla"`
}

func toDashboardResponse(d *service.DashboardStats) dashboardResponse {
	byStatus := make(map[string]int64, len(d.OrdersByStatus))
	for s, n := range d.OrdersByStatus {
		byStatus[string(s)] = n
	}
	return dashboardResponse{
		Orders:            d.Orders,
		RevenuePaise:      d.RevenuePaise,
		ActiveVendors:     d.ActiveVendors,
		Customers:         d.Customers,
		OrdersByStatus:    byStatus,
		CashbackLiability: d.CashbackLiability,
		SLA: slaResponse{
			AcceptMedianMin: d.SLA.AcceptMedianMin,
			AcceptP90Min:    d.SLA.AcceptP90Min,
			MockupMedianMin: d.SLA.MockupMedianMin,
			MockupP90Min:    d.SLA.MockupP90Min,
		},
	}
}

// Dashboard возвращает сводку административного дашборда.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(stats))
}
