// Package handler содержит HTTP-обработчики API сервиса Wyshkit.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/config"
	"github.com/devwyshkit/wyshkit-sub002/internal/middleware"
	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/razorpay"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
	"github.com/devwyshkit/wyshkit-sub002/internal/service"
	"github.com/devwyshkit/wyshkit-sub002/internal/validation"
)

// sessionTTL задаёт срок жизни сессионного токена, выдаваемого после проверки кода.
const sessionTTL = 30 * 24 * time.Hour

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*model.User, error)
	SyncUser(ctx context.Context, userID uuid.UUID, name, email string) (*model.User, error)

	CreateAddress(ctx context.Context, a *model.Address) (*model.Address, error)
	GetAddress(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	UpdateAddress(ctx context.Context, a *model.Address) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error

	ListCatalog(ctx context.Context, f repository.CatalogFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error)
	CanReview(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int32, comment string) (*model.Review, error)

	Checkout(ctx context.Context, customerID uuid.UUID, req *validation.CheckoutRequest) (*model.Order, error)
	GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ListCustomerOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error)
	ApproveMockup(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ProvideOrderDetails(ctx context.Context, userID, orderID uuid.UUID, details string) (*model.Order, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error)

	GetCashback(ctx context.Context, userID uuid.UUID, limit, offset int) (*service.CashbackSummary, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)

	RegisterVendor(ctx context.Context, ownerID uuid.UUID, v *model.Vendor) (*model.Vendor, error)
	GetVendorProfile(ctx context.Context, ownerID uuid.UUID) (*model.Vendor, error)
	UpdateVendorProfile(ctx context.Context, ownerID uuid.UUID, description string, radiusKm float64) (*model.Vendor, error)
	SetVendorOnline(ctx context.Context, ownerID uuid.UUID, online bool) (*model.Vendor, error)
	CreateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error)
	ListVendorProducts(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	UpdateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error)
	DeleteVendorProduct(ctx context.Context, ownerID, productID uuid.UUID) error

	GetVendorOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ListVendorOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error)
	AcceptOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	RequestOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	UploadMockup(ctx context.Context, userID, orderID uuid.UUID, mockups map[string][]string) (*model.Order, error)
	StartCrafting(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	MarkOrderReady(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	DispatchOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	DeliverOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error)

	ListVendorsForAdmin(ctx context.Context, approval model.VendorApproval, limit, offset int) ([]model.Vendor, error)
	ApproveVendor(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error)
	RejectVendor(ctx context.Context, vendorID uuid.UUID, reason string) (*model.Vendor, error)
	ListAllOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error)
	GetDashboard(ctx context.Context) (*service.DashboardStats, error)

	HandlePaymentEvent(ctx context.Context, ev *razorpay.Event) error
	PingStore(ctx context.Context) error
}

// Handler реализует HTTP-обработчики API сервиса Wyshkit.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	validate       *validatorv10.Validate
	cfg            *config.Config
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, cfg *config.Config) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		validate:       validation.New(),
		cfg:            cfg,
	}
}

// identity извлекает пользователя и роль из контекста запроса.
// Отсутствие идентичности за auth-middleware означает ошибку конфигурации маршрута.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, model.Role, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "authentication required", nil)
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetRoleFromContext(r.Context())
	return userID, role, true
}

// pathUUID разбирает URL-параметр как UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// pagination разбирает limit/offset из строки запроса с защитными пределами.
func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// orderFilter разбирает фильтр списков заказов из строки запроса.
func orderFilter(r *http.Request) repository.OrderFilter {
	limit, offset := pagination(r)
	return repository.OrderFilter{
		Status: model.OrderStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
}
