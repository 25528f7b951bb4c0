// Package service реализует бизнес-логику сервиса Wyshkit.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/devwyshkit/wyshkit-sub002/internal/distance"
	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// ErrNotOrderVendor возвращается при попытке продавца работать с чужим заказом.
var (
	ErrNotOrderVendor = errors.New("order belongs to another vendor")
	// ErrNotOrderCustomer возвращается при попытке покупателя работать с чужим заказом.
	ErrNotOrderCustomer = errors.New("order belongs to another customer")
	// ErrVendorNotApproved возвращается, когда действие требует одобренного продавца.
	ErrVendorNotApproved = errors.New("vendor is not approved")
	// ErrVendorUnavailable возвращается, когда продавец офлайн или не одобрен.
	ErrVendorUnavailable = errors.New("vendor is not accepting orders")
	// ErrMixedVendors возвращается, если позиции заказа принадлежат разным продавцам.
	ErrMixedVendors = errors.New("all items must belong to one vendor")
	// ErrProductInactive возвращается, если товар снят с продажи.
	ErrProductInactive = errors.New("product is not available")
	// ErrUnknownAddon возвращается при выборе несуществующего дополнения.
	ErrUnknownAddon = errors.New("unknown addon selected")
	// ErrUnknownVariant возвращается при выборе несуществующего варианта или опции.
	ErrUnknownVariant = errors.New("unknown variant selected")
	// ErrOutsideDeliveryRadius возвращается, когда точка доставки вне радиуса продавца.
	ErrOutsideDeliveryRadius = errors.New("delivery point is outside vendor radius")
	// ErrTotalsMismatch возвращается, когда заявленные клиентом суммы расходятся с расчётом сервера.
	ErrTotalsMismatch = errors.New("claimed totals do not match computed totals")
	// ErrReviewNotAllowed возвращается, когда у покупателя нет доставленного заказа с товаром.
	ErrReviewNotAllowed = errors.New("review is not allowed for this product")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error

	UpsertUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	SetUserRole(ctx context.Context, id uuid.UUID, role model.Role) error
	CountCustomers(ctx context.Context) (int64, error)

	CreateAddress(ctx context.Context, a *model.Address) (*model.Address, error)
	GetAddress(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	UpdateAddress(ctx context.Context, a *model.Address) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error

	CreateVendor(ctx context.Context, v *model.Vendor) (*model.Vendor, error)
	GetVendorByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	GetVendorByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Vendor, error)
	ListVendors(ctx context.Context, approval model.VendorApproval, limit, offset int) ([]model.Vendor, error)
	UpdateVendorApproval(ctx context.Context, id uuid.UUID, approval model.VendorApproval) (*model.Vendor, error)
	UpdateVendorProfile(ctx context.Context, id uuid.UUID, description string, radiusKm float64) (*model.Vendor, error)
	SetVendorOnline(ctx context.Context, id uuid.UUID, online bool) (*model.Vendor, error)
	CountActiveVendors(ctx context.Context) (int64, error)

	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	ListCatalog(ctx context.Context, f repository.CatalogFilter) ([]model.Product, error)
	ListProductsByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	SoftDeleteProduct(ctx context.Context, vendorID, id uuid.UUID) error

	CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, f repository.OrderFilter) ([]model.Order, error)
	ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, f repository.OrderFilter) ([]model.Order, error)
	ListAllOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error)
	TransitionOrder(ctx context.Context, id uuid.UUID, upd repository.TransitionUpdate) (*model.Order, error)
	UpdatePaymentByProviderOrder(ctx context.Context, providerOrderID string, ps model.PaymentStatus, paymentID string) (*model.Order, error)

	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateReview(ctx context.Context, rv *model.Review) (*model.Review, error)
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error)
	ReviewableOrder(ctx context.Context, userID, productID uuid.UUID) (uuid.UUID, error)

	AwardCashback(ctx context.Context, userID, orderID uuid.UUID, amountPaise int64) error
	GetCashbackBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListCashbackEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CashbackEntry, error)
	CashbackLiability(ctx context.Context) (int64, error)

	GetOrderTotals(ctx context.Context) (*repository.OrderTotals, error)
	CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	GetSLASamples(ctx context.Context, since time.Time) (*repository.SLASamples, error)
}

// PaymentGateway описывает создание платёжных заказов у провайдера.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error)
}

// DistanceEstimator описывает оценку дорожного расстояния.
type DistanceEstimator interface {
	RoadKm(ctx context.Context, origin, drop distance.Point) float64
}

// OTPManager описывает выдачу и проверку кодов подтверждения.
type OTPManager interface {
	Issue(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// Config содержит бизнес-параметры сервиса.
type Config struct {
	// PlatformFeeBps — комиссия платформы с суммы товаров, базисные пункты.
	PlatformFeeBps int64
	// CashbackRateBps — ставка начисления кэшбэка после оплаты, базисные пункты.
	CashbackRateBps int64
}

// Service содержит бизнес-логику сервиса Wyshkit.
type Service struct {
	repo     Repository
	logger   *zap.Logger
	payments PaymentGateway
	distance DistanceEstimator
	otp      OTPManager
	cfg      Config
}

// NewService создаёт сервис с указанными зависимостями.
func NewService(repo Repository, logger *zap.Logger, payments PaymentGateway, dist DistanceEstimator, otpm OTPManager, cfg Config) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		payments: payments,
		distance: dist,
		otp:      otpm,
		cfg:      cfg,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// PingStore проверяет доступность хранилища. Используется пробой здоровья.
func (s *Service) PingStore(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// inr форматирует суммы в рупиях с индийской группировкой разрядов.
var inr = message.NewPrinter(language.MustParse("en-IN"))

func formatINR(paise int64) string {
	rupees := paise / 100
	rest := paise % 100
	if rest < 0 {
		rest = -rest
	}
	return inr.Sprintf("₹%d.%02d", rupees, rest)
}

// notify вставляет уведомление для адресата. Сбой не прерывает основную
// операцию: запись делается по принципу fire-and-forget и лишь логируется.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, typ, title, body string, data map[string]string) {
	n := &model.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data:   data,
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("notification insert failed",
			zap.Error(err),
			zap.String("userID", userID.String()),
			zap.String("type", typ),
		)
	}
}

// Уведомления — best-effort: если продавец не нашёлся, уведомление
// пропускается, но сбой фиксируется в логе.
func (s *Service) logVendorLookupFailed(o *model.Order, err error) {
	s.logger.Warn("vendor lookup for notification failed",
		zap.Error(err),
		zap.String("orderID", o.ID.String()),
		zap.String("vendorID", o.VendorID.String()),
	)
}
