package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

type stubService struct {
	sendOTPErr error

	verifyUser *model.User
	verifyErr  error

	checkoutOrder *model.Order
	checkoutErr   error

	order    *model.Order
	orderErr error

	acceptOrder *model.Order
	acceptErr   error
	acceptCalls int

	eventErr   error
	eventCalls int

	pingErr error

	dashboard *service.DashboardStats
}

func (s *stubService) SendOTP(ctx context.Context, phone string) error { return s.sendOTPErr }

func (s *stubService) VerifyOTP(ctx context.Context, phone, code string) (*model.User, error) {
	return s.verifyUser, s.verifyErr
}

func (s *stubService) SyncUser(ctx context.Context, userID uuid.UUID, name, email string) (*model.User, error) {
	return s.verifyUser, s.verifyErr
}

func (s *stubService) CreateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	return a, nil
}

func (s *stubService) GetAddress(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	return nil, repository.ErrAddressNotFound
}

func (s *stubService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return nil, nil
}

func (s *stubService) UpdateAddress(ctx context.Context, a *model.Address) (*model.Address, error) {
	return a, nil
}

func (s *stubService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error { return nil }

func (s *stubService) ListCatalog(ctx context.Context, f repository.CatalogFilter) ([]model.Product, error) {
	return nil, nil
}

func (s *stubService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, repository.ErrProductNotFound
}

func (s *stubService) ListReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error) {
	return nil, nil
}

func (s *stubService) CanReview(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubService) CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int32, comment string) (*model.Review, error) {
	return nil, service.ErrReviewNotAllowed
}

func (s *stubService) Checkout(ctx context.Context, customerID uuid.UUID, req *validation.CheckoutRequest) (*model.Order, error) {
	return s.checkoutOrder, s.checkoutErr
}

func (s *stubService) GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) ListCustomerOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error) {
	return nil, nil
}

func (s *stubService) ApproveMockup(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) ProvideOrderDetails(ctx context.Context, userID, orderID uuid.UUID, details string) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) CancelOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) GetCashback(ctx context.Context, userID uuid.UUID, limit, offset int) (*service.CashbackSummary, error) {
	return &service.CashbackSummary{}, nil
}

func (s *stubService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (s *stubService) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (s *stubService) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubService) RegisterVendor(ctx context.Context, ownerID uuid.UUID, v *model.Vendor) (*model.Vendor, error) {
	return v, nil
}

func (s *stubService) GetVendorProfile(ctx context.Context, ownerID uuid.UUID) (*model.Vendor, error) {
	return nil, repository.ErrVendorNotFound
}

func (s *stubService) UpdateVendorProfile(ctx context.Context, ownerID uuid.UUID, description string, radiusKm float64) (*model.Vendor, error) {
	return nil, repository.ErrVendorNotFound
}

func (s *stubService) SetVendorOnline(ctx context.Context, ownerID uuid.UUID, online bool) (*model.Vendor, error) {
	return nil, repository.ErrVendorNotFound
}

func (s *stubService) CreateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error) {
	return p, nil
}

func (s *stubService) ListVendorProducts(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	return nil, nil
}

func (s *stubService) UpdateVendorProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) (*model.Product, error) {
	return p, nil
}

func (s *stubService) DeleteVendorProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	return nil
}

func (s *stubService) GetVendorOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) ListVendorOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error) {
	return nil, nil
}

func (s *stubService) AcceptOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	s.acceptCalls++
	return s.acceptOrder, s.acceptErr
}

func (s *stubService) RequestOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) UploadMockup(ctx context.Context, userID, orderID uuid.UUID, mockups map[string][]string) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) StartCrafting(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) MarkOrderReady(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) DispatchOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) DeliverOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubService) ListVendorsForAdmin(ctx context.Context, approval model.VendorApproval, limit, offset int) ([]model.Vendor, error) {
	return nil, nil
}

func (s *stubService) ApproveVendor(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error) {
	return nil, repository.ErrVendorNotFound
}

func (s *stubService) RejectVendor(ctx context.Context, vendorID uuid.UUID, reason string) (*model.Vendor, error) {
	return nil, repository.ErrVendorNotFound
}

func (s *stubService) ListAllOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error) {
	return nil, nil
}

func (s *stubService) GetDashboard(ctx context.Context) (*service.DashboardStats, error) {
	if s.dashboard == nil {
		return &service.DashboardStats{}, nil
	}
	return s.dashboard, nil
}

func (s *stubService) HandlePaymentEvent(ctx context.Context, ev *razorpay.Event) error {
	s.eventCalls++
	return s.eventErr
}

func (s *stubService) PingStore(ctx context.Context) error { return s.pingErr }

const testWebhookSecret = "whsec-test"

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret")
	cfg := &config.Config{
		RunAddress:            "localhost:8080",
		DatabaseURI:           "postgres://test",
		Environment:           "development",
		AuthSecret:            "test-secret",
		RazorpayKeyID:         "key",
		RazorpayKeySecret:     "secret",
		RazorpayWebhookSecret: testWebhookSecret,
		MessagingAddress:      "http://messaging",
		MessagingAPIKey:       "mkey",
		DistanceAddress:       "http://distance",
	}

	return NewHandler(svc, logger, auth, cfg)
}

func bearerToken(t *testing.T, h *Handler, role model.Role) string {
	t.Helper()

	token, err := h.authMiddleware.IssueToken(uuid.New(), role, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func decodeEnvelope(t *testing.T, res *http.Response) errorResponse {
	t.Helper()

	var envelope errorResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestRouterAuthRequired(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
	if envelope := decodeEnvelope(t, res); envelope.Code != codeAuthRequired {
		t.Fatalf("code = %q, want %q", envelope.Code, codeAuthRequired)
	}
}

func TestRouterAdminRoleGuard(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", bearerToken(t, h, model.RoleCustomer))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAcceptOrderPreconditionFailed(t *testing.T) {
	svc := &stubService{acceptErr: repository.ErrStatusConflict}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/vendor/orders/"+uuid.NewString()+"/accept", nil)
	req.Header.Set("Authorization", bearerToken(t, h, model.RoleVendor))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
	if envelope := decodeEnvelope(t, res); envelope.Code != codePreconditionFailed {
		t.Fatalf("code = %q, want %q", envelope.Code, codePreconditionFailed)
	}
}

func TestAcceptOrderForeignVendor(t *testing.T) {
	svc := &stubService{acceptErr: service.ErrNotOrderVendor}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/vendor/orders/"+uuid.NewString()+"/accept", nil)
	req.Header.Set("Authorization", bearerToken(t, h, model.RoleVendor))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusForbidden)
	}
	if envelope := decodeEnvelope(t, res); envelope.Code != codeForbidden {
		t.Fatalf("code = %q, want %q", envelope.Code, codeForbidden)
	}
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookBadSignature(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	body := []byte(`{"event":"payment.captured"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "deadbeef")
	rec := httptest.NewRecorder()

	h.RazorpayWebhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if svc.eventCalls != 0 {
		t.Fatalf("unsigned webhook must not reach the service, calls = %d", svc.eventCalls)
	}
}

func TestWebhookValidSignature(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","status":"captured"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signWebhook(body))
	rec := httptest.NewRecorder()

	h.RazorpayWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.eventCalls != 1 {
		t.Fatalf("event calls = %d, want 1", svc.eventCalls)
	}
}

func checkoutBody(t *testing.T) ([]byte, *model.Order) {
	t.Helper()

	productID := uuid.New()
	req := validation.CheckoutRequest{
		AddressID:   uuid.NewString(),
		Items:       []validation.CheckoutItemRequest{{ProductID: productID.String(), Quantity: 2}},
		ItemTotal:   200000,
		DeliveryFee: 5000,
		PlatformFee: 6000,
		Total:       211000,
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal checkout: %v", err)
	}

	order := &model.Order{
		ID:         uuid.New(),
		Number:     "WK-000007",
		CustomerID: uuid.New(),
		VendorID:   uuid.New(),
		Status:     model.OrderStatusPending,
		Items: []model.OrderItem{{
			ProductID:      productID,
			ProductName:    "Engraved photo frame",
			Quantity:       2,
			UnitPricePaise: 100000,
		}},
		ItemTotal:     200000,
		DeliveryFee:   5000,
		PlatformFee:   6000,
		Total:         211000,
		Delivery:      model.DeliveryAddress{RecipientName: "Asha", City: "Bengaluru"},
		PaymentStatus: model.PaymentPending,
	}
	return body, order
}

func TestCheckoutRoundTrip(t *testing.T) {
	body, order := checkoutBody(t)
	svc := &stubService{checkoutOrder: order}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, h, model.RoleCustomer))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", res.StatusCode, http.StatusCreated, rec.Body.String())
	}

	var resp orderResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode order response: %v", err)
	}
	if resp.Number != order.Number {
		t.Fatalf("number = %q, want %q", resp.Number, order.Number)
	}
	if resp.Total != order.Total || resp.ItemTotal != order.ItemTotal {
		t.Fatalf("totals not preserved: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].ProductName != "Engraved photo frame" {
		t.Fatalf("items not preserved: %+v", resp.Items)
	}
	if resp.Delivery.City != "Bengaluru" {
		t.Fatalf("delivery snapshot not preserved: %+v", resp.Delivery)
	}
}

func TestCheckoutClaimedTotalInconsistent(t *testing.T) {
	body, _ := checkoutBody(t)

	var req validation.CheckoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.Total = 1

	body, _ = json.Marshal(req)

	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	httpReq := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	httpReq.Header.Set("Authorization", bearerToken(t, h, model.RoleCustomer))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httpReq)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
	if envelope := decodeEnvelope(t, res); envelope.Code != codeValidationFailed {
		t.Fatalf("code = %q, want %q", envelope.Code, codeValidationFailed)
	}
}

func TestSendOTPInvalidPhone(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(sendOTPRequest{Phone: "12345"})
	req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SendOTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSendOTPGatewayDown(t *testing.T) {
	h := newTestHandler(t, &stubService{sendOTPErr: context.DeadlineExceeded})

	body, _ := json.Marshal(sendOTPRequest{Phone: "+919876543210"})
	req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SendOTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestVerifyOTPIssuesToken(t *testing.T) {
	user := &model.User{ID: uuid.New(), Phone: "+919876543210", Role: model.RoleCustomer}
	h := newTestHandler(t, &stubService{verifyUser: user})

	body, _ := json.Marshal(verifyOTPRequest{Phone: user.Phone, Code: "123456"})
	req := httptest.NewRequest(http.MethodPost, "/auth/verify-otp", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.VerifyOTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp verifyOTPResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected session token")
	}
	if resp.User.ID != user.ID.String() {
		t.Fatalf("user id = %q, want %q", resp.User.ID, user.ID)
	}
}

func TestHealthConfigReportsMissingKeys(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	h.cfg.AuthSecret = ""
	h.cfg.DatabaseURI = ""

	req := httptest.NewRequest(http.MethodGet, "/health/config", nil)
	rec := httptest.NewRecorder()

	h.HealthConfig(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var resp struct {
		Status  string   `json:"status"`
		Missing []string `json:"missing"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Missing) == 0 {
		t.Fatalf("expected missing keys in report")
	}
	for _, name := range resp.Missing {
		if name == "" {
			t.Fatalf("missing entries must be key names")
		}
	}
}

func TestHealthStoreUnavailable(t *testing.T) {
	h := newTestHandler(t, &stubService{pingErr: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/health/supabase", nil)
	rec := httptest.NewRecorder()

	h.HealthStore(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
