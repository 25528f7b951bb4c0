package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/devwyshkit/wyshkit-sub002/internal/middleware"
	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса Wyshkit.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/health/supabase", h.HealthStore)
	r.Get("/health/config", h.HealthConfig)

	// Вебхук аутентифицируется подписью провайдера, не токеном.
	r.Post("/webhooks/razorpay", h.RazorpayWebhook)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-otp", h.SendOTP)
		r.Post("/verify-otp", h.VerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Post("/sync-user", h.SyncUser)
		})
	})

	// Публичный каталог.
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products/{id}/reviews", h.ListReviews)

	// Покупательская поверхность.
	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Post("/products/{id}/reviews", h.CreateReview)
		r.Get("/products/{id}/can-review", h.CanReview)

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.ListAddresses)
			r.Post("/", h.CreateAddress)
			r.Get("/{id}", h.GetAddress)
			r.Patch("/{id}", h.UpdateAddress)
			r.Delete("/{id}", h.DeleteAddress)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Checkout)
			r.Get("/", h.GetOrders)
			r.Get("/{id}", h.GetOrder)
			r.Post("/{id}/approve-mockup", h.ApproveMockup)
			r.Post("/{id}/details", h.ProvideDetails)
			r.Post("/{id}/cancel", h.CancelOrder)
		})

		r.Get("/cashback", h.GetCashback)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Get("/unread-count", h.UnreadCount)
			r.Patch("/{id}/read", h.MarkNotificationRead)
		})
	})

	// Поверхность продавца.
	r.Route("/vendor", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		// Регистрация доступна покупателю: роль vendor назначается при её успехе.
		r.Post("/register", h.RegisterVendor)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.RequireRole(model.RoleVendor, model.RoleAdmin))

			r.Get("/profile", h.VendorProfile)
			r.Patch("/profile", h.UpdateVendorProfile)
			r.Post("/online", h.SetVendorOnline)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListVendorProducts)
				r.Post("/", h.CreateVendorProduct)
				r.Patch("/{id}", h.UpdateVendorProduct)
				r.Delete("/{id}", h.DeleteVendorProduct)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.VendorOrders)
				r.Get("/{id}", h.VendorOrder)
				r.Post("/{id}/accept", h.AcceptOrder)
				r.Post("/{id}/details", h.RequestDetails)
				r.Post("/{id}/mockup", h.UploadMockup)
				r.Post("/{id}/crafting", h.StartCrafting)
				r.Post("/{id}/ready", h.MarkOrderReady)
				r.Post("/{id}/dispatch", h.DispatchOrder)
				r.Post("/{id}/deliver", h.DeliverOrder)
			})
		})
	})

	// Административная поверхность.
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)
		r.Use(h.authMiddleware.RequireRole(model.RoleAdmin))

		r.Get("/vendors", h.AdminVendors)
		r.Patch("/vendors/{id}/approve", h.ApproveVendor)
		r.Patch("/vendors/{id}/reject", h.RejectVendor)

		r.Get("/orders", h.AdminOrders)
		r.Get("/dashboard", h.Dashboard)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found", nil)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "", http.StatusText(http.StatusMethodNotAllowed), nil)
	})

	return r
}
