package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// slaWindow задаёт глубину выборки для SLA-статистики дашборда.
const slaWindow = 30 * 24 * time.Hour

// ListVendorsForAdmin возвращает продавцов с фильтром по статусу модерации.
func (s *Service) ListVendorsForAdmin(ctx context.Context, approval model.VendorApproval, limit, offset int) ([]model.Vendor, error) {
	return s.repo.ListVendors(ctx, approval, limit, offset)
}

// ApproveVendor одобряет продавца и уведомляет владельца.
func (s *Service) ApproveVendor(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error) {
	vendor, err := s.repo.UpdateVendorApproval(ctx, vendorID, model.VendorApproved)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, vendor.OwnerID, "vendor_update", "Store approved",
		"Your store has been approved. Go online to start receiving orders.",
		map[string]string{"vendorId": vendor.ID.String()})

	return vendor, nil
}

// RejectVendor отклоняет продавца с указанием причины и уведомляет владельца.
func (s *Service) RejectVendor(ctx context.Context, vendorID uuid.UUID, reason string) (*model.Vendor, error) {
	vendor, err := s.repo.UpdateVendorApproval(ctx, vendorID, model.VendorRejected)
	if err != nil {
		return nil, err
	}

	body := "Your store application was rejected."
	if reason != "" {
		body = fmt.Sprintf("Your store application was rejected: %s", reason)
	}
	s.notify(ctx, vendor.OwnerID, "vendor_update", "Store rejected", body,
		map[string]string{"vendorId": vendor.ID.String()})

	return vendor, nil
}

// ListAllOrders возвращает заказы для административного обзора.
func (s *Service) ListAllOrders(ctx context.Context, f repository.OrderFilter) ([]model.Order, error) {
	return s.repo.ListAllOrders(ctx, f)
}

// SLAStats содержит перцентили длительностей этапов заказа в минутах.
type SLAStats struct {
	AcceptMedianMin float64
	AcceptP90Min    float64
	MockupMedianMin float64
	MockupP90Min    float64
}

// DashboardStats содержит сводку для административного дашборда.
type DashboardStats struct {
	Orders            int64
	RevenuePaise      int64
	ActiveVendors     int64
	Customers         int64
	OrdersByStatus    map[model.OrderStatus]int64
	CashbackLiability int64
	SLA               SLAStats
}

// GetDashboard собирает сводку дашборда. Агрегаты — независимые чтения,
// выполняются параллельно.
func (s *Service) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	var (
		totals    *repository.OrderTotals
		byStatus  map[model.OrderStatus]int64
		vendors   int64
		customers int64
		liability int64
		samples   *repository.SLASamples
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		totals, err = s.repo.GetOrderTotals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.CountOrdersByStatus(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vendors, err = s.repo.CountActiveVendors(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.repo.CountCustomers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		liability, err = s.repo.CashbackLiability(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		samples, err = s.repo.GetSLASamples(ctx, time.Now().Add(-slaWindow))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DashboardStats{
		Orders:            totals.Orders,
		RevenuePaise:      totals.RevenuePaise,
		ActiveVendors:     vendors,
		Customers:         customers,
		OrdersByStatus:    byStatus,
		CashbackLiability: liability,
		SLA: SLAStats{
			AcceptMedianMin: medianOrZero(samples.AcceptMinutes),
			AcceptP90Min:    percentileOrZero(samples.AcceptMinutes, 90),
			MockupMedianMin: medianOrZero(samples.MockupMinutes),
			MockupP90Min:    percentileOrZero(samples.MockupMinutes, 90),
		},
	}, nil
}

func medianOrZero(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	v, err := stats.Median(samples)
	if err != nil {
		return 0
	}
	return v
}

func percentileOrZero(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	v, err := stats.Percentile(samples, p)
	if err != nil {
		return 0
	}
	return v
}
