package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/distance"
	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/validation"
)

// Тарифная сетка доставки по оценке дорожного расстояния.
func deliveryFeePaise(km float64) int64 {
	switch {
	case km <= 3:
		return 3000
	case km <= 7:
		return 5000
	case km <= 12:
		return 8000
	default:
		return 12000
	}
}

// базовая плата за доставку, когда точка не геокодирована
const defaultDeliveryFeePaise = 5000

// Checkout оформляет заказ: пересчитывает суммы по каталожным ценам,
// снимает снимок адреса доставки, применяет кэшбэк и создаёт платёжный
// заказ у провайдера. Заявленные клиентом суммы сверяются с расчётом.
func (s *Service) Checkout(ctx context.Context, customerID uuid.UUID, req *validation.CheckoutRequest) (*model.Order, error) {
	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return nil, fmt.Errorf("parse address id: %w", err)
	}

	address, err := s.repo.GetAddress(ctx, customerID, addressID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("parse product id: %w", err)
		}
		ids = append(ids, id)
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var vendorID uuid.UUID
	items := make([]model.OrderItem, 0, len(req.Items))
	var itemTotal int64

	for i, reqItem := range req.Items {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, ErrProductInactive
		}
		if !p.IsActive {
			return nil, ErrProductInactive
		}

		if vendorID == uuid.Nil {
			vendorID = p.VendorID
		} else if vendorID != p.VendorID {
			return nil, ErrMixedVendors
		}

		unit, err := unitPricePaise(p, reqItem.SelectedVariant, reqItem.SelectedAddons)
		if err != nil {
			return nil, err
		}

		items = append(items, model.OrderItem{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        reqItem.Quantity,
			UnitPricePaise:  unit,
			SelectedVariant: reqItem.SelectedVariant,
			SelectedAddons:  reqItem.SelectedAddons,
			Customization: model.Customization{
				Text:        reqItem.Text,
				PhotoPath:   reqItem.PhotoPath,
				GiftMessage: reqItem.GiftMessage,
			},
		})

		itemTotal += unit * int64(reqItem.Quantity)
	}

	vendor, err := s.repo.GetVendorByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Approval != model.VendorApproved || !vendor.IsOnline {
		return nil, ErrVendorUnavailable
	}

	deliveryFee := int64(defaultDeliveryFeePaise)
	if req.DropLatitude != nil && req.DropLongitude != nil {
		km := s.distance.RoadKm(ctx,
			distance.Point{Latitude: vendor.Latitude, Longitude: vendor.Longitude},
			distance.Point{Latitude: *req.DropLatitude, Longitude: *req.DropLongitude},
		)
		if km > vendor.DeliveryRadiusKm {
			return nil, ErrOutsideDeliveryRadius
		}
		deliveryFee = deliveryFeePaise(km)
	}

	platformFee := itemTotal * s.cfg.PlatformFeeBps / 10000
	total := itemTotal + deliveryFee + platformFee - req.CashbackUsed

	// Клиент подтверждает ту сумму, которую видел; расхождение с расчётом — отказ.
	if req.ItemTotal != itemTotal || req.DeliveryFee != deliveryFee ||
		req.PlatformFee != platformFee || req.Total != total {
		return nil, ErrTotalsMismatch
	}

	order := &model.Order{
		ID:           uuid.New(),
		CustomerID:   customerID,
		VendorID:     vendorID,
		Items:        items,
		ItemTotal:    itemTotal,
		DeliveryFee:  deliveryFee,
		PlatformFee:  platformFee,
		CashbackUsed: req.CashbackUsed,
		Total:        total,
		Delivery: model.DeliveryAddress{
			RecipientName: address.RecipientName,
			Phone:         address.Phone,
			Street:        address.Street,
			City:          address.City,
			PostalCode:    address.PostalCode,
		},
	}

	// Платёжный заказ создаётся до записи: его идентификатор входит в строку заказа.
	if s.payments != nil {
		providerOrderID, err := s.payments.CreateOrder(ctx, total, order.ID.String())
		if err != nil {
			s.logger.Warn("payment order creation failed",
				zap.Error(err), zap.String("orderID", order.ID.String()))
		} else {
			order.RazorpayOrderID = providerOrderID
		}
	}

	saved, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, vendor.OwnerID, "order_update",
		"New order "+saved.Number,
		fmt.Sprintf("You have a new order for %s.", formatINR(saved.Total)),
		map[string]string{"orderId": saved.ID.String()},
	)

	return saved, nil
}

func unitPricePaise(p *model.Product, selectedVariant map[string]string, selectedAddons []string) (int64, error) {
	price := p.PricePaise

	for name, option := range selectedVariant {
		variant, ok := findVariant(p.Variants, name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
		}
		if !hasOption(variant.Options, option) {
			return 0, fmt.Errorf("%w: %s=%s", ErrUnknownVariant, name, option)
		}
		price += variant.PriceDeltaPaise
	}

	for _, name := range selectedAddons {
		found := false
		for _, a := range p.Addons {
			if a.Name == name {
				price += a.PricePaise
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %s", ErrUnknownAddon, name)
		}
	}

	return price, nil
}

func findVariant(variants []model.ProductVariant, name string) (model.ProductVariant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return model.ProductVariant{}, false
}

func hasOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
