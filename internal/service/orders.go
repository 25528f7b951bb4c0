package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
	"github.com/devwyshkit/wyshkit-sub002/internal/status"
)

// transitionNote описывает уведомление, сопровождающее операцию перехода.
type transitionNote struct {
	title string
	body  func(o *model.Order) string
}

var vendorTransitionNotes = map[status.Operation]transitionNote{
	status.OpAccept: {
		title: "Order accepted",
		body: func(o *model.Order) string {
			return fmt.Sprintf("Your order %s has been accepted and is being personalized.", o.Number)
		},
	},
	status.OpRequestDetails: {
		title: "Details needed",
		body: func(o *model.Order) string {
			return fmt.Sprintf("The artisan needs more details to personalize order %s.", o.Number)
		},
	},
	status.OpUploadMockup: {
		title: "Mockup ready",
		body: func(o *model.Order) string {
			return fmt.Sprintf("A mockup for order %s is ready for your approval.", o.Number)
		},
	},
	status.OpStartCrafting: {
		title: "Crafting started",
		body: func(o *model.Order) string {
			return fmt.Sprintf("Crafting of order %s has started.", o.Number)
		},
	},
	status.OpMarkReady: {
		title: "Order ready",
		body: func(o *model.Order) string {
			return fmt.Sprintf("Order %s is ready for pickup.", o.Number)
		},
	},
	status.OpDispatch: {
		title: "Out for delivery",
		body: func(o *model.Order) string {
			return fmt.Sprintf("Order %s is out for delivery.", o.Number)
		},
	},
	status.OpMarkDelivered: {
		title: "Order delivered",
		body: func(o *model.Order) string {
			return fmt.Sprintf("Order %s has been delivered. Enjoy!", o.Number)
		},
	},
}

// vendorForOrder возвращает продавца вызывающего и проверяет владение заказом.
func (s *Service) vendorForOrder(ctx context.Context, userID uuid.UUID, order *model.Order) (*model.Vendor, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendor.ID {
		return nil, ErrNotOrderVendor
	}
	return vendor, nil
}

// vendorTransition выполняет операцию перехода от имени продавца-владельца:
// загрузка, авторизация, проверка предусловия, атомарная запись, уведомление.
func (s *Service) vendorTransition(ctx context.Context, userID, orderID uuid.UUID, op status.Operation, upd repository.TransitionUpdate) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.vendorForOrder(ctx, userID, order)
	if err != nil {
		return nil, err
	}
	if op == status.OpAccept && vendor.Approval != model.VendorApproved {
		return nil, ErrVendorNotApproved
	}

	if err := status.Guard(op, order.Status); err != nil {
		return nil, err
	}

	upd.Allowed = status.AllowedFrom(op)
	upd.Next = status.Target(op)

	updated, err := s.repo.TransitionOrder(ctx, orderID, upd)
	if err != nil {
		return nil, err
	}

	if note, ok := vendorTransitionNotes[op]; ok {
		s.notify(ctx, updated.CustomerID, "order_update", note.title, note.body(updated),
			map[string]string{"orderId": updated.ID.String()})
	}

	return updated, nil
}

// AcceptOrder переводит заказ pending -> personalizing от имени продавца-владельца.
func (s *Service) AcceptOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpAccept,
		repository.TransitionUpdate{SetAcceptedAt: true})
}

// RequestOrderDetails запрашивает у покупателя недостающие детали персонализации.
func (s *Service) RequestOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpRequestDetails, repository.TransitionUpdate{})
}

// UploadMockup сохраняет карту макетов и переводит заказ в mockup_ready.
// Повторная загрузка из mockup_ready допустима и заменяет карту целиком.
func (s *Service) UploadMockup(ctx context.Context, userID, orderID uuid.UUID, mockups map[string][]string) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpUploadMockup,
		repository.TransitionUpdate{SetMockups: true, Mockups: mockups, SetMockupAt: true})
}

// StartCrafting переводит заказ approved -> crafting.
func (s *Service) StartCrafting(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpStartCrafting, repository.TransitionUpdate{})
}

// MarkOrderReady переводит заказ в ready_for_pickup.
func (s *Service) MarkOrderReady(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpMarkReady, repository.TransitionUpdate{})
}

// DispatchOrder переводит заказ в out_for_delivery.
func (s *Service) DispatchOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return s.vendorTransition(ctx, userID, orderID, status.OpDispatch, repository.TransitionUpdate{})
}

// DeliverOrder завершает доставку и фиксирует момент вручения.
// Доступна продавцу-владельцу и администратору.
func (s *Service) DeliverOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error) {
	if role == model.RoleAdmin {
		order, err := s.repo.GetOrderByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := status.Guard(status.OpMarkDelivered, order.Status); err != nil {
			return nil, err
		}

		updated, err := s.repo.TransitionOrder(ctx, orderID, repository.TransitionUpdate{
			Allowed:        status.AllowedFrom(status.OpMarkDelivered),
			Next:           status.Target(status.OpMarkDelivered),
			SetDeliveredAt: true,
		})
		if err != nil {
			return nil, err
		}

		note := vendorTransitionNotes[status.OpMarkDelivered]
		s.notify(ctx, updated.CustomerID, "order_update", note.title, note.body(updated),
			map[string]string{"orderId": updated.ID.String()})
		return updated, nil
	}

	return s.vendorTransition(ctx, userID, orderID, status.OpMarkDelivered,
		repository.TransitionUpdate{SetDeliveredAt: true})
}

// ApproveMockup подтверждает макет от имени покупателя-владельца заказа.
func (s *Service) ApproveMockup(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != userID {
		return nil, ErrNotOrderCustomer
	}

	if err := status.Guard(status.OpApproveMockup, order.Status); err != nil {
		return nil, err
	}

	updated, err := s.repo.TransitionOrder(ctx, orderID, repository.TransitionUpdate{
		Allowed:             status.AllowedFrom(status.OpApproveMockup),
		Next:                status.Target(status.OpApproveMockup),
		SetMockupApprovedAt: true,
	})
	if err != nil {
		return nil, err
	}

	if vendor, err := s.repo.GetVendorByID(ctx, updated.VendorID); err != nil {
		s.logVendorLookupFailed(updated, err)
	} else {
		s.notify(ctx, vendor.OwnerID, "order_update", "Mockup approved",
			fmt.Sprintf("The customer approved the mockup for order %s.", updated.Number),
			map[string]string{"orderId": updated.ID.String()})
	}

	return updated, nil
}

// ProvideOrderDetails передаёт продавцу недостающие детали и возвращает заказ в работу.
func (s *Service) ProvideOrderDetails(ctx context.Context, userID, orderID uuid.UUID, details string) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != userID {
		return nil, ErrNotOrderCustomer
	}

	if err := status.Guard(status.OpProvideDetails, order.Status); err != nil {
		return nil, err
	}

	updated, err := s.repo.TransitionOrder(ctx, orderID, repository.TransitionUpdate{
		Allowed: status.AllowedFrom(status.OpProvideDetails),
		Next:    status.Target(status.OpProvideDetails),
	})
	if err != nil {
		return nil, err
	}

	if vendor, err := s.repo.GetVendorByID(ctx, updated.VendorID); err != nil {
		s.logVendorLookupFailed(updated, err)
	} else {
		s.notify(ctx, vendor.OwnerID, "order_update", "Details provided",
			fmt.Sprintf("The customer provided details for order %s: %s", updated.Number, details),
			map[string]string{"orderId": updated.ID.String()})
	}

	return updated, nil
}

// CancelOrder отменяет нетерминальный заказ. Доступна покупателю-владельцу и администратору.
func (s *Service) CancelOrder(ctx context.Context, userID uuid.UUID, role model.Role, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && order.CustomerID != userID {
		return nil, ErrNotOrderCustomer
	}

	if err := status.Guard(status.OpCancel, order.Status); err != nil {
		return nil, err
	}

	updated, err := s.repo.TransitionOrder(ctx, orderID, repository.TransitionUpdate{
		Allowed: status.AllowedFrom(status.OpCancel),
		Next:    status.Target(status.OpCancel),
	})
	if err != nil {
		return nil, err
	}

	// Уведомляется контрагент отменившей стороны.
	if role == model.RoleAdmin || userID == order.CustomerID {
		if vendor, vErr := s.repo.GetVendorByID(ctx, updated.VendorID); vErr != nil {
			s.logVendorLookupFailed(updated, vErr)
		} else {
			s.notify(ctx, vendor.OwnerID, "order_update", "Order cancelled",
				fmt.Sprintf("Order %s has been cancelled.", updated.Number),
				map[string]string{"orderId": updated.ID.String()})
		}
	}
	if role == model.RoleAdmin {
		s.notify(ctx, updated.CustomerID, "order_update", "Order cancelled",
			fmt.Sprintf("Order %s has been cancelled.", updated.Number),
			map[string]string{"orderId": updated.ID.String()})
	}

	return updated, nil
}

// GetCustomerOrder возвращает заказ покупателя. Чужие заказы неотличимы от отсутствующих.
func (s *Service) GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// ListCustomerOrders возвращает заказы покупателя.
func (s *Service) ListCustomerOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, userID, f)
}

// GetVendorOrder возвращает заказ продавца. Чужие заказы неотличимы от отсутствующих.
func (s *Service) GetVendorOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendor.ID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// ListVendorOrders возвращает заказы продавца вызывающего.
func (s *Service) ListVendorOrders(ctx context.Context, userID uuid.UUID, f repository.OrderFilter) ([]model.Order, error) {
	vendor, err := s.repo.GetVendorByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByVendor(ctx, vendor.ID, f)
}
