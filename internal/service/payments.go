package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
	"github.com/devwyshkit/wyshkit-sub002/internal/razorpay"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
)

// HandlePaymentEvent применяет событие платёжного провайдера к заказу.
// Статус оплаты независим от статуса заказа. Обновление идемпотентно по
// значению: повторная доставка события приводит к тому же результату.
// Неизвестные события и события по неизвестным заказам не производят мутаций.
func (s *Service) HandlePaymentEvent(ctx context.Context, ev *razorpay.Event) error {
	entity := ev.Payload.Payment.Entity

	switch ev.Event {
	case razorpay.EventPaymentCaptured:
		if entity.OrderID == "" {
			s.logPaymentEventWithoutOrder(ev)
			return nil
		}
		order, err := s.repo.UpdatePaymentByProviderOrder(ctx, entity.OrderID, model.PaymentCompleted, entity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				s.logger.Warn("payment captured for unknown order",
					zap.String("providerOrderID", entity.OrderID))
				return nil
			}
			return err
		}

		// Кэшбэк ключуется заказом, поэтому повтор события не начислит дважды.
		award := order.ItemTotal * s.cfg.CashbackRateBps / 10000
		if award > 0 {
			if err := s.repo.AwardCashback(ctx, order.CustomerID, order.ID, award); err != nil {
				return fmt.Errorf("award cashback: %w", err)
			}
		}

		s.notify(ctx, order.CustomerID, "payment_update", "Payment received",
			fmt.Sprintf("We received your payment of %s for order %s.", formatINR(order.Total), order.Number),
			map[string]string{"orderId": order.ID.String()})
		return nil

	case razorpay.EventPaymentFailed:
		if entity.OrderID == "" {
			s.logPaymentEventWithoutOrder(ev)
			return nil
		}
		order, err := s.repo.UpdatePaymentByProviderOrder(ctx, entity.OrderID, model.PaymentFailed, entity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				s.logger.Warn("payment failed for unknown order",
					zap.String("providerOrderID", entity.OrderID))
				return nil
			}
			return err
		}

		s.notify(ctx, order.CustomerID, "payment_update", "Payment failed",
			fmt.Sprintf("Your payment for order %s failed. Please retry.", order.Number),
			map[string]string{"orderId": order.ID.String()})
		return nil

	default:
		// Провайдер не должен повторять доставку непонятных событий.
		return nil
	}
}

// Заказы, для которых платёжный заказ не создался, хранят пустой
// razorpay_order_id. Событие без идентификатора не должно их задеть.
func (s *Service) logPaymentEventWithoutOrder(ev *razorpay.Event) {
	s.logger.Warn("payment event without provider order id",
		zap.String("event", ev.Event),
		zap.String("paymentID", ev.Payload.Payment.Entity.ID))
}
