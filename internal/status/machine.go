// Package status реализует конечный автомат статусов заказа.
// Все переходы односторонние; отката нет, ошибочный переход исправляется
// последующим переходом вперёд (например, отменой).
package status

import (
	"fmt"
	"time"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

// Operation описывает операцию перехода, доступную участникам заказа.
type Operation string

const (
	OpAccept         Operation = "accept"
	OpRequestDetails Operation = "request_details"
	OpProvideDetails Operation = "provide_details"
	OpUploadMockup   Operation = "upload_mockup"
	OpApproveMockup  Operation = "approve_mockup"
	OpStartCrafting  Operation = "start_crafting"
	OpMarkReady      Operation = "mark_ready"
	OpDispatch       Operation = "dispatch"
	OpMarkDelivered  Operation = "mark_delivered"
	OpCancel         Operation = "cancel"
)

// TransitionError возвращается, когда текущий статус заказа не допускает запрошенный переход.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.From, e.To)
}

// transitions задаёт замкнутый граф смежности статусов.
// Отмена допустима из любого нетерминального статуса.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending: {
		model.OrderStatusPersonalizing,
		model.OrderStatusAwaitingDetails,
		model.OrderStatusCancelled,
	},
	model.OrderStatusAwaitingDetails: {
		model.OrderStatusPersonalizing,
		model.OrderStatusCancelled,
	},
	model.OrderStatusPersonalizing: {
		model.OrderStatusMockupReady,
		model.OrderStatusAwaitingDetails,
		model.OrderStatusCancelled,
	},
	model.OrderStatusMockupReady: {
		model.OrderStatusApproved,
		model.OrderStatusMockupReady, // повторная загрузка макета
		model.OrderStatusCancelled,
	},
	model.OrderStatusApproved: {
		model.OrderStatusCrafting,
		model.OrderStatusReadyForPickup,
		model.OrderStatusCancelled,
	},
	model.OrderStatusCrafting: {
		model.OrderStatusReadyForPickup,
		model.OrderStatusCancelled,
	},
	model.OrderStatusReadyForPickup: {
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	},
	model.OrderStatusOutForDelivery: {
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	},
	model.OrderStatusDelivered: nil,
	model.OrderStatusCancelled: nil,
}

// operations задаёт допустимые исходные статусы и целевой статус каждой операции.
var operations = map[Operation]struct {
	from []model.OrderStatus
	to   model.OrderStatus
}{
	OpAccept: {
		from: []model.OrderStatus{model.OrderStatusPending},
		to:   model.OrderStatusPersonalizing,
	},
	OpRequestDetails: {
		from: []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPersonalizing},
		to:   model.OrderStatusAwaitingDetails,
	},
	OpProvideDetails: {
		from: []model.OrderStatus{model.OrderStatusAwaitingDetails},
		to:   model.OrderStatusPersonalizing,
	},
	OpUploadMockup: {
		from: []model.OrderStatus{
			model.OrderStatusPersonalizing,
			model.OrderStatusAwaitingDetails,
			model.OrderStatusMockupReady,
		},
		to: model.OrderStatusMockupReady,
	},
	OpApproveMockup: {
		from: []model.OrderStatus{model.OrderStatusMockupReady},
		to:   model.OrderStatusApproved,
	},
	OpStartCrafting: {
		from: []model.OrderStatus{model.OrderStatusApproved},
		to:   model.OrderStatusCrafting,
	},
	OpMarkReady: {
		from: []model.OrderStatus{model.OrderStatusApproved, model.OrderStatusCrafting},
		to:   model.OrderStatusReadyForPickup,
	},
	OpDispatch: {
		from: []model.OrderStatus{model.OrderStatusReadyForPickup},
		to:   model.OrderStatusOutForDelivery,
	},
	OpMarkDelivered: {
		from: []model.OrderStatus{model.OrderStatusReadyForPickup, model.OrderStatusOutForDelivery},
		to:   model.OrderStatusDelivered,
	},
	OpCancel: {
		from: []model.OrderStatus{
			model.OrderStatusPending,
			model.OrderStatusAwaitingDetails,
			model.OrderStatusPersonalizing,
			model.OrderStatusMockupReady,
			model.OrderStatusApproved,
			model.OrderStatusCrafting,
			model.OrderStatusReadyForPickup,
			model.OrderStatusOutForDelivery,
		},
		to: model.OrderStatusCancelled,
	},
}

// IsTerminal сообщает, является ли статус терминальным.
func IsTerminal(s model.OrderStatus) bool {
	return s == model.OrderStatusDelivered || s == model.OrderStatusCancelled
}

// CanTransition сообщает, допустим ли прямой переход из current в next.
func CanTransition(current, next model.OrderStatus) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// AllowedFrom возвращает допустимые исходные статусы операции.
// Срез принадлежит автомату, вызывающий не должен его изменять.
func AllowedFrom(op Operation) []model.OrderStatus {
	return operations[op].from
}

// Target возвращает целевой статус операции.
func Target(op Operation) model.OrderStatus {
	return operations[op].to
}

// Guard проверяет, что текущий статус допускает операцию.
func Guard(op Operation, current model.OrderStatus) error {
	spec, ok := operations[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	for _, s := range spec.from {
		if s == current {
			return nil
		}
	}
	return &TransitionError{From: current, To: spec.to}
}

// Apply выполняет переход next над заказом: проверяет граф смежности,
// записывает новый статус и обновляет метку времени. Заказ не изменяется при ошибке.
func Apply(o *model.Order, next model.OrderStatus) error {
	if !CanTransition(o.Status, next) {
		return &TransitionError{From: o.Status, To: next}
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}
