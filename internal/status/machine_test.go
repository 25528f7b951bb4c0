package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devwyshkit/wyshkit-sub002/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		current model.OrderStatus
		next    model.OrderStatus
		want    bool
	}{
		{"pending to personalizing", model.OrderStatusPending, model.OrderStatusPersonalizing, true},
		{"pending to awaiting details", model.OrderStatusPending, model.OrderStatusAwaitingDetails, true},
		{"pending to delivered", model.OrderStatusPending, model.OrderStatusDelivered, false},
		{"personalizing to mockup ready", model.OrderStatusPersonalizing, model.OrderStatusMockupReady, true},
		{"mockup re-upload", model.OrderStatusMockupReady, model.OrderStatusMockupReady, true},
		{"mockup ready to approved", model.OrderStatusMockupReady, model.OrderStatusApproved, true},
		{"approved to crafting", model.OrderStatusApproved, model.OrderStatusCrafting, true},
		{"approved skips crafting", model.OrderStatusApproved, model.OrderStatusReadyForPickup, true},
		{"crafting back to approved", model.OrderStatusCrafting, model.OrderStatusApproved, false},
		{"ready to out for delivery", model.OrderStatusReadyForPickup, model.OrderStatusOutForDelivery, true},
		{"out for delivery to delivered", model.OrderStatusOutForDelivery, model.OrderStatusDelivered, true},
		{"delivered is terminal", model.OrderStatusDelivered, model.OrderStatusCancelled, false},
		{"cancelled is terminal", model.OrderStatusCancelled, model.OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.current, tt.next))
		})
	}
}

func TestCancelFromEveryNonTerminalState(t *testing.T) {
	nonTerminal := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusAwaitingDetails,
		model.OrderStatusPersonalizing,
		model.OrderStatusMockupReady,
		model.OrderStatusApproved,
		model.OrderStatusCrafting,
		model.OrderStatusReadyForPickup,
		model.OrderStatusOutForDelivery,
	}

	for _, s := range nonTerminal {
		assert.True(t, CanTransition(s, model.OrderStatusCancelled), "cancel from %s", s)
		assert.NoError(t, Guard(OpCancel, s), "cancel guard for %s", s)
	}

	assert.Error(t, Guard(OpCancel, model.OrderStatusDelivered))
	assert.Error(t, Guard(OpCancel, model.OrderStatusCancelled))
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		current model.OrderStatus
		wantErr bool
	}{
		{"accept pending", OpAccept, model.OrderStatusPending, false},
		{"accept delivered", OpAccept, model.OrderStatusDelivered, true},
		{"accept twice", OpAccept, model.OrderStatusPersonalizing, true},
		{"mockup while personalizing", OpUploadMockup, model.OrderStatusPersonalizing, false},
		{"mockup re-upload", OpUploadMockup, model.OrderStatusMockupReady, false},
		{"mockup from pending rejected", OpUploadMockup, model.OrderStatusPending, true},
		{"mark ready from approved", OpMarkReady, model.OrderStatusApproved, false},
		{"mark ready from crafting", OpMarkReady, model.OrderStatusCrafting, false},
		{"mark ready from pending", OpMarkReady, model.OrderStatusPending, true},
		{"approve mockup", OpApproveMockup, model.OrderStatusMockupReady, false},
		{"approve without mockup", OpApproveMockup, model.OrderStatusPersonalizing, true},
		{"deliver from out for delivery", OpMarkDelivered, model.OrderStatusOutForDelivery, false},
		{"deliver from ready", OpMarkDelivered, model.OrderStatusReadyForPickup, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Guard(tt.op, tt.current)
			if tt.wantErr {
				require.Error(t, err)
				var te *TransitionError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, tt.current, te.From)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyLeavesOrderUntouchedOnError(t *testing.T) {
	o := &model.Order{Status: model.OrderStatusDelivered}

	err := Apply(o, model.OrderStatusPersonalizing)
	require.Error(t, err)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, model.OrderStatusDelivered, te.From)
	assert.Equal(t, model.OrderStatusPersonalizing, te.To)
}

func TestApplyAdvancesStatus(t *testing.T) {
	o := &model.Order{Status: model.OrderStatusPending}

	require.NoError(t, Apply(o, model.OrderStatusPersonalizing))
	assert.Equal(t, model.OrderStatusPersonalizing, o.Status)
	assert.False(t, o.UpdatedAt.IsZero())
}

func TestEveryOperationTargetReachable(t *testing.T) {
	// Каждая операция должна соответствовать рёбрам графа смежности.
	for op, spec := range operations {
		for _, from := range spec.from {
			assert.True(t, CanTransition(from, spec.to),
				"operation %s: edge %s -> %s missing from adjacency", op, from, spec.to)
		}
	}
}
