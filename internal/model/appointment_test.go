package model

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Valid())
	assert.True(t, AppointmentStatusCancelled.Valid())
	assert.False(t, AppointmentStatus("rescheduled").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCancelled))
	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusCancelled))
	assert.False(t, PaymentStatusCancelled.CanTransitionTo(PaymentStatusPaid))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodPix.Valid())
	assert.True(t, PaymentMethodCard.Valid())
	assert.True(t, PaymentMethodCash.Valid())
	assert.False(t, PaymentMethod("check").Valid())
}

func TestRecordPaymentRequestBindsZeroAmount(t *testing.T) {
	var req RecordPaymentRequest
	err := binding.JSON.BindBody([]byte(`{"amount": 0, "method": "pix", "status": "paid"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, req.Amount)

	err = binding.JSON.BindBody([]byte(`{"amount": -10, "method": "pix", "status": "paid"}`), &req)
	require.Error(t, err)
}
