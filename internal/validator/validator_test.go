package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	Status    string `json:"status" validate:"required,is-booking-status"`
	Method    string `json:"payment_method" validate:"omitempty,is-payment-method"`
	Property  string `json:"property_status" validate:"omitempty,is-property-status"`
	VisitDate string `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func TestValidate_CustomEnumRules(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&statusRequest{
		Status:    "confirmed",
		Method:    "net_banking",
		Property:  "Sold",
		VisitDate: "2026-12-01",
	}))

	err := v.Validate(&statusRequest{
		Status:    "archived",
		Method:    "cash",
		Property:  "sold",
		VisitDate: "01.12.2026",
		Email:     "nope",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "ожидается *ValidationError, получено %T", err)

	assert.Equal(t, "Must be one of: pending, confirmed, cancelled, completed", vErr.Errors["status"])
	assert.Equal(t, "Must be one of: upi, credit_card, debit_card, net_banking", vErr.Errors["payment_method"])
	assert.Equal(t, "Must be one of: Available, Pending, Sold", vErr.Errors["property_status"])
	assert.Equal(t, "Must be a date in 2006-01-02 format", vErr.Errors["visit_date"])
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, err.Error(), "Validation failed")
}

func TestValidate_Required(t *testing.T) {
	v := New()

	err := v.Validate(&statusRequest{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, vErr.Errors, 1)
	assert.Equal(t, "This field is required", vErr.Errors["status"])
}

type listQuery struct {
	Type          string `form:"type" validate:"omitempty,is-notification-type"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,is-payment-status"`
	TicketStatus  string `form:"status" validate:"omitempty,is-ticket-status"`
	Priority      string `json:"priority" validate:"omitempty,is-ticket-priority"`
	Category      string `json:"category" validate:"omitempty,is-ticket-category"`
}

func TestValidate_QueryEnumRules(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&listQuery{}))
	require.NoError(t, v.Validate(&listQuery{
		Type:          "property_saved",
		PaymentStatus: "success",
		TicketStatus:  "in_progress",
		Priority:      "urgent",
		Category:      "payment",
	}))

	err := v.Validate(&listQuery{
		Type:          "system_alert",
		PaymentStatus: "refunded",
		TicketStatus:  "pending",
		Priority:      "critical",
		Category:      "billing",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Поля без json-тега называются по тегу form
	assert.Equal(t, "Must be a known notification type", vErr.Errors["type"])
	assert.Equal(t, "Must be one of: pending, completed, success, failed", vErr.Errors["payment_status"])
	assert.Equal(t, "Must be one of: open, in_progress, resolved, closed", vErr.Errors["status"])
	assert.Equal(t, "Must be one of: low, medium, high, urgent", vErr.Errors["priority"])
	assert.Equal(t, "Must be one of: general, payment, property, technical", vErr.Errors["category"])
}
