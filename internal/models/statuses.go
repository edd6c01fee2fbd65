package models

type UserRole string
type PropertyStatus string
type BookingStatus string
type PaymentStatus string
type PaymentMethod string

const (
	UserRoleBuyer  UserRole = "buyer"
	UserRoleSeller UserRole = "seller"
	UserRoleAdmin  UserRole = "admin"

	PropertyStatusAvailable PropertyStatus = "Available"
	PropertyStatusPending   PropertyStatus = "Pending"
	PropertyStatusSold      PropertyStatus = "Sold"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"

	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleBuyer, UserRoleSeller, UserRoleAdmin:
		return true
	}
	return false
}

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusPending, PropertyStatusSold:
		return true
	}
	return false
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status keeps its property sold.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCompleted
}

// bookingTransitions - разрешенные переходы статусов бронирования.
// Терминальные статусы (cancelled, completed) переходов не имеют.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo reports whether the booking may move from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusSuccess, PaymentStatusFailed:
		return true
	}
	return false
}

// IsSettled reports whether money actually moved.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusSuccess
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodNetBanking:
		return true
	}
	return false
}
