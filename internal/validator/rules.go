package validator

import (
	"estate_backend/internal/logger"
	"estate_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует правила для закрытых перечислений из models.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации - ошибка сборки приложения, дальше работать нельзя
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("is-booking-status", enumRule(func(s string) bool { return models.BookingStatus(s).IsValid() }))
	mustRegister("is-property-status", enumRule(func(s string) bool { return models.PropertyStatus(s).IsValid() }))
	mustRegister("is-payment-method", enumRule(func(s string) bool { return models.PaymentMethod(s).IsValid() }))
	mustRegister("is-payment-status", enumRule(func(s string) bool { return models.PaymentStatus(s).IsValid() }))
	mustRegister("is-notification-type", enumRule(func(s string) bool { return models.NotificationType(s).IsValid() }))
	mustRegister("is-ticket-status", enumRule(func(s string) bool { return models.TicketStatus(s).IsValid() }))
	mustRegister("is-ticket-priority", enumRule(func(s string) bool { return models.TicketPriority(s).IsValid() }))
	mustRegister("is-ticket-category", enumRule(func(s string) bool { return models.TicketCategory(s).IsValid() }))
}

// enumRule пропускает пустое значение: за него отвечает 'required'.
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
