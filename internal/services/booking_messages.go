package services

import (
	"fmt"
	"strings"

	"estate_backend/internal/models"

	"github.com/shopspring/decimal"
)

// Тексты уведомлений и записей журнала для операций с бронированиями.

func formatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}

func humanizePaymentMethod(m models.PaymentMethod) string {
	words := strings.Split(string(m), "_")
	for i, w := range words {
		if w == "upi" {
			words[i] = "UPI"
			continue
		}
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func propertySoldTitle(property *models.Property) string {
	return fmt.Sprintf("Property Sold: %s", property.Title)
}

func purchaseSellerMessage(property *models.Property, booking *models.Booking, txn *models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Property: %s\n", property.Title)
	fmt.Fprintf(&b, "Sale Price: %s\n", formatAmount(txn.Amount))
	fmt.Fprintf(&b, "Buyer: %s\n", booking.BuyerName)
	fmt.Fprintf(&b, "Contact: %s, %s\n", booking.BuyerPhone, booking.BuyerEmail)
	if booking.VisitDate != nil {
		fmt.Fprintf(&b, "Visit Date: %s\n", booking.VisitDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Payment Method: %s\n", humanizePaymentMethod(txn.PaymentMethod))
	b.WriteString("Status: Payment Completed & Property Marked as SOLD")
	if booking.Message != "" {
		fmt.Fprintf(&b, "\n\nMessage from buyer: %s", booking.Message)
	}
	return b.String()
}

func purchaseBuyerMessage(property *models.Property, booking *models.Booking, txn *models.Transaction) string {
	visit := ""
	if booking.VisitDate != nil {
		visit = fmt.Sprintf(" Visit date: %s.", booking.VisitDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("Congratulations! You have successfully purchased \"%s\". Payment of %s received.%s The property is now yours!",
		property.Title, formatAmount(txn.Amount), visit)
}

func purchaseBuyerLog(property *models.Property, booking *models.Booking, txn *models.Transaction) string {
	return fmt.Sprintf("Property PURCHASED: %s (Booking ID: %s, Amount: %s, Payment: %s, Property Status: SOLD)",
		property.Title, booking.ID, formatAmount(txn.Amount), txn.PaymentMethod)
}

func purchaseSellerLog(property *models.Property, booking *models.Booking, txn *models.Transaction) string {
	return fmt.Sprintf("Property SOLD: %s (Sold to: %s, Amount: %s, Booking ID: %s)",
		property.Title, booking.BuyerName, formatAmount(txn.Amount), booking.ID)
}

func statusSoldSellerMessage(property *models.Property, booking *models.Booking, status models.BookingStatus) string {
	buyer := booking.BuyerName
	if buyer == "" {
		buyer = "Unknown"
	}
	return fmt.Sprintf("Your property \"%s\" has been marked as SOLD. Booking #%s is now %s. Buyer: %s",
		property.Title, booking.ID, status, buyer)
}

func bookingConfirmedBuyerMessage(property *models.Property) string {
	return fmt.Sprintf("Great news! Your booking for '%s' has been confirmed.", property.Title)
}

func bookingConfirmedAdminMessage(property *models.Property, booking *models.Booking) string {
	return fmt.Sprintf("Booking #%s for '%s' by %s was confirmed.", booking.ID, property.Title, booking.BuyerName)
}

func bookingCancelledBuyerMessage(property *models.Property, actor models.Actor) string {
	by := "the seller"
	if actor.IsAdmin() {
		by = "an administrator"
	}
	return fmt.Sprintf("Your booking for '%s' has been cancelled by %s.", property.Title, by)
}

func bookingCancelledSellerMessage(property *models.Property, booking *models.Booking) string {
	return fmt.Sprintf("%s cancelled their booking for '%s'.", booking.BuyerName, property.Title)
}

func statusChangeActorLog(booking *models.Booking, property *models.Property, from, to models.BookingStatus) string {
	return fmt.Sprintf("Updated booking #%s status from '%s' to '%s' for property: %s", booking.ID, from, to, property.Title)
}

func statusChangeBuyerLog(booking *models.Booking, property *models.Property, to models.BookingStatus) string {
	return fmt.Sprintf("Booking #%s status changed to '%s' for property: %s", booking.ID, to, property.Title)
}
