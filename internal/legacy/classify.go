package legacy

import (
	"strings"

	"rental-ops-backend/internal/models"
)

// StatusClass is the tagged result of classifying a legacy row's free-text
// status. Unrecognized is explicit so callers decide the default instead of
// it happening silently.
type StatusClass int

const (
	ClassActive StatusClass = iota
	ClassPaused
	ClassPendingPayment
	ClassReturned
	ClassUnrecognized
)

func (c StatusClass) String() string {
	switch c {
	case ClassActive:
		return "Active"
	case ClassPaused:
		return "Paused"
	case ClassPendingPayment:
		return "PendingPayment"
	case ClassReturned:
		return "Returned"
	default:
		return "Unrecognized"
	}
}

// ClassifyStatus maps free-text status values from historical exports onto
// the booking lifecycle by case-insensitive substring match. Checks run in
// priority order; "active" and "rented" both mean a live rental.
func ClassifyStatus(raw string) StatusClass {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return ClassUnrecognized
	case strings.Contains(s, "active"), strings.Contains(s, "rented"):
		return ClassActive
	case strings.Contains(s, "paused"):
		return ClassPaused
	case strings.Contains(s, "pending"):
		return ClassPendingPayment
	case strings.Contains(s, "returned"), strings.Contains(s, "completed"), strings.Contains(s, "settled"):
		return ClassReturned
	default:
		return ClassUnrecognized
	}
}

// BookingStatus converts the class to a storable status. Unrecognized rows
// land as Returned so stray historical records never hold live inventory.
func (c StatusClass) BookingStatus() models.BookingStatus {
	switch c {
	case ClassActive:
		return models.BookingActive
	case ClassPaused:
		return models.BookingPaused
	case ClassPendingPayment:
		return models.BookingPendingPayment
	default:
		return models.BookingReturned
	}
}
