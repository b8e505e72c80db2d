package models

import "time"

type BookingStatus string

const (
	BookingActive         BookingStatus = "Active"
	BookingReturned       BookingStatus = "Returned"
	BookingPendingPayment BookingStatus = "Pending Payment"
	BookingPaused         BookingStatus = "Paused"
)

type PaymentMode string

const (
	PaymentCash  PaymentMode = "Cash"
	PaymentUPI   PaymentMode = "UPI"
	PaymentCard  PaymentMode = "Card"
	PaymentOther PaymentMode = "Other"
)

// Booking is the central rental record. Customer name/phone are denormalized
// copies, not references into the customers collection. The financial fields
// (TotalRent, AmountCollected, FineAmount) are running accumulators: every
// adjustment is added onto the stored total, never recomputed from a ledger.
type Booking struct {
	ID              int64             `bson:"_id" json:"id"`
	CustomerName    string            `bson:"customer_name" json:"customerName" validate:"required"`
	CustomerPhone   string            `bson:"customer_phone" json:"customerPhone" validate:"required"`
	VehicleID       *int64            `bson:"vehicle_id" json:"vehicleId"`
	BatteryID       *int64            `bson:"battery_id" json:"batteryId"`
	CityID          int64             `bson:"city_id" json:"cityId"`
	StartDate       string            `bson:"start_date" json:"startDate"`
	EndDate         string            `bson:"end_date" json:"endDate"`
	DailyRent       float64           `bson:"daily_rent" json:"dailyRent"`
	TotalRent       float64           `bson:"total_rent" json:"totalRent"`
	SecurityDeposit float64           `bson:"security_deposit" json:"securityDeposit"`
	AmountCollected float64           `bson:"amount_collected" json:"amountCollected"`
	FineAmount      float64           `bson:"fine_amount" json:"fineAmount"`
	ModeOfPayment   PaymentMode       `bson:"mode_of_payment" json:"modeOfPayment"`
	PaymentTxnID    string            `bson:"payment_txn_id,omitempty" json:"paymentTransactionId,omitempty"`
	Status          BookingStatus     `bson:"status" json:"status"`
	SwapReason      string            `bson:"swap_reason,omitempty" json:"swapReason,omitempty"`
	PostRideNotes   string            `bson:"post_ride_notes,omitempty" json:"postRideNotes,omitempty"`
	PauseReason     string            `bson:"pause_reason,omitempty" json:"pauseReason,omitempty"`
	PausedAt        *time.Time        `bson:"paused_at,omitempty" json:"pausedAt,omitempty"`
	PostRideFlags   map[string]bool   `bson:"post_ride_flags,omitempty" json:"postRideChecklist,omitempty"`
	CreatedAt       time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updatedAt"`
}
