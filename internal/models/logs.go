package models

type RefundRequestStatus string

const (
	RefundPending   RefundRequestStatus = "Pending"
	RefundProcessed RefundRequestStatus = "Processed"
)

type RefundRequest struct {
	ID           int64               `bson:"_id" json:"id"`
	BookingID    int64               `bson:"booking_id" json:"bookingId" validate:"required"`
	CustomerName string              `bson:"customer_name" json:"customerName"`
	Amount       float64             `bson:"amount" json:"amount" validate:"min=0"`
	Status       RefundRequestStatus `bson:"status" json:"status"`
	Date         string              `bson:"date" json:"date"`
}

// VehicleLog is an append-only audit trail of vehicle status changes.
type VehicleLog struct {
	ID        int64           `bson:"_id" json:"id"`
	VehicleID int64           `bson:"vehicle_id" json:"vehicleId"`
	Date      string          `bson:"date" json:"date"`
	Status    VehicleStatus   `bson:"status" json:"status"`
	Notes     string          `bson:"notes,omitempty" json:"notes,omitempty"`
	Checklist map[string]bool `bson:"checklist,omitempty" json:"checklist,omitempty"`
	BookingID *int64          `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
}
