package models

import "time"

type BatteryStatus string

const (
	BatteryAvailable   BatteryStatus = "Available"
	BatteryInUse       BatteryStatus = "InUse"
	BatteryCharging    BatteryStatus = "Charging"
	BatteryMaintenance BatteryStatus = "Maintenance"
)

type Battery struct {
	ID               int64         `bson:"_id" json:"id"`
	SerialNumber     string        `bson:"serial_number" json:"serialNumber" validate:"required"`
	CityID           int64         `bson:"city_id" json:"cityId" validate:"required"`
	Status           BatteryStatus `bson:"status" json:"status"`
	ChargePercentage int           `bson:"charge_percentage" json:"chargePercentage" validate:"min=0,max=100"`
	AssignedVehicle  *int64        `bson:"assigned_vehicle_id" json:"assignedVehicleId"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updatedAt"`
}
