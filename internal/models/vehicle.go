package models

import "time"

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "Available"
	VehicleRented      VehicleStatus = "Rented"
	VehicleMaintenance VehicleStatus = "Maintenance"
)

type HealthStatus string

const (
	HealthGood      HealthStatus = "Good"
	HealthAttention HealthStatus = "Attention"
	HealthCritical  HealthStatus = "Critical"
)

// Vehicle carries its currently mounted battery as a plain id. Nothing
// enforces that the referenced battery row still exists; readers must treat
// a dangling id as "no battery".
type Vehicle struct {
	ID           int64         `bson:"_id" json:"id"`
	ModelName    string        `bson:"model_name" json:"modelName" validate:"required"`
	CityID       int64         `bson:"city_id" json:"cityId" validate:"required"`
	Status       VehicleStatus `bson:"status" json:"status"`
	BatteryID    *int64        `bson:"battery_id" json:"batteryId"`
	HealthStatus HealthStatus  `bson:"health_status" json:"healthStatus"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}
