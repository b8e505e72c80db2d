package models

import "time"

type MaintenanceJobStatus string

const (
	JobOpen         MaintenanceJobStatus = "Open"
	JobInProgress   MaintenanceJobStatus = "In Progress"
	JobWaitingParts MaintenanceJobStatus = "Waiting for Parts"
	JobCompleted    MaintenanceJobStatus = "Completed"
	JobCancelled    MaintenanceJobStatus = "Cancelled"
)

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// MaintenanceJob tracks a vehicle through the workshop. Opening a job forces
// the vehicle into Maintenance status; completing it releases the vehicle
// back to Available with health reset to Good.
type MaintenanceJob struct {
	ID                 int64                `bson:"_id" json:"id"`
	VehicleID          int64                `bson:"vehicle_id" json:"vehicleId" validate:"required"`
	CityID             int64                `bson:"city_id" json:"cityId" validate:"required"`
	Status             MaintenanceJobStatus `bson:"status" json:"status"`
	Priority           string               `bson:"priority" json:"priority"`
	IssueDescription   string               `bson:"issue_description" json:"issueDescription" validate:"required"`
	ResolutionNotes    string               `bson:"resolution_notes,omitempty" json:"resolutionNotes,omitempty"`
	AssignedTechnician string               `bson:"assigned_technician,omitempty" json:"assignedTechnician,omitempty"`
	StartedAt          *time.Time           `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt        *time.Time           `bson:"completed_at" json:"completedAt"`
	EstimatedCost      float64              `bson:"estimated_cost" json:"estimatedCost"`
	ActualCost         float64              `bson:"actual_cost" json:"actualCost"`
	DowntimeHours      float64              `bson:"downtime_hours" json:"downtimeHours"`
	CreatedAt          time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updated_at" json:"updatedAt"`
}
