package services

import (
	"context"
	"errors"
	"time"

	"rental-ops-backend/internal/inventory"
	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/snapshot"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type jobStore interface {
	Create(job *models.MaintenanceJob) (*models.MaintenanceJob, error)
	FindByID(id int64) (*models.MaintenanceJob, error)
	FindByVehicle(vehicleID int64) ([]*models.MaintenanceJob, error)
	SetStatus(id int64, status models.MaintenanceJobStatus, completedAt *time.Time) error
	Update(id int64, job *models.MaintenanceJob) error
	Delete(id int64) error
}

type spareStore interface {
	CreatePart(part *models.SparePartMaster) (*models.SparePartMaster, error)
	UpdatePart(id int64, part *models.SparePartMaster) error
	DeletePart(id int64) error
	CreateStock(stock *models.SpareInventory) (*models.SpareInventory, error)
	AdjustStock(id int64, delta int) error
	DeleteStock(id int64) error
}

type maintenanceSnapshot interface {
	Refresh(ctx context.Context) error
	JobByID(id int64) (*models.MaintenanceJob, bool)
	All() snapshot.Collections
}

var ErrJobNotFound = errors.New("maintenance job not found")

// MaintenanceService runs the workshop flow: jobs pulling vehicles out of the
// rentable pool and releasing them on completion, plus the spares catalog and
// per-city stock behind it.
type MaintenanceService struct {
	jobs     jobStore
	spares   spareStore
	vehicles vehicleStore
	snapshot maintenanceSnapshot
	validate *validator.Validate
}

func NewMaintenanceService(jobs jobStore, spares spareStore, vehicles vehicleStore, snap maintenanceSnapshot) *MaintenanceService {
	return &MaintenanceService{
		jobs:     jobs,
		spares:   spares,
		vehicles: vehicles,
		snapshot: snap,
		validate: validator.New(),
	}
}

type CreateJobRequest struct {
	VehicleID          int64   `json:"vehicleId" validate:"required,gt=0"`
	CityID             int64   `json:"cityId" validate:"required,gt=0"`
	Priority           string  `json:"priority"`
	IssueDescription   string  `json:"issueDescription" validate:"required"`
	AssignedTechnician string  `json:"assignedTechnician"`
	EstimatedCost      float64 `json:"estimatedCost" validate:"gte=0"`
}

type UpdateJobStatusRequest struct {
	Status          models.MaintenanceJobStatus `json:"status" validate:"required"`
	ResolutionNotes string                      `json:"resolutionNotes"`
	ActualCost      float64                     `json:"actualCost" validate:"gte=0"`
}

// CreateJob opens a workshop job and pulls the vehicle out of the rentable
// pool. The job insert is the commit point; the vehicle write is best effort
// against a possibly dangling reference.
func (s *MaintenanceService) CreateJob(ctx context.Context, req *CreateJobRequest) (*models.MaintenanceJob, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	job := &models.MaintenanceJob{
		VehicleID:          req.VehicleID,
		CityID:             req.CityID,
		Priority:           req.Priority,
		IssueDescription:   req.IssueDescription,
		AssignedTechnician: req.AssignedTechnician,
		EstimatedCost:      req.EstimatedCost,
	}

	job, err := s.jobs.Create(job)
	if err != nil {
		return nil, err
	}

	if err := applyInventoryUpdates(s.vehicles, noBatteries{}, inventory.OnJobOpen(req.VehicleID)); err != nil {
		s.refresh(ctx)
		return job, err
	}

	s.refresh(ctx)
	return job, nil
}

// UpdateJobStatus moves a job through the workshop flow. Completing a job
// stamps the completion time and releases the vehicle back to Available with
// health reset; every other status clears the stamp.
func (s *MaintenanceService) UpdateJobStatus(ctx context.Context, id int64, req *UpdateJobStatusRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	job, ok := s.snapshot.JobByID(id)
	if !ok {
		fresh, err := s.jobs.FindByID(id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}
		job = fresh
	}

	var completedAt *time.Time
	if req.Status == models.JobCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.jobs.SetStatus(id, req.Status, completedAt); err != nil {
		return err
	}

	if req.ResolutionNotes != "" || req.ActualCost != 0 {
		job.ResolutionNotes = req.ResolutionNotes
		job.ActualCost = req.ActualCost
		job.Status = req.Status
		job.CompletedAt = completedAt
		if err := s.jobs.Update(id, job); err != nil {
			logrus.WithError(err).WithField("jobId", id).Warn("writing job resolution details failed")
		}
	}

	if req.Status == models.JobCompleted {
		if err := applyInventoryUpdates(s.vehicles, noBatteries{}, inventory.OnJobComplete(job.VehicleID)); err != nil {
			s.refresh(ctx)
			return err
		}
	}

	s.refresh(ctx)
	return nil
}

func (s *MaintenanceService) JobsForVehicle(vehicleID int64) ([]*models.MaintenanceJob, error) {
	return s.jobs.FindByVehicle(vehicleID)
}

func (s *MaintenanceService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	s.refresh(ctx)
	return nil
}

// LowStockItem pairs a stock row with its part definition for the workshop's
// reorder view.
type LowStockItem struct {
	Part  *models.SparePartMaster `json:"part"`
	Stock *models.SpareInventory  `json:"stock"`
}

// LowStockReport lists every stock row sitting below its part's minimum
// level. Derived from the snapshot, never persisted.
func (s *MaintenanceService) LowStockReport() []LowStockItem {
	data := s.snapshot.All()

	parts := make(map[int64]*models.SparePartMaster, len(data.Parts))
	for _, p := range data.Parts {
		parts[p.ID] = p
	}

	var items []LowStockItem
	for _, stock := range data.Stock {
		part, ok := parts[stock.PartID]
		if !ok {
			continue
		}
		if stock.IsLowStock(*part) {
			items = append(items, LowStockItem{Part: part, Stock: stock})
		}
	}
	return items
}

func (s *MaintenanceService) CreatePart(ctx context.Context, part *models.SparePartMaster) (*models.SparePartMaster, error) {
	if err := s.validate.Struct(part); err != nil {
		return nil, err
	}
	created, err := s.spares.CreatePart(part)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *MaintenanceService) UpdatePart(ctx context.Context, id int64, part *models.SparePartMaster) error {
	if err := s.spares.UpdatePart(id, part); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *MaintenanceService) DeletePart(ctx context.Context, id int64) error {
	if err := s.spares.DeletePart(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *MaintenanceService) CreateStock(ctx context.Context, stock *models.SpareInventory) (*models.SpareInventory, error) {
	if err := s.validate.Struct(stock); err != nil {
		return nil, err
	}
	created, err := s.spares.CreateStock(stock)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// AdjustStock adds delta onto the stored quantity: positive for restocks,
// negative for parts consumed by a job.
func (s *MaintenanceService) AdjustStock(ctx context.Context, id int64, delta int) error {
	if err := s.spares.AdjustStock(id, delta); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *MaintenanceService) DeleteStock(ctx context.Context, id int64) error {
	if err := s.spares.DeleteStock(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *MaintenanceService) refresh(ctx context.Context) {
	if err := s.snapshot.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("snapshot refresh after maintenance write failed")
	}
}

// noBatteries satisfies batteryStore for events that never touch batteries.
type noBatteries struct{}

func (noBatteries) ApplyAssignment(int64, models.BatteryStatus, *int64) error { return nil }
