package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	mu     sync.Mutex
	byID   map[int64]*models.MaintenanceJob
	nextID int64
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{byID: make(map[int64]*models.MaintenanceJob)}
}

func (f *fakeJobs) Create(job *models.MaintenanceJob) (*models.MaintenanceJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	job.ID = f.nextID
	if job.Status == "" {
		job.Status = models.JobOpen
	}
	if job.Priority == "" {
		job.Priority = models.PriorityMedium
	}
	f.byID[job.ID] = job
	return job, nil
}

func (f *fakeJobs) FindByID(id int64) (*models.MaintenanceJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobs) FindByVehicle(vehicleID int64) ([]*models.MaintenanceJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []*models.MaintenanceJob
	for _, j := range f.byID {
		if j.VehicleID == vehicleID {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func (f *fakeJobs) SetStatus(id int64, status models.MaintenanceJobStatus, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	j.Status = status
	j.CompletedAt = completedAt
	return nil
}

func (f *fakeJobs) Update(id int64, job *models.MaintenanceJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	job.ID = id
	f.byID[id] = job
	return nil
}

func (f *fakeJobs) Delete(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeJobs) get(id int64) *models.MaintenanceJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeSpares struct {
	mu     sync.Mutex
	parts  map[int64]*models.SparePartMaster
	stock  map[int64]*models.SpareInventory
	nextID int64
}

func newFakeSpares() *fakeSpares {
	return &fakeSpares{
		parts: make(map[int64]*models.SparePartMaster),
		stock: make(map[int64]*models.SpareInventory),
	}
}

func (f *fakeSpares) CreatePart(part *models.SparePartMaster) (*models.SparePartMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	part.ID = f.nextID
	f.parts[part.ID] = part
	return part, nil
}

func (f *fakeSpares) UpdatePart(id int64, part *models.SparePartMaster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.parts[id]; !ok {
		return repository.ErrNotFound
	}
	part.ID = id
	f.parts[id] = part
	return nil
}

func (f *fakeSpares) DeletePart(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.parts, id)
	return nil
}

func (f *fakeSpares) CreateStock(stock *models.SpareInventory) (*models.SpareInventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stock.ID = f.nextID
	f.stock[stock.ID] = stock
	return stock, nil
}

func (f *fakeSpares) AdjustStock(id int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stock[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Quantity += delta
	if delta > 0 {
		now := time.Now()
		s.LastRestockedAt = &now
	}
	return nil
}

func (f *fakeSpares) DeleteStock(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stock, id)
	return nil
}

func newMaintenanceFixture(t *testing.T) (*MaintenanceService, *fakeJobs, *fakeSpares, *fakeVehicles, *fakeSnapshot) {
	t.Helper()
	jobs := newFakeJobs()
	spares := newFakeSpares()
	vehicles := newFakeVehicles(
		&models.Vehicle{ID: 1, ModelName: "S1 Pro", CityID: 1, Status: models.VehicleAvailable, HealthStatus: models.HealthAttention},
	)
	snap := newFakeSnapshot(newFakeBookings())
	return NewMaintenanceService(jobs, spares, vehicles, snap), jobs, spares, vehicles, snap
}

func TestCreateJobPullsVehicleFromPool(t *testing.T) {
	svc, jobs, _, vehicles, _ := newMaintenanceFixture(t)

	job, err := svc.CreateJob(context.Background(), &CreateJobRequest{
		VehicleID:        1,
		CityID:           1,
		IssueDescription: "brake pads worn",
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobOpen, job.Status)
	assert.Equal(t, models.PriorityMedium, job.Priority)
	assert.NotNil(t, jobs.get(job.ID))
	assert.Equal(t, models.VehicleMaintenance, vehicles.get(1).Status)
}

func TestCreateJobToleratesDanglingVehicle(t *testing.T) {
	svc, jobs, _, _, _ := newMaintenanceFixture(t)

	job, err := svc.CreateJob(context.Background(), &CreateJobRequest{
		VehicleID:        999,
		CityID:           1,
		IssueDescription: "ghost vehicle",
	})
	require.NoError(t, err)
	assert.NotNil(t, jobs.get(job.ID), "the job row lands even when the vehicle is gone")
}

func TestCompleteJobReleasesVehicle(t *testing.T) {
	svc, jobs, _, vehicles, snap := newMaintenanceFixture(t)

	job, err := svc.CreateJob(context.Background(), &CreateJobRequest{
		VehicleID:        1,
		CityID:           1,
		IssueDescription: "brake pads worn",
	})
	require.NoError(t, err)
	snap.jobs[job.ID] = job

	err = svc.UpdateJobStatus(context.Background(), job.ID, &UpdateJobStatusRequest{Status: models.JobCompleted})
	require.NoError(t, err)

	stored := jobs.get(job.ID)
	assert.Equal(t, models.JobCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	v := vehicles.get(1)
	assert.Equal(t, models.VehicleAvailable, v.Status)
	assert.Equal(t, models.HealthGood, v.HealthStatus, "completion resets health")
}

func TestCompletionWithResolutionKeepsStamp(t *testing.T) {
	svc, jobs, _, vehicles, snap := newMaintenanceFixture(t)

	job, err := svc.CreateJob(context.Background(), &CreateJobRequest{
		VehicleID:        1,
		CityID:           1,
		IssueDescription: "brake pads worn",
	})
	require.NoError(t, err)

	// The snapshot serves the state of the last refresh, not the live row.
	stale := *job
	snap.jobs[job.ID] = &stale

	err = svc.UpdateJobStatus(context.Background(), job.ID, &UpdateJobStatusRequest{
		Status:          models.JobCompleted,
		ResolutionNotes: "pads replaced",
		ActualCost:      450,
	})
	require.NoError(t, err)

	stored := jobs.get(job.ID)
	assert.Equal(t, models.JobCompleted, stored.Status)
	assert.Equal(t, "pads replaced", stored.ResolutionNotes)
	assert.Equal(t, 450.0, stored.ActualCost)
	require.NotNil(t, stored.CompletedAt, "resolution details must not wipe the completion stamp")
	assert.Equal(t, models.VehicleAvailable, vehicles.get(1).Status)
}

func TestNonCompletionStatusClearsCompletedAt(t *testing.T) {
	svc, jobs, _, vehicles, snap := newMaintenanceFixture(t)

	job, err := svc.CreateJob(context.Background(), &CreateJobRequest{
		VehicleID:        1,
		CityID:           1,
		IssueDescription: "brake pads worn",
	})
	require.NoError(t, err)
	snap.jobs[job.ID] = job

	err = svc.UpdateJobStatus(context.Background(), job.ID, &UpdateJobStatusRequest{Status: models.JobWaitingParts})
	require.NoError(t, err)

	stored := jobs.get(job.ID)
	assert.Equal(t, models.JobWaitingParts, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Equal(t, models.VehicleMaintenance, vehicles.get(1).Status, "vehicle stays in the workshop")
}

func TestUpdateJobStatusFallsBackToStore(t *testing.T) {
	svc, jobs, _, _, _ := newMaintenanceFixture(t)

	// job exists in the store but not the snapshot
	job, _ := jobs.Create(&models.MaintenanceJob{VehicleID: 1, CityID: 1, IssueDescription: "x"})

	err := svc.UpdateJobStatus(context.Background(), job.ID, &UpdateJobStatusRequest{Status: models.JobInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.JobInProgress, jobs.get(job.ID).Status)

	err = svc.UpdateJobStatus(context.Background(), 404, &UpdateJobStatusRequest{Status: models.JobInProgress})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestLowStockReport(t *testing.T) {
	svc, _, _, _, snap := newMaintenanceFixture(t)

	snap.data = snapshot.Collections{
		Parts: []*models.SparePartMaster{
			{ID: 1, Name: "Brake Pad", SKU: "BP-01", MinStockLevel: 5},
			{ID: 2, Name: "Mirror", SKU: "MR-01", MinStockLevel: 2},
		},
		Stock: []*models.SpareInventory{
			{ID: 10, PartID: 1, CityID: 1, Quantity: 3},  // below minimum
			{ID: 11, PartID: 2, CityID: 1, Quantity: 4},  // fine
			{ID: 12, PartID: 9, CityID: 1, Quantity: 0},  // orphan stock row, skipped
		},
	}

	items := svc.LowStockReport()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Part.ID)
	assert.Equal(t, 3, items[0].Stock.Quantity)
}

func TestAdjustStock(t *testing.T) {
	svc, _, spares, _, _ := newMaintenanceFixture(t)

	stock, err := svc.CreateStock(context.Background(), &models.SpareInventory{PartID: 1, CityID: 1, Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustStock(context.Background(), stock.ID, -4))
	assert.Equal(t, 6, spares.stock[stock.ID].Quantity)
	assert.Nil(t, spares.stock[stock.ID].LastRestockedAt, "consumption does not stamp a restock")

	require.NoError(t, svc.AdjustStock(context.Background(), stock.ID, 8))
	assert.Equal(t, 14, spares.stock[stock.ID].Quantity)
	assert.NotNil(t, spares.stock[stock.ID].LastRestockedAt)
}
