package services

import (
	"context"
	"sync"
	"time"

	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/snapshot"
)

// In-memory stores used across the service tests. Inventory writes arrive
// concurrently, so every fake guards its state with a mutex.

type fakeBookings struct {
	mu     sync.Mutex
	byID   map[int64]*models.Booking
	nextID int64
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byID: make(map[int64]*models.Booking), nextID: 0}
}

func (f *fakeBookings) Create(b *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == 0 {
		f.nextID++
		b.ID = f.nextID
	} else if b.ID > f.nextID {
		f.nextID = b.ID
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBookings) FindByID(id int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) Update(id int64, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	b.ID = id
	f.byID[id] = b
	return nil
}

func (f *fakeBookings) SetStatus(id int64, status models.BookingStatus, fineDelta, collectedDelta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	b.FineAmount += fineDelta
	b.AmountCollected += collectedDelta
	return nil
}

func (f *fakeBookings) Pause(id int64, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = models.BookingPaused
	b.PauseReason = reason
	b.PausedAt = &at
	return nil
}

func (f *fakeBookings) Resume(id int64, vehicleID int64, batteryID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = models.BookingActive
	b.VehicleID = &vehicleID
	b.BatteryID = batteryID
	return nil
}

func (f *fakeBookings) SetBattery(id int64, batteryID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.BatteryID = &batteryID
	return nil
}

func (f *fakeBookings) SwapVehicle(id int64, vehicleID int64, reason string, fineDelta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.VehicleID = &vehicleID
	b.SwapReason = reason
	b.FineAmount += fineDelta
	return nil
}

func (f *fakeBookings) Extend(id int64, extraRent, collection float64, newEndDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.TotalRent += extraRent
	b.AmountCollected += collection
	b.EndDate = newEndDate
	return nil
}

func (f *fakeBookings) Settle(id int64, amount float64, newEndDate string, extraRent float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.AmountCollected += amount
	b.TotalRent += extraRent
	if newEndDate != "" {
		b.EndDate = newEndDate
	}
	return nil
}

func (f *fakeBookings) Delete(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeBookings) get(id int64) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeVehicles struct {
	mu     sync.Mutex
	byID   map[int64]*models.Vehicle
	nextID int64
}

func newFakeVehicles(vehicles ...*models.Vehicle) *fakeVehicles {
	f := &fakeVehicles{byID: make(map[int64]*models.Vehicle)}
	for _, v := range vehicles {
		f.byID[v.ID] = v
		if v.ID > f.nextID {
			f.nextID = v.ID
		}
	}
	return f
}

func (f *fakeVehicles) Create(v *models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == 0 {
		f.nextID++
		v.ID = f.nextID
	} else if v.ID > f.nextID {
		f.nextID = v.ID
	}
	if v.Status == "" {
		v.Status = models.VehicleAvailable
	}
	if v.HealthStatus == "" {
		v.HealthStatus = models.HealthGood
	}
	f.byID[v.ID] = v
	return v, nil
}

func (f *fakeVehicles) FindByID(id int64) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (f *fakeVehicles) ApplyRental(id int64, status models.VehicleStatus, batteryID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Status = status
	v.BatteryID = batteryID
	return nil
}

func (f *fakeVehicles) SetStatusHealth(id int64, status models.VehicleStatus, health models.HealthStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Status = status
	v.HealthStatus = health
	return nil
}

func (f *fakeVehicles) UpdateStatus(id int64, status models.VehicleStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Status = status
	return nil
}

func (f *fakeVehicles) get(id int64) *models.Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeBatteries struct {
	mu     sync.Mutex
	byID   map[int64]*models.Battery
	nextID int64
}

func newFakeBatteries(batteries ...*models.Battery) *fakeBatteries {
	f := &fakeBatteries{byID: make(map[int64]*models.Battery)}
	for _, b := range batteries {
		f.byID[b.ID] = b
		if b.ID > f.nextID {
			f.nextID = b.ID
		}
	}
	return f
}

func (f *fakeBatteries) Create(b *models.Battery) (*models.Battery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == 0 {
		f.nextID++
		b.ID = f.nextID
	} else if b.ID > f.nextID {
		f.nextID = b.ID
	}
	if b.Status == "" {
		b.Status = models.BatteryAvailable
	}
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBatteries) FindByID(id int64) (*models.Battery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeBatteries) ApplyAssignment(id int64, status models.BatteryStatus, vehicleID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	b.AssignedVehicle = vehicleID
	return nil
}

func (f *fakeBatteries) get(id int64) *models.Battery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeCustomers struct {
	mu     sync.Mutex
	byName map[string]*models.Customer
	nextID int64
}

func newFakeCustomers(customers ...*models.Customer) *fakeCustomers {
	f := &fakeCustomers{byName: make(map[string]*models.Customer)}
	for _, c := range customers {
		f.byName[c.Name] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCustomers) Create(c *models.Customer) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	f.byName[c.Name] = c
	return c, nil
}

func (f *fakeCustomers) FindByName(name string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byName[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

// fakeSnapshot satisfies both snapshot-facing interfaces. Lookups resolve
// against the live fake stores, so tests observe post-write state without a
// real refresh cycle.
type fakeSnapshot struct {
	mu        sync.Mutex
	bookings  *fakeBookings
	jobs      map[int64]*models.MaintenanceJob
	data      snapshot.Collections
	refreshes int
	fail      bool
}

func newFakeSnapshot(bookings *fakeBookings) *fakeSnapshot {
	return &fakeSnapshot{bookings: bookings, jobs: make(map[int64]*models.MaintenanceJob)}
}

func (f *fakeSnapshot) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return context.DeadlineExceeded
	}
	f.refreshes++
	return nil
}

func (f *fakeSnapshot) BookingByID(id int64) (*models.Booking, bool) {
	b := f.bookings.get(id)
	return b, b != nil
}

func (f *fakeSnapshot) JobByID(id int64) (*models.MaintenanceJob, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	return j, ok
}

func (f *fakeSnapshot) All() snapshot.Collections {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *fakeSnapshot) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func ptrID(v int64) *int64 { return &v }
