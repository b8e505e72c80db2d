package snapshot

import (
	"context"
	"errors"
	"testing"

	"rental-ops-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTables struct {
	cities    []*models.City
	vehicles  []*models.Vehicle
	bookings  []*models.Booking
	batteries []*models.Battery

	vehicleErr error
	calls      int
}

func (f *fakeTables) FindAll() ([]*models.City, error) { return f.cities, nil }

type vehicleTable struct{ f *fakeTables }

func (t vehicleTable) FindAll() ([]*models.Vehicle, error) {
	t.f.calls++
	if t.f.vehicleErr != nil {
		return nil, t.f.vehicleErr
	}
	return t.f.vehicles, nil
}

type bookingTable struct{ f *fakeTables }

func (t bookingTable) FindAll() ([]*models.Booking, error) { return t.f.bookings, nil }

type batteryTable struct{ f *fakeTables }

func (t batteryTable) FindAll() ([]*models.Battery, error) { return t.f.batteries, nil }

type emptyRates struct{}

func (emptyRates) FindAll() ([]*models.Rate, error) { return []*models.Rate{}, nil }

type emptyCustomers struct{}

func (emptyCustomers) FindAll() ([]*models.Customer, error) { return []*models.Customer{}, nil }

type emptyUsers struct{}

func (emptyUsers) FindAll() ([]*models.User, error) { return []*models.User{}, nil }

type emptyRefunds struct{}

func (emptyRefunds) FindAll() ([]*models.RefundRequest, error) { return []*models.RefundRequest{}, nil }

type emptyLogs struct{}

func (emptyLogs) FindAll() ([]*models.VehicleLog, error) { return []*models.VehicleLog{}, nil }

type emptyJobs struct{}

func (emptyJobs) FindAll() ([]*models.MaintenanceJob, error) { return []*models.MaintenanceJob{}, nil }

type emptySpares struct{}

func (emptySpares) FindAllParts() ([]*models.SparePartMaster, error) {
	return []*models.SparePartMaster{}, nil
}
func (emptySpares) FindAllStock() ([]*models.SpareInventory, error) {
	return []*models.SpareInventory{}, nil
}

func newTestStore(f *fakeTables) *Store {
	return NewStore(Sources{
		Cities:    f,
		Vehicles:  vehicleTable{f},
		Rates:     emptyRates{},
		Bookings:  bookingTable{f},
		Batteries: batteryTable{f},
		Customers: emptyCustomers{},
		Users:     emptyUsers{},
		Refunds:   emptyRefunds{},
		Logs:      emptyLogs{},
		Jobs:      emptyJobs{},
		Parts:     emptySpares{},
		Stock:     emptySpares{},
	})
}

func TestRefreshReplacesCollections(t *testing.T) {
	f := &fakeTables{
		cities:   []*models.City{{ID: 1, Name: "Pune"}},
		vehicles: []*models.Vehicle{{ID: 5, ModelName: "S1"}},
		bookings: []*models.Booking{{ID: 1, CustomerName: "Asha"}},
	}
	store := newTestStore(f)

	require.NoError(t, store.Refresh(context.Background()))

	assert.Len(t, store.Vehicles(), 1)
	assert.Len(t, store.Bookings(), 1)
	assert.Empty(t, store.Batteries())

	b, ok := store.BookingByID(1)
	require.True(t, ok)
	assert.Equal(t, "Asha", b.CustomerName)

	_, ok = store.VehicleByID(99)
	assert.False(t, ok)
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := &fakeTables{
		cities:   []*models.City{{ID: 1, Name: "Pune"}, {ID: 2, Name: "Nashik"}},
		vehicles: []*models.Vehicle{{ID: 5}, {ID: 6}},
	}
	store := newTestStore(f)

	require.NoError(t, store.Refresh(context.Background()))
	first := store.All()
	require.NoError(t, store.Refresh(context.Background()))
	second := store.All()

	assert.Equal(t, first, second)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	f := &fakeTables{
		cities:   []*models.City{{ID: 1, Name: "Pune"}},
		vehicles: []*models.Vehicle{{ID: 5}},
	}
	store := newTestStore(f)
	require.NoError(t, store.Refresh(context.Background()))

	f.vehicleErr = errors.New("read rejected")
	f.vehicles = nil

	err := store.Refresh(context.Background())
	require.Error(t, err)

	// stale but consistent
	assert.Len(t, store.Vehicles(), 1)
	assert.Len(t, store.All().Cities, 1)
}

func TestCityScopeReassignedWhenInvalid(t *testing.T) {
	f := &fakeTables{cities: []*models.City{{ID: 3, Name: "Nagpur"}, {ID: 4, Name: "Indore"}}}
	store := newTestStore(f)
	store.SelectCity(2)

	require.NoError(t, store.Refresh(context.Background()))

	assert.Equal(t, int64(3), store.SelectedCity(), "scope falls back to the first city")

	store.SelectCity(4)
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, int64(4), store.SelectedCity(), "valid scope survives a refresh")
}

func TestCityScopeKeptWhenNoCities(t *testing.T) {
	f := &fakeTables{}
	store := newTestStore(f)
	store.SelectCity(7)

	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, int64(7), store.SelectedCity())
}
