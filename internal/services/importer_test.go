package services

import (
	"context"
	"testing"

	"rental-ops-backend/internal/legacy"
	"rental-ops-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportFixture(t *testing.T) (*ImportService, *fakeBookings, *fakeVehicles, *fakeBatteries, *fakeCustomers) {
	t.Helper()
	bookings := newFakeBookings()
	vehicles := newFakeVehicles()
	batteries := newFakeBatteries()
	customers := newFakeCustomers()
	snap := newFakeSnapshot(bookings)
	return NewImportService(bookings, vehicles, batteries, customers, snap), bookings, vehicles, batteries, customers
}

func TestImportSeedsMissingInventory(t *testing.T) {
	svc, bookings, vehicles, batteries, _ := newImportFixture(t)

	rows := []legacy.Row{
		{
			CustomerName:    "Asha Patil",
			CustomerPhone:   "0000000001",
			VehicleID:       ptrID(5),
			BatteryID:       ptrID(9),
			CityID:          1,
			StartDate:       "2024-03-01",
			EndDate:         "2024-03-31",
			Status:          "Active",
			TotalRent:       3000,
			AmountCollected: 1500,
		},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	v := vehicles.get(5)
	require.NotNil(t, v, "referenced vehicle is seeded under its original id")
	assert.Equal(t, "Imported Vehicle", v.ModelName)
	assert.Equal(t, models.VehicleRented, v.Status, "active row rents the seeded vehicle out")

	b := batteries.get(9)
	require.NotNil(t, b)
	assert.Equal(t, "BATT-9", b.SerialNumber)
	assert.Equal(t, 100, b.ChargePercentage)
	assert.Equal(t, models.BatteryInUse, b.Status)

	booking := bookings.get(1)
	require.NotNil(t, booking)
	assert.Equal(t, models.BookingActive, booking.Status)
	assert.Equal(t, 3000.0, booking.TotalRent)
	assert.Equal(t, 1500.0, booking.AmountCollected)
	assert.Equal(t, models.PaymentCash, booking.ModeOfPayment)
}

func TestImportLeavesExistingInventoryAlone(t *testing.T) {
	svc, _, vehicles, _, _ := newImportFixture(t)
	vehicles.Create(&models.Vehicle{ID: 5, ModelName: "S1 Pro", CityID: 2})

	rows := []legacy.Row{
		{CustomerName: "Asha", CustomerPhone: "0000000001", VehicleID: ptrID(5), CityID: 1, Status: "Returned"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	v := vehicles.get(5)
	assert.Equal(t, "S1 Pro", v.ModelName, "existing row is not overwritten")
	assert.Equal(t, models.VehicleAvailable, v.Status, "non-active rows leave inventory untouched")
}

func TestImportMatchesCustomersByName(t *testing.T) {
	svc, bookings, _, _, customers := newImportFixture(t)
	customers.Create(&models.Customer{Name: "Asha Patil", Phone: "9876543210"})

	rows := []legacy.Row{
		{CustomerName: "Asha Patil", CustomerPhone: "0000000001", CityID: 1, Status: "Returned"},
		{CustomerName: "Ravi Kumar", CustomerPhone: "0000000002", CityID: 1, Status: "Returned"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, "9876543210", bookings.get(1).CustomerPhone, "matched customer keeps the real phone")
	assert.Equal(t, "0000000002", bookings.get(2).CustomerPhone, "new customer gets the row's dummy phone")
	assert.Len(t, customers.byName, 2)
}

func TestImportSkipsRowsWithoutCustomerName(t *testing.T) {
	svc, bookings, _, _, _ := newImportFixture(t)

	rows := []legacy.Row{
		{CustomerName: "", CityID: 1, Status: "Active"},
		{CustomerName: "Asha", CustomerPhone: "0000000002", CityID: 1, Status: "Returned"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, bookings.byID, 1)
}

func TestImportUnrecognizedStatusLandsReturned(t *testing.T) {
	svc, bookings, _, _, _ := newImportFixture(t)

	rows := []legacy.Row{
		{CustomerName: "Asha", CustomerPhone: "0000000001", CityID: 1, Status: "something odd"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, models.BookingReturned, bookings.get(1).Status)
}

func TestImportActiveRowWithoutVehicle(t *testing.T) {
	svc, bookings, vehicles, _, _ := newImportFixture(t)

	rows := []legacy.Row{
		{CustomerName: "Asha", CustomerPhone: "0000000001", CityID: 1, Status: "Active"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	booking := bookings.get(1)
	assert.Nil(t, booking.VehicleID)
	assert.Equal(t, models.BookingActive, booking.Status)
	assert.Empty(t, vehicles.byID, "no vehicle is seeded or updated for a row with no reference")
}

func TestImportDefaultsCityScope(t *testing.T) {
	svc, bookings, vehicles, _, _ := newImportFixture(t)

	rows := []legacy.Row{
		{CustomerName: "Asha", CustomerPhone: "0000000001", VehicleID: ptrID(3), CityID: 0, Status: "Returned"},
	}

	count, err := svc.ImportLegacyBookings(context.Background(), rows, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(7), bookings.get(1).CityID)
	assert.Equal(t, int64(7), vehicles.get(3).CityID)
}
