package inventory

import (
	"testing"

	"rental-ops-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.BookingActive, models.BookingPaused))
	assert.True(t, CanTransition(models.BookingPaused, models.BookingActive))
	assert.True(t, CanTransition(models.BookingActive, models.BookingReturned))
	assert.True(t, CanTransition(models.BookingPendingPayment, models.BookingActive))
	assert.True(t, CanTransition(models.BookingActive, models.BookingActive))

	// Returned is terminal
	assert.False(t, CanTransition(models.BookingReturned, models.BookingActive))
	assert.False(t, CanTransition(models.BookingReturned, models.BookingPaused))
	assert.False(t, CanTransition(models.BookingPaused, models.BookingReturned))

	assert.Error(t, CheckTransition(models.BookingReturned, models.BookingActive))
	assert.NoError(t, CheckTransition(models.BookingActive, models.BookingReturned))
}

func TestOnCreateWithBattery(t *testing.T) {
	u := OnCreate(5, ptr(9))

	require.Len(t, u.Vehicles, 1)
	assert.Equal(t, int64(5), u.Vehicles[0].ID)
	assert.Equal(t, models.VehicleRented, u.Vehicles[0].Status)
	assert.True(t, u.Vehicles[0].SetBattery)
	require.NotNil(t, u.Vehicles[0].BatteryID)
	assert.Equal(t, int64(9), *u.Vehicles[0].BatteryID)

	require.Len(t, u.Batteries, 1)
	assert.Equal(t, int64(9), u.Batteries[0].ID)
	assert.Equal(t, models.BatteryInUse, u.Batteries[0].Status)
	require.NotNil(t, u.Batteries[0].VehicleID)
	assert.Equal(t, int64(5), *u.Batteries[0].VehicleID)
}

func TestOnCreateWithoutBattery(t *testing.T) {
	u := OnCreate(5, nil)

	require.Len(t, u.Vehicles, 1)
	assert.Nil(t, u.Vehicles[0].BatteryID)
	assert.True(t, u.Vehicles[0].SetBattery)
	assert.Empty(t, u.Batteries)
}

func TestReturnVehicleStatus(t *testing.T) {
	// no flags, no override -> Available
	assert.Equal(t, models.VehicleAvailable, ReturnVehicleStatus(nil, ""))
	assert.Equal(t, models.VehicleAvailable, ReturnVehicleStatus(map[string]bool{"tyres": false}, ""))

	// any flagged item -> Maintenance
	assert.Equal(t, models.VehicleMaintenance, ReturnVehicleStatus(map[string]bool{"tyres": false, "brakes": true}, ""))

	// explicit override wins over flags
	assert.Equal(t, models.VehicleAvailable, ReturnVehicleStatus(map[string]bool{"brakes": true}, models.VehicleAvailable))
}

func TestOnReturn(t *testing.T) {
	u := OnReturn(ptr(5), ptr(9), models.VehicleAvailable)

	require.Len(t, u.Vehicles, 1)
	assert.Equal(t, models.VehicleAvailable, u.Vehicles[0].Status)
	assert.True(t, u.Vehicles[0].SetBattery)
	assert.Nil(t, u.Vehicles[0].BatteryID)

	require.Len(t, u.Batteries, 1)
	assert.Equal(t, models.BatteryAvailable, u.Batteries[0].Status)
	assert.Nil(t, u.Batteries[0].VehicleID)
}

func TestOnReturnDanglingReferences(t *testing.T) {
	u := OnReturn(nil, nil, models.VehicleAvailable)
	assert.Empty(t, u.Vehicles)
	assert.Empty(t, u.Batteries)
}

func TestOnPause(t *testing.T) {
	u := OnPause(ptr(5), ptr(9))

	require.Len(t, u.Vehicles, 1)
	assert.Equal(t, models.VehicleAvailable, u.Vehicles[0].Status)
	assert.Nil(t, u.Vehicles[0].BatteryID)
	require.Len(t, u.Batteries, 1)
	assert.Equal(t, models.BatteryAvailable, u.Batteries[0].Status)
	assert.Nil(t, u.Batteries[0].VehicleID)
}

func TestOnResumeWithoutBattery(t *testing.T) {
	u := OnResume(5, nil)

	require.Len(t, u.Vehicles, 1)
	assert.Equal(t, models.VehicleRented, u.Vehicles[0].Status)
	assert.Nil(t, u.Vehicles[0].BatteryID)
	assert.Empty(t, u.Batteries, "no battery chosen means no battery write")
}

func TestOnChangeBattery(t *testing.T) {
	u := OnChangeBattery(ptr(5), ptr(9), 12)

	require.Len(t, u.Batteries, 2)
	old, next := u.Batteries[0], u.Batteries[1]

	assert.Equal(t, int64(9), old.ID)
	assert.Equal(t, models.BatteryAvailable, old.Status)
	assert.Nil(t, old.VehicleID)

	assert.Equal(t, int64(12), next.ID)
	assert.Equal(t, models.BatteryInUse, next.Status)
	require.NotNil(t, next.VehicleID)
	assert.Equal(t, int64(5), *next.VehicleID)

	assert.Empty(t, u.Vehicles, "battery change does not touch the vehicle row")
}

func TestOnChangeBatteryNoPrevious(t *testing.T) {
	u := OnChangeBattery(ptr(5), nil, 12)
	require.Len(t, u.Batteries, 1)
	assert.Equal(t, int64(12), u.Batteries[0].ID)
}

func TestOnSwapVehicleCarriesBattery(t *testing.T) {
	u := OnSwapVehicle(ptr(5), 7, ptr(9))

	require.Len(t, u.Vehicles, 2)
	old, next := u.Vehicles[0], u.Vehicles[1]

	assert.Equal(t, int64(5), old.ID)
	assert.Equal(t, models.VehicleAvailable, old.Status)
	assert.Nil(t, old.BatteryID)

	assert.Equal(t, int64(7), next.ID)
	assert.Equal(t, models.VehicleRented, next.Status)
	require.NotNil(t, next.BatteryID)
	assert.Equal(t, int64(9), *next.BatteryID)

	assert.Empty(t, u.Batteries, "battery carries over without a battery-table write")
}

func TestMaintenanceJobEvents(t *testing.T) {
	open := OnJobOpen(5)
	require.Len(t, open.Vehicles, 1)
	assert.Equal(t, models.VehicleMaintenance, open.Vehicles[0].Status)
	assert.False(t, open.Vehicles[0].SetBattery, "opening a job leaves the battery mount alone")

	done := OnJobComplete(5)
	require.Len(t, done.Vehicles, 1)
	assert.Equal(t, models.VehicleAvailable, done.Vehicles[0].Status)
	assert.Equal(t, models.HealthGood, done.Vehicles[0].Health)
}
