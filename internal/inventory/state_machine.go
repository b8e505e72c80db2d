package inventory

import (
	"fmt"

	"rental-ops-backend/internal/models"
)

// This package is the pure rule layer of the reconciliation core: given a
// booking-lifecycle event and the current vehicle/battery assignment it
// decides which inventory point writes must accompany the booking write.
// Nothing here touches the store; the services layer executes the returned
// updates as independent network calls.

// VehicleUpdate is one point write against the vehicles table. When
// SetBattery is true the battery reference is written alongside the status
// (nil clears the mount); maintenance events leave it untouched. Health is
// written only when non-empty.
type VehicleUpdate struct {
	ID         int64
	Status     models.VehicleStatus
	BatteryID  *int64
	SetBattery bool
	Health     models.HealthStatus
}

// BatteryUpdate is one point write against the batteries table. VehicleID is
// the assignment target; nil releases the battery.
type BatteryUpdate struct {
	ID        int64
	Status    models.BatteryStatus
	VehicleID *int64
}

// Updates is the full set of inventory writes an event requires. Updates
// within the set carry no ordering dependency and may be issued concurrently.
type Updates struct {
	Vehicles  []VehicleUpdate
	Batteries []BatteryUpdate
}

// allowedTransitions is the booking status graph. Returned is terminal;
// PendingPayment -> Active exists only for imported legacy rows.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingActive:         {models.BookingPaused, models.BookingReturned},
	models.BookingPaused:         {models.BookingActive},
	models.BookingPendingPayment: {models.BookingActive},
	models.BookingReturned:       {},
}

// CanTransition reports whether from -> to is an allowed booking status move.
func CanTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a descriptive error for a disallowed move.
func CheckTransition(from, to models.BookingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid booking status transition: %s -> %s", from, to)
	}
	return nil
}

// OnCreate marks the chosen vehicle rented with the chosen battery mounted,
// and the battery (when one was picked) in use on that vehicle.
func OnCreate(vehicleID int64, batteryID *int64) Updates {
	u := Updates{
		Vehicles: []VehicleUpdate{{ID: vehicleID, Status: models.VehicleRented, BatteryID: batteryID, SetBattery: true}},
	}
	if batteryID != nil {
		u.Batteries = append(u.Batteries, BatteryUpdate{
			ID:        *batteryID,
			Status:    models.BatteryInUse,
			VehicleID: &vehicleID,
		})
	}
	return u
}

// ReturnVehicleStatus picks the vehicle's post-return status: an explicit
// operator override wins, otherwise any flagged checklist item sends the
// vehicle to Maintenance, otherwise it goes back to Available.
func ReturnVehicleStatus(flags map[string]bool, override models.VehicleStatus) models.VehicleStatus {
	if override != "" {
		return override
	}
	for _, flagged := range flags {
		if flagged {
			return models.VehicleMaintenance
		}
	}
	return models.VehicleAvailable
}

// OnReturn releases the booking's vehicle and battery. Either id may be nil
// (already-dangling references produce no update).
func OnReturn(vehicleID, batteryID *int64, target models.VehicleStatus) Updates {
	var u Updates
	if vehicleID != nil {
		u.Vehicles = append(u.Vehicles, VehicleUpdate{ID: *vehicleID, Status: target, SetBattery: true})
	}
	if batteryID != nil {
		u.Batteries = append(u.Batteries, BatteryUpdate{ID: *batteryID, Status: models.BatteryAvailable, VehicleID: nil})
	}
	return u
}

// OnPause frees both sides of the assignment while the booking sits paused.
func OnPause(vehicleID, batteryID *int64) Updates {
	var u Updates
	if vehicleID != nil {
		u.Vehicles = append(u.Vehicles, VehicleUpdate{ID: *vehicleID, Status: models.VehicleAvailable, SetBattery: true})
	}
	if batteryID != nil {
		u.Batteries = append(u.Batteries, BatteryUpdate{ID: *batteryID, Status: models.BatteryAvailable, VehicleID: nil})
	}
	return u
}

// OnResume re-acquires a vehicle and an optionally chosen battery. The
// battery picked at resume time need not be the one held before the pause.
func OnResume(vehicleID int64, batteryID *int64) Updates {
	return OnCreate(vehicleID, batteryID)
}

// OnChangeBattery releases the booking's old battery (when it still resolves)
// and assigns the new one to the booking's vehicle.
func OnChangeBattery(vehicleID *int64, oldBatteryID *int64, newBatteryID int64) Updates {
	var u Updates
	if oldBatteryID != nil {
		u.Batteries = append(u.Batteries, BatteryUpdate{ID: *oldBatteryID, Status: models.BatteryAvailable, VehicleID: nil})
	}
	u.Batteries = append(u.Batteries, BatteryUpdate{
		ID:        newBatteryID,
		Status:    models.BatteryInUse,
		VehicleID: vehicleID,
	})
	return u
}

// OnSwapVehicle frees the old vehicle and rents out the new one with the
// booking's existing battery carried over. The battery row itself is not
// touched: its assigned vehicle keeps pointing at the booking's vehicle slot,
// which the booking write repoints.
func OnSwapVehicle(oldVehicleID *int64, newVehicleID int64, batteryID *int64) Updates {
	var u Updates
	if oldVehicleID != nil {
		u.Vehicles = append(u.Vehicles, VehicleUpdate{ID: *oldVehicleID, Status: models.VehicleAvailable, SetBattery: true})
	}
	u.Vehicles = append(u.Vehicles, VehicleUpdate{ID: newVehicleID, Status: models.VehicleRented, BatteryID: batteryID, SetBattery: true})
	return u
}

// OnJobOpen pulls the vehicle out of the rentable pool.
func OnJobOpen(vehicleID int64) Updates {
	return Updates{Vehicles: []VehicleUpdate{{ID: vehicleID, Status: models.VehicleMaintenance}}}
}

// OnJobComplete returns the vehicle to the pool with its health reset.
func OnJobComplete(vehicleID int64) Updates {
	return Updates{Vehicles: []VehicleUpdate{{
		ID:     vehicleID,
		Status: models.VehicleAvailable,
		Health: models.HealthGood,
	}}}
}
