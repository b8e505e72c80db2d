package services

import (
	"errors"

	"rental-ops-backend/internal/inventory"
	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Store interfaces consumed by the lifecycle services. The Mongo
// repositories satisfy them; tests substitute in-memory fakes.

type vehicleStore interface {
	ApplyRental(id int64, status models.VehicleStatus, batteryID *int64) error
	SetStatusHealth(id int64, status models.VehicleStatus, health models.HealthStatus) error
	UpdateStatus(id int64, status models.VehicleStatus) error
}

type batteryStore interface {
	ApplyAssignment(id int64, status models.BatteryStatus, vehicleID *int64) error
}

// applyInventoryUpdates issues the point writes an inventory event requires.
// The writes are independent of each other and go out concurrently. A write
// that hits a dangling reference is skipped, not failed: nothing enforces
// that a booking's vehicle or battery still exists.
func applyInventoryUpdates(vehicles vehicleStore, batteries batteryStore, u inventory.Updates) error {
	var g errgroup.Group

	for _, vu := range u.Vehicles {
		g.Go(func() error {
			var err error
			switch {
			case vu.SetBattery:
				err = vehicles.ApplyRental(vu.ID, vu.Status, vu.BatteryID)
			case vu.Health != "":
				err = vehicles.SetStatusHealth(vu.ID, vu.Status, vu.Health)
			default:
				err = vehicles.UpdateStatus(vu.ID, vu.Status)
			}
			if errors.Is(err, repository.ErrNotFound) {
				logrus.WithField("vehicleId", vu.ID).Warn("skipping update for dangling vehicle reference")
				return nil
			}
			return err
		})
	}

	for _, bu := range u.Batteries {
		g.Go(func() error {
			err := batteries.ApplyAssignment(bu.ID, bu.Status, bu.VehicleID)
			if errors.Is(err, repository.ErrNotFound) {
				logrus.WithField("batteryId", bu.ID).Warn("skipping update for dangling battery reference")
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
