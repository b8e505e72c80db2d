package services

import (
	"context"
	"errors"
	"fmt"

	"rental-ops-backend/internal/inventory"
	"rental-ops-backend/internal/legacy"
	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type importVehicleStore interface {
	vehicleStore
	FindByID(id int64) (*models.Vehicle, error)
	Create(vehicle *models.Vehicle) (*models.Vehicle, error)
}

type importBatteryStore interface {
	batteryStore
	FindByID(id int64) (*models.Battery, error)
	Create(battery *models.Battery) (*models.Battery, error)
}

type customerStore interface {
	Create(customer *models.Customer) (*models.Customer, error)
	FindByName(name string) (*models.Customer, error)
}

// ImportService reconciles hand-maintained spreadsheet exports into the
// store: inventory referenced by a row is seeded under its original id when
// missing, customers are matched by name, and the booking lands with the
// spreadsheet's totals carried over as-is.
type ImportService struct {
	bookings  bookingStore
	vehicles  importVehicleStore
	batteries importBatteryStore
	customers customerStore
	snapshot  snapshotStore
}

func NewImportService(bookings bookingStore, vehicles importVehicleStore, batteries importBatteryStore, customers customerStore, snap snapshotStore) *ImportService {
	return &ImportService{
		bookings:  bookings,
		vehicles:  vehicles,
		batteries: batteries,
		customers: customers,
		snapshot:  snap,
	}
}

// ImportLegacyBookings ingests parsed rows in order. Rows without a customer
// name are skipped. The first booking insert failure aborts the batch; the
// returned count is the number of bookings committed before the failure, all
// of which stay in place.
func (s *ImportService) ImportLegacyBookings(ctx context.Context, rows []legacy.Row, defaultCity int64) (int, error) {
	if err := s.seedVehicles(rows, defaultCity); err != nil {
		return 0, err
	}
	if err := s.seedBatteries(rows, defaultCity); err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		if row.CustomerName == "" {
			continue
		}

		customer, err := s.resolveCustomer(row)
		if err != nil {
			return imported, err
		}

		cityID := row.CityID
		if cityID == 0 {
			cityID = defaultCity
		}

		status := legacy.ClassifyStatus(row.Status)

		booking := &models.Booking{
			CustomerName:    customer.Name,
			CustomerPhone:   customer.Phone,
			VehicleID:       row.VehicleID,
			BatteryID:       row.BatteryID,
			CityID:          cityID,
			StartDate:       row.StartDate,
			EndDate:         row.EndDate,
			TotalRent:       row.TotalRent,
			AmountCollected: row.AmountCollected,
			SecurityDeposit: row.SecurityDeposit,
			FineAmount:      row.FineAmount,
			ModeOfPayment:   models.PaymentCash,
			Status:          status.BookingStatus(),
		}

		if _, err := s.bookings.Create(booking); err != nil {
			return imported, err
		}

		if status == legacy.ClassActive && row.VehicleID != nil {
			updates := inventory.OnCreate(*row.VehicleID, row.BatteryID)
			if err := applyInventoryUpdates(s.vehicles, s.batteries, updates); err != nil {
				logrus.WithError(err).WithField("vehicleId", *row.VehicleID).
					Warn("marking imported assignment rented failed")
			}
		}

		imported++
	}

	if err := s.snapshot.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("snapshot refresh after import failed")
	}
	return imported, nil
}

// seedVehicles creates a placeholder vehicle, under the spreadsheet's id, for
// every referenced vehicle the store does not know.
func (s *ImportService) seedVehicles(rows []legacy.Row, defaultCity int64) error {
	seen := make(map[int64]bool)
	for _, row := range rows {
		if row.VehicleID == nil || seen[*row.VehicleID] {
			continue
		}
		seen[*row.VehicleID] = true

		_, err := s.vehicles.FindByID(*row.VehicleID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		cityID := row.CityID
		if cityID == 0 {
			cityID = defaultCity
		}
		_, err = s.vehicles.Create(&models.Vehicle{
			ID:        *row.VehicleID,
			ModelName: "Imported Vehicle",
			CityID:    cityID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// seedBatteries does the same for batteries, with a synthetic serial derived
// from the id and a full charge assumed.
func (s *ImportService) seedBatteries(rows []legacy.Row, defaultCity int64) error {
	seen := make(map[int64]bool)
	for _, row := range rows {
		if row.BatteryID == nil || seen[*row.BatteryID] {
			continue
		}
		seen[*row.BatteryID] = true

		_, err := s.batteries.FindByID(*row.BatteryID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		cityID := row.CityID
		if cityID == 0 {
			cityID = defaultCity
		}
		_, err = s.batteries.Create(&models.Battery{
			ID:               *row.BatteryID,
			SerialNumber:     fmt.Sprintf("BATT-%d", *row.BatteryID),
			CityID:           cityID,
			ChargePercentage: 100,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveCustomer matches by exact name, first hit wins; an unknown name
// creates a new customer with the row's phone (dummy when the export had no
// phone column).
func (s *ImportService) resolveCustomer(row legacy.Row) (*models.Customer, error) {
	customer, err := s.customers.FindByName(row.CustomerName)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	phone := row.CustomerPhone
	if phone == "" {
		phone = "0000000000"
	}
	return s.customers.Create(&models.Customer{
		Name:  row.CustomerName,
		Phone: phone,
	})
}
