package services

import (
	"context"
	"errors"
	"time"

	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type fullVehicleStore interface {
	vehicleStore
	Create(vehicle *models.Vehicle) (*models.Vehicle, error)
	Update(id int64, vehicle *models.Vehicle) (*models.Vehicle, error)
	Delete(id int64) error
}

type fullBatteryStore interface {
	batteryStore
	Create(battery *models.Battery) (*models.Battery, error)
	Update(id int64, battery *models.Battery) (*models.Battery, error)
	UpdateStatus(id int64, status models.BatteryStatus) error
	Delete(id int64) error
}

type fullCustomerStore interface {
	customerStore
	Update(id int64, customer *models.Customer) error
	Delete(id int64) error
}

type cityStore interface {
	Create(city *models.City) (*models.City, error)
	Update(id int64, name, hubAddress string) error
}

type rateStore interface {
	Create(rate *models.Rate) (*models.Rate, error)
	Update(id int64, rate *models.Rate) error
	Delete(id int64) error
}

type userStore interface {
	Create(user *models.User) (*models.User, error)
	Delete(id int64) error
}

type refundStore interface {
	Create(req *models.RefundRequest) (*models.RefundRequest, error)
	SetStatus(id int64, status models.RefundRequestStatus) error
}

type vehicleLogStore interface {
	Create(entry *models.VehicleLog) (*models.VehicleLog, error)
}

// FleetService covers the plain CRUD screens: vehicles, batteries, customers,
// cities, rates, users, refunds. Every write is followed by a snapshot
// refresh so the console's working copy keeps up.
type FleetService struct {
	vehicles  fullVehicleStore
	batteries fullBatteryStore
	customers fullCustomerStore
	cities    cityStore
	rates     rateStore
	users     userStore
	refunds   refundStore
	logs      vehicleLogStore
	snapshot  snapshotStore
	validate  *validator.Validate
}

func NewFleetService(
	vehicles fullVehicleStore,
	batteries fullBatteryStore,
	customers fullCustomerStore,
	cities cityStore,
	rates rateStore,
	users userStore,
	refunds refundStore,
	logs vehicleLogStore,
	snap snapshotStore,
) *FleetService {
	return &FleetService{
		vehicles:  vehicles,
		batteries: batteries,
		customers: customers,
		cities:    cities,
		rates:     rates,
		users:     users,
		refunds:   refunds,
		logs:      logs,
		snapshot:  snap,
		validate:  validator.New(),
	}
}

func (s *FleetService) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := s.validate.Struct(vehicle); err != nil {
		return nil, err
	}
	created, err := s.vehicles.Create(vehicle)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) UpdateVehicle(ctx context.Context, id int64, vehicle *models.Vehicle) (*models.Vehicle, error) {
	updated, err := s.vehicles.Update(id, vehicle)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// UpdateVehicleStatus flips the status and appends an audit entry to the
// vehicle log. The log write is best effort; a failed append never undoes
// the status change.
func (s *FleetService) UpdateVehicleStatus(ctx context.Context, id int64, status models.VehicleStatus, notes string) error {
	if err := s.vehicles.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("vehicle not found")
		}
		return err
	}

	_, err := s.logs.Create(&models.VehicleLog{
		VehicleID: id,
		Date:      time.Now().Format("2006-01-02"),
		Status:    status,
		Notes:     notes,
	})
	if err != nil {
		logrus.WithError(err).WithField("vehicleId", id).Warn("appending vehicle log entry failed")
	}

	s.refresh(ctx)
	return nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.vehicles.Delete(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateBattery(ctx context.Context, battery *models.Battery) (*models.Battery, error) {
	if err := s.validate.Struct(battery); err != nil {
		return nil, err
	}
	created, err := s.batteries.Create(battery)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) UpdateBattery(ctx context.Context, id int64, battery *models.Battery) (*models.Battery, error) {
	updated, err := s.batteries.Update(id, battery)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

func (s *FleetService) UpdateBatteryStatus(ctx context.Context, id int64, status models.BatteryStatus) error {
	if err := s.batteries.UpdateStatus(id, status); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) DeleteBattery(ctx context.Context, id int64) error {
	if err := s.batteries.Delete(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := s.validate.Struct(customer); err != nil {
		return nil, err
	}
	created, err := s.customers.Create(customer)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) UpdateCustomer(ctx context.Context, id int64, customer *models.Customer) error {
	if err := s.customers.Update(id, customer); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.customers.Delete(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateCity(ctx context.Context, city *models.City) (*models.City, error) {
	if err := s.validate.Struct(city); err != nil {
		return nil, err
	}
	created, err := s.cities.Create(city)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) UpdateCity(ctx context.Context, id int64, name, hubAddress string) error {
	if err := s.cities.Update(id, name, hubAddress); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateRate(ctx context.Context, rate *models.Rate) (*models.Rate, error) {
	if err := s.validate.Struct(rate); err != nil {
		return nil, err
	}
	created, err := s.rates.Create(rate)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) UpdateRate(ctx context.Context, id int64, rate *models.Rate) error {
	if err := s.rates.Update(id, rate); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) DeleteRate(ctx context.Context, id int64) error {
	if err := s.rates.Delete(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.validate.Struct(user); err != nil {
		return nil, err
	}
	created, err := s.users.Create(user)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *FleetService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) CreateRefundRequest(ctx context.Context, req *models.RefundRequest) (*models.RefundRequest, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	created, err := s.refunds.Create(req)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// MarkRefundProcessed is the only legal refund status move.
func (s *FleetService) MarkRefundProcessed(ctx context.Context, id int64) error {
	if err := s.refunds.SetStatus(id, models.RefundProcessed); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *FleetService) refresh(ctx context.Context) {
	if err := s.snapshot.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("snapshot refresh after fleet write failed")
	}
}
