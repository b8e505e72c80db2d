package services

import (
	"context"
	"errors"
	"time"

	"rental-ops-backend/internal/inventory"
	"rental-ops-backend/internal/models"
	"rental-ops-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type bookingStore interface {
	Create(booking *models.Booking) (*models.Booking, error)
	FindByID(id int64) (*models.Booking, error)
	Update(id int64, booking *models.Booking) error
	SetStatus(id int64, status models.BookingStatus, fineDelta, collectedDelta float64) error
	Pause(id int64, reason string, at time.Time) error
	Resume(id int64, vehicleID int64, batteryID *int64) error
	SetBattery(id int64, batteryID int64) error
	SwapVehicle(id int64, vehicleID int64, reason string, fineDelta float64) error
	Extend(id int64, extraRent, collection float64, newEndDate string) error
	Settle(id int64, amount float64, newEndDate string, extraRent float64) error
	Delete(id int64) error
}

// snapshotStore is the slice of the snapshot the lifecycle services need:
// cheap reads for pre-write lookups and a refresh to fold completed writes
// back into the console's working copy.
type snapshotStore interface {
	Refresh(ctx context.Context) error
	BookingByID(id int64) (*models.Booking, bool)
}

var ErrBookingNotFound = errors.New("booking not found")

// BookingService drives the rental lifecycle. Every operation follows the
// same shape: write the booking row first, then issue the inventory point
// writes the event implies, then refresh the snapshot. The writes are not
// transactional; a crash between them leaves rows the next reconciling
// operation tolerates.
type BookingService struct {
	bookings  bookingStore
	vehicles  vehicleStore
	batteries batteryStore
	snapshot  snapshotStore
	validate  *validator.Validate
}

func NewBookingService(bookings bookingStore, vehicles vehicleStore, batteries batteryStore, snap snapshotStore) *BookingService {
	return &BookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		batteries: batteries,
		snapshot:  snap,
		validate:  validator.New(),
	}
}

type CreateBookingRequest struct {
	CustomerName    string             `json:"customerName" validate:"required"`
	CustomerPhone   string             `json:"customerPhone" validate:"required"`
	VehicleID       int64              `json:"vehicleId" validate:"required,gt=0"`
	BatteryID       *int64             `json:"batteryId"`
	CityID          int64              `json:"cityId" validate:"required,gt=0"`
	StartDate       string             `json:"startDate" validate:"required"`
	EndDate         string             `json:"endDate" validate:"required"`
	DailyRent       float64            `json:"dailyRent" validate:"gte=0"`
	TotalRent       float64            `json:"totalRent" validate:"gte=0"`
	SecurityDeposit float64            `json:"securityDeposit" validate:"gte=0"`
	AmountCollected float64            `json:"amountCollected" validate:"gte=0"`
	ModeOfPayment   models.PaymentMode `json:"modeOfPayment"`
	PaymentTxnID    string             `json:"paymentTransactionId"`
}

// ReturnChecklist carries the operator's post-ride inspection. Any flagged
// item routes the vehicle to maintenance unless TargetVehicleStatus overrides
// the routing outright.
type ReturnChecklist struct {
	Flags                map[string]bool      `json:"checklist"`
	Fine                 float64              `json:"fine"`
	SettlementAdjustment float64              `json:"settlementAdjustment"`
	TargetVehicleStatus  models.VehicleStatus `json:"targetVehicleStatus"`
	Notes                string               `json:"notes"`
}

type UpdateBookingStatusRequest struct {
	Status    models.BookingStatus `json:"status" validate:"required"`
	Checklist *ReturnChecklist     `json:"return"`
}

type PauseBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ResumeBookingRequest struct {
	VehicleID int64  `json:"vehicleId" validate:"required,gt=0"`
	BatteryID *int64 `json:"batteryId"`
}

type ChangeBatteryRequest struct {
	BatteryID int64 `json:"batteryId" validate:"required,gt=0"`
}

type SwapVehicleRequest struct {
	VehicleID      int64   `json:"vehicleId" validate:"required,gt=0"`
	Reason         string  `json:"reason" validate:"required"`
	FineAdjustment float64 `json:"fineAdjustment"`
}

type ExtendBookingRequest struct {
	NewEndDate string  `json:"newEndDate" validate:"required"`
	ExtraRent  float64 `json:"extraRent" validate:"gte=0"`
	Collection float64 `json:"collection" validate:"gte=0"`
}

type SettleDueRequest struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	NewEndDate string  `json:"newEndDate"`
	ExtraRent  float64 `json:"extraRent"`
}

// CreateBooking inserts the booking row, then rents out the chosen vehicle
// and battery. The insert is the commit point: an insert failure aborts the
// operation, while a failed inventory write leaves the booking in place and
// surfaces the error alongside it.
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	mode := req.ModeOfPayment
	if mode == "" {
		mode = models.PaymentCash
	}

	booking := &models.Booking{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		VehicleID:       &req.VehicleID,
		BatteryID:       req.BatteryID,
		CityID:          req.CityID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DailyRent:       req.DailyRent,
		TotalRent:       req.TotalRent,
		SecurityDeposit: req.SecurityDeposit,
		AmountCollected: req.AmountCollected,
		ModeOfPayment:   mode,
		PaymentTxnID:    req.PaymentTxnID,
		Status:          models.BookingActive,
	}

	booking, err := s.bookings.Create(booking)
	if err != nil {
		return nil, err
	}

	if err := applyInventoryUpdates(s.vehicles, s.batteries, inventory.OnCreate(req.VehicleID, req.BatteryID)); err != nil {
		s.refreshSnapshot(ctx)
		return booking, err
	}

	s.refreshSnapshot(ctx)
	return booking, nil
}

// UpdateBookingStatus moves the booking through the lifecycle graph. The
// current status is read fresh from the store, not from the snapshot, so the
// transition check and the accumulator deltas see what another operator may
// have just written.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, req *UpdateBookingStatusRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	booking, err := s.bookings.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	if err := inventory.CheckTransition(booking.Status, req.Status); err != nil {
		return err
	}

	var fineDelta, collectedDelta float64
	if req.Checklist != nil {
		fineDelta = req.Checklist.Fine
		collectedDelta = req.Checklist.SettlementAdjustment
	}

	if err := s.bookings.SetStatus(id, req.Status, fineDelta, collectedDelta); err != nil {
		return err
	}

	if req.Status == models.BookingReturned {
		var flags map[string]bool
		var override models.VehicleStatus
		if req.Checklist != nil {
			flags = req.Checklist.Flags
			override = req.Checklist.TargetVehicleStatus
		}
		target := inventory.ReturnVehicleStatus(flags, override)
		if err := applyInventoryUpdates(s.vehicles, s.batteries, inventory.OnReturn(booking.VehicleID, booking.BatteryID, target)); err != nil {
			s.refreshSnapshot(ctx)
			return err
		}
	}

	s.refreshSnapshot(ctx)
	return nil
}

// PauseBooking parks the booking and releases its vehicle and battery back to
// the pool for the duration of the pause.
func (s *BookingService) PauseBooking(ctx context.Context, id int64, req *PauseBookingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	booking, ok := s.snapshot.BookingByID(id)
	if !ok {
		return ErrBookingNotFound
	}
	if err := inventory.CheckTransition(booking.Status, models.BookingPaused); err != nil {
		return err
	}

	if err := s.bookings.Pause(id, req.Reason, time.Now()); err != nil {
		return err
	}

	if err := applyInventoryUpdates(s.vehicles, s.batteries, inventory.OnPause(booking.VehicleID, booking.BatteryID)); err != nil {
		s.refreshSnapshot(ctx)
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// ResumeBooking reactivates a paused booking onto a freshly chosen vehicle
// and battery, which need not be the pair held before the pause.
func (s *BookingService) ResumeBooking(ctx context.Context, id int64, req *ResumeBookingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	booking, ok := s.snapshot.BookingByID(id)
	if !ok {
		return ErrBookingNotFound
	}
	if err := inventory.CheckTransition(booking.Status, models.BookingActive); err != nil {
		return err
	}

	if err := s.bookings.Resume(id, req.VehicleID, req.BatteryID); err != nil {
		return err
	}

	if err := applyInventoryUpdates(s.vehicles, s.batteries, inventory.OnResume(req.VehicleID, req.BatteryID)); err != nil {
		s.refreshSnapshot(ctx)
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// ChangeBattery swaps the battery mounted on an active booking. The booking
// write and both battery writes go out together; the old battery is released
// only if its reference still resolves.
func (s *BookingService) ChangeBattery(ctx context.Context, id int64, req *ChangeBatteryRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	booking, ok := s.snapshot.BookingByID(id)
	if !ok {
		return ErrBookingNotFound
	}

	if err := s.bookings.SetBattery(id, req.BatteryID); err != nil {
		return err
	}

	updates := inventory.OnChangeBattery(booking.VehicleID, booking.BatteryID, req.BatteryID)
	if err := applyInventoryUpdates(s.vehicles, s.batteries, updates); err != nil {
		s.refreshSnapshot(ctx)
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// SwapVehicle repoints an active booking at a replacement vehicle, carrying
// the mounted battery across. The freed vehicle goes back to Available.
func (s *BookingService) SwapVehicle(ctx context.Context, id int64, req *SwapVehicleRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	booking, ok := s.snapshot.BookingByID(id)
	if !ok {
		return ErrBookingNotFound
	}

	if err := s.bookings.SwapVehicle(id, req.VehicleID, req.Reason, req.FineAdjustment); err != nil {
		return err
	}

	updates := inventory.OnSwapVehicle(booking.VehicleID, req.VehicleID, booking.BatteryID)
	if err := applyInventoryUpdates(s.vehicles, s.batteries, updates); err != nil {
		s.refreshSnapshot(ctx)
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// ExtendBooking moves the end date out and adds the agreed rent and any
// up-front collection onto the accumulators. No inventory changes.
func (s *BookingService) ExtendBooking(ctx context.Context, id int64, req *ExtendBookingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	if err := s.bookings.Extend(id, req.ExtraRent, req.Collection, req.NewEndDate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// SettleBookingDue records a payment against the booking's outstanding
// balance, optionally extending the booking in the same stroke.
func (s *BookingService) SettleBookingDue(ctx context.Context, id int64, req *SettleDueRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	if err := s.bookings.Settle(id, req.Amount, req.NewEndDate, req.ExtraRent); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	s.refreshSnapshot(ctx)
	return nil
}

// UpdateBooking overwrites editable booking fields wholesale. Lifecycle and
// financial moves go through the dedicated operations instead.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, booking *models.Booking) error {
	if err := s.bookings.Update(id, booking); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	s.refreshSnapshot(ctx)
	return nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookings.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	s.refreshSnapshot(ctx)
	return nil
}

// refreshSnapshot folds a completed write back into the working copy. A
// failed refresh is logged, not returned: the write already landed and the
// change feed will catch the snapshot up.
func (s *BookingService) refreshSnapshot(ctx context.Context) {
	if err := s.snapshot.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("snapshot refresh after booking write failed")
	}
}
