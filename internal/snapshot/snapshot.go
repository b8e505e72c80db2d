package snapshot

import (
	"context"
	"sync"

	"rental-ops-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// Per-table read interfaces. The Mongo repositories satisfy these; tests use
// in-memory fakes.
type (
	CityLister      interface{ FindAll() ([]*models.City, error) }
	VehicleLister   interface{ FindAll() ([]*models.Vehicle, error) }
	RateLister      interface{ FindAll() ([]*models.Rate, error) }
	BookingLister   interface{ FindAll() ([]*models.Booking, error) }
	BatteryLister   interface{ FindAll() ([]*models.Battery, error) }
	CustomerLister  interface{ FindAll() ([]*models.Customer, error) }
	UserLister      interface{ FindAll() ([]*models.User, error) }
	RefundLister    interface{ FindAll() ([]*models.RefundRequest, error) }
	LogLister       interface{ FindAll() ([]*models.VehicleLog, error) }
	JobLister       interface{ FindAll() ([]*models.MaintenanceJob, error) }
	PartLister      interface{ FindAllParts() ([]*models.SparePartMaster, error) }
	StockLister     interface{ FindAllStock() ([]*models.SpareInventory, error) }
)

// Sources bundles the read side of every entity table.
type Sources struct {
	Cities    CityLister
	Vehicles  VehicleLister
	Rates     RateLister
	Bookings  BookingLister
	Batteries BatteryLister
	Customers CustomerLister
	Users     UserLister
	Refunds   RefundLister
	Logs      LogLister
	Jobs      JobLister
	Parts     PartLister
	Stock     StockLister
}

// Collections is one consistent-as-of-fetch copy of every entity table.
type Collections struct {
	Cities    []*models.City
	Vehicles  []*models.Vehicle
	Rates     []*models.Rate
	Bookings  []*models.Booking
	Batteries []*models.Battery
	Customers []*models.Customer
	Users     []*models.User
	Refunds   []*models.RefundRequest
	Logs      []*models.VehicleLog
	Jobs      []*models.MaintenanceJob
	Parts     []*models.SparePartMaster
	Stock     []*models.SpareInventory
}

// Store owns the in-memory snapshot the console works from. Refresh fetches
// every table concurrently and swaps the whole snapshot in only when every
// read succeeded; a failed refresh leaves the previous snapshot in place
// (stale but consistent). Collections are replaced wholesale, never patched,
// so getters can hand out the stored slices directly.
type Store struct {
	mu           sync.RWMutex
	src          Sources
	data         Collections
	selectedCity int64
}

func NewStore(src Sources) *Store {
	return &Store{src: src, selectedCity: 1}
}

// Refresh replaces the snapshot from the store. Any failed table read aborts
// the whole refresh with no partial application. If the selected city no
// longer exists afterwards, scope falls back to the first city.
func (s *Store) Refresh(ctx context.Context) error {
	var next Collections

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) { next.Cities, err = s.src.Cities.FindAll(); return })
	g.Go(func() (err error) { next.Vehicles, err = s.src.Vehicles.FindAll(); return })
	g.Go(func() (err error) { next.Rates, err = s.src.Rates.FindAll(); return })
	g.Go(func() (err error) { next.Bookings, err = s.src.Bookings.FindAll(); return })
	g.Go(func() (err error) { next.Batteries, err = s.src.Batteries.FindAll(); return })
	g.Go(func() (err error) { next.Customers, err = s.src.Customers.FindAll(); return })
	g.Go(func() (err error) { next.Users, err = s.src.Users.FindAll(); return })
	g.Go(func() (err error) { next.Refunds, err = s.src.Refunds.FindAll(); return })
	g.Go(func() (err error) { next.Logs, err = s.src.Logs.FindAll(); return })
	g.Go(func() (err error) { next.Jobs, err = s.src.Jobs.FindAll(); return })
	g.Go(func() (err error) { next.Parts, err = s.src.Parts.FindAllParts(); return })
	g.Go(func() (err error) { next.Stock, err = s.src.Stock.FindAllStock(); return })

	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next

	if len(next.Cities) > 0 && !containsCity(next.Cities, s.selectedCity) {
		s.selectedCity = next.Cities[0].ID
	}
	return nil
}

func containsCity(cities []*models.City, id int64) bool {
	for _, c := range cities {
		if c.ID == id {
			return true
		}
	}
	return false
}

// SelectedCity returns the current city scope.
func (s *Store) SelectedCity() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedCity
}

// SelectCity switches the city scope. An id that does not resolve yet is
// accepted; the next refresh corrects it.
func (s *Store) SelectCity(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCity = id
}

// All returns the current snapshot.
func (s *Store) All() Collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) Bookings() []*models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Bookings
}

func (s *Store) Vehicles() []*models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Vehicles
}

func (s *Store) Batteries() []*models.Battery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Batteries
}

func (s *Store) Jobs() []*models.MaintenanceJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Jobs
}

// BookingByID resolves a booking from the snapshot. The result can be stale
// relative to concurrent operators; lifecycle operations accept that.
func (s *Store) BookingByID(id int64) (*models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.data.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (s *Store) VehicleByID(id int64) (*models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.data.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

func (s *Store) BatteryByID(id int64) (*models.Battery, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.data.Batteries {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (s *Store) JobByID(id int64) (*models.MaintenanceJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.data.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return nil, false
}
