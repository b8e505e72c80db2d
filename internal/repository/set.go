package repository

import (
	"rental-ops-backend/internal/snapshot"

	"go.mongodb.org/mongo-driver/mongo"
)

// Set bundles one repository per entity table.
type Set struct {
	Cities    *CityRepository
	Vehicles  *VehicleRepository
	Rates     *RateRepository
	Bookings  *BookingRepository
	Batteries *BatteryRepository
	Customers *CustomerRepository
	Users     *UserRepository
	Refunds   *RefundRepository
	Logs      *VehicleLogRepository
	Jobs      *MaintenanceRepository
	Spares    *SparePartRepository
}

func NewSet(db *mongo.Database) *Set {
	return &Set{
		Cities:    NewCityRepository(db),
		Vehicles:  NewVehicleRepository(db),
		Rates:     NewRateRepository(db),
		Bookings:  NewBookingRepository(db),
		Batteries: NewBatteryRepository(db),
		Customers: NewCustomerRepository(db),
		Users:     NewUserRepository(db),
		Refunds:   NewRefundRepository(db),
		Logs:      NewVehicleLogRepository(db),
		Jobs:      NewMaintenanceRepository(db),
		Spares:    NewSparePartRepository(db),
	}
}

// Sources adapts the set to the snapshot store's read side.
func (s *Set) Sources() snapshot.Sources {
	return snapshot.Sources{
		Cities:    s.Cities,
		Vehicles:  s.Vehicles,
		Rates:     s.Rates,
		Bookings:  s.Bookings,
		Batteries: s.Batteries,
		Customers: s.Customers,
		Users:     s.Users,
		Refunds:   s.Refunds,
		Logs:      s.Logs,
		Jobs:      s.Jobs,
		Parts:     s.Spares,
		Stock:     s.Spares,
	}
}
