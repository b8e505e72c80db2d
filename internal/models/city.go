package models

// City scopes every other entity. When the currently selected city disappears
// from a refreshed snapshot, the first city in id order becomes the scope.
type City struct {
	ID         int64  `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name" validate:"required"`
	HubAddress string `bson:"hub_address,omitempty" json:"hubAddress,omitempty"`
}

// Rate is a per-city pricing plan, optionally pinned to a client.
type Rate struct {
	ID              int64   `bson:"_id" json:"id"`
	CityID          int64   `bson:"city_id" json:"cityId" validate:"required"`
	ClientName      string  `bson:"client_name,omitempty" json:"clientName,omitempty"`
	DailyRent       float64 `bson:"daily_rent" json:"dailyRent" validate:"min=0"`
	MonthlyRent     float64 `bson:"monthly_rent,omitempty" json:"monthlyRent,omitempty"`
	SecurityDeposit float64 `bson:"security_deposit" json:"securityDeposit" validate:"min=0"`
}
