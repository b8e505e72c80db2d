package models

import "time"

type SparePartMaster struct {
	ID            int64   `bson:"_id" json:"id"`
	Name          string  `bson:"name" json:"name" validate:"required"`
	SKU           string  `bson:"sku" json:"sku" validate:"required"`
	Category      string  `bson:"category" json:"category"`
	UnitPrice     float64 `bson:"unit_price" json:"unitPrice" validate:"min=0"`
	MinStockLevel int     `bson:"min_stock_level" json:"minStockLevel" validate:"min=0"`
}

type SpareInventory struct {
	ID              int64      `bson:"_id" json:"id"`
	PartID          int64      `bson:"part_id" json:"partId" validate:"required"`
	CityID          int64      `bson:"city_id" json:"cityId" validate:"required"`
	Quantity        int        `bson:"quantity" json:"quantity" validate:"min=0"`
	LastRestockedAt *time.Time `bson:"last_restocked_at,omitempty" json:"lastRestockedAt,omitempty"`
}

// IsLowStock is a derived comparison against the part's minimum level.
// It is never persisted.
func (s SpareInventory) IsLowStock(part SparePartMaster) bool {
	return s.Quantity < part.MinStockLevel
}
