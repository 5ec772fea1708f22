package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Carrier struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Enabled   bool         `json:"enabled" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	ShopIDs []snowflake.ID `json:"shop_ids,omitempty" gorm:"-"`
}

func (Carrier) TableName() string { return "shipping_carriers" }

type CarrierShop struct {
	CarrierID snowflake.ID `gorm:"primaryKey"`
	ShopID    snowflake.ID `gorm:"primaryKey"`
}

func (CarrierShop) TableName() string { return "shipping_carrier_shops" }

// Table is a carrier's rate table. A nil StartDate or EndDate leaves that
// side of the validity window open.
type Table struct {
	ID         snowflake.ID      `json:"id" gorm:"primaryKey"`
	Identifier string            `json:"identifier" gorm:"type:text;not null;uniqueIndex"`
	Name       string            `json:"name" gorm:"type:text;not null"`
	Enabled    bool              `json:"enabled" gorm:"not null"`
	CarrierID  snowflake.ID      `json:"carrier_id" gorm:"not null;index"`
	StartDate  *time.Time        `json:"start_date,omitempty"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	ShopIDs           []snowflake.ID `json:"shop_ids,omitempty" gorm:"-"`
	ExcludedRegionIDs []snowflake.ID `json:"excluded_region_ids,omitempty" gorm:"-"`
}

func (Table) TableName() string { return "shipping_tables" }

// ActiveAt reports whether the validity window contains at.
func (t Table) ActiveAt(at time.Time) bool {
	if t.StartDate != nil && t.StartDate.After(at) {
		return false
	}
	if t.EndDate != nil && t.EndDate.Before(at) {
		return false
	}
	return true
}

type TableShop struct {
	TableID snowflake.ID `gorm:"primaryKey"`
	ShopID  snowflake.ID `gorm:"primaryKey;index"`
}

func (TableShop) TableName() string { return "shipping_table_shops" }

type TableExcludedRegion struct {
	TableID  snowflake.ID `gorm:"primaryKey"`
	RegionID snowflake.ID `gorm:"primaryKey"`
}

func (TableExcludedRegion) TableName() string { return "shipping_table_excluded_regions" }

// TableItem is one priced row of a table. Weights are in kilograms and both
// bounds are inclusive.
type TableItem struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	TableID      snowflake.ID    `json:"table_id" gorm:"not null;index"`
	RegionID     snowflake.ID    `json:"region_id" gorm:"not null;index"`
	StartWeight  decimal.Decimal `json:"start_weight" gorm:"type:numeric(12,3);not null"`
	EndWeight    decimal.Decimal `json:"end_weight" gorm:"type:numeric(12,3);not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	DeliveryTime int             `json:"delivery_time" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TableItem) TableName() string { return "shipping_table_items" }

// Covers reports whether weight falls inside the item's inclusive range.
func (i TableItem) Covers(weight decimal.Decimal) bool {
	return !weight.LessThan(i.StartWeight) && !weight.GreaterThan(i.EndWeight)
}

// Models lists every catalog model for auto-migration.
func Models() []any {
	return []any{
		&Carrier{},
		&CarrierShop{},
		&Table{},
		&TableShop{},
		&TableExcludedRegion{},
		&TableItem{},
	}
}
