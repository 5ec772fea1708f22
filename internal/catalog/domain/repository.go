package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
)

// SortKey is the secondary ordering applied after region priority.
type SortKey int

const (
	SortByPrice SortKey = iota
	SortByDeliveryTime
)

func (k SortKey) String() string {
	switch k {
	case SortByDeliveryTime:
		return "delivery_time"
	default:
		return "price"
	}
}

// CandidateQuery selects table items eligible for an order. Empty
// allow-lists and an empty PinnedTable impose no restriction.
type CandidateQuery struct {
	Weight           decimal.Decimal
	ShopID           snowflake.ID
	At               time.Time
	TableIdentifiers []string
	CarrierIDs       []snowflake.ID
	PinnedTable      string
	SortBy           SortKey
}

// Candidate is an eligible table item together with its region.
type Candidate struct {
	Item   TableItem
	Region regiondomain.Region
}

//go:generate mockgen -destination=../mock/catalog.go -package=mock github.com/smallbiznis/shiptable/internal/catalog/domain Catalog

// Catalog is the read side the resolver depends on.
type Catalog interface {
	// Candidates returns eligible items ordered by region priority
	// (descending), then by the query's sort key and item id (ascending).
	Candidates(ctx context.Context, q CandidateQuery) ([]Candidate, error)
	ExcludedRegions(ctx context.Context, tableID snowflake.ID) ([]regiondomain.Region, error)
}

type Repository interface {
	Catalog

	FindTableByIdentifier(ctx context.Context, identifier string) (*Table, error)
	FindCarrierByID(ctx context.Context, id snowflake.ID) (*Carrier, error)

	CreateCarrier(ctx context.Context, carrier *Carrier) error
	CreateRegion(ctx context.Context, region *regiondomain.Region) error
	CreateTable(ctx context.Context, table *Table) error
	CreateTableItem(ctx context.Context, item *TableItem) error
}

var (
	ErrInvalidCarrierName     = errors.New("invalid_carrier_name")
	ErrInvalidIdentifier      = errors.New("invalid_table_identifier")
	ErrInvalidTableName       = errors.New("invalid_table_name")
	ErrInvalidCarrier         = errors.New("invalid_carrier")
	ErrInvalidDateRange       = errors.New("invalid_date_range")
	ErrInvalidTable           = errors.New("invalid_table")
	ErrInvalidRegion          = errors.New("invalid_region")
	ErrInvalidWeightRange     = errors.New("invalid_weight_range")
	ErrInvalidPrice           = errors.New("invalid_price")
	ErrInvalidDeliveryTime    = errors.New("invalid_delivery_time")
	ErrDuplicateIdentifier    = errors.New("duplicate_table_identifier")
	ErrDuplicateCountryRegion = errors.New("duplicate_country_region")
	ErrNotFound               = errors.New("not_found")
)
