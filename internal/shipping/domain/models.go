package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	"github.com/smallbiznis/shiptable/internal/packaging"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	"github.com/smallbiznis/shiptable/internal/weight"
)

// FetchMode selects the secondary ordering of a by-mode behavior.
type FetchMode string

const (
	FetchLowestPrice        FetchMode = "lowest_price"
	FetchLowestDeliveryTime FetchMode = "lowest_delivery_time"
)

const (
	KindByMode        = "by_mode"
	KindSpecificTable = "specific_table"
)

var (
	ErrInvalidFetchMode    = errors.New("invalid_fetch_mode")
	ErrInvalidBehaviorName = errors.New("invalid_behavior_name")
	ErrMissingTable        = errors.New("missing_table_identifier")
	ErrInvalidSurcharge    = errors.New("invalid_surcharge")
	ErrInvalidShop         = errors.New("invalid_shop")
	ErrBehaviorNotFound    = errors.New("behavior_not_found")
)

func ParseFetchMode(raw string) (FetchMode, error) {
	switch FetchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case FetchLowestPrice, "":
		return FetchLowestPrice, nil
	case FetchLowestDeliveryTime:
		return FetchLowestDeliveryTime, nil
	default:
		return "", ErrInvalidFetchMode
	}
}

// Order is the shippable view of a basket.
type Order struct {
	ShopID      snowflake.ID
	Destination regiondomain.Address
	Lines       []packaging.Line
}

// Surcharge is added on top of whichever table item wins.
type Surcharge struct {
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
}

// Apply returns the item's price and delivery days with the surcharge added.
func (s Surcharge) Apply(item catalogdomain.TableItem) (decimal.Decimal, int) {
	return item.Price.Add(s.Price), item.DeliveryTime + s.DeliveryDays
}

// Settings are shared by every behavior variant.
type Settings struct {
	Surcharge Surcharge          `json:"surcharge"`
	Cubic     weight.CubicConfig `json:"cubic"`
}

func (s Settings) BehaviorSettings() Settings { return s }

func (s Settings) validate() error {
	if s.Surcharge.Price.IsNegative() || s.Surcharge.DeliveryDays < 0 {
		return ErrInvalidSurcharge
	}
	return nil
}

// Behavior is a configured way of picking a table item for an order.
type Behavior interface {
	BehaviorName() string
	Kind() string
	BehaviorSettings() Settings
	// Scope narrows the catalog query to what the behavior allows.
	Scope(q *catalogdomain.CandidateQuery)
	Validate() error
}

// ByModeBehavior picks the cheapest or fastest item, optionally limited to
// some tables or carriers.
type ByModeBehavior struct {
	Name string
	Settings
	Mode             FetchMode
	TableIdentifiers []string
	CarrierIDs       []snowflake.ID
}

func (b ByModeBehavior) BehaviorName() string { return b.Name }

func (ByModeBehavior) Kind() string { return KindByMode }

func (b ByModeBehavior) Scope(q *catalogdomain.CandidateQuery) {
	q.TableIdentifiers = append([]string(nil), b.TableIdentifiers...)
	q.CarrierIDs = append([]snowflake.ID(nil), b.CarrierIDs...)
	q.SortBy = catalogdomain.SortByPrice
	if b.Mode == FetchLowestDeliveryTime {
		q.SortBy = catalogdomain.SortByDeliveryTime
	}
}

func (b ByModeBehavior) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidBehaviorName
	}
	if b.Mode != FetchLowestPrice && b.Mode != FetchLowestDeliveryTime {
		return ErrInvalidFetchMode
	}
	return b.Settings.validate()
}

// SpecificTableBehavior always quotes from one table, cheapest item first.
type SpecificTableBehavior struct {
	Name string
	Settings
	TableIdentifier string
}

func (b SpecificTableBehavior) BehaviorName() string { return b.Name }

func (SpecificTableBehavior) Kind() string { return KindSpecificTable }

func (b SpecificTableBehavior) Scope(q *catalogdomain.CandidateQuery) {
	q.PinnedTable = b.TableIdentifier
	q.SortBy = catalogdomain.SortByPrice
}

func (b SpecificTableBehavior) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidBehaviorName
	}
	if strings.TrimSpace(b.TableIdentifier) == "" {
		return ErrMissingTable
	}
	return b.Settings.validate()
}

// DurationRange is an estimated delivery window.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

// Days builds a range whose lower and upper bound are both n days.
func Days(n int) DurationRange {
	d := time.Duration(n) * 24 * time.Hour
	return DurationRange{Min: d, Max: d}
}

func (r DurationRange) MinDays() int { return int(r.Min / (24 * time.Hour)) }

func (r DurationRange) MaxDays() int { return int(r.Max / (24 * time.Hour)) }

// Reason explains why a behavior cannot ship an order.
type Reason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var ReasonNoTableFound = Reason{Code: "no_table_found", Message: "No table found"}

// Quote is the full outcome of one resolution.
type Quote struct {
	ID             string
	Behavior       string
	Available      bool
	Reasons        []Reason
	Price          decimal.Decimal
	DeliveryTime   DurationRange
	BillableWeight decimal.Decimal
	Match          *catalogdomain.Candidate
	QuotedAt       time.Time
}
