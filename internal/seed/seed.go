package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
)

// DefaultShopID is the shop every demo carrier and table is attached to.
const DefaultShopID snowflake.ID = 1

const demoMarkerTable = "table-1"

// Fixture holds the rows written by DemoCatalog keyed by their demo names.
type Fixture struct {
	ShopID   snowflake.ID
	Carriers map[string]*catalogdomain.Carrier
	Regions  map[string]*regiondomain.Region
	Tables   map[string]*catalogdomain.Table
	Items    []*catalogdomain.TableItem
}

// EnsureDemoCatalog seeds the demo catalog unless it is already present.
func EnsureDemoCatalog(ctx context.Context, repo catalogdomain.Repository, now time.Time) (bool, error) {
	if repo == nil {
		return false, errors.New("seed catalog repository is required")
	}
	_, err := repo.FindTableByIdentifier(ctx, demoMarkerTable)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, catalogdomain.ErrNotFound):
		return false, err
	}
	if _, err := DemoCatalog(ctx, repo, now); err != nil {
		return false, err
	}
	return true, nil
}

// DemoCatalog writes two carriers, a set of postal-code and country
// regions and six tables covering the active, excluded, expired, disabled
// and shop-less cases.
func DemoCatalog(ctx context.Context, repo catalogdomain.Repository, now time.Time) (*Fixture, error) {
	now = now.UTC()
	fixture := &Fixture{
		ShopID:   DefaultShopID,
		Carriers: map[string]*catalogdomain.Carrier{},
		Regions:  map[string]*regiondomain.Region{},
		Tables:   map[string]*catalogdomain.Table{},
	}

	for _, name := range []string{"carrier1", "carrier2"} {
		carrier := &catalogdomain.Carrier{Name: name, Enabled: true, ShopIDs: []snowflake.ID{DefaultShopID}}
		if err := repo.CreateCarrier(ctx, carrier); err != nil {
			return nil, err
		}
		fixture.Carriers[name] = carrier
	}

	regions := []struct {
		key    string
		region regiondomain.Region
	}{
		{"region1", regiondomain.NewPostalCodeRange("region1", 1, "BR", 89060000, 89070000)},
		{"region2", regiondomain.NewPostalCodeRange("region2", 0, "BR", 89040000, 89050000)},
		{"region3", regiondomain.NewPostalCodeRange("region3", 0, "BR", 89060001, 89060005)},
		{"region4", regiondomain.NewCountry("region4", 0, "CAN")},
		{"region5", regiondomain.NewCountry("region5", 0, "US")},
		{"region_br", regiondomain.NewCountry("region_br", 0, "BR")},
		{"excluded_postal_code", regiondomain.NewPostalCodeRange("excluded_postal_code", 99, "BR", 89060100, 89060100)},
		{"region6", regiondomain.NewPostalCodeRange("region6", 1, "BR", 99090001, 99090002)},
		{"region7", regiondomain.NewPostalCodeRange("region7", 99, "BR", 99090001, 99090002)},
	}
	for _, r := range regions {
		region := r.region
		if err := repo.CreateRegion(ctx, &region); err != nil {
			return nil, err
		}
		fixture.Regions[r.key] = &region
	}

	day := 24 * time.Hour
	carrier1, carrier2 := fixture.Carriers["carrier1"].ID, fixture.Carriers["carrier2"].ID
	shops := []snowflake.ID{DefaultShopID}

	tables := []*catalogdomain.Table{
		{
			Identifier:        "table-1",
			Name:              "Table 1",
			Enabled:           true,
			CarrierID:         carrier1,
			StartDate:         ptr(now.Add(-day)),
			EndDate:           ptr(now.Add(day)),
			ShopIDs:           shops,
			ExcludedRegionIDs: []snowflake.ID{fixture.Regions["region3"].ID, fixture.Regions["excluded_postal_code"].ID},
		},
		{
			Identifier:        "table-2",
			Name:              "Table 2",
			Enabled:           true,
			CarrierID:         carrier2,
			ShopIDs:           shops,
			ExcludedRegionIDs: []snowflake.ID{fixture.Regions["excluded_postal_code"].ID},
		},
		{Identifier: "table-3", Name: "Table 3", Enabled: true, CarrierID: carrier1, ShopIDs: shops},
		{
			Identifier: "table-4",
			Name:       "Expired table",
			Enabled:    true,
			CarrierID:  carrier1,
			StartDate:  ptr(now.Add(-20 * day)),
			EndDate:    ptr(now.Add(-19 * day)),
			ShopIDs:    shops,
		},
		{Identifier: "table-5", Name: "Disabled table", Enabled: false, CarrierID: carrier1, ShopIDs: shops},
		{Identifier: "table-6", Name: "Table without shop", Enabled: true, CarrierID: carrier1},
	}
	for _, table := range tables {
		if err := repo.CreateTable(ctx, table); err != nil {
			return nil, err
		}
		fixture.Tables[table.Identifier] = table
	}

	items := []struct {
		table, region    string
		start, end, cost string
		days             int
	}{
		{"table-1", "region1", "0", "1", "1", 8},
		{"table-1", "region1", "1.01", "5", "2", 8},
		{"table-1", "region2", "0", "10", "20", 74},
		{"table-1", "region2", "10", "200", "100", 85},
		{"table-1", "region6", "0", "100", "1", 1},
		{"table-1", "region7", "0", "100", "999", 999},

		{"table-2", "region1", "0", "1", "9", 2},
		{"table-2", "region1", "1.0", "5", "14", 2},
		{"table-2", "region2", "0", "10", "50", 23},
		{"table-2", "region2", "10", "20", "530", 26},

		{"table-3", "region4", "0", "10", "9", 2},
		{"table-3", "region4", "10", "20", "14", 2},
		{"table-3", "region5", "0", "10", "9", 2},
		{"table-3", "region5", "20", "50", "14", 2},

		{"table-4", "region_br", "0", "1000", "0.01", 1},
		{"table-5", "region_br", "0", "1000", "0.01", 1},
		{"table-6", "region_br", "0", "1000", "0.01", 1},
	}
	for _, it := range items {
		item := &catalogdomain.TableItem{
			TableID:      fixture.Tables[it.table].ID,
			RegionID:     fixture.Regions[it.region].ID,
			StartWeight:  decimal.RequireFromString(it.start),
			EndWeight:    decimal.RequireFromString(it.end),
			Price:        decimal.RequireFromString(it.cost),
			DeliveryTime: it.days,
		}
		if err := repo.CreateTableItem(ctx, item); err != nil {
			return nil, err
		}
		fixture.Items = append(fixture.Items, item)
	}

	return fixture, nil
}

func ptr[T any](v T) *T { return &v }
