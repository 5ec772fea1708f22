package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	"github.com/smallbiznis/shiptable/pkg/db"
	"github.com/smallbiznis/shiptable/pkg/db/option"
	"github.com/smallbiznis/shiptable/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Node *snowflake.Node
}

type repo struct {
	db           *gorm.DB
	node         *snowflake.Node
	tables       repository.Repository[catalogdomain.Table]
	carriers     repository.Repository[catalogdomain.Carrier]
	regions      repository.Repository[regiondomain.Region]
	items        repository.Repository[catalogdomain.TableItem]
	carrierShops repository.Repository[catalogdomain.CarrierShop]
	tableShops   repository.Repository[catalogdomain.TableShop]
	exclusions   repository.Repository[catalogdomain.TableExcludedRegion]
}

func Provide(p Params) catalogdomain.Repository {
	return New(p.DB, p.Node)
}

func New(conn *gorm.DB, node *snowflake.Node) catalogdomain.Repository {
	return &repo{
		db:           conn,
		node:         node,
		tables:       repository.ProvideStore[catalogdomain.Table](conn),
		carriers:     repository.ProvideStore[catalogdomain.Carrier](conn),
		regions:      repository.ProvideStore[regiondomain.Region](conn),
		items:        repository.ProvideStore[catalogdomain.TableItem](conn),
		carrierShops: repository.ProvideStore[catalogdomain.CarrierShop](conn),
		tableShops:   repository.ProvideStore[catalogdomain.TableShop](conn),
		exclusions:   repository.ProvideStore[catalogdomain.TableExcludedRegion](conn),
	}
}

type candidateRow struct {
	ID             snowflake.ID
	TableID        snowflake.ID
	RegionID       snowflake.ID
	StartWeight    decimal.Decimal
	EndWeight      decimal.Decimal
	Price          decimal.Decimal
	DeliveryTime   int
	RegionPriority int
}

func (r *repo) Candidates(ctx context.Context, q catalogdomain.CandidateQuery) ([]catalogdomain.Candidate, error) {
	at := q.At.UTC()

	stmt := r.db.WithContext(ctx).
		Table("shipping_table_items AS ti").
		Select(`DISTINCT ti.id, ti.table_id, ti.region_id, ti.start_weight, ti.end_weight,
			ti.price, ti.delivery_time, rg.priority AS region_priority`).
		Joins("JOIN shipping_tables AS t ON t.id = ti.table_id").
		Joins("JOIN shipping_carriers AS c ON c.id = t.carrier_id").
		Joins("JOIN shipping_regions AS rg ON rg.id = ti.region_id").
		Joins("JOIN shipping_table_shops AS ts ON ts.table_id = t.id").
		Where("t.enabled = ? AND c.enabled = ?", true, true).
		Where("ts.shop_id = ?", q.ShopID).
		Where("(t.start_date IS NULL OR t.start_date <= ?)", at).
		Where("(t.end_date IS NULL OR t.end_date >= ?)", at)

	opts := []option.QueryOption{
		option.ApplyOperator(option.Condition{Field: "ti.start_weight", Operator: option.LTE, Value: q.Weight}),
		option.ApplyOperator(option.Condition{Field: "ti.end_weight", Operator: option.GTE, Value: q.Weight}),
	}
	if len(q.TableIdentifiers) > 0 {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "t.identifier",
			Operator: option.IN,
			Value:    q.TableIdentifiers,
		}))
	}
	if len(q.CarrierIDs) > 0 {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "t.carrier_id",
			Operator: option.IN,
			Value:    q.CarrierIDs,
		}))
	}
	if pinned := strings.TrimSpace(q.PinnedTable); pinned != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "t.identifier",
			Operator: option.EQ,
			Value:    pinned,
		}))
	}
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}

	secondary := "price"
	if q.SortBy == catalogdomain.SortByDeliveryTime {
		secondary = "delivery_time"
	}

	var rows []candidateRow
	err := stmt.
		Order("region_priority DESC").
		Order(secondary + " ASC").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	regions, err := r.regionsByID(ctx, rows)
	if err != nil {
		return nil, err
	}

	out := make([]catalogdomain.Candidate, 0, len(rows))
	for _, row := range rows {
		region, ok := regions[row.RegionID]
		if !ok {
			continue
		}
		out = append(out, catalogdomain.Candidate{
			Item: catalogdomain.TableItem{
				ID:           row.ID,
				TableID:      row.TableID,
				RegionID:     row.RegionID,
				StartWeight:  row.StartWeight,
				EndWeight:    row.EndWeight,
				Price:        row.Price,
				DeliveryTime: row.DeliveryTime,
			},
			Region: region,
		})
	}
	return out, nil
}

func (r *repo) regionsByID(ctx context.Context, rows []candidateRow) (map[snowflake.ID]regiondomain.Region, error) {
	seen := make(map[snowflake.ID]struct{}, len(rows))
	ids := make([]snowflake.ID, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.RegionID]; ok {
			continue
		}
		seen[row.RegionID] = struct{}{}
		ids = append(ids, row.RegionID)
	}

	regions, err := r.regions.Find(ctx, &regiondomain.Region{}, option.ApplyOperator(option.Condition{
		Field:    "id",
		Operator: option.IN,
		Value:    ids,
	}))
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]regiondomain.Region, len(regions))
	for _, region := range regions {
		byID[region.ID] = *region
	}
	return byID, nil
}

func (r *repo) ExcludedRegions(ctx context.Context, tableID snowflake.ID) ([]regiondomain.Region, error) {
	var regions []regiondomain.Region
	err := r.db.WithContext(ctx).
		Table("shipping_regions AS rg").
		Select("rg.*").
		Joins("JOIN shipping_table_excluded_regions AS x ON x.region_id = rg.id").
		Where("x.table_id = ?", tableID).
		Order("rg.id ASC").
		Find(&regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *repo) FindTableByIdentifier(ctx context.Context, identifier string) (*catalogdomain.Table, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, catalogdomain.ErrInvalidIdentifier
	}
	table, err := r.tables.FindOne(ctx, &catalogdomain.Table{Identifier: identifier})
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return table, nil
}

func (r *repo) FindCarrierByID(ctx context.Context, id snowflake.ID) (*catalogdomain.Carrier, error) {
	if id == 0 {
		return nil, catalogdomain.ErrInvalidCarrier
	}
	carrier, err := r.carriers.FindOne(ctx, &catalogdomain.Carrier{ID: id})
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return carrier, nil
}

func (r *repo) CreateCarrier(ctx context.Context, carrier *catalogdomain.Carrier) error {
	if carrier == nil {
		return catalogdomain.ErrInvalidCarrier
	}
	if err := carrier.Validate(); err != nil {
		return err
	}
	r.stamp(&carrier.ID, &carrier.CreatedAt, &carrier.UpdatedAt)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.carriers.WithTrx(tx).Create(ctx, carrier); err != nil {
			return err
		}
		links := make([]*catalogdomain.CarrierShop, 0, len(carrier.ShopIDs))
		for _, shopID := range dedupe(carrier.ShopIDs) {
			links = append(links, &catalogdomain.CarrierShop{CarrierID: carrier.ID, ShopID: shopID})
		}
		return r.carrierShops.WithTrx(tx).BatchCreate(ctx, links)
	})
}

func (r *repo) CreateRegion(ctx context.Context, region *regiondomain.Region) error {
	if region == nil {
		return catalogdomain.ErrInvalidRegion
	}
	if err := region.Validate(); err != nil {
		return err
	}
	region.Country = strings.ToUpper(strings.TrimSpace(region.Country))

	if region.Kind == regiondomain.KindCountry {
		// countries are stored upper-cased, so an equality match is enough
		count, err := r.regions.Count(ctx, &regiondomain.Region{Kind: regiondomain.KindCountry, Country: region.Country})
		if err != nil {
			return err
		}
		if count > 0 {
			return catalogdomain.ErrDuplicateCountryRegion
		}
	}

	r.stamp(&region.ID, &region.CreatedAt, &region.UpdatedAt)
	return r.regions.Create(ctx, region)
}

func (r *repo) CreateTable(ctx context.Context, table *catalogdomain.Table) error {
	if table == nil {
		return catalogdomain.ErrInvalidTable
	}
	table.Identifier = strings.TrimSpace(table.Identifier)
	if err := table.Validate(); err != nil {
		return err
	}

	existing, err := r.tables.FindOne(ctx, &catalogdomain.Table{Identifier: table.Identifier})
	if err != nil {
		return err
	}
	if existing != nil {
		return catalogdomain.ErrDuplicateIdentifier
	}

	r.stamp(&table.ID, &table.CreatedAt, &table.UpdatedAt)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.tables.WithTrx(tx).Create(ctx, table); err != nil {
			return err
		}
		shops := make([]*catalogdomain.TableShop, 0, len(table.ShopIDs))
		for _, shopID := range dedupe(table.ShopIDs) {
			shops = append(shops, &catalogdomain.TableShop{TableID: table.ID, ShopID: shopID})
		}
		if err := r.tableShops.WithTrx(tx).BatchCreate(ctx, shops); err != nil {
			return err
		}
		excluded := make([]*catalogdomain.TableExcludedRegion, 0, len(table.ExcludedRegionIDs))
		for _, regionID := range dedupe(table.ExcludedRegionIDs) {
			excluded = append(excluded, &catalogdomain.TableExcludedRegion{TableID: table.ID, RegionID: regionID})
		}
		return r.exclusions.WithTrx(tx).BatchCreate(ctx, excluded)
	})
	if db.IsDuplicateKeyErr(err) {
		return catalogdomain.ErrDuplicateIdentifier
	}
	return err
}

func (r *repo) CreateTableItem(ctx context.Context, item *catalogdomain.TableItem) error {
	if item == nil {
		return catalogdomain.ErrInvalidTable
	}
	if err := item.Validate(); err != nil {
		return err
	}
	r.stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return r.items.Create(ctx, item)
}

func (r *repo) stamp(id *snowflake.ID, createdAt, updatedAt *time.Time) {
	if *id == 0 {
		*id = r.node.Generate()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
