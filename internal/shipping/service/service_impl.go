package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
	"github.com/smallbiznis/shiptable/internal/clock"
	"github.com/smallbiznis/shiptable/internal/observability/logger"
	"github.com/smallbiznis/shiptable/internal/observability/metrics"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	shippingdomain "github.com/smallbiznis/shiptable/internal/shipping/domain"
	"github.com/smallbiznis/shiptable/internal/weight"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log             *zap.Logger
	Catalog         catalogdomain.Catalog
	Calculator      *weight.Calculator
	Clock           clock.Clock
	Metrics         *metrics.Metrics         `optional:"true"`
	ResolverMetrics *metrics.ResolverMetrics `optional:"true"`
}

type Service struct {
	log             *zap.Logger
	catalog         catalogdomain.Catalog
	calculator      *weight.Calculator
	clock           clock.Clock
	metrics         *metrics.Metrics
	resolverMetrics *metrics.ResolverMetrics
	tracer          trace.Tracer
}

func New(p Params) shippingdomain.Service {
	calculator := p.Calculator
	if calculator == nil {
		calculator = weight.NewCalculator(nil)
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		log:             log.Named("shipping.service"),
		catalog:         p.Catalog,
		calculator:      calculator,
		clock:           clk,
		metrics:         p.Metrics,
		resolverMetrics: p.ResolverMetrics,
		tracer:          otel.Tracer("shiptable/shipping"),
	}
}

type resolution struct {
	match   *catalogdomain.Candidate
	weight  decimal.Decimal
	at      time.Time
	scanned int
}

func (s *Service) Resolve(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) (*catalogdomain.Candidate, error) {
	res, err := s.resolve(ctx, behavior, order)
	if err != nil {
		return nil, err
	}
	return res.match, nil
}

func (s *Service) UnavailabilityReasons(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) ([]shippingdomain.Reason, error) {
	res, err := s.resolve(ctx, behavior, order)
	if err != nil {
		return nil, err
	}
	return reasons(res.match), nil
}

func (s *Service) Cost(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) (*decimal.Decimal, error) {
	res, err := s.resolve(ctx, behavior, order)
	if err != nil || res.match == nil {
		return nil, err
	}
	price, _ := behavior.BehaviorSettings().Surcharge.Apply(res.match.Item)
	return &price, nil
}

func (s *Service) DeliveryTime(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) (*shippingdomain.DurationRange, error) {
	res, err := s.resolve(ctx, behavior, order)
	if err != nil || res.match == nil {
		return nil, err
	}
	_, days := behavior.BehaviorSettings().Surcharge.Apply(res.match.Item)
	window := shippingdomain.Days(days)
	return &window, nil
}

// Quote resolves once and reports availability, cost and delivery time
// together.
func (s *Service) Quote(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) (*shippingdomain.Quote, error) {
	res, err := s.resolve(ctx, behavior, order)
	if err != nil {
		return nil, err
	}

	quote := &shippingdomain.Quote{
		ID:             ulid.Make().String(),
		Behavior:       behavior.BehaviorName(),
		Available:      res.match != nil,
		Reasons:        reasons(res.match),
		BillableWeight: res.weight,
		Match:          res.match,
		QuotedAt:       res.at,
	}
	if res.match != nil {
		price, days := behavior.BehaviorSettings().Surcharge.Apply(res.match.Item)
		quote.Price = price
		quote.DeliveryTime = shippingdomain.Days(days)
	}

	s.metrics.RecordQuote(ctx, behavior.BehaviorName(), behavior.Kind(), quote.Available)
	return quote, nil
}

func reasons(match *catalogdomain.Candidate) []shippingdomain.Reason {
	if match != nil {
		return []shippingdomain.Reason{}
	}
	return []shippingdomain.Reason{shippingdomain.ReasonNoTableFound}
}

func (s *Service) resolve(ctx context.Context, behavior shippingdomain.Behavior, order shippingdomain.Order) (res resolution, err error) {
	if behavior == nil {
		return resolution{}, shippingdomain.ErrBehaviorNotFound
	}

	kind := behavior.Kind()
	ctx, span := s.tracer.Start(ctx, "shipping.resolve", trace.WithAttributes(
		attribute.String("behavior", behavior.BehaviorName()),
		attribute.String("behavior_kind", kind),
		attribute.String("country", order.Destination.Country),
	))
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeNotFound
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
			s.resolverMetrics.IncError(kind, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolution failed")
		case res.match != nil:
			outcome = metrics.OutcomeFound
			span.SetAttributes(attribute.String("table_item_id", res.match.Item.ID.String()))
		}
		span.SetAttributes(attribute.Int("candidates_scanned", res.scanned))
		span.End()
		s.resolverMetrics.ObserveResolution(kind, outcome, time.Since(start))
		s.resolverMetrics.ObserveCandidatesScanned(res.scanned)
	}()

	settings := behavior.BehaviorSettings()
	billable, err := s.calculator.BillableWeight(ctx, order.Lines, settings.Cubic)
	if err != nil {
		return resolution{}, err
	}

	q := catalogdomain.CandidateQuery{
		Weight: billable,
		ShopID: order.ShopID,
		At:     s.clock.Now(),
	}
	behavior.Scope(&q)

	candidates, err := s.catalog.Candidates(ctx, q)
	if err != nil {
		return resolution{}, err
	}

	res = resolution{weight: billable, at: q.At}
	excluded := make(map[snowflake.ID][]regiondomain.Region)
	for i := range candidates {
		candidate := candidates[i]
		res.scanned++

		regions, ok := excluded[candidate.Item.TableID]
		if !ok {
			regions, err = s.catalog.ExcludedRegions(ctx, candidate.Item.TableID)
			if err != nil {
				return resolution{scanned: res.scanned}, err
			}
			excluded[candidate.Item.TableID] = regions
		}
		if anyCompatible(regions, order.Destination) {
			continue
		}
		if candidate.Region.IsCompatible(order.Destination) {
			res.match = &candidate
			break
		}
	}

	log := logger.WithContext(ctx, s.log)
	if res.match == nil {
		log.Debug("no shipping table matched",
			zap.String("behavior", behavior.BehaviorName()),
			zap.String("weight", billable.String()),
			zap.Int("candidates", len(candidates)),
		)
		return res, nil
	}
	log.Debug("shipping table matched",
		zap.String("behavior", behavior.BehaviorName()),
		zap.String("weight", billable.String()),
		zap.String("table_item_id", res.match.Item.ID.String()),
		zap.String("region_id", res.match.Region.ID.String()),
	)
	return res, nil
}

func anyCompatible(regions []regiondomain.Region, addr regiondomain.Address) bool {
	for _, region := range regions {
		if region.IsCompatible(addr) {
			return true
		}
	}
	return false
}
