package domain

import (
	"context"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/shiptable/internal/catalog/domain"
)

type Service interface {
	// Resolve returns the winning candidate, or nil when no table applies.
	Resolve(ctx context.Context, behavior Behavior, order Order) (*catalogdomain.Candidate, error)
	UnavailabilityReasons(ctx context.Context, behavior Behavior, order Order) ([]Reason, error)
	Cost(ctx context.Context, behavior Behavior, order Order) (*decimal.Decimal, error)
	DeliveryTime(ctx context.Context, behavior Behavior, order Order) (*DurationRange, error)
	Quote(ctx context.Context, behavior Behavior, order Order) (*Quote, error)
}

// Registry resolves configured behaviors by name.
type Registry interface {
	Lookup(name string) (Behavior, error)
	List() []Behavior
}
