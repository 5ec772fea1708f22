package packaging

import "github.com/shopspring/decimal"

// Constraint decides whether a unit may join a package.
type Constraint interface {
	Allows(pkg *Package, u Unit) bool
}

// DimensionConstraint bounds the stacked package dimensions (mm).
type DimensionConstraint struct {
	MaxWidth   decimal.Decimal
	MaxLength  decimal.Decimal
	MaxHeight  decimal.Decimal
	MaxEdgeSum decimal.Decimal
}

func (c DimensionConstraint) Allows(pkg *Package, u Unit) bool {
	next := pkg.with(u)
	return !next.Width().GreaterThan(c.MaxWidth) &&
		!next.Length().GreaterThan(c.MaxLength) &&
		!next.Height().GreaterThan(c.MaxHeight) &&
		!next.EdgeSum().GreaterThan(c.MaxEdgeSum)
}

// WeightConstraint bounds the package weight (grams).
type WeightConstraint struct {
	MaxWeight decimal.Decimal
}

func (c WeightConstraint) Allows(pkg *Package, u Unit) bool {
	return !pkg.weight.Add(u.Weight).GreaterThan(c.MaxWeight)
}
