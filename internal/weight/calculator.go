// Package weight computes the billable weight of an order, optionally
// replacing the real weight with a volumetric (cubic) weight.
package weight

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shiptable/internal/packaging"
)

var (
	GramsToKilograms = decimal.New(1, -3)
	KilogramsToGrams = decimal.NewFromInt(1000)
)

// CubicConfig configures volumetric weight. Exemption and MaxWeight are in
// kilograms, package dimensions in millimetres, Factor in mm³ per gram.
type CubicConfig struct {
	Enabled    bool            `json:"enabled"`
	Factor     decimal.Decimal `json:"factor"`
	Exemption  decimal.Decimal `json:"exemption"`
	MaxWidth   decimal.Decimal `json:"max_package_width"`
	MaxHeight  decimal.Decimal `json:"max_package_height"`
	MaxLength  decimal.Decimal `json:"max_package_length"`
	MaxEdgeSum decimal.Decimal `json:"max_package_edges_sum"`
	MaxWeight  decimal.Decimal `json:"max_package_weight"`
}

// DefaultCubicFactor is the usual road-freight divisor.
var DefaultCubicFactor = decimal.NewFromInt(6000)

func (c CubicConfig) constraints() []packaging.Constraint {
	var out []packaging.Constraint
	if !c.MaxWidth.IsZero() && !c.MaxLength.IsZero() && !c.MaxHeight.IsZero() && !c.MaxEdgeSum.IsZero() {
		out = append(out, packaging.DimensionConstraint{
			MaxWidth:   c.MaxWidth,
			MaxLength:  c.MaxLength,
			MaxHeight:  c.MaxHeight,
			MaxEdgeSum: c.MaxEdgeSum,
		})
	}
	if !c.MaxWeight.IsZero() {
		out = append(out, packaging.WeightConstraint{MaxWeight: c.MaxWeight.Mul(KilogramsToGrams)})
	}
	return out
}

// Calculator turns order lines into a billable weight in kilograms.
type Calculator struct {
	estimator packaging.Estimator
}

func NewCalculator(estimator packaging.Estimator) *Calculator {
	if estimator == nil {
		estimator = packaging.NewSimplePackager()
	}
	return &Calculator{estimator: estimator}
}

// TotalGrossWeight sums line weights in grams.
func TotalGrossWeight(lines []packaging.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		total = total.Add(line.Weight.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func (c *Calculator) BillableWeight(ctx context.Context, lines []packaging.Line, cfg CubicConfig) (decimal.Decimal, error) {
	weight := TotalGrossWeight(lines).Mul(GramsToKilograms)

	if !cfg.Enabled || !weight.GreaterThan(cfg.Exemption) {
		return weight, nil
	}

	factor := cfg.Factor
	if factor.IsZero() {
		factor = DefaultCubicFactor
	}

	packages, err := c.estimator.Pack(ctx, lines, cfg.constraints()...)
	if err != nil {
		return decimal.Zero, err
	}
	if len(packages) == 0 {
		return weight, nil
	}

	total := decimal.Zero
	for _, pkg := range packages {
		// package weight is in grams and compared as-is against the exemption
		if pkg.Weight().GreaterThan(cfg.Exemption) {
			total = total.Add(pkg.Volume().Div(factor).Mul(GramsToKilograms))
		} else {
			total = total.Add(pkg.Weight().Mul(GramsToKilograms))
		}
	}
	return total, nil
}
