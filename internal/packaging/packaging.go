// Package packaging splits order lines into physical packages so a
// volumetric weight can be computed for each of them.
package packaging

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrPacking wraps every error returned by an Estimator.
var ErrPacking = errors.New("packaging_failed")

// Line is one order line as seen by the packager. Weight is per unit in
// grams, dimensions are per unit in millimetres.
type Line struct {
	Quantity int             `json:"quantity"`
	Weight   decimal.Decimal `json:"weight_grams"`
	Width    decimal.Decimal `json:"width_mm"`
	Length   decimal.Decimal `json:"length_mm"`
	Height   decimal.Decimal `json:"height_mm"`
}

// Unit is a single item placed into a package.
type Unit struct {
	Weight decimal.Decimal
	Width  decimal.Decimal
	Length decimal.Decimal
	Height decimal.Decimal
}

func (u Unit) volume() decimal.Decimal {
	return u.Width.Mul(u.Length).Mul(u.Height)
}

// Package is a group of units shipped together. Units are stacked: the
// footprint is the largest unit, the height is the sum of unit heights.
// Totals are kept up to date by Add so every accessor is constant time.
type Package struct {
	count  int
	weight decimal.Decimal
	volume decimal.Decimal
	width  decimal.Decimal
	length decimal.Decimal
	height decimal.Decimal
}

func (p *Package) Add(u Unit) {
	*p = p.with(u)
}

func (p *Package) Count() int { return p.count }

// Weight is the total weight in grams.
func (p *Package) Weight() decimal.Decimal { return p.weight }

// Volume is the summed unit volume in mm³.
func (p *Package) Volume() decimal.Decimal { return p.volume }

func (p *Package) Width() decimal.Decimal { return p.width }

func (p *Package) Length() decimal.Decimal { return p.length }

func (p *Package) Height() decimal.Decimal { return p.height }

func (p *Package) EdgeSum() decimal.Decimal {
	return p.width.Add(p.length).Add(p.height)
}

// with returns the totals p would have after adding u, leaving p untouched.
func (p *Package) with(u Unit) Package {
	return Package{
		count:  p.count + 1,
		weight: p.weight.Add(u.Weight),
		volume: p.volume.Add(u.volume()),
		width:  decimal.Max(p.width, u.Width),
		length: decimal.Max(p.length, u.Length),
		height: p.height.Add(u.Height),
	}
}

// Estimator groups order lines into packages.
type Estimator interface {
	Pack(ctx context.Context, lines []Line, constraints ...Constraint) ([]*Package, error)
}
