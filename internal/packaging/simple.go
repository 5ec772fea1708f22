package packaging

import (
	"context"
	"fmt"
)

// SimplePackager fills one package at a time and opens a new one as soon
// as a constraint rejects the next unit. An empty package accepts any
// unit, so oversized units ship alone instead of failing the order.
type SimplePackager struct{}

func NewSimplePackager() *SimplePackager { return &SimplePackager{} }

func (p *SimplePackager) Pack(ctx context.Context, lines []Line, constraints ...Constraint) ([]*Package, error) {
	var (
		packages []*Package
		current  = &Package{}
	)

	for _, line := range lines {
		unit := Unit{Weight: line.Weight, Width: line.Width, Length: line.Length, Height: line.Height}
		for i := 0; i < line.Quantity; i++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrPacking, err)
			}
			if current.Count() > 0 && !allows(constraints, current, unit) {
				packages = append(packages, current)
				current = &Package{}
			}
			current.Add(unit)
		}
	}

	if current.Count() > 0 {
		packages = append(packages, current)
	}
	return packages, nil
}

func allows(constraints []Constraint, pkg *Package, u Unit) bool {
	for _, c := range constraints {
		if !c.Allows(pkg, u) {
			return false
		}
	}
	return true
}
