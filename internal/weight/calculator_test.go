package weight

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shiptable/internal/packaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estimatorStub struct {
	packages []*packaging.Package
	err      error
	calls    int
	got      []packaging.Constraint
}

func (s *estimatorStub) Pack(_ context.Context, _ []packaging.Line, constraints ...packaging.Constraint) ([]*packaging.Package, error) {
	s.calls++
	s.got = constraints
	return s.packages, s.err
}

func product(qty int) packaging.Line {
	return packaging.Line{
		Quantity: qty,
		Weight:   decimal.NewFromInt(700),
		Width:    decimal.NewFromInt(340),
		Length:   decimal.NewFromInt(320),
		Height:   decimal.NewFromInt(180),
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestBillableWeight_CubicDisabled(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := CubicConfig{
		MaxWidth:   dec("10"),
		MaxHeight:  dec("10"),
		MaxLength:  dec("10"),
		MaxEdgeSum: dec("10"),
		MaxWeight:  dec("0.1"),
	}

	got, err := calc.BillableWeight(context.Background(), []packaging.Line{product(1)}, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.7")), "got %s", got)
}

func TestBillableWeight_BelowExemption(t *testing.T) {
	stub := &estimatorStub{}
	calc := NewCalculator(stub)
	cfg := CubicConfig{Enabled: true, Factor: dec("6000"), Exemption: dec("3")}

	got, err := calc.BillableWeight(context.Background(), []packaging.Line{product(1)}, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.7")))
	assert.Zero(t, stub.calls)
}

func TestBillableWeight_CubicWeight(t *testing.T) {
	calc := NewCalculator(packaging.NewSimplePackager())
	cfg := CubicConfig{Enabled: true, Factor: dec("6000"), Exemption: dec("3")}
	lines := []packaging.Line{product(1), product(7)}

	// 340 * 320 * (180 * 8) / 6000 = 26112g
	want := dec("26.112")

	got, err := calc.BillableWeight(context.Background(), lines, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "got %s", got)

	cfg.MaxWidth = dec("1000")
	cfg.MaxHeight = dec("1000")
	cfg.MaxLength = dec("1000")
	cfg.MaxEdgeSum = dec("2000")
	cfg.MaxWeight = dec("10")

	got, err = calc.BillableWeight(context.Background(), lines, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "got %s", got)
}

func TestBillableWeight_Constraints(t *testing.T) {
	stub := &estimatorStub{}
	calc := NewCalculator(stub)
	lines := []packaging.Line{product(8)}

	cfg := CubicConfig{Enabled: true, Exemption: dec("1"), MaxWidth: dec("1000"), MaxHeight: dec("1000"), MaxLength: dec("1000")}
	_, err := calc.BillableWeight(context.Background(), lines, cfg)
	require.NoError(t, err)
	assert.Empty(t, stub.got, "partial dimension config must not add a constraint")

	cfg.MaxEdgeSum = dec("2000")
	cfg.MaxWeight = dec("10")
	_, err = calc.BillableWeight(context.Background(), lines, cfg)
	require.NoError(t, err)
	require.Len(t, stub.got, 2)
	assert.IsType(t, packaging.DimensionConstraint{}, stub.got[0])
	weightConstraint, ok := stub.got[1].(packaging.WeightConstraint)
	require.True(t, ok)
	assert.True(t, weightConstraint.MaxWeight.Equal(dec("10000")))
}

func TestBillableWeight_NoPackages(t *testing.T) {
	calc := NewCalculator(&estimatorStub{})
	cfg := CubicConfig{Enabled: true, Exemption: dec("0.5")}

	got, err := calc.BillableWeight(context.Background(), []packaging.Line{product(1)}, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.7")))
}

func TestBillableWeight_LightPackageUsesRealWeight(t *testing.T) {
	light := &packaging.Package{}
	light.Add(packaging.Unit{Weight: dec("0.4"), Width: dec("100"), Length: dec("100"), Height: dec("100")})
	calc := NewCalculator(&estimatorStub{packages: []*packaging.Package{light}})
	cfg := CubicConfig{Enabled: true, Factor: dec("6000"), Exemption: dec("0.5")}

	got, err := calc.BillableWeight(context.Background(), []packaging.Line{product(1)}, cfg)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.0004")), "got %s", got)
}

func TestBillableWeight_EstimatorError(t *testing.T) {
	boom := errors.New("packager down")
	calc := NewCalculator(&estimatorStub{err: boom})
	cfg := CubicConfig{Enabled: true, Exemption: dec("0.1")}

	_, err := calc.BillableWeight(context.Background(), []packaging.Line{product(1)}, cfg)
	assert.ErrorIs(t, err, boom)
}

func TestTotalGrossWeight(t *testing.T) {
	lines := []packaging.Line{product(2), product(0), {Quantity: 3, Weight: dec("0.5")}}
	assert.True(t, TotalGrossWeight(lines).Equal(dec("1401.5")))
}
