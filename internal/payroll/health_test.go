package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeHealthEsSalud(t *testing.T) {
	out := ComputeHealth(decimal.NewFromInt(2000), SchemeEsSalud, false, true, testParams())
	require.Equal(t, LabelEsSalud, out.Scheme)
	require.Equal(t, "180.00", out.Contribution.StringFixed(2))
}

func TestComputeHealthEPSRate(t *testing.T) {
	out := ComputeHealth(decimal.NewFromInt(2000), SchemeEsSalud, true, true, testParams())
	require.Equal(t, LabelEsSaludEPS, out.Scheme)
	require.Equal(t, "135.00", out.Contribution.StringFixed(2))
}

func TestComputeHealthMinimumWageFloor(t *testing.T) {
	p := testParams()
	out := ComputeHealth(decimal.NewFromInt(500), SchemeEsSalud, false, true, p)
	expected := p.MinimumWage.Mul(decimal.NewFromFloat(0.09)).Round(2)
	require.Equal(t, expected.StringFixed(2), out.Contribution.StringFixed(2))
}

func TestComputeHealthSISFlat(t *testing.T) {
	out := ComputeHealth(decimal.NewFromInt(2000), SchemeSIS, false, true, testParams())
	require.Equal(t, LabelSIS, out.Scheme)
	require.Equal(t, "15.00", out.Contribution.StringFixed(2))
}

func TestComputeHealthFullMonthUnpaidSuspension(t *testing.T) {
	// Zero remunerated days in the period: no employer contribution, but the
	// scheme label is still reported for grouping.
	out := ComputeHealth(decimal.Zero, SchemeEsSalud, false, false, testParams())
	require.Equal(t, LabelEsSalud, out.Scheme)
	require.True(t, out.Contribution.IsZero())

	sis := ComputeHealth(decimal.Zero, SchemeSIS, false, false, testParams())
	require.Equal(t, LabelSIS, sis.Scheme)
	require.True(t, sis.Contribution.IsZero())
}
