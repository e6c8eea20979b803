package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProjectIncomeTaxJanuary(t *testing.T) {
	base := decimal.NewFromInt(3000)
	out := ProjectIncomeTax(TaxInput{Month: 1, MonthlyBase: base, ProjectionBase: base}, testParams())

	// 3000 x 12 ordinary + two bonuses with their 9% extra = 42540 gross.
	require.Equal(t, "42540", out.AnnualGross.StringFixed(0))
	require.Equal(t, "37450.00", out.Deduction7UIT.StringFixed(2))
	require.Equal(t, "5090", out.AnnualNet.StringFixed(0))
	require.Equal(t, 12, out.Divisor)
	require.Equal(t, "34", out.Withholding.StringFixed(0))
}

func TestProjectIncomeTaxFirstQuarterIgnoresPriorWithholding(t *testing.T) {
	base := decimal.NewFromInt(3000)
	p := testParams()

	plain := ProjectIncomeTax(TaxInput{Month: 2, MonthlyBase: base, ProjectionBase: base}, p)
	withPrior := ProjectIncomeTax(TaxInput{
		Month:          2,
		MonthlyBase:    base,
		ProjectionBase: base,
		PriorIncome:    base,
		PriorWithheld:  decimal.NewFromInt(34),
	}, p)

	// January through March always divide the undiminished annual tax by 12;
	// withholdings already made in the year do not enter the formula.
	require.Equal(t, plain.AnnualTax.StringFixed(2), withPrior.AnnualTax.StringFixed(2))
	require.Equal(t, plain.Withholding.StringFixed(0), withPrior.Withholding.StringFixed(0))
}

func TestProjectIncomeTaxAprilSubtractsPriorWithholding(t *testing.T) {
	base := decimal.NewFromInt(3000)
	out := ProjectIncomeTax(TaxInput{
		Month:          4,
		MonthlyBase:    base,
		ProjectionBase: base,
		PriorIncome:    decimal.NewFromInt(9000),
		PriorWithheld:  decimal.NewFromInt(102),
	}, testParams())

	require.Equal(t, "5090", out.AnnualNet.StringFixed(0))
	require.Equal(t, "407.20", out.AnnualTax.StringFixed(2))
	require.Equal(t, 9, out.Divisor)
	// (407.20 - 102) / 9 = 33.91, rounded to whole soles.
	require.Equal(t, "34", out.Withholding.StringFixed(0))
}

func TestProjectIncomeTaxBracketBoundary(t *testing.T) {
	p := testParams()
	// December with prior income placing annual net at exactly 5 UIT: the
	// whole amount stays in the 8% bracket.
	fiveUIT := p.TaxUnit.Mul(decimal.NewFromInt(5))
	prior := p.TaxUnit.Mul(decimal.NewFromInt(12))

	out := ProjectIncomeTax(TaxInput{Month: 12, PriorIncome: prior}, p)

	require.Equal(t, fiveUIT.StringFixed(0), out.AnnualNet.StringFixed(0))
	require.Len(t, out.Brackets, 1)
	require.Equal(t, 5, out.Brackets[0].UpToUIT)
	expected := fiveUIT.Mul(decimal.NewFromFloat(0.08))
	require.Equal(t, expected.StringFixed(2), out.AnnualTax.StringFixed(2))
	require.Equal(t, 1, out.Divisor)
	require.Equal(t, roundSol(expected).StringFixed(0), out.Withholding.StringFixed(0))
}

func TestProjectIncomeTaxBelowSevenUIT(t *testing.T) {
	base := decimal.NewFromInt(1000)
	out := ProjectIncomeTax(TaxInput{Month: 6, MonthlyBase: base, ProjectionBase: base}, testParams())

	require.False(t, out.AnnualNet.IsPositive())
	require.True(t, out.Withholding.IsZero())
	require.Zero(t, out.Divisor)
	require.Empty(t, out.Brackets)
}

func TestProjectIncomeTaxMonotonic(t *testing.T) {
	p := testParams()
	prev := decimal.Zero
	for base := 2000; base <= 10000; base += 500 {
		b := decimal.NewFromInt(int64(base))
		out := ProjectIncomeTax(TaxInput{Month: 1, MonthlyBase: b, ProjectionBase: b}, p)
		require.True(t, out.AnnualTax.GreaterThanOrEqual(prev),
			"annual tax decreased at base %d: %s < %s", base, out.AnnualTax, prev)
		prev = out.AnnualTax
	}
}

func TestWithholdingDivisorTable(t *testing.T) {
	expected := map[int]int{
		1: 12, 2: 12, 3: 12,
		4: 9,
		5: 8, 6: 8, 7: 8,
		8: 5,
		9: 4, 10: 4, 11: 4,
		12: 1,
	}
	for month, divisor := range expected {
		require.Equal(t, divisor, withholdingDivisor(month), "month %d", month)
	}
}
