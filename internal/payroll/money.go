package payroll

import "github.com/shopspring/decimal"

// round2 rounds to céntimos. Applied at return points only, never before an
// intermediate summation.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// roundSol rounds to whole soles, as SUNAT mandates for the 5th-category
// annual projection and the monthly withholding.
func roundSol(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func pct(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}
