package payroll

import "github.com/shopspring/decimal"

// BracketDetail is one consumed progressive bracket, kept for the audit
// trace and the withholding certificate.
type BracketDetail struct {
	UpToUIT int             `json:"upToUit"`
	Rate    decimal.Decimal `json:"rate"`
	Base    decimal.Decimal `json:"base"`
	Tax     decimal.Decimal `json:"tax"`
}

// TaxInput feeds one month's 5th-category projection.
type TaxInput struct {
	Month int

	// MonthlyBase is the taxable base actually paid this month.
	MonthlyBase decimal.Decimal
	// ProjectionBase is the base used to project the remaining months and
	// bonuses. On a partial month it is the nominal (non-prorated) base, so
	// an exceptional absence does not under-project the annual liability.
	ProjectionBase decimal.Decimal

	PriorIncome           decimal.Decimal
	PriorWithheld         decimal.Decimal
	PriorEmployerWithheld decimal.Decimal
}

// TaxProjection is the full SUNAT projection trace for one month.
type TaxProjection struct {
	Month             int             `json:"month"`
	RemainingMonths   int             `json:"remainingMonths"`
	MonthlyBase       decimal.Decimal `json:"monthlyBase"`
	ProjectionBase    decimal.Decimal `json:"projectionBase"`
	PriorIncome       decimal.Decimal `json:"priorIncome"`
	PriorWithheld     decimal.Decimal `json:"priorWithheld"`
	ProjectedOrdinary decimal.Decimal `json:"projectedOrdinary"`
	ProjectedBonuses  decimal.Decimal `json:"projectedBonuses"`
	AnnualGross       decimal.Decimal `json:"annualGross"`
	Deduction7UIT     decimal.Decimal `json:"deduction7Uit"`
	AnnualNet         decimal.Decimal `json:"annualNet"`
	Brackets          []BracketDetail `json:"brackets,omitempty"`
	AnnualTax         decimal.Decimal `json:"annualTax"`
	Divisor           int             `json:"divisor"`
	Withholding       decimal.Decimal `json:"withholding"`
}

// ProjectIncomeTax applies SUNAT's official 5th-category withholding
// procedure: project the annual income, deduct 7 UIT, run the progressive
// brackets and derive the month's withholding from the divisor table.
// Annual figures and the withholding round to whole soles.
func ProjectIncomeTax(in TaxInput, p Params) TaxProjection {
	remaining := 12 - in.Month
	out := TaxProjection{
		Month:           in.Month,
		RemainingMonths: remaining,
		MonthlyBase:     in.MonthlyBase,
		ProjectionBase:  in.ProjectionBase,
		PriorIncome:     in.PriorIncome,
		PriorWithheld:   in.PriorWithheld,
		Deduction7UIT:   p.TaxUnit.Mul(decimal.NewFromInt(7)),
	}

	out.ProjectedOrdinary = in.ProjectionBase.Mul(decimal.NewFromInt(int64(remaining)))

	// Statutory bonuses still to be paid this year (July and December), each
	// with its 9% extraordinary bonus on top.
	switch {
	case in.Month <= 6:
		out.ProjectedBonuses = in.ProjectionBase.Mul(decimal.NewFromInt(2)).Mul(decimal.NewFromFloat(1.09))
	case in.Month <= 11:
		out.ProjectedBonuses = in.ProjectionBase.Mul(decimal.NewFromFloat(1.09))
	}

	out.AnnualGross = roundSol(in.PriorIncome.
		Add(in.MonthlyBase).
		Add(out.ProjectedOrdinary).
		Add(out.ProjectedBonuses))

	out.AnnualNet = roundSol(out.AnnualGross.Sub(out.Deduction7UIT))
	if !out.AnnualNet.IsPositive() {
		// Below 7 UIT: no brackets, no divisors, withholding is exactly zero.
		return out
	}

	out.Brackets, out.AnnualTax = applyBrackets(out.AnnualNet, p.TaxUnit)
	out.Divisor = withholdingDivisor(in.Month)

	divisor := decimal.NewFromInt(int64(out.Divisor))
	if in.Month <= 3 {
		// January through March divide the undiminished annual tax by 12.
		out.Withholding = roundSol(out.AnnualTax.Div(divisor))
		return out
	}

	pending := out.AnnualTax.Sub(in.PriorWithheld).Sub(in.PriorEmployerWithheld)
	out.Withholding = roundSol(maxZero(pending.Div(divisor)))
	return out
}

func applyBrackets(annualNet, uit decimal.Decimal) ([]BracketDetail, decimal.Decimal) {
	details := make([]BracketDetail, 0, len(taxBrackets))
	tax := decimal.Zero
	balance := annualNet
	floorUIT := 0

	for _, bracket := range taxBrackets {
		if !balance.IsPositive() {
			break
		}
		portion := balance
		upTo := 0
		if bracket.WidthUIT > 0 {
			width := uit.Mul(decimal.NewFromInt(int64(bracket.WidthUIT)))
			if portion.GreaterThan(width) {
				portion = width
			}
			upTo = floorUIT + bracket.WidthUIT
		}
		bracketTax := portion.Mul(bracket.Rate)
		details = append(details, BracketDetail{
			UpToUIT: upTo,
			Rate:    bracket.Rate,
			Base:    portion,
			Tax:     bracketTax,
		})
		tax = tax.Add(bracketTax)
		balance = balance.Sub(portion)
		floorUIT += bracket.WidthUIT
	}
	return details, tax
}
