package payroll

import "github.com/shopspring/decimal"

// HealthResult is the employer-side health contribution with the scheme
// label used for grouping in the register and the PDT declaration.
type HealthResult struct {
	Scheme       string          `json:"scheme"`
	Contribution decimal.Decimal `json:"contribution"`
}

// ComputeHealth calculates the employer health contribution (EsSalud, EsSalud
// with EPS credit, or flat SIS). The base is floored at the minimum wage.
// A worker with zero remunerated days in the period (full-month unpaid
// suspension) generates no contribution at all.
func ComputeHealth(base decimal.Decimal, scheme string, hasEPS, hasRemuneratedDay bool, p Params) HealthResult {
	label := LabelEsSalud
	switch {
	case scheme == SchemeSIS:
		label = LabelSIS
	case hasEPS:
		label = LabelEsSaludEPS
	}

	if !hasRemuneratedDay {
		return HealthResult{Scheme: label}
	}

	if scheme == SchemeSIS {
		return HealthResult{Scheme: label, Contribution: sisFlatAmount}
	}

	floored := base
	if floored.LessThan(p.MinimumWage) {
		floored = p.MinimumWage
	}
	rate := p.HealthRate
	if hasEPS {
		rate = p.EPSRate
	}
	return HealthResult{Scheme: label, Contribution: round2(floored.Mul(pct(rate)))}
}
