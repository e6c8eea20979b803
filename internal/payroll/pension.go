package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PensionBreakdown is the worker-side pension withholding split the way
// AFPnet and the payroll register report it.
type PensionBreakdown struct {
	System       string          `json:"system"`
	Total        decimal.Decimal `json:"total"`
	Contribution decimal.Decimal `json:"contribution"`
	Insurance    decimal.Decimal `json:"insurance"`
	Commission   decimal.Decimal `json:"commission"`
}

// ComputePension calculates the ONP or AFP withholding over the computable
// base. AFP fund rates come from the period parameters, never hardcoded.
func ComputePension(base decimal.Decimal, system, commissionType string, p Params) (PensionBreakdown, error) {
	switch system {
	case SystemNotAffiliated, "":
		return PensionBreakdown{System: SystemNotAffiliated}, nil
	case SystemONP:
		withheld := round2(base.Mul(pct(p.ONPRate)))
		return PensionBreakdown{
			System:       SystemONP,
			Total:        withheld,
			Contribution: withheld,
		}, nil
	}

	rates, ok := p.FundRates[system]
	if !ok {
		return PensionBreakdown{}, fmt.Errorf("%w: %s", ErrUnknownPensionFund, system)
	}

	contribution := base.Mul(pct(rates.Contribution))

	insuranceBase := base
	if insuranceBase.GreaterThan(p.AFPInsuranceCap) {
		insuranceBase = p.AFPInsuranceCap
	}
	insurance := insuranceBase.Mul(pct(rates.Insurance))

	commissionRate := rates.FlowCommission
	if commissionType == CommissionMixed {
		commissionRate = rates.MixedCommission
	}
	commission := base.Mul(pct(commissionRate))

	return PensionBreakdown{
		System:       system,
		Total:        round2(contribution.Add(insurance).Add(commission)),
		Contribution: round2(contribution),
		Insurance:    round2(insurance),
		Commission:   round2(commission),
	}, nil
}
