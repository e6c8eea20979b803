package params

import (
	"time"

	"github.com/shopspring/decimal"

	"planilla/internal/payroll"
)

// FundRate is one AFP's published rate row for the period. Percentages,
// as published (10 means 10%).
type FundRate struct {
	Fund            string          `json:"fund"`
	Contribution    decimal.Decimal `json:"contribution"`
	Insurance       decimal.Decimal `json:"insurance"`
	FlowCommission  decimal.Decimal `json:"flowCommission"`
	MixedCommission decimal.Decimal `json:"mixedCommission"`
}

// ParameterSet is the legal parameter snapshot for one company and period.
// A payroll run refuses to compute until one exists for its period.
type ParameterSet struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"companyId"`
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	MinimumWage         decimal.Decimal `json:"minimumWage"`
	TaxUnit             decimal.Decimal `json:"taxUnit"`
	ONPRate             decimal.Decimal `json:"onpRate"`
	HealthRate          decimal.Decimal `json:"healthRate"`
	EPSRate             decimal.Decimal `json:"epsRate"`
	AFPInsuranceCap     decimal.Decimal `json:"afpInsuranceCap"`
	ContractorRate      decimal.Decimal `json:"contractorRate"`
	ContractorThreshold decimal.Decimal `json:"contractorThreshold"`
	Funds               []FundRate      `json:"funds"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Engine projects the stored set into the shape the computation consumes.
func (p ParameterSet) Engine() payroll.Params {
	rates := make(map[string]payroll.FundRates, len(p.Funds))
	for _, f := range p.Funds {
		rates[f.Fund] = payroll.FundRates{
			Contribution:    f.Contribution,
			Insurance:       f.Insurance,
			FlowCommission:  f.FlowCommission,
			MixedCommission: f.MixedCommission,
		}
	}
	return payroll.Params{
		MinimumWage:         p.MinimumWage,
		TaxUnit:             p.TaxUnit,
		ONPRate:             p.ONPRate,
		HealthRate:          p.HealthRate,
		EPSRate:             p.EPSRate,
		AFPInsuranceCap:     p.AFPInsuranceCap,
		FundRates:           rates,
		ContractorRate:      p.ContractorRate,
		ContractorThreshold: p.ContractorThreshold,
	}
}
