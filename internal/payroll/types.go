package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRates holds one AFP fund's rate row for a period. All rates are
// percentages (10 means 10%), matching how SUNAT and the AFPs publish them.
type FundRates struct {
	Contribution    decimal.Decimal `json:"contribution"`
	Insurance       decimal.Decimal `json:"insurance"`
	FlowCommission  decimal.Decimal `json:"flowCommission"`
	MixedCommission decimal.Decimal `json:"mixedCommission"`
}

// Params is the immutable legal parameter set for one company+period.
type Params struct {
	MinimumWage         decimal.Decimal      `json:"minimumWage"`
	TaxUnit             decimal.Decimal      `json:"taxUnit"`
	ONPRate             decimal.Decimal      `json:"onpRate"`
	HealthRate          decimal.Decimal      `json:"healthRate"`
	EPSRate             decimal.Decimal      `json:"epsRate"`
	AFPInsuranceCap     decimal.Decimal      `json:"afpInsuranceCap"`
	FundRates           map[string]FundRates `json:"fundRates"`
	ContractorRate      decimal.Decimal      `json:"contractorRate"`
	ContractorThreshold decimal.Decimal      `json:"contractorThreshold"`
}

// Worker carries the engine-relevant slice of a payroll employee.
type Worker struct {
	Document              string
	Name                  string
	HireDate              time.Time
	BaseSalary            decimal.Decimal
	PensionSystem         string
	CommissionType        string
	HasFamilyAllowance    bool
	HasEPS                bool
	HealthScheme          string
	PriorEmployerWithheld decimal.Decimal
}

// ConceptRule is one company concept with its affectation flags.
type ConceptRule struct {
	Name             string
	Kind             string
	Code             string
	AffectsPension   bool
	AffectsIncomeTax bool
	AffectsHealth    bool
	Proratable       bool
	SeveranceBase    bool
	BonusBase        bool
}

// InstallmentCharge is a scheduled loan installment to net out of this line.
type InstallmentCharge struct {
	Label  string
	Number int
	Total  int
	Amount decimal.Decimal
}

// CarryIn aggregates prior months of the fiscal year, already summed by the
// collaborator that owns the closed-run history.
type CarryIn struct {
	PriorIncome   decimal.Decimal
	PriorWithheld decimal.Decimal
}

// PeriodInput is the per-worker variable data captured for one month.
type PeriodInput struct {
	Year        int
	Month       int
	DaysInMonth int

	Suspensions      map[string]int
	TardinessMinutes decimal.Decimal
	OvertimeHours25  decimal.Decimal
	OvertimeHours35  decimal.Decimal

	// ConceptAmounts carries dynamic concept values keyed by concept name.
	ConceptAmounts map[string]decimal.Decimal

	AdjustPension   decimal.Decimal
	AdjustIncomeTax decimal.Decimal
	AdjustOther     decimal.Decimal

	Note         string
	Installments []InstallmentCharge
	CarryIn      CarryIn
}

// Item is one itemized income or deduction in the audit breakdown.
type Item struct {
	Kind   string          `json:"kind"`
	Code   string          `json:"code,omitempty"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Audit is the per-worker computation trace persisted with each run.
type Audit struct {
	Document      string          `json:"document"`
	Name          string          `json:"name"`
	Period        string          `json:"period"`
	WorkedDays    int             `json:"workedDays"`
	PayableDays   int             `json:"payableDays"`
	OrdinaryHours int             `json:"ordinaryHours"`
	DailyRate     decimal.Decimal `json:"dailyRate"`
	Suspensions   map[string]int  `json:"suspensions,omitempty"`
	PensionBase   decimal.Decimal `json:"pensionBase"`
	HealthScheme  string          `json:"healthScheme"`
	HealthAmount  decimal.Decimal `json:"healthAmount"`
	Income        []Item          `json:"income"`
	Deductions    []Item          `json:"deductions"`
	Tax           TaxProjection   `json:"tax"`
	Observations  []string        `json:"observations,omitempty"`
}

// Line is one worker's computed payroll row.
type Line struct {
	Document           string          `json:"document"`
	Name               string          `json:"name"`
	PensionSystem      string          `json:"pensionSystem"`
	HealthScheme       string          `json:"healthScheme"`
	ComputableBase     decimal.Decimal `json:"computableBase"`
	FamilyAllowance    decimal.Decimal `json:"familyAllowance"`
	OtherIncome        decimal.Decimal `json:"otherIncome"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	ONP                decimal.Decimal `json:"onp"`
	AFPContribution    decimal.Decimal `json:"afpContribution"`
	AFPInsurance       decimal.Decimal `json:"afpInsurance"`
	AFPCommission      decimal.Decimal `json:"afpCommission"`
	IncomeTax          decimal.Decimal `json:"incomeTax"`
	OtherDeductions    decimal.Decimal `json:"otherDeductions"`
	NetPay             decimal.Decimal `json:"netPay"`
	HealthContribution decimal.Decimal `json:"healthContribution"`
	Audit              Audit           `json:"-"`
}

// PensionTotal is the full worker-side pension withholding for the line.
func (l Line) PensionTotal() decimal.Decimal {
	return l.ONP.Add(l.AFPContribution).Add(l.AFPInsurance).Add(l.AFPCommission)
}
