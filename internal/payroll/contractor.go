package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Contractor is an independent service provider (4th-category locador).
// No employment bond: no pension, no health contribution, no benefits.
type Contractor struct {
	Document                 string
	Name                     string
	BaseFee                  decimal.Decimal
	HireDate                 time.Time
	HasWithholdingSuspension bool
}

// ContractorInput is the period data entered for one contractor.
type ContractorInput struct {
	Year            int
	Month           int
	DaysInMonth     int
	NonWorkedDays   int
	ExtraPayments   decimal.Decimal
	ExtraDeductions decimal.Decimal
}

// ContractorResult is the computed honoraria receipt for one month.
type ContractorResult struct {
	Document           string          `json:"document"`
	Name               string          `json:"name"`
	BaseFee            decimal.Decimal `json:"baseFee"`
	NonWorkedDays      int             `json:"nonWorkedDays"`
	EffectiveDays      int             `json:"effectiveDays"`
	ProrationDeduction decimal.Decimal `json:"prorationDeduction"`
	ExtraPayments      decimal.Decimal `json:"extraPayments"`
	GrossPay           decimal.Decimal `json:"grossPay"`
	Withholding        decimal.Decimal `json:"withholding"`
	ExtraDeductions    decimal.Decimal `json:"extraDeductions"`
	NetPay             decimal.Decimal `json:"netPay"`
	SuspensionApplied  bool            `json:"suspensionApplied"`
	Observations       []string        `json:"observations,omitempty"`
}

// ComputeContractorFee values one contractor's monthly receipt: 30-day-base
// proration for the partial first month and unserved days, then the
// threshold withholding. Rate and threshold are percentages/amounts from the
// period parameters.
func ComputeContractorFee(c Contractor, in ContractorInput, rate, threshold decimal.Decimal) ContractorResult {
	hiredThisMonth := c.HireDate.Year() == in.Year && int(c.HireDate.Month()) == in.Month

	// Base 30: a full month always counts 30 linked days; a partial first
	// month counts real calendar days from the hire date.
	linkedDays := 30
	if hiredThisMonth {
		linkedDays = in.DaysInMonth - c.HireDate.Day() + 1
	}

	effectiveDays := linkedDays - in.NonWorkedDays
	if effectiveDays < 0 {
		effectiveDays = 0
	}

	deduction := decimal.Zero
	if in.NonWorkedDays == 0 && (!hiredThisMonth || linkedDays >= in.DaysInMonth) {
		// Served every available day (including hire on day 1): full fee.
	} else {
		dailyValue := c.BaseFee.Div(commercialMonthDays)
		deduction = maxZero(c.BaseFee.Sub(dailyValue.Mul(decimal.NewFromInt(int64(effectiveDays)))))
	}

	gross := maxZero(c.BaseFee.Sub(deduction).Add(in.ExtraPayments))

	withholding := decimal.Zero
	if !c.HasWithholdingSuspension && gross.GreaterThan(threshold) {
		withholding = round2(gross.Mul(pct(rate)))
	}

	var observations []string
	if hiredThisMonth {
		observations = append(observations, fmt.Sprintf("engaged %s", c.HireDate.Format("2006-01-02")))
	}
	if in.NonWorkedDays > 0 {
		observations = append(observations, fmt.Sprintf("%d day(s) without service", in.NonWorkedDays))
	}
	if c.HasWithholdingSuspension {
		observations = append(observations, "SUNAT withholding suspension certificate on file")
	}

	gross = round2(gross)
	return ContractorResult{
		Document:           c.Document,
		Name:               c.Name,
		BaseFee:            round2(c.BaseFee),
		NonWorkedDays:      in.NonWorkedDays,
		EffectiveDays:      effectiveDays,
		ProrationDeduction: round2(deduction),
		ExtraPayments:      round2(in.ExtraPayments),
		GrossPay:           gross,
		Withholding:        withholding,
		ExtraDeductions:    round2(in.ExtraDeductions),
		NetPay:             gross.Sub(withholding).Sub(round2(in.ExtraDeductions)),
		SuspensionApplied:  c.HasWithholdingSuspension,
		Observations:       observations,
	}
}
