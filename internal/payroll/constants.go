package payroll

import "github.com/shopspring/decimal"

const (
	SystemONP           = "ONP"
	SystemNotAffiliated = "NONE"

	CommissionFlow  = "FLOW"
	CommissionMixed = "MIXED"

	SchemeEsSalud = "ESSALUD"
	SchemeSIS     = "SIS"

	LabelEsSalud    = "ESSALUD"
	LabelEsSaludEPS = "ESSALUD_EPS"
	LabelSIS        = "SIS"

	KindIncome    = "INCOME"
	KindDeduction = "DEDUCTION"
)

// Built-in concept names seeded for every company. These match the official
// wording used in the Peruvian payroll register and cannot be renamed.
const (
	ConceptBaseSalary      = "SUELDO BASICO"
	ConceptFamilyAllowance = "ASIGNACION FAMILIAR"
	ConceptStatutoryBonus  = "GRATIFICACION (JUL/DIC)"
	ConceptExtraBonus9     = "BONIFICACION EXTRAORDINARIA LEY 29351 (9%)"
)

// PLAME table-22 codes for the built-in concepts.
const (
	CodeBaseSalary      = "0121"
	CodeFamilyAllowance = "0201"
	CodeStatutoryBonus  = "0406"
	CodeExtraBonus9     = "0312"
	CodeOvertime25      = "0105"
	CodeOvertime35      = "0106"
	CodeTardiness       = "0704"
	CodeOtherIncome     = "0903"
)

// remuneratedSuspensionCodes are table-21 suspension codes that still count
// as remunerated days for family-allowance and EsSalud eligibility:
// 20 = medical leave, 23 = vacation, 25 = paid leave. Must be kept in sync
// with the official catalog if SUNAT renumbers it.
var remuneratedSuspensionCodes = map[string]bool{
	"20": true,
	"23": true,
	"25": true,
}

// commercialMonthDays is the statutory 30-day month used for daily rates.
var commercialMonthDays = decimal.NewFromInt(30)

// sisFlatAmount is the fixed monthly SIS contribution (micro-enterprise only).
var sisFlatAmount = decimal.NewFromInt(15)

// familyAllowanceRate: the allowance is 10% of the minimum wage.
var familyAllowanceRate = decimal.NewFromFloat(0.10)

// extraBonusRate is the 9% extraordinary bonus over the statutory bonus
// (Ley 29351 / 30334).
var extraBonusRate = decimal.NewFromFloat(0.09)

var (
	hundred  = decimal.NewFromInt(100)
	sixty    = decimal.NewFromInt(60)
	otRate25 = decimal.NewFromFloat(1.25)
	otRate35 = decimal.NewFromFloat(1.35)
)

// taxBracket is one progressive 5th-category bracket: width in UIT and rate.
type taxBracket struct {
	WidthUIT int // 0 means unbounded
	Rate     decimal.Decimal
}

var taxBrackets = []taxBracket{
	{WidthUIT: 5, Rate: decimal.NewFromFloat(0.08)},
	{WidthUIT: 15, Rate: decimal.NewFromFloat(0.14)},
	{WidthUIT: 15, Rate: decimal.NewFromFloat(0.17)},
	{WidthUIT: 10, Rate: decimal.NewFromFloat(0.20)},
	{WidthUIT: 0, Rate: decimal.NewFromFloat(0.30)},
}

// withholdingDivisor returns SUNAT's monthly divisor for the given month.
func withholdingDivisor(month int) int {
	switch {
	case month <= 3:
		return 12
	case month == 4:
		return 9
	case month <= 7:
		return 8
	case month == 8:
		return 5
	case month <= 11:
		return 4
	default:
		return 1
	}
}
