package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var scheduleEight = decimal.NewFromInt(8)

func testWorker() Worker {
	return Worker{
		Document:      "45678912",
		Name:          "QUISPE MAMANI, ROSA",
		HireDate:      time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:    decimal.NewFromInt(2000),
		PensionSystem: SystemONP,
		HealthScheme:  SchemeEsSalud,
	}
}

func aprilInput() PeriodInput {
	return PeriodInput{Year: 2025, Month: 4, DaysInMonth: 30}
}

func TestComputeLineFullMonth(t *testing.T) {
	w := testWorker()
	w.HasFamilyAllowance = true

	line, ok, err := ComputeLine(w, nil, aprilInput(), testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "2000.00", line.ComputableBase.StringFixed(2))
	require.Equal(t, "113.00", line.FamilyAllowance.StringFixed(2))
	require.Equal(t, "2113.00", line.TotalIncome.StringFixed(2))
	require.Equal(t, "274.69", line.ONP.StringFixed(2))
	// Projected annual income stays under 7 UIT.
	require.True(t, line.IncomeTax.IsZero())
	require.Equal(t, "1838.31", line.NetPay.StringFixed(2))
	require.Equal(t, "190.17", line.HealthContribution.StringFixed(2))
	require.Equal(t, 30, line.Audit.WorkedDays)
}

func TestComputeLineThirtyOneDayMonthPaysNominal(t *testing.T) {
	// Full attendance in a 31-day month still pays exactly the nominal salary.
	in := aprilInput()
	in.Month = 5
	in.DaysInMonth = 31

	line, ok, err := ComputeLine(testWorker(), nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2000.00", line.ComputableBase.StringFixed(2))
	require.Equal(t, 31, line.Audit.WorkedDays)
}

func TestComputeLineUnworkedDaysDiscount(t *testing.T) {
	in := aprilInput()
	in.Suspensions = map[string]int{"34": 2}

	line, ok, err := ComputeLine(testWorker(), nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	// 28 thirtieths of the salary.
	require.Equal(t, "1866.67", line.ComputableBase.StringFixed(2))
	require.Equal(t, 28, line.Audit.WorkedDays)
	require.NotEmpty(t, line.Audit.Observations)
}

func TestComputeLineMidMonthHire(t *testing.T) {
	w := testWorker()
	w.HireDate = time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)

	line, ok, err := ComputeLine(w, nil, aprilInput(), testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	// 15 payable days at 2000/30 each.
	require.Equal(t, "1000.00", line.ComputableBase.StringFixed(2))
	require.Equal(t, 15, line.Audit.PayableDays)
	require.Contains(t, line.Audit.Observations[0], "hired")
}

func TestComputeLineHiredAfterPeriod(t *testing.T) {
	w := testWorker()
	w.HireDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, ok, err := ComputeLine(w, nil, aprilInput(), testParams(), scheduleEight)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestComputeLineFullMonthUnpaidSuspension(t *testing.T) {
	w := testWorker()
	w.HasFamilyAllowance = true
	in := aprilInput()
	in.Suspensions = map[string]int{"34": 30}

	line, ok, err := ComputeLine(w, nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, line.ComputableBase.IsZero())
	require.True(t, line.FamilyAllowance.IsZero())
	require.True(t, line.HealthContribution.IsZero())
	require.True(t, line.NetPay.IsZero())
}

func TestComputeLineVacationCountsAsRemunerated(t *testing.T) {
	// A full month of vacation pays nothing through the daily rate (the
	// vacation pay itself travels as a concept) but keeps the worker
	// remunerated for the employer health contribution.
	w := testWorker()
	in := aprilInput()
	in.Suspensions = map[string]int{"23": 30}

	line, ok, err := ComputeLine(w, nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, line.ComputableBase.IsZero())
	require.True(t, line.HealthContribution.IsPositive())
}

func TestComputeLineStatutoryBonusAffectsOnlyIncomeTaxBase(t *testing.T) {
	in := aprilInput()
	in.Month = 7
	in.ConceptAmounts = map[string]decimal.Decimal{
		ConceptStatutoryBonus: decimal.NewFromInt(2000),
	}

	line, ok, err := ComputeLine(testWorker(), nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)

	// Bonus 2000 plus its 9% extraordinary bonus of 180.
	require.Equal(t, "4180.00", line.TotalIncome.StringFixed(2))
	require.Equal(t, "2180.00", line.OtherIncome.StringFixed(2))
	// Pension stays on the ordinary 2000.
	require.Equal(t, "260.00", line.ONP.StringFixed(2))
	// Health too.
	require.Equal(t, "180.00", line.HealthContribution.StringFixed(2))
	require.Equal(t, "2000.00", line.Audit.PensionBase.StringFixed(2))
}

func TestComputeLineConceptAffectationFlags(t *testing.T) {
	concepts := []ConceptRule{
		{Name: "BONO PRODUCTIVIDAD", Kind: KindIncome, Code: "0903",
			AffectsPension: true, AffectsIncomeTax: true, AffectsHealth: true, Proratable: true},
		{Name: "MOVILIDAD SUPEDITADA", Kind: KindIncome, Code: "0902"},
		{Name: "DESCUENTO JUDICIAL", Kind: KindDeduction, Code: "0703"},
	}
	in := aprilInput()
	in.ConceptAmounts = map[string]decimal.Decimal{
		"BONO PRODUCTIVIDAD":  decimal.NewFromInt(300),
		"MOVILIDAD SUPEDITADA": decimal.NewFromInt(150),
		"DESCUENTO JUDICIAL":  decimal.NewFromInt(200),
	}

	line, ok, err := ComputeLine(testWorker(), concepts, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "2450.00", line.TotalIncome.StringFixed(2))
	// Pension base: 2000 + 300; the movilidad is not pensionable.
	require.Equal(t, "2300.00", line.Audit.PensionBase.StringFixed(2))
	require.Equal(t, "299.00", line.ONP.StringFixed(2))
	// Judicial deduction nets out without touching any base.
	require.Equal(t, "200.00", line.OtherDeductions.StringFixed(2))
}

func TestComputeLineProratesConceptWithAttendance(t *testing.T) {
	concepts := []ConceptRule{
		{Name: "BONO PRODUCTIVIDAD", Kind: KindIncome, Code: "0903",
			AffectsPension: true, AffectsIncomeTax: true, AffectsHealth: true, Proratable: true},
	}
	in := aprilInput()
	in.Suspensions = map[string]int{"34": 15}
	in.ConceptAmounts = map[string]decimal.Decimal{
		"BONO PRODUCTIVIDAD": decimal.NewFromInt(300),
	}

	line, ok, err := ComputeLine(testWorker(), concepts, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)

	// Half attendance halves the proratable concept: 2000*15/30 + 300*15/30.
	require.Equal(t, "1150.00", line.TotalIncome.StringFixed(2))
	// The projection recovers both the nominal salary and the lost half of
	// the concept.
	require.Equal(t, "2300.00", line.Audit.Tax.ProjectionBase.StringFixed(2))
}

func TestComputeLineLoanInstallmentDoesNotTouchTaxBase(t *testing.T) {
	base := aprilInput()
	withLoan := aprilInput()
	withLoan.Installments = []InstallmentCharge{
		{Label: "PRESTAMO ESCOLARIDAD", Number: 2, Total: 6, Amount: decimal.NewFromInt(150)},
	}

	plain, _, err := ComputeLine(testWorker(), nil, base, testParams(), scheduleEight)
	require.NoError(t, err)
	loaned, _, err := ComputeLine(testWorker(), nil, withLoan, testParams(), scheduleEight)
	require.NoError(t, err)

	require.Equal(t, plain.IncomeTax.StringFixed(2), loaned.IncomeTax.StringFixed(2))
	require.Equal(t, plain.ONP.StringFixed(2), loaned.ONP.StringFixed(2))
	require.Equal(t, "150.00", loaned.NetPay.Sub(plain.NetPay).Abs().StringFixed(2))
	require.Contains(t, loaned.Audit.Observations[len(loaned.Audit.Observations)-1], "installment 2/6")
}

func TestComputeLineNetPayConservation(t *testing.T) {
	concepts := []ConceptRule{
		{Name: "BONO PRODUCTIVIDAD", Kind: KindIncome, Code: "0903",
			AffectsPension: true, AffectsIncomeTax: true, AffectsHealth: true, Proratable: true},
	}
	in := aprilInput()
	in.TardinessMinutes = decimal.NewFromInt(60)
	in.OvertimeHours25 = decimal.NewFromInt(4)
	in.ConceptAmounts = map[string]decimal.Decimal{
		"BONO PRODUCTIVIDAD": decimal.NewFromInt(300),
	}
	in.Installments = []InstallmentCharge{
		{Label: "PRESTAMO", Number: 1, Total: 3, Amount: decimal.NewFromInt(100)},
	}
	in.AdjustOther = decimal.NewFromFloat(12.50)

	w := testWorker()
	w.PensionSystem = "AFP HABITAT"
	w.CommissionType = CommissionFlow

	line, ok, err := ComputeLine(w, concepts, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)

	expected := line.TotalIncome.
		Sub(line.PensionTotal()).
		Sub(line.IncomeTax).
		Sub(line.OtherDeductions)
	require.True(t, line.NetPay.Equal(expected),
		"net %s != income %s - pension %s - tax %s - other %s",
		line.NetPay, line.TotalIncome, line.PensionTotal(), line.IncomeTax, line.OtherDeductions)
}

func TestComputeLineUnknownFundPropagates(t *testing.T) {
	w := testWorker()
	w.PensionSystem = "AFP PRIMA"

	_, _, err := ComputeLine(w, nil, aprilInput(), testParams(), scheduleEight)
	require.ErrorIs(t, err, ErrUnknownPensionFund)
}

func TestComputeLineTardinessDiscount(t *testing.T) {
	in := aprilInput()
	in.TardinessMinutes = decimal.NewFromInt(90)

	line, ok, err := ComputeLine(testWorker(), nil, in, testParams(), scheduleEight)
	require.NoError(t, err)
	require.True(t, ok)
	// Hourly rate 2000/30/8 = 8.3333; 90 minutes = 12.50.
	require.Equal(t, "12.50", line.OtherDeductions.StringFixed(2))
}
