package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testContractor(fee decimal.Decimal) Contractor {
	return Contractor{
		Document: "10456789123",
		Name:     "TORRES VEGA, JULIO",
		BaseFee:  fee,
		HireDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func contractorApril() ContractorInput {
	return ContractorInput{Year: 2025, Month: 4, DaysInMonth: 30}
}

func contractorRates() (decimal.Decimal, decimal.Decimal) {
	p := testParams()
	return p.ContractorRate, p.ContractorThreshold
}

func TestComputeContractorFeeFullMonth(t *testing.T) {
	rate, threshold := contractorRates()
	out := ComputeContractorFee(testContractor(decimal.NewFromInt(2000)), contractorApril(), rate, threshold)

	require.Equal(t, "2000.00", out.GrossPay.StringFixed(2))
	require.Equal(t, "160.00", out.Withholding.StringFixed(2))
	require.Equal(t, "1840.00", out.NetPay.StringFixed(2))
	require.True(t, out.ProrationDeduction.IsZero())
}

func TestComputeContractorFeeAtThresholdNotWithheld(t *testing.T) {
	// Withholding starts strictly above the threshold, never at it.
	rate, threshold := contractorRates()
	out := ComputeContractorFee(testContractor(decimal.NewFromInt(1500)), contractorApril(), rate, threshold)

	require.True(t, out.Withholding.IsZero())
	require.Equal(t, "1500.00", out.NetPay.StringFixed(2))
}

func TestComputeContractorFeeOneCentAboveThreshold(t *testing.T) {
	rate, threshold := contractorRates()
	out := ComputeContractorFee(testContractor(decimal.NewFromFloat(1500.01)), contractorApril(), rate, threshold)

	require.Equal(t, "120.00", out.Withholding.StringFixed(2))
	require.Equal(t, "1380.01", out.NetPay.StringFixed(2))
}

func TestComputeContractorFeeSuspensionCertificate(t *testing.T) {
	rate, threshold := contractorRates()
	c := testContractor(decimal.NewFromInt(3000))
	c.HasWithholdingSuspension = true

	out := ComputeContractorFee(c, contractorApril(), rate, threshold)

	require.True(t, out.Withholding.IsZero())
	require.True(t, out.SuspensionApplied)
	require.Equal(t, "3000.00", out.NetPay.StringFixed(2))
	require.NotEmpty(t, out.Observations)
}

func TestComputeContractorFeeNonWorkedDays(t *testing.T) {
	rate, threshold := contractorRates()
	in := contractorApril()
	in.NonWorkedDays = 5

	out := ComputeContractorFee(testContractor(decimal.NewFromInt(3000)), in, rate, threshold)

	// 25 effective days of a 30-day base: 500 deducted.
	require.Equal(t, 25, out.EffectiveDays)
	require.Equal(t, "500.00", out.ProrationDeduction.StringFixed(2))
	require.Equal(t, "2500.00", out.GrossPay.StringFixed(2))
	require.Equal(t, "200.00", out.Withholding.StringFixed(2))
	require.Equal(t, "2300.00", out.NetPay.StringFixed(2))
}

func TestComputeContractorFeeMidMonthEngagement(t *testing.T) {
	rate, threshold := contractorRates()
	c := testContractor(decimal.NewFromInt(2000))
	c.HireDate = time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)

	out := ComputeContractorFee(c, contractorApril(), rate, threshold)

	require.Equal(t, 15, out.EffectiveDays)
	require.Equal(t, "1000.00", out.GrossPay.StringFixed(2))
	// Under the threshold after proration.
	require.True(t, out.Withholding.IsZero())
}

func TestComputeContractorFeeExtraPayments(t *testing.T) {
	rate, threshold := contractorRates()
	in := contractorApril()
	in.ExtraPayments = decimal.NewFromInt(400)
	in.ExtraDeductions = decimal.NewFromInt(50)

	out := ComputeContractorFee(testContractor(decimal.NewFromInt(1400)), in, rate, threshold)

	// 1400 + 400 crosses the threshold.
	require.Equal(t, "1800.00", out.GrossPay.StringFixed(2))
	require.Equal(t, "144.00", out.Withholding.StringFixed(2))
	require.Equal(t, "1606.00", out.NetPay.StringFixed(2))
}
