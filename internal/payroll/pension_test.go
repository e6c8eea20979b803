package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		MinimumWage:     decimal.NewFromInt(1130),
		TaxUnit:         decimal.NewFromInt(5350),
		ONPRate:         decimal.NewFromInt(13),
		HealthRate:      decimal.NewFromInt(9),
		EPSRate:         decimal.NewFromFloat(6.75),
		AFPInsuranceCap: decimal.NewFromFloat(13583.51),
		FundRates: map[string]FundRates{
			"AFP HABITAT": {
				Contribution:    decimal.NewFromInt(10),
				Insurance:       decimal.NewFromFloat(1.84),
				FlowCommission:  decimal.NewFromFloat(1.47),
				MixedCommission: decimal.NewFromFloat(0.23),
			},
			"AFP INTEGRA": {
				Contribution:    decimal.NewFromInt(10),
				Insurance:       decimal.NewFromFloat(1.84),
				FlowCommission:  decimal.NewFromFloat(1.55),
				MixedCommission: decimal.NewFromFloat(0.00),
			},
		},
		ContractorRate:      decimal.NewFromInt(8),
		ContractorThreshold: decimal.NewFromInt(1500),
	}
}

func TestComputePensionONP(t *testing.T) {
	out, err := ComputePension(decimal.NewFromInt(2000), SystemONP, CommissionFlow, testParams())
	require.NoError(t, err)
	require.Equal(t, "260.00", out.Total.StringFixed(2))
	require.Equal(t, "260.00", out.Contribution.StringFixed(2))
	require.True(t, out.Insurance.IsZero())
	require.True(t, out.Commission.IsZero())
}

func TestComputePensionAFPFlow(t *testing.T) {
	out, err := ComputePension(decimal.NewFromInt(3000), "AFP HABITAT", CommissionFlow, testParams())
	require.NoError(t, err)
	require.Equal(t, "300.00", out.Contribution.StringFixed(2))
	require.Equal(t, "55.20", out.Insurance.StringFixed(2))
	require.Equal(t, "44.10", out.Commission.StringFixed(2))
	require.Equal(t, "399.30", out.Total.StringFixed(2))
}

func TestComputePensionAFPMixedCommission(t *testing.T) {
	out, err := ComputePension(decimal.NewFromInt(3000), "AFP HABITAT", CommissionMixed, testParams())
	require.NoError(t, err)
	require.Equal(t, "6.90", out.Commission.StringFixed(2))
}

func TestComputePensionInsuranceCap(t *testing.T) {
	p := testParams()
	base := decimal.NewFromInt(20000)
	out, err := ComputePension(base, "AFP HABITAT", CommissionFlow, p)
	require.NoError(t, err)
	// Insurance is charged on the capped base, not the full salary.
	expected := p.AFPInsuranceCap.Mul(decimal.NewFromFloat(0.0184)).Round(2)
	require.Equal(t, expected.StringFixed(2), out.Insurance.StringFixed(2))
	require.Equal(t, "2000.00", out.Contribution.StringFixed(2))
}

func TestComputePensionNotAffiliated(t *testing.T) {
	out, err := ComputePension(decimal.NewFromInt(5000), SystemNotAffiliated, CommissionFlow, testParams())
	require.NoError(t, err)
	require.True(t, out.Total.IsZero())
}

func TestComputePensionUnknownFund(t *testing.T) {
	_, err := ComputePension(decimal.NewFromInt(3000), "AFP PROFUTURO", CommissionFlow, testParams())
	require.ErrorIs(t, err, ErrUnknownPensionFund)
	require.Contains(t, err.Error(), "AFP PROFUTURO")
}
