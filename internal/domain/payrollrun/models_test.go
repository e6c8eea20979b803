package payrollrun

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"planilla/internal/payroll"
)

func TestComputeTotalsBalances(t *testing.T) {
	lines := []LineRecord{
		{Line: payroll.Line{
			TotalIncome:        decimal.NewFromFloat(2113),
			ONP:                decimal.NewFromFloat(274.69),
			IncomeTax:          decimal.Zero,
			NetPay:             decimal.NewFromFloat(1838.31),
			HealthContribution: decimal.NewFromFloat(190.17),
		}},
		{Line: payroll.Line{
			TotalIncome:        decimal.NewFromFloat(3000),
			AFPContribution:    decimal.NewFromFloat(300),
			AFPInsurance:       decimal.NewFromFloat(55.20),
			AFPCommission:      decimal.NewFromFloat(44.10),
			IncomeTax:          decimal.NewFromInt(34),
			NetPay:             decimal.NewFromFloat(2566.70),
			HealthContribution: decimal.NewFromFloat(270),
		}},
	}

	totals := computeTotals(lines)

	assert.Equal(t, 2, totals.Workers)
	assert.Equal(t, "5113.00", totals.TotalIncome.StringFixed(2))
	assert.Equal(t, "673.99", totals.TotalPension.StringFixed(2))
	assert.Equal(t, "34.00", totals.TotalTax.StringFixed(2))
	assert.Equal(t, "4405.01", totals.TotalNet.StringFixed(2))
	assert.Equal(t, "460.17", totals.EmployerHealth.StringFixed(2))
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := computeTotals(nil)

	assert.Zero(t, totals.Workers)
	assert.True(t, totals.TotalNet.IsZero())
}
