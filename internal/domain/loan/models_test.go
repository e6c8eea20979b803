package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScheduleEvenSplit(t *testing.T) {
	schedule := BuildSchedule(decimal.NewFromInt(600), 6, 2025, 4)

	require.Len(t, schedule, 6)
	for _, inst := range schedule {
		assert.Equal(t, "100", inst.Amount.String())
		assert.Equal(t, InstallmentPending, inst.Status)
	}
	assert.Equal(t, 2025, schedule[0].Year)
	assert.Equal(t, 4, schedule[0].Month)
	assert.Equal(t, 9, schedule[5].Month)
}

func TestBuildScheduleRemainderOnLast(t *testing.T) {
	schedule := BuildSchedule(decimal.NewFromInt(1000), 3, 2025, 11)

	require.Len(t, schedule, 3)
	assert.Equal(t, "333.33", schedule[0].Amount.StringFixed(2))
	assert.Equal(t, "333.33", schedule[1].Amount.StringFixed(2))
	assert.Equal(t, "333.34", schedule[2].Amount.StringFixed(2))

	sum := decimal.Zero
	for _, inst := range schedule {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1000)))
}

func TestBuildScheduleCrossesYearBoundary(t *testing.T) {
	schedule := BuildSchedule(decimal.NewFromInt(300), 3, 2025, 11)

	assert.Equal(t, 2025, schedule[0].Year)
	assert.Equal(t, 11, schedule[0].Month)
	assert.Equal(t, 2025, schedule[1].Year)
	assert.Equal(t, 12, schedule[1].Month)
	assert.Equal(t, 2026, schedule[2].Year)
	assert.Equal(t, 1, schedule[2].Month)
}
