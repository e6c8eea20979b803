package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planilla/internal/domain/payrollrun"
	"planilla/internal/domain/worker"
	"planilla/internal/payroll"
)

func afpFixture() ([]payrollrun.LineRecord, map[string]worker.Worker) {
	lines := []payrollrun.LineRecord{
		{
			WorkerID: "w1",
			Line:     payroll.Line{Document: "45678912", PensionSystem: "AFP HABITAT"},
			Audit:    payroll.Audit{PensionBase: decimal.NewFromInt(3000)},
		},
		{
			WorkerID: "w2",
			Line:     payroll.Line{Document: "41112223", PensionSystem: payroll.SystemONP},
			Audit:    payroll.Audit{PensionBase: decimal.NewFromInt(2000)},
		},
	}
	workers := map[string]worker.Worker{
		"w1": {
			ID: "w1", Document: "45678912", FirstName: "Maria",
			LastName: "Quispe Rojas", CUSPP: "577241MQRES9",
			HireDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		"w2": {
			ID: "w2", Document: "41112223", FirstName: "Jose", LastName: "Flores",
			HireDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	return lines, workers
}

func TestBuildAFPnetOnlyAFPWorkers(t *testing.T) {
	lines, workers := afpFixture()

	name, data, err := BuildAFPnet(2025, 4, lines, workers)

	require.NoError(t, err)
	assert.Equal(t, "AFPNET_202504.csv", name)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 18)

	row := rows[1]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "577241MQRES9", row[1])
	assert.Equal(t, "0", row[2])
	assert.Equal(t, "45678912", row[3])
	assert.Equal(t, "QUISPE", row[4])
	assert.Equal(t, "ROJAS", row[5])
	assert.Equal(t, "MARIA", row[6])
	assert.Equal(t, "S", row[7])
	assert.Equal(t, "N", row[8])
	assert.Equal(t, "01/03/2023", row[9])
	assert.Equal(t, "3000.00", row[13])
}

func TestBuildAFPnetMarksPeriodHires(t *testing.T) {
	lines, workers := afpFixture()
	wk := workers["w1"]
	wk.HireDate = time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)
	workers["w1"] = wk

	_, data, err := BuildAFPnet(2025, 4, lines, workers)

	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "S", rows[1][8])
}

func TestBuildAFPnetRequiresCUSPP(t *testing.T) {
	lines, workers := afpFixture()
	wk := workers["w1"]
	wk.CUSPP = ""
	workers["w1"] = wk

	_, _, err := BuildAFPnet(2025, 4, lines, workers)

	require.ErrorIs(t, err, ErrMissingCUSPP)
	assert.Contains(t, err.Error(), "45678912")
}

func TestBuildAFPnetNoAFPWorkers(t *testing.T) {
	lines, workers := afpFixture()
	lines = lines[1:]

	_, _, err := BuildAFPnet(2025, 4, lines, workers)

	require.ErrorIs(t, err, ErrNoAFPWorkers)
}

func TestBuildBankTransferLines(t *testing.T) {
	lines, workers := afpFixture()
	wk := workers["w1"]
	wk.BankName = "BCP"
	wk.BankAccount = "19412345678012"
	workers["w1"] = wk
	lines[0].Line.Name = "QUISPE ROJAS, MARIA"
	lines[0].Line.NetPay = decimal.NewFromFloat(1838.31)
	lines[1].Line.Name = "FLORES, JOSE"
	lines[1].Line.NetPay = decimal.NewFromFloat(1700)

	name, data, err := BuildBankTransfer(2025, 4, lines, workers)

	require.NoError(t, err)
	assert.Equal(t, "ABONOS_202504.txt", name)
	assert.Contains(t, string(data), "BCP|19412345678012|45678912|QUISPE ROJAS, MARIA|1838.31\n")
	assert.Contains(t, string(data), "||41112223|FLORES, JOSE|1700.00\n")
}

func TestBuildBankTransferNoAccounts(t *testing.T) {
	lines, workers := afpFixture()

	_, _, err := BuildBankTransfer(2025, 4, lines, workers)

	require.ErrorIs(t, err, ErrNoBankAccounts)
}
