package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planilla/internal/domain/payrollrun"
	"planilla/internal/payroll"
)

func sampleLines() []payrollrun.LineRecord {
	return []payrollrun.LineRecord{
		{
			WorkerID: "w1",
			Line: payroll.Line{
				Document: "45678912",
				Name:     "QUISPE ROJAS, MARIA",
			},
			Audit: payroll.Audit{
				Document:      "45678912",
				OrdinaryHours: 240,
				Suspensions:   map[string]int{"23": 5},
				Income: []payroll.Item{
					{Kind: payroll.KindIncome, Code: payroll.CodeBaseSalary, Label: "SUELDO BASICO (30 days)", Amount: decimal.NewFromInt(2000)},
					{Kind: payroll.KindIncome, Code: payroll.CodeFamilyAllowance, Label: "ASIGNACION FAMILIAR", Amount: decimal.NewFromInt(113)},
				},
				Deductions: []payroll.Item{
					{Kind: payroll.KindDeduction, Code: payroll.CodeTardiness, Label: "TARDANZAS", Amount: decimal.NewFromFloat(12.5)},
					{Kind: payroll.KindDeduction, Label: "ONP (13%)", Amount: decimal.NewFromFloat(274.69)},
				},
			},
		},
	}
}

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(content)
		}
	}
	t.Fatalf("entry %s not found in zip", name)
	return ""
}

func TestBuildPLAMEFileNameAndEntries(t *testing.T) {
	name, data, err := BuildPLAME("20100066603", 2025, 4, sampleLines())

	require.NoError(t, err)
	assert.Equal(t, "060120250420100066603.zip", name)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "060120250420100066603.REM", zr.File[0].Name)
	assert.Equal(t, "060120250420100066603.JOR", zr.File[1].Name)
	assert.Equal(t, "060120250420100066603.SNL", zr.File[2].Name)
}

func TestBuildPLAMERemLines(t *testing.T) {
	_, data, err := BuildPLAME("20100066603", 2025, 4, sampleLines())
	require.NoError(t, err)

	rem := strings.Split(readZipEntry(t, data, "060120250420100066603.REM"), "\n")
	require.Len(t, rem, 3)
	assert.Equal(t, "01|45678912|0121|2000.00|2000.00|", rem[0])
	assert.Equal(t, "01|45678912|0201|113.00|113.00|", rem[1])
	// Tardiness is the only deduction declared; the pension line is not.
	assert.Equal(t, "01|45678912|0704|12.50|12.50|", rem[2])
}

func TestBuildPLAMEJorAndSnlLines(t *testing.T) {
	_, data, err := BuildPLAME("20100066603", 2025, 4, sampleLines())
	require.NoError(t, err)

	jor := readZipEntry(t, data, "060120250420100066603.JOR")
	assert.Equal(t, "01|45678912|240|0|0|0|", jor)

	snl := readZipEntry(t, data, "060120250420100066603.SNL")
	assert.Equal(t, "01|45678912|23|5|", snl)
}

func TestBuildPLAMERejectsUncodedConcepts(t *testing.T) {
	lines := sampleLines()
	lines[0].Audit.Income = append(lines[0].Audit.Income, payroll.Item{
		Kind: payroll.KindIncome, Label: "BONO SIN CODIGO", Amount: decimal.NewFromInt(100),
	})

	_, _, err := BuildPLAME("20100066603", 2025, 4, lines)

	require.ErrorIs(t, err, ErrMissingConceptCode)
	assert.Contains(t, err.Error(), "BONO SIN CODIGO")
}

func TestBuildPLAMESkipsZeroAmounts(t *testing.T) {
	lines := sampleLines()
	lines[0].Audit.Income = append(lines[0].Audit.Income, payroll.Item{
		Kind: payroll.KindIncome, Label: "BONO SIN CODIGO", Amount: decimal.Zero,
	})

	_, data, err := BuildPLAME("20100066603", 2025, 4, lines)

	require.NoError(t, err)
	rem := strings.Split(readZipEntry(t, data, "060120250420100066603.REM"), "\n")
	assert.Len(t, rem, 3)
}

func TestBuildPLAMEPadsShortRUC(t *testing.T) {
	name, _, err := BuildPLAME("123456789", 2025, 12, sampleLines())

	require.NoError(t, err)
	assert.Equal(t, "060120251200123456789.zip", name)
}
