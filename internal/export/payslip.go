package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"planilla/internal/domain/company"
	"planilla/internal/domain/payrollrun"
)

// BuildPayslips renders the period's payment slips, one page per worker,
// itemizing the audit's income and deduction lines.
func BuildPayslips(comp company.Company, year, month int, lines []payrollrun.LineRecord) (string, []byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	for _, rec := range lines {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "BOLETA DE PAGO DE REMUNERACIONES", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s - RUC %s", comp.Name, comp.RUC), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Periodo %04d-%02d", year, month), "", 1, "C", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Trabajador: %s", rec.Line.Name))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("DNI: %s    Sist. Pension: %s    Seg. Social: %s",
			rec.Line.Document, rec.Line.PensionSystem, rec.Line.HealthScheme))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Dias computables: %d    Horas ordinarias: %d",
			rec.Audit.PayableDays, rec.Audit.OrdinaryHours))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, "INGRESOS")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, item := range rec.Audit.Income {
			pdf.CellFormat(130, 5, item.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 5, item.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}

		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, "DESCUENTOS")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, item := range rec.Audit.Deductions {
			pdf.CellFormat(130, 5, item.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 5, item.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}

		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(130, 7, "TOTAL INGRESOS", "T", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, rec.Line.TotalIncome.StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.CellFormat(130, 7, "NETO A PAGAR S/", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, rec.Line.NetPay.StringFixed(2), "", 1, "R", false, 0, "")

		if len(rec.Audit.Observations) > 0 {
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "I", 8)
			for _, obs := range rec.Audit.Observations {
				pdf.Cell(0, 4, obs)
				pdf.Ln(4)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("BOLETAS_%04d%02d.pdf", year, month)
	return name, buf.Bytes(), nil
}
