package payrollrun

import (
	"time"

	"github.com/shopspring/decimal"

	"planilla/internal/payroll"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Run is one company period's computed payroll. Rerunning replaces the
// lines in place while the run is open.
type Run struct {
	ID         string     `json:"id"`
	PeriodID   string     `json:"periodId"`
	CompanyID  string     `json:"companyId"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	Status     string     `json:"status"`
	ComputedAt time.Time  `json:"computedAt"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	ClosedBy   string     `json:"closedBy,omitempty"`
}

// LineRecord ties a computed line to its worker row.
type LineRecord struct {
	ID       string        `json:"id"`
	WorkerID string        `json:"workerId"`
	Line     payroll.Line  `json:"line"`
	Audit    payroll.Audit `json:"audit"`
}

// ContractorRecord is one contractor's fee receipt within the period.
type ContractorRecord struct {
	ID           string                   `json:"id"`
	ContractorID string                   `json:"contractorId"`
	Result       payroll.ContractorResult `json:"result"`
}

// Totals balance the run to the cent across all lines.
type Totals struct {
	Workers        int             `json:"workers"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalPension   decimal.Decimal `json:"totalPension"`
	TotalTax       decimal.Decimal `json:"totalTax"`
	TotalNet       decimal.Decimal `json:"totalNet"`
	EmployerHealth decimal.Decimal `json:"employerHealth"`
}

// Result is the full run payload: header, per-worker lines and totals.
type Result struct {
	Run    Run          `json:"run"`
	Lines  []LineRecord `json:"lines"`
	Totals Totals       `json:"totals"`
}

func computeTotals(lines []LineRecord) Totals {
	t := Totals{
		Workers:        len(lines),
		TotalIncome:    decimal.Zero,
		TotalPension:   decimal.Zero,
		TotalTax:       decimal.Zero,
		TotalNet:       decimal.Zero,
		EmployerHealth: decimal.Zero,
	}
	for _, rec := range lines {
		t.TotalIncome = t.TotalIncome.Add(rec.Line.TotalIncome)
		t.TotalPension = t.TotalPension.Add(rec.Line.PensionTotal())
		t.TotalTax = t.TotalTax.Add(rec.Line.IncomeTax)
		t.TotalNet = t.TotalNet.Add(rec.Line.NetPay)
		t.EmployerHealth = t.EmployerHealth.Add(rec.Line.HealthContribution)
	}
	return t
}
