package period

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period identifies one company month. Its lifecycle lives on the payroll
// run: a period is closed exactly when its run is closed.
type Period struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	CreatedAt time.Time `json:"createdAt"`
}

// Variables is the monthly variable capture for one worker: suspension days
// by table-21 code, tardiness, overtime, dynamic concept amounts keyed by
// concept name, and manual audit adjustments.
type Variables struct {
	ID               string                     `json:"id"`
	PeriodID         string                     `json:"periodId"`
	WorkerID         string                     `json:"workerId"`
	Suspensions      map[string]int             `json:"suspensions,omitempty"`
	TardinessMinutes decimal.Decimal            `json:"tardinessMinutes"`
	OvertimeHours25  decimal.Decimal            `json:"overtimeHours25"`
	OvertimeHours35  decimal.Decimal            `json:"overtimeHours35"`
	ConceptAmounts   map[string]decimal.Decimal `json:"conceptAmounts,omitempty"`
	AdjustPension    decimal.Decimal            `json:"adjustPension"`
	AdjustIncomeTax  decimal.Decimal            `json:"adjustIncomeTax"`
	AdjustOther      decimal.Decimal            `json:"adjustOther"`
	Note             string                     `json:"note,omitempty"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// ContractorVariables is the monthly capture for one contractor.
type ContractorVariables struct {
	ID              string          `json:"id"`
	PeriodID        string          `json:"periodId"`
	ContractorID    string          `json:"contractorId"`
	NonWorkedDays   int             `json:"nonWorkedDays"`
	ExtraPayments   decimal.Decimal `json:"extraPayments"`
	ExtraDeductions decimal.Decimal `json:"extraDeductions"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
