package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "ACTIVE"
	StatusSettled   = "SETTLED"
	StatusCancelled = "CANCELLED"

	InstallmentPending   = "PENDING"
	InstallmentPaid      = "PAID"
	InstallmentCancelled = "CANCELLED"
)

// Loan is a payroll-deducted worker advance, split into a fixed monthly
// installment schedule starting at the given period.
type Loan struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"companyId"`
	WorkerID     string          `json:"workerId"`
	Description  string          `json:"description"`
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments"`
	StartYear    int             `json:"startYear"`
	StartMonth   int             `json:"startMonth"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`

	Schedule []Installment `json:"schedule,omitempty"`
}

// Installment is one scheduled monthly deduction. Status flips to PAID when
// the matching payroll run closes and back to PENDING when it reopens.
type Installment struct {
	ID     string          `json:"id"`
	LoanID string          `json:"loanId"`
	Number int             `json:"number"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

// BuildSchedule splits the principal into even 2-decimal installments, with
// the rounding remainder folded into the last one so the sum is exact.
func BuildSchedule(principal decimal.Decimal, count, startYear, startMonth int) []Installment {
	even := principal.Div(decimal.NewFromInt(int64(count))).RoundFloor(2)
	last := principal.Sub(even.Mul(decimal.NewFromInt(int64(count - 1))))

	schedule := make([]Installment, 0, count)
	year, month := startYear, startMonth
	for i := 1; i <= count; i++ {
		amount := even
		if i == count {
			amount = last
		}
		schedule = append(schedule, Installment{
			Number: i,
			Year:   year,
			Month:  month,
			Amount: amount,
			Status: InstallmentPending,
		})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return schedule
}
