package company

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is one employer (RUC) whose payroll is managed independently.
// Workers, concepts, periods and runs all hang off a company.
type Company struct {
	ID              string          `json:"id"`
	RUC             string          `json:"ruc"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	MicroEnterprise bool            `json:"microEnterprise"`
	WorkdayHours    decimal.Decimal `json:"workdayHours"`
	CreatedAt       time.Time       `json:"createdAt"`
}
