package worker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is a dependent (5th-category) employee of one company.
type Worker struct {
	ID                    string          `json:"id"`
	CompanyID             string          `json:"companyId"`
	Document              string          `json:"document"`
	FirstName             string          `json:"firstName"`
	LastName              string          `json:"lastName"`
	HireDate              time.Time       `json:"hireDate"`
	BaseSalary            decimal.Decimal `json:"baseSalary"`
	PensionSystem         string          `json:"pensionSystem"`
	CUSPP                 string          `json:"cuspp,omitempty"`
	CommissionType        string          `json:"commissionType"`
	HasFamilyAllowance    bool            `json:"hasFamilyAllowance"`
	HasEPS                bool            `json:"hasEps"`
	HealthScheme          string          `json:"healthScheme"`
	PriorEmployerWithheld decimal.Decimal `json:"priorEmployerWithheld"`
	BankName              string          `json:"bankName,omitempty"`
	BankAccount           string          `json:"bankAccount,omitempty"`
	BankAccountEnc        []byte          `json:"-"`
	Active                bool            `json:"active"`
	CreatedAt             time.Time       `json:"createdAt"`
}

func (w Worker) FullName() string {
	return w.LastName + ", " + w.FirstName
}

// Contractor is a 4th-category service provider. No employment bond, so no
// pension, health or benefit fields.
type Contractor struct {
	ID                       string          `json:"id"`
	CompanyID                string          `json:"companyId"`
	Document                 string          `json:"document"`
	FirstName                string          `json:"firstName"`
	LastName                 string          `json:"lastName"`
	HireDate                 time.Time       `json:"hireDate"`
	BaseFee                  decimal.Decimal `json:"baseFee"`
	HasWithholdingSuspension bool            `json:"hasWithholdingSuspension"`
	Active                   bool            `json:"active"`
	CreatedAt                time.Time       `json:"createdAt"`
}

func (c Contractor) FullName() string {
	return c.LastName + ", " + c.FirstName
}
