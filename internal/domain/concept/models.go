package concept

import "time"

// Concept is one income or deduction definition in a company's catalog,
// with its tax-base affectation flags and PLAME table-22 code.
type Concept struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"companyId"`
	Name             string    `json:"name"`
	Kind             string    `json:"kind"`
	Code             string    `json:"code,omitempty"`
	AffectsPension   bool      `json:"affectsPension"`
	AffectsIncomeTax bool      `json:"affectsIncomeTax"`
	AffectsHealth    bool      `json:"affectsHealth"`
	Proratable       bool      `json:"proratable"`
	SeveranceBase    bool      `json:"severanceBase"`
	BonusBase        bool      `json:"bonusBase"`
	Builtin          bool      `json:"builtin"`
	CreatedAt        time.Time `json:"createdAt"`
}
