package payroll

import "errors"

var (
	ErrUnknownPensionFund = errors.New("pension fund has no configured rates for the period")
)
