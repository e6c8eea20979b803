package params

import "errors"

var (
	ErrNotConfigured = errors.New("legal parameters are not configured for the period")
	ErrPeriodClosed  = errors.New("the period's payroll run is closed")
	ErrInvalidValue  = errors.New("parameter values must be positive")
)
