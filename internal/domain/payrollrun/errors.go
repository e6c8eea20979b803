package payrollrun

import "errors"

var (
	ErrParametersNotConfigured = errors.New("legal parameters are not configured for the period")
	ErrNoActiveWorkers         = errors.New("the company has no active workers")
	ErrMissingPeriodVariables  = errors.New("period variables are missing for an active worker")
	ErrPeriodClosed            = errors.New("period is closed")
	ErrRunNotFound             = errors.New("payroll run not found")
	ErrRunNotClosed            = errors.New("payroll run is not closed")
	ErrRunAlreadyClosed        = errors.New("payroll run is already closed")
)
