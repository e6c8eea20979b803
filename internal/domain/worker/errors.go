package worker

import "errors"

var (
	ErrNotFound         = errors.New("worker not found")
	ErrDocumentTaken    = errors.New("a worker with that document already exists in the company")
	ErrInvalidDocument  = errors.New("document must be 8 digits (DNI)")
	ErrReferencedByRuns = errors.New("worker appears in a closed payroll and can only be deactivated")
)
