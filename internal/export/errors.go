package export

import "errors"

var (
	ErrMissingConceptCode = errors.New("concepts with paid amounts are missing their official table-22 code")
	ErrMissingCUSPP       = errors.New("AFP-affiliated worker has no CUSPP registered")
	ErrNoAFPWorkers       = errors.New("the run has no AFP-affiliated workers")
	ErrNoBankAccounts     = errors.New("no worker in the run has bank account data")
)
