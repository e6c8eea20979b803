package loan

import "errors"

var (
	ErrNotFound       = errors.New("loan not found")
	ErrInvalidLoan    = errors.New("loan principal and installment count must be positive")
	ErrAlreadySettled = errors.New("loan is already settled or cancelled")
)
