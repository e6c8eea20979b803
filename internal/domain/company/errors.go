package company

import "errors"

var (
	ErrNotFound   = errors.New("company not found")
	ErrRUCTaken   = errors.New("a company with that RUC already exists")
	ErrInvalidRUC = errors.New("RUC must be 11 digits")
)
