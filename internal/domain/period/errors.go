package period

import "errors"

var (
	ErrNotFound     = errors.New("period not found")
	ErrPeriodClosed = errors.New("period is closed and cannot be modified")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)
