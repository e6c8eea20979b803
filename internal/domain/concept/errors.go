package concept

import "errors"

var (
	ErrNotFound      = errors.New("concept not found")
	ErrNameTaken     = errors.New("a concept with that name already exists in the company")
	ErrBuiltinRename = errors.New("built-in concepts cannot be renamed")
	ErrBuiltinDelete = errors.New("built-in concepts cannot be deleted")
	ErrInvalidKind   = errors.New("concept kind must be INCOME or DEDUCTION")
	ErrConceptInUse  = errors.New("concept has period amounts recorded and cannot be deleted")
)
