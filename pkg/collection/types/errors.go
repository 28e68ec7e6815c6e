package types

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateSubmitter = errors.New("submitter already exists")
	ErrDuplicateToken     = errors.New("token already in use")
	ErrAccessDenied       = errors.New("access denied")
)
