package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrListNotFound     = errors.New("list not found")
	ErrDuplicateName    = errors.New("list name already exists")
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
