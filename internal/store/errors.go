package store

import "github.com/pkg/errors"

var (
	ErrDanglingReference = errors.New("dangling team reference")
	ErrDuplicateID       = errors.New("duplicate id")
)
