package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrRoleMismatch     = errors.New("role mismatch")
	ErrConflict         = errors.New("already exists")
	ErrDependency       = errors.New("dependent records exist")
	ErrValidation       = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)
