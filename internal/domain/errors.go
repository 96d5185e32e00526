package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUserName = errors.New("username already exists")
	ErrUnauthorized      = errors.New("unauthorized")
)
