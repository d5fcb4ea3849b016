package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email address conflict; provided email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
