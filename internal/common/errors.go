package common

import "errors"

var (
	// Storage errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNoAccessToken  = errors.New("no access token")
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionChanged = errors.New("session changed")

	// Social login errors.
	ErrInvalidCallback = errors.New("invalid social login callback")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
)
