package domain

import "errors"

// Authentication and account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
)

// Model catalogue errors.
var (
	ErrModelNotFound   = errors.New("model not found")
	ErrInvalidModelID  = errors.New("invalid model id")
	ErrInvalidDownload = errors.New("invalid download report")
	ErrUpstream        = errors.New("upstream unavailable")
	ErrQueueFull       = errors.New("too many pending reports")
)
