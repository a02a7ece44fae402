package constants

import "time"

// Context keys set by the authentication middleware.
const (
	ContextKeyUsername = "auth_username"
	ContextKeyRoles    = "auth_roles"
)

// Pagination limits for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OTP registration flow.
const (
	OTPLength   = 6
	OTPValidity = 10 * time.Minute
)

// DefaultTokenValidity is used when JWT_EXPIRY is not configured.
const DefaultTokenValidity = 24 * time.Hour
