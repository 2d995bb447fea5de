package constants

import "time"

// Field Length Limits, counted in characters
const (
	MinPasswordLength = 8
	MaxPasswordLength = 40
	MinNameLength     = 3
	MaxNameLength     = 60
	MinMessageLength  = 10
	MaxMessageLength  = 250
)

// ChirpListLimit caps GET /api/chirps; there is no pagination.
const ChirpListLimit = 100

// Token Settings
const (
	DefaultAccessTokenTTL = 5 * time.Minute
)
