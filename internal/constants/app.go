package constants

// Application Information
const (
	AppName    = "chirpy"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix        = "chirpy:"
	CacheKeyRefreshTokens = CacheKeyPrefix + "refresh:"
)

// Demo account seeded when SEED_DEMO_USER is on
const (
	DemoUserName  = "Ahmad Sadeli"
	DemoUserEmail = "ahmad.sadeli@mail.com"
)
