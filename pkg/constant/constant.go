package constant

import "time"

const (
	DefaultUserRole = "user"

	DefaultTokenType   = "Bearer"
	DefaultTokenExpiry = 7 * 24 * time.Hour

	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
