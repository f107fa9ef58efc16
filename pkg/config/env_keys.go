package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "DUKKAN_APP_ENV"
	EnvPort                   = "DUKKAN_APP_PORT"
	EnvDBDSN                  = "DUKKAN_DB_DSN"
	EnvDBHost                 = "DUKKAN_DB_HOST"
	EnvDBUser                 = "DUKKAN_DB_USER"
	EnvDBName                 = "DUKKAN_DB_NAME"
	EnvRedisURL               = "DUKKAN_REDIS_URL"
	EnvJWTSecret              = "DUKKAN_JWT_SECRET"
	EnvJWTIssuer              = "DUKKAN_JWT_ISSUER"
	EnvJWTExpMins             = "DUKKAN_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "DUKKAN_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
