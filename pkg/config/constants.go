package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "GASTLINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "GASTLINK_APP_ENV"
	EnvPort                   = "GASTLINK_APP_PORT"
	EnvDBDSN                  = "GASTLINK_DB_DSN"
	EnvDBHost                 = "GASTLINK_DB_HOST"
	EnvDBUser                 = "GASTLINK_DB_USER"
	EnvDBName                 = "GASTLINK_DB_NAME"
	EnvRedisURL               = "GASTLINK_REDIS_URL"
	EnvJWTSecret              = "GASTLINK_JWT_SECRET"
	EnvJWTIssuer              = "GASTLINK_JWT_ISSUER"
	EnvJWTExpMins             = "GASTLINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GASTLINK_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "GASTLINK_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic      = "GASTLINK_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub        = "GASTLINK_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
