package config

// EnvPrefix is the envconfig prefix applied on top of the explicit
// envconfig tags below.
const EnvPrefix = "PVSMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PVSMART_DB_DSN"
	EnvDBHost = "PVSMART_DB_HOST"
	EnvDBUser = "PVSMART_DB_USER"
	EnvDBName = "PVSMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
