package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Shop        ShopConfig
	UPI         UPIConfig
	Idempotency IdempotencyConfig
	Analytics   AnalyticsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PVSMART_APP_ENV" required:"true"`
	Port         string `envconfig:"PVSMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PVSMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PVSMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PVSMART_DB_DSN"`
	Driver string `envconfig:"PVSMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PVSMART_DB_HOST"`
	LegacyPort     int    `envconfig:"PVSMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PVSMART_DB_USER"`
	LegacyPassword string `envconfig:"PVSMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"PVSMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"PVSMART_DB_SSLMODE" default:"disable"`

	// TxTimeout bounds every transaction run through the client. A timeout
	// aborts and rolls back, surfacing a retryable dependency error.
	TxTimeout time.Duration `envconfig:"PVSMART_DB_TX_TIMEOUT" default:"10s"`

	MaxOpenConns    int           `envconfig:"PVSMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PVSMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PVSMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PVSMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	UseSQLite   bool `envconfig:"PVSMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PVSMART_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PVSMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PVSMART_REDIS_ADDR"`
	Password     string        `envconfig:"PVSMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"PVSMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PVSMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PVSMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PVSMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PVSMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PVSMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PVSMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PVSMART_JWT_ISSUER" default:"pvsmart"`
	ExpirationMinutes int    `envconfig:"PVSMART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthConfig struct {
	// OwnerEmails lists the accounts granted the OWNER role at registration.
	OwnerEmails []string `envconfig:"PVSMART_OWNER_EMAILS" default:"owner@pvsmart.in"`
	BcryptCost  int      `envconfig:"PVSMART_BCRYPT_COST" default:"10"`
	// CookieSecure controls the Secure flag on the auth cookie.
	CookieSecure bool `envconfig:"PVSMART_COOKIE_SECURE" default:"true"`
}

// IsOwnerEmail reports whether the email is on the owner allowlist.
func (a AuthConfig) IsOwnerEmail(email string) bool {
	for _, allowed := range a.OwnerEmails {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

type ShopConfig struct {
	Name    string `envconfig:"PVSMART_SHOP_NAME" default:"PVS Mart"`
	Address string `envconfig:"PVSMART_SHOP_ADDRESS" default:""`
	Phone   string `envconfig:"PVSMART_SHOP_PHONE" default:""`
}

type UPIConfig struct {
	// VPA is the merchant virtual payment address collecting storefront
	// payments, e.g. pvsmart@okicici.
	VPA       string `envconfig:"PVSMART_UPI_VPA" required:"true"`
	PayeeName string `envconfig:"PVSMART_UPI_PAYEE_NAME" default:"PVS Mart"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"PVSMART_IDEMPOTENCY_TTL" default:"24h"`
}

type AnalyticsConfig struct {
	// LowStockThreshold is the stock level below which a product counts
	// toward the dashboard's low-stock figure.
	LowStockThreshold int `envconfig:"PVSMART_LOW_STOCK_THRESHOLD" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
