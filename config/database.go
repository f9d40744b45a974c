package config

import "time"

// Pool defaults used when DB_MAX_* values are unset or invalid.
const (
	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 5 * time.Minute
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"blogger"`
	Password string `env:"PASSWORD"                envDefault:"blogger"`
	Name     string `env:"NAME"                    envDefault:"blogger"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
}

// Sanitize restores pool defaults for non-positive values and keeps idle <= open.
func (d *DBConfig) Sanitize() {
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		d.MaxIdleConns = d.MaxOpenConns
	}
	if d.ConnMaxLifetime <= 0 {
		d.ConnMaxLifetime = DefaultDBConnMaxLifetime
	}
}

// RedisConfig contains Redis configuration.
// Redis is only dialed when token revocation is enabled.
type RedisConfig struct {
	URI          string   `env:"URI"           envDefault:"localhost:6379"`
	Password     string   `env:"PASSWORD"      envDefault:""`
	DB           int      `env:"DB"            envDefault:"0"`
	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`
	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`
}
