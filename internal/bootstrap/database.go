package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/blogger-api/config"
	"github.com/target/blogger-api/internal/data"
	httpx "github.com/target/blogger-api/internal/http"
)

const connectPingTimeout = 5 * time.Second

// DatabaseConfig names the stores a process connects to.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the pgx pool for accounts, password history and wellness
// logs, and fails unless the server answers a ping.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	pool := cfg.DBConfig
	pool.Sanitize()

	db, err := sql.Open("pgx", postgresDSN(pool))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := pingOrClose(ctx, "database", db.PingContext, db.Close); err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "postgres ready",
			"host", pool.Host,
			"port", pool.Port,
			"database", pool.Name,
			"max_open_conns", pool.MaxOpenConns,
		)
	}
	return db, nil
}

// postgresDSN renders a pgx URL; url.URL escapes credentials.
func postgresDSN(c config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func pingOrClose(ctx context.Context, what string, ping func(context.Context) error, closeFn func() error) error {
	pctx, cancel := context.WithTimeout(ctx, connectPingTimeout)
	defer cancel()

	err := ping(pctx)
	if err == nil {
		return nil
	}
	if cerr := closeFn(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close %s: %w", what, cerr))
	}
	return fmt.Errorf("ping %s: %w", what, err)
}

// ConnectRedis dials the token denylist store.
//
//nolint:ireturn // single-node and cluster clients share redis.UniversalClient.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := resolveRedisTarget(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := target.newClient()
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := pingOrClose(ctx, "redis", ping, client.Close); err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis ready", "target", target.String())
	}
	return client, nil
}

// redisTarget is REDIS_* resolved to addresses and credentials.
type redisTarget struct {
	cluster  bool
	addrs    []string
	username string
	password string
	db       int
	tls      *tls.Config
}

// resolveRedisTarget reads REDIS_URI as host:port or a redis:// URL. In
// cluster mode REDIS_CLUSTER_NODES wins and REDIS_URI seeds the cluster
// when no nodes are listed.
func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	t := redisTarget{cluster: cfg.UseCluster, password: cfg.Password, db: cfg.DB}
	if t.cluster {
		for _, n := range cfg.ClusterNodes {
			if n = strings.TrimSpace(n); n != "" {
				t.addrs = append(t.addrs, n)
			}
		}
		if len(t.addrs) > 0 {
			return t, nil
		}
	}

	uri := strings.TrimSpace(cfg.URI)
	switch {
	case uri == "" && t.cluster:
		return t, errors.New("redis cluster needs REDIS_CLUSTER_NODES or REDIS_URI")
	case uri == "":
		return t, errors.New("REDIS_URI is required")
	case !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://"):
		t.addrs = []string{uri}
		return t, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return t, fmt.Errorf("parse REDIS_URI: %w", err)
	}
	t.addrs = []string{opt.Addr}
	t.username = opt.Username
	if opt.Password != "" {
		t.password = opt.Password
	}
	if opt.DB != 0 {
		t.db = opt.DB
	}
	t.tls = opt.TLSConfig
	return t, nil
}

//nolint:ireturn // see ConnectRedis.
func (t redisTarget) newClient() redis.UniversalClient {
	if t.cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     t.addrs,
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:      t.addrs[0],
		Username:  t.username,
		Password:  t.password,
		DB:        t.db,
		TLSConfig: t.tls,
	})
}

// String describes the target for logs. Credentials never appear.
func (t redisTarget) String() string {
	if t.cluster {
		return "cluster:" + strings.Join(t.addrs, ",")
	}
	return t.addrs[0] + "/" + strconv.Itoa(t.db)
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := data.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}

// redisPinger adapts a redis client to httpx.Pinger.
type redisPinger struct {
	client redis.UniversalClient
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// healthPingers returns the non-nil dependencies for /healthz.
func healthPingers(db *sql.DB, client redis.UniversalClient) []httpx.Pinger {
	var out []httpx.Pinger
	if db != nil {
		out = append(out, db)
	}
	if client != nil {
		out = append(out, redisPinger{client: client})
	}
	return out
}
