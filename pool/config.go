package pool

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type DatabaseConfiguration struct {
	MaxOpenConns             *int           `yaml:"maxOpenConns"`
	MinOpenConns             *int           `yaml:"minOpenConns"`
	StatementCacheCapacity   *int           `yaml:"statementCacheCapacity"`
	ConnTimeout              *time.Duration `yaml:"connTimeout"`
	MaxOpenConnTTL           *time.Duration `yaml:"maxOpenConnTTL"`
	MaxIdleConnTTL           *time.Duration `yaml:"maxIdleConnTTL"`
	MaxConnLifetimeJitterTTL *time.Duration `yaml:"maxConnLifetimeJitterTTL"`
	User                     *string        `yaml:"user"`
	Password                 *string        `yaml:"password"`
	Host                     *string        `yaml:"host"`
	Port                     *string        `yaml:"port"`
	Name                     *string        `yaml:"name"`
}

// LoadConfiguration reads a yaml database configuration file.
func LoadConfiguration(path string) (DatabaseConfiguration, error) {
	var cfg DatabaseConfiguration
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read database configuration")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse database configuration")
	}
	return cfg, nil
}

func (cfg DatabaseConfiguration) getDSN() string { // nolint:gocritic
	query := make(url.Values)
	if cfg.MaxOpenConns != nil {
		query.Set("pool_max_conns", strconv.Itoa(*cfg.MaxOpenConns))
	}
	if cfg.MinOpenConns != nil {
		query.Set("pool_min_conns", strconv.Itoa(*cfg.MinOpenConns))
	}
	if cfg.MaxOpenConnTTL != nil {
		query.Set("pool_max_conn_lifetime", cfg.MaxOpenConnTTL.String())
	}
	if cfg.MaxIdleConnTTL != nil {
		query.Set("pool_max_conn_idle_time", cfg.MaxIdleConnTTL.String())
	}
	if cfg.MaxConnLifetimeJitterTTL != nil {
		query.Set("pool_max_conn_lifetime_jitter", cfg.MaxConnLifetimeJitterTTL.String())
	}
	if cfg.StatementCacheCapacity != nil {
		query.Set("statement_cache_capacity", strconv.Itoa(*cfg.StatementCacheCapacity))
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(*cfg.User, *cfg.Password),
		Host:     net.JoinHostPort(*cfg.Host, *cfg.Port),
		Path:     *cfg.Name,
		RawQuery: query.Encode(),
	}
	return dsn.String()
}
