// Package config loads and validates the VosDNS configuration.
//
// Configuration lives in a single JSON file. Every field has a sensible
// default, so an empty or missing file yields a working forwarding server on
// port 53.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvConfigPath names the environment variable consulted when no explicit
// config path is given.
const EnvConfigPath = "VOSDNS_CONFIG"

// Defaults applied by Validate.
const (
	DefaultPort       = 53
	DefaultUpstream   = "8.8.8.8:53"
	DefaultRootServer = "198.41.0.4:53" // a.root-servers.net
	DefaultTimeout    = 3 * time.Second
	DefaultMaxRetries = 3
)

// ResolveConfigPath picks the config file path: the explicit argument if
// non-empty, else the environment variable, else "". An empty result makes
// Load return pure defaults.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(EnvConfigPath)
}

// Load reads, parses, and validates the configuration at path. An empty
// path yields the defaults; a missing file is an error, since the caller
// asked for that file specifically.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration in place.
func (cfg *Config) Validate() error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.MaxConcurrency <= 0 {
		cfg.Server.MaxConcurrency = 128
	}

	switch cfg.Resolver.Mode {
	case "":
		cfg.Resolver.Mode = ModeForward
	case ModeForward, ModeIterate:
	default:
		return fmt.Errorf("resolver.mode must be %q or %q", ModeForward, ModeIterate)
	}
	if cfg.Resolver.Upstream == "" {
		cfg.Resolver.Upstream = DefaultUpstream
	}
	if cfg.Resolver.RootServer == "" {
		cfg.Resolver.RootServer = DefaultRootServer
	}
	if cfg.Resolver.Timeout == "" {
		cfg.Resolver.Timeout = DefaultTimeout.String()
	}
	if _, err := time.ParseDuration(cfg.Resolver.Timeout); err != nil {
		return fmt.Errorf("resolver.timeout: %w", err)
	}
	if cfg.Resolver.MaxRetries <= 0 {
		cfg.Resolver.MaxRetries = DefaultMaxRetries
	}

	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	if cfg.QueryLog.Enabled && cfg.QueryLog.Path == "" {
		cfg.QueryLog.Path = "vosdns-querylog.db"
	}

	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}

	return nil
}

// ResolverTimeout returns the parsed per-attempt timeout. Validate has
// already checked the string parses.
func (cfg *Config) ResolverTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Resolver.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}
