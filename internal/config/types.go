package config

// ServerConfig contains DNS server settings.
type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	MaxConcurrency int    `json:"max_concurrency"`
}

// ResolverMode selects how queries are answered.
type ResolverMode string

const (
	// ModeForward sends every query to a configured upstream resolver.
	ModeForward ResolverMode = "forward"
	// ModeIterate resolves iteratively starting from the root servers.
	ModeIterate ResolverMode = "iterate"
)

// ResolverConfig contains upstream and iteration settings.
type ResolverConfig struct {
	Mode ResolverMode `json:"mode"`

	// Upstream is the HOST:PORT of the recursive resolver used in forward
	// mode, and as the bootstrap for dnsquery.
	Upstream string `json:"upstream"`

	// RootServer is the address iteration starts from in iterate mode.
	RootServer string `json:"root_server"`

	Timeout    string `json:"timeout"`     // per-attempt timeout, e.g. "3s"
	MaxRetries int    `json:"max_retries"` // attempts per query
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string            `json:"level"`
	Format      string            `json:"format"` // "text" or "json"
	IncludePID  bool              `json:"include_pid"`
	ExtraFields map[string]string `json:"extra_fields,omitempty"`
}

// QueryLogConfig controls the SQLite query log.
type QueryLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// APIConfig contains management API settings.
//
// Note: APIKey is a secret and must not be returned by API endpoints.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	APIKey  string `json:"api_key,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Resolver ResolverConfig `json:"resolver"`
	Logging  LoggingConfig  `json:"logging"`
	QueryLog QueryLogConfig `json:"query_log"`
	API      APIConfig      `json:"api"`
}
