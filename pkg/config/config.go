package config

import "time"

// Backend names accepted for checkpoint_backend.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// DefaultUserAgent is sent with every request unless user_agent overrides it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.82 Safari/537.36"

// Config holds the full configuration for a single-domain crawl
type Config struct {
	Domain               string           `yaml:"domain"`                          // Required: target domain, matched as a host suffix
	SeedURL              string           `yaml:"seed_url,omitempty"`              // Defaults to https://<domain>/
	RequestTimeout       time.Duration    `yaml:"request_timeout,omitempty"`       // Overall per-request timeout
	RequestDelay         time.Duration    `yaml:"request_delay,omitempty"`         // Wait between successive requests
	MaxPages             int              `yaml:"max_pages,omitempty"`             // Page budget for the whole crawl, resumed runs included
	CheckpointInterval   int              `yaml:"checkpoint_interval,omitempty"`   // Save a snapshot every N processed pages
	CheckpointBackend    string           `yaml:"checkpoint_backend,omitempty"`    // "file" or "badger"
	CheckpointPath       string           `yaml:"checkpoint_path,omitempty"`       // Snapshot path for the file backend
	CheckpointDir        string           `yaml:"checkpoint_dir,omitempty"`        // Database directory for the badger backend
	ExportPath           string           `yaml:"export_path,omitempty"`           // GraphML output path
	UserAgent            string           `yaml:"user_agent,omitempty"`
	DisallowedExtensions []string         `yaml:"disallowed_extensions,omitempty"` // Path substrings to reject; explicit empty list disables the check
	MaxBodyBytes         int64            `yaml:"max_body_bytes,omitempty"`        // Response body cap in bytes
	LogLevel             string           `yaml:"log_level,omitempty"`
	HTTPClientSettings   HTTPClientConfig `yaml:"http_client,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	DialTimeout           time.Duration `yaml:"dial_timeout,omitempty"`            // Connection dial timeout
	DialKeepAlive         time.Duration `yaml:"dial_keep_alive,omitempty"`         // TCP keep-alive interval
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout,omitempty"` // Timeout waiting for response headers
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	MaxRedirects          int           `yaml:"max_redirects,omitempty"`           // Redirects followed before giving up
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
}
