package config

import (
	"fmt"
	"strings"
	"time"

	"sitegraph/pkg/utils"
)

// defaultDisallowedExtensions keeps binary and asset links out of the frontier.
var defaultDisallowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".css", ".js"}

// Validate checks Config fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *Config) Validate() (warnings []string, err error) {
	// Domain
	if c.Domain == "" {
		return nil, fmt.Errorf("%w: domain is required", utils.ErrConfigValidation)
	}
	if strings.Contains(c.Domain, "/") {
		return nil, fmt.Errorf("%w: domain must be a bare host, got %q", utils.ErrConfigValidation, c.Domain)
	}

	// SeedURL
	if c.SeedURL == "" {
		c.SeedURL = "https://" + c.Domain + "/"
	}

	// RequestTimeout
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}

	// RequestDelay (negative disables the wait)
	if c.RequestDelay < 0 {
		warnings = append(warnings, "request_delay cannot be negative, disabling delay")
		c.RequestDelay = 0
	} else if c.RequestDelay == 0 {
		c.RequestDelay = 100 * time.Millisecond
	}

	// MaxPages
	if c.MaxPages <= 0 {
		warnings = append(warnings, "max_pages should be > 0, defaulting to 10000")
		c.MaxPages = 10000
	}

	// CheckpointInterval
	if c.CheckpointInterval <= 0 {
		warnings = append(warnings, "checkpoint_interval should be > 0, defaulting to 50")
		c.CheckpointInterval = 50
	}

	// CheckpointBackend
	switch c.CheckpointBackend {
	case "":
		c.CheckpointBackend = BackendFile
	case BackendFile, BackendBadger:
	default:
		return warnings, fmt.Errorf("%w: unknown checkpoint_backend %q (want %q or %q)",
			utils.ErrConfigValidation, c.CheckpointBackend, BackendFile, BackendBadger)
	}

	// CheckpointPath (file backend)
	if c.CheckpointPath == "" {
		if c.CheckpointBackend == BackendFile {
			warnings = append(warnings, "checkpoint_path is empty, defaulting to './checkpoints/crawl_checkpoint.json'")
		}
		c.CheckpointPath = "./checkpoints/crawl_checkpoint.json"
	}

	// CheckpointDir (badger backend)
	if c.CheckpointDir == "" {
		if c.CheckpointBackend == BackendBadger {
			warnings = append(warnings, "checkpoint_dir is empty, defaulting to './checkpoints/badger'")
		}
		c.CheckpointDir = "./checkpoints/badger"
	}

	// ExportPath
	if c.ExportPath == "" {
		warnings = append(warnings, "export_path is empty, defaulting to './site_graph.graphml'")
		c.ExportPath = "./site_graph.graphml"
	}

	// UserAgent
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// DisallowedExtensions: nil means unset; an explicit empty list disables the check
	if c.DisallowedExtensions == nil {
		c.DisallowedExtensions = append([]string(nil), defaultDisallowedExtensions...)
	}

	// MaxBodyBytes
	if c.MaxBodyBytes < 0 {
		warnings = append(warnings, "max_body_bytes cannot be negative, setting to 0 (unlimited)")
		c.MaxBodyBytes = 0
	} else if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 10 << 20
	}

	// LogLevel
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// HTTPClientSettings defaults
	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *Config) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.DialTimeout <= 0 {
		h.DialTimeout = 10 * time.Second
	}
	if h.DialKeepAlive <= 0 {
		h.DialKeepAlive = 30 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 5 * time.Second
	}
	if h.ResponseHeaderTimeout <= 0 {
		h.ResponseHeaderTimeout = 5 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 20
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
}
