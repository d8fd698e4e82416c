package fetch

import (
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"sitegraph/pkg/config"
)

// NewClient creates the shared HTTP client from the provided configuration.
func NewClient(cfg *config.Config, log *logrus.Logger) *http.Client {
	hc := cfg.HTTPClientSettings

	// Custom dialer with configured timeouts
	dialer := &net.Dialer{
		Timeout:   hc.DialTimeout,
		KeepAlive: hc.DialKeepAlive,
	}

	transport := &http.Transport{
		Proxy:                  http.ProxyFromEnvironment, // Use system proxy settings
		DialContext:            dialer.DialContext,
		ForceAttemptHTTP2:      true, // Default to true unless explicitly disabled
		MaxIdleConns:           hc.MaxIdleConns,
		MaxIdleConnsPerHost:    hc.MaxIdleConnsPerHost,
		IdleConnTimeout:        hc.IdleConnTimeout,
		TLSHandshakeTimeout:    hc.TLSHandshakeTimeout,
		ResponseHeaderTimeout:  hc.ResponseHeaderTimeout,
		ExpectContinueTimeout:  hc.ExpectContinueTimeout,
		MaxResponseHeaderBytes: 1 << 20,
	}
	if hc.ForceAttemptHTTP2 != nil {
		transport.ForceAttemptHTTP2 = *hc.ForceAttemptHTTP2
	}

	maxRedirects := hc.MaxRedirects
	client := &http.Client{
		Timeout:   cfg.RequestTimeout, // Overall per-request timeout
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			log.Debugf("Redirecting: %s -> %s (hop %d)", via[len(via)-1].URL, req.URL, len(via))
			return nil
		},
	}

	log.WithFields(logrus.Fields{
		"timeout":       cfg.RequestTimeout,
		"max_redirects": maxRedirects,
	}).Debug("HTTP client initialized")
	return client
}
