package admit

import (
	"fmt"
	"net/url"
	"strings"

	"sitegraph/pkg/utils"
)

// Filter decides whether a discovered link is in scope for the crawl and
// canonicalizes admitted URLs. It is a pure function of its configuration
// and inputs; safe to share.
type Filter struct {
	domain     string
	extensions []string
}

// NewFilter returns a Filter for the given domain suffix. Hosts are in scope
// when they end with domain (subdomains included). extensions lists path
// substrings that mark non-page resources (".jpg", ".css", ...).
func NewFilter(domain string, extensions []string) *Filter {
	exts := make([]string, len(extensions))
	copy(exts, extensions)
	return &Filter{domain: domain, extensions: exts}
}

// Domain returns the configured domain suffix.
func (f *Filter) Domain() string { return f.domain }

// Admit resolves rawURL against base and applies the scope rules. It returns
// the canonical form of the link, or a sentinel error naming the rejection
// kind. The fragment check runs on the raw string: anchor links never enter
// the frontier even though canonicalization would strip the fragment.
func (f *Filter) Admit(rawURL string, base *url.URL) (string, error) {
	if strings.Contains(rawURL, "#") {
		return "", fmt.Errorf("raw link %q: %w", rawURL, utils.ErrFragmentLink)
	}

	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid link URL %q: %w", rawURL, utils.ErrParsing)
	}
	resolved := base.ResolveReference(ref)

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", fmt.Errorf("scheme %q in %q: %w", resolved.Scheme, rawURL, utils.ErrSchemeNotAllowed)
	}
	if !strings.HasSuffix(resolved.Host, f.domain) {
		return "", fmt.Errorf("host %q not under %q: %w", resolved.Host, f.domain, utils.ErrScopeViolation)
	}
	for _, ext := range f.extensions {
		if strings.Contains(resolved.Path, ext) {
			return "", fmt.Errorf("path %q contains %q: %w", resolved.Path, ext, utils.ErrDisallowedExtension)
		}
	}

	return Canonical(resolved), nil
}

// Canonicalize parses an absolute URL string (scheme required) and returns
// its canonical form. Used for seed URLs, which bypass scope checks.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, utils.ErrParsing)
	}
	return Canonical(u), nil
}

// Canonical renders u as scheme://host/path[?query]. The fragment is
// dropped, the query is kept, and the path is kept byte-for-byte: no
// trailing-slash or case normalization, so membership tests match the
// exact URL the site links to.
func Canonical(u *url.URL) string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String()
}
