package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// ValidateProductURL checks that rawURL points at allowedHost (or one of its
// subdomains) and returns the canonical URL: scheme, host and path with the
// query string and fragment removed.
func ValidateProductURL(rawURL, allowedHost string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is empty", domain.ErrValidation)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", domain.ErrValidation, parsed.Scheme)
	}

	if !hostMatches(parsed.Hostname(), allowedHost) {
		return "", fmt.Errorf("%w: host %q is not %s", domain.ErrValidation, parsed.Hostname(), allowedHost)
	}

	canonical := url.URL{
		Scheme:  strings.ToLower(parsed.Scheme),
		Host:    strings.ToLower(parsed.Host),
		Path:    parsed.Path,
		RawPath: parsed.RawPath,
	}
	return canonical.String(), nil
}

func hostMatches(host, allowedHost string) bool {
	host = strings.ToLower(host)
	allowed := strings.ToLower(strings.TrimSpace(allowedHost))
	if host == "" || allowed == "" {
		return false
	}
	return host == allowed || strings.HasSuffix(host, "."+allowed)
}
