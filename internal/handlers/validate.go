package handlers

import (
	"fmt"
	"net/url"

	"github.com/serroba/shorturl-preview/internal/shortener"
)

// validateURL accepts absolute http and https URLs with a host. The URL is
// not normalized: records are deduplicated on the exact submitted string.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrInvalidInput, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", shortener.ErrInvalidInput)
	}

	if u.Hostname() == "" {
		return fmt.Errorf("%w: url has no host", shortener.ErrInvalidInput)
	}

	return nil
}
