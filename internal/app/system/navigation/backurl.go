// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g. "/buildings").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are rejected so a form never returns to itself.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
// The "return" query parameter wins over the form value. Off-site and
// excluded URLs fall back to opts.Fallback.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" && allowed(ret, opts) {
		return ret
	}

	return opts.Fallback
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}

var (
	// BuildingsBackURL is used by the building forms.
	BuildingsBackURL = BackURLOptions{
		AllowedPrefix:    "/buildings",
		ExcludedSubpaths: []string{"/edit", "/new", "/status"},
		Fallback:         "/buildings",
	}

	// LoginReturnURL picks where to go after signing in.
	LoginReturnURL = BackURLOptions{
		ExcludedSubpaths: []string{"/login", "/logout"},
		Fallback:         "/dashboard",
	}
)
