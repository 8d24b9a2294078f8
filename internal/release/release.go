package release

import (
	"net/http"
	"time"
)

// Release represents a GitHub release of a package repository.
type Release struct {
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name"`
	Published  time.Time `json:"published_at"`
	HTMLURL    string    `json:"html_url"`
	Prerelease bool      `json:"prerelease"`
}

// Resolver answers release lookups against the GitHub API.
type Resolver struct {
	httpClient *http.Client
	token      string
	apiBase    string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// WithToken sets a GitHub API token for higher rate limits.
func WithToken(token string) Option {
	return func(r *Resolver) {
		r.token = token
	}
}

// WithAPIBase overrides the GitHub API base URL (useful for testing).
func WithAPIBase(base string) Option {
	return func(r *Resolver) {
		r.apiBase = base
	}
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		httpClient: http.DefaultClient,
		apiBase:    "https://api.github.com",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
