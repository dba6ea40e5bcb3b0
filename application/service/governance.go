package service

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
)

// DefaultGovernanceBaseURL is used when no governance platform URL is
// configured.
const DefaultGovernanceBaseURL = "http://localhost:8585/"

// GovernanceLinks builds deep links into the external governance platform
// for search results. The base URL can change at runtime (the config file
// watcher updates it), so it sits behind an atomic value.
type GovernanceLinks struct {
	baseURL atomic.Value
}

// NewGovernanceLinks creates a GovernanceLinks. An empty base URL falls
// back to DefaultGovernanceBaseURL.
func NewGovernanceLinks(baseURL string) *GovernanceLinks {
	g := &GovernanceLinks{}
	g.SetBaseURL(baseURL)
	return g
}

// BaseURL returns the current governance base URL.
func (g *GovernanceLinks) BaseURL() string {
	return g.baseURL.Load().(string)
}

// SetBaseURL replaces the governance base URL. Trailing slashes are
// trimmed so link construction stays uniform.
func (g *GovernanceLinks) SetBaseURL(baseURL string) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultGovernanceBaseURL
	}
	g.baseURL.Store(strings.TrimRight(baseURL, "/"))
}

// ExploreURL returns the governance platform's explore page for a table.
func (g *GovernanceLinks) ExploreURL(table string) string {
	return fmt.Sprintf("%s/explore/?search=%s&sort=_score&page=1&size=15", g.BaseURL(), url.QueryEscape(table))
}
