package web

import "github.com/corey/acm/internal/ports"

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Text string `json:"text"`
}

// SearchResult is the response of POST /api/search.
// Matches is only filled when the request asks for ?matches=1.
type SearchResult struct {
	Report  ports.Report  `json:"report"`
	Total   int           `json:"total"`
	Matched int           `json:"matched"`
	Matches []ports.Match `json:"matches,omitempty"`
	Elapsed string        `json:"elapsed"`
}

// HealthResult is the response of GET /api/health.
type HealthResult struct {
	Status   string `json:"status"`
	Patterns int    `json:"patterns"`
	Uptime   string `json:"uptime"`
}

// PatternsResult is the response of GET /api/patterns.
type PatternsResult struct {
	Patterns []string `json:"patterns"`
	Count    int      `json:"count"`
}

// ErrorResult is the body of every non-2xx JSON response.
type ErrorResult struct {
	Error string `json:"error"`
}
