// Package query filters and sorts client snapshots into the view consumed by
// the dashboard, the client table and the CSV export.
package query

import (
	"strings"

	"github.com/straye-as/pipeline-api/internal/domain"
)

// Filter is the conjunction of a free-text search and three optional equality filters.
// A nil filter field matches any value.
type Filter struct {
	Search   string
	Stage    *domain.Stage
	Status   *domain.ProposalStatus
	Priority *domain.Priority
}

// IsEmpty reports whether the filter matches every client
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Stage == nil && f.Status == nil && f.Priority == nil
}

// ActiveCount returns how many of the equality filters and the search are set
func (f Filter) ActiveCount() int {
	n := 0
	if f.Search != "" {
		n++
	}
	if f.Stage != nil {
		n++
	}
	if f.Status != nil {
		n++
	}
	if f.Priority != nil {
		n++
	}
	return n
}

// Match reports whether c satisfies every predicate of f
func (f Filter) Match(c *domain.Client) bool {
	return f.matchSearch(c) &&
		(f.Stage == nil || c.Stage == *f.Stage) &&
		(f.Status == nil || c.ProposalStatus == *f.Status) &&
		(f.Priority == nil || c.Priority == *f.Priority)
}

// matchSearch is a case-insensitive substring match on name, contact person and email
func (f Filter) matchSearch(c *domain.Client) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.ContactPerson), term) ||
		strings.Contains(strings.ToLower(c.Email), term)
}

// Apply returns the clients matching f in their original relative order
func Apply(clients []domain.Client, f Filter) []domain.Client {
	out := make([]domain.Client, 0, len(clients))
	for i := range clients {
		if f.Match(&clients[i]) {
			out = append(out, clients[i])
		}
	}
	return out
}
