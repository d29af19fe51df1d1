// Package guard resolves which declarative rule, if any, governs a request
// path. The registry is built once at process start and read lock-free by
// every request afterwards.
package guard

import "github.com/gatehouse-io/gatehouse/pkg/routes"

// Scope distinguishes application-page rules from API rules.
type Scope string

const (
	ScopeApp Scope = "app"
	ScopeAPI Scope = "api"
)

// Rule binds a path pattern to the authentication scope it demands.
// IDs are unique by operator convention; the registry does not enforce it.
type Rule struct {
	ID                   string
	Scope                Scope
	Pattern              routes.Pattern
	AuthRequired         bool
	OrganizationRequired bool
	SuperAdminRequired   bool
}

// Weight is the rule's specificity score: the pattern length, plus a fixed
// bonus for exact patterns so that an exact match always outranks any
// realistic prefix match.
func (r Rule) Weight() int {
	w := len(r.Pattern.Value())
	if r.Pattern.Kind() == routes.KindExact {
		w += exactBonus
	}
	return w
}

// exactBonus outranks any prefix by construction: no realistic pattern
// value approaches this length.
const exactBonus = 1000

// PublicRule marks a path family explicitly reachable without
// authentication. Public membership overrides any guard rule.
type PublicRule struct {
	ID      string
	Pattern routes.Pattern
}
