package guard

import (
	"sort"

	"github.com/gatehouse-io/gatehouse/pkg/routes"
)

// RuleSet is the declarative input a registry is built from. It is the
// in-memory form of the rule file (see pkg/config) and of the built-in
// defaults in rules.go.
type RuleSet struct {
	Bypass []routes.Pattern
	Public []PublicRule
	Guards []Rule
}

// Option augments a registry at construction time.
type Option func(*RuleSet)

// WithProtectedPrefixes appends one auth-required app guard per prefix.
// This is how externally derived section prefixes (navigation config and
// the like) enter the registry: as plain strings, nothing more.
func WithProtectedPrefixes(prefixes ...string) Option {
	return func(rs *RuleSet) {
		for _, p := range prefixes {
			norm := routes.Normalize(p)
			rs.Guards = append(rs.Guards, Rule{
				ID:           "section:" + norm,
				Scope:        ScopeApp,
				Pattern:      routes.Prefix(norm),
				AuthRequired: true,
			})
		}
	}
}

// Registry is the immutable, process-wide collection of bypass patterns,
// public routes and guard rules. Built exactly once; safe for unbounded
// concurrent reads with no synchronization because no writer exists after
// construction.
type Registry struct {
	bypass []routes.Pattern
	public []PublicRule
	guards []Rule
}

// NewRegistry builds a registry from a rule set plus options. Guard rules
// are pre-sorted by descending weight with original position as the stable
// tie-break, so resolution is a first-match scan.
func NewRegistry(rs RuleSet, opts ...Option) *Registry {
	for _, opt := range opts {
		opt(&rs)
	}

	guards := make([]Rule, len(rs.Guards))
	copy(guards, rs.Guards)
	sort.SliceStable(guards, func(i, j int) bool {
		return guards[i].Weight() > guards[j].Weight()
	})

	bypass := make([]routes.Pattern, len(rs.Bypass))
	copy(bypass, rs.Bypass)
	public := make([]PublicRule, len(rs.Public))
	copy(public, rs.Public)

	return &Registry{bypass: bypass, public: public, guards: guards}
}

// IsBypassed reports whether the path is exempt from all authorization
// logic (static assets, health probes).
func (reg *Registry) IsBypassed(path string) bool {
	path = routes.Normalize(path)
	for _, p := range reg.bypass {
		if p.Matches(path) {
			return true
		}
	}
	return false
}

// IsPublic reports whether the path is explicitly reachable without
// authentication. Evaluated independently of, and prior to, guard rules:
// a public listing wins even when a guard rule would match.
func (reg *Registry) IsPublic(path string) bool {
	path = routes.Normalize(path)
	for _, r := range reg.public {
		if r.Pattern.Matches(path) {
			return true
		}
	}
	return false
}

// Resolve returns the single governing rule for the path, or nil when no
// rule matches. Nil means "not specially protected", never "denied".
//
// Among matching rules the highest specificity weight wins; rules are
// pre-sorted, so the first match is the winner. Exact weight ties fall back
// to registry order — deterministic across calls, but which rule wins a
// degenerate tie is not a documented contract.
func (reg *Registry) Resolve(path string) *Rule {
	path = routes.Normalize(path)
	for i := range reg.guards {
		if reg.guards[i].Pattern.Matches(path) {
			rule := reg.guards[i]
			return &rule
		}
	}
	return nil
}

// Guards returns a copy of the guard rules in resolution order, for
// operator tooling and tests.
func (reg *Registry) Guards() []Rule {
	out := make([]Rule, len(reg.guards))
	copy(out, reg.guards)
	return out
}
