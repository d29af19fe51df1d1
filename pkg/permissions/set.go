// Package permissions defines the permission token vocabulary and a set
// abstraction with O(1) membership used by the evaluator.
package permissions

import "sort"

// Permission is an opaque capability token, e.g. "activity:read".
// Order between permissions is irrelevant; uniqueness matters.
type Permission string

// Set is a collection of unique permissions with O(1) membership.
// The zero value is an empty, usable set for reads; use NewSet to build one.
type Set map[Permission]struct{}

// NewSet builds a set from the given permissions, deduplicating.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// FromStrings builds a set from raw string tokens.
func FromStrings(tokens []string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[Permission(t)] = struct{}{}
	}
	return s
}

// Contains reports membership of a single permission.
func (s Set) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

// ContainsAll reports whether every required permission is held.
func (s Set) ContainsAll(required []Permission) bool {
	for _, p := range required {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Difference returns required \ s: the permissions in required that the set
// does not hold. Duplicates in required collapse; the result is sorted so
// callers render deterministic diagnostics.
func Difference(required []Permission, s Set) []Permission {
	seen := make(map[Permission]struct{}, len(required))
	var missing []Permission
	for _, p := range required {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if !s.Contains(p) {
			missing = append(missing, p)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Strings renders a permission slice as raw tokens, preserving order.
func Strings(perms []Permission) []string {
	if perms == nil {
		return nil
	}
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
