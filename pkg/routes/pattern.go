package routes

// PatternKind discriminates the two supported match semantics.
type PatternKind string

const (
	// KindExact matches a path only when it equals the pattern value.
	KindExact PatternKind = "exact"
	// KindPrefix matches the pattern value itself and any path nested
	// under it ("/admin" matches "/admin/dashboard" but not
	// "/administrator").
	KindPrefix PatternKind = "prefix"
)

// Pattern is an immutable exact or prefix path pattern. The value is
// normalized at construction, so matching never re-normalizes it.
type Pattern struct {
	kind  PatternKind
	value string
}

// Exact builds an exact-match pattern.
func Exact(value string) Pattern {
	return Pattern{kind: KindExact, value: Normalize(value)}
}

// Prefix builds a prefix-match pattern.
func Prefix(value string) Pattern {
	return Pattern{kind: KindPrefix, value: Normalize(value)}
}

// Kind returns the pattern's match semantics.
func (p Pattern) Kind() PatternKind { return p.kind }

// Value returns the normalized pattern value.
func (p Pattern) Value() string { return p.value }

// Matches reports whether path satisfies the pattern. The candidate path is
// normalized before comparison.
func (p Pattern) Matches(path string) bool {
	path = Normalize(path)
	switch p.kind {
	case KindExact:
		return path == p.value
	case KindPrefix:
		if path == p.value {
			return true
		}
		// A prefix of "/" matches every path: every normalized path
		// starts with "/".
		if p.value == "/" {
			return true
		}
		return len(path) > len(p.value) && path[:len(p.value)] == p.value && path[len(p.value)] == '/'
	default:
		return false
	}
}
