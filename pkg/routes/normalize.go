// Package routes provides path normalization and the exact/prefix pattern
// language used by the guard registry.
package routes

import "strings"

// Normalize canonicalizes a path string into the comparable form used by
// every pattern in the registry: a leading slash, and no trailing slash
// unless the path is the root.
//
// Exactly one trailing slash is stripped; "/a//" normalizes to "/a/".
// The function is pure and idempotent.
func Normalize(value string) string {
	if value == "" || value == "/" {
		return "/"
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	if len(value) > 1 && strings.HasSuffix(value, "/") {
		value = value[:len(value)-1]
	}
	return value
}
