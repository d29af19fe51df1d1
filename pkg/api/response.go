// Package api renders deny results into the fixed wire-level payloads.
// The mapping is pure; writers are thin wrappers over it.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// Wire detail for 401 responses. The denial carries the shorter reason
// string; the wire always renders this sentence.
const unauthorizedDetails = "Authentication required to access this resource."

// DenyPayload is the JSON body of every 401/403 response.
type DenyPayload struct {
	Error               string   `json:"error"`
	Resource            string   `json:"resource,omitempty"`
	Details             string   `json:"details"`
	RequiredPermissions []string `json:"requiredPermissions,omitempty"`
	MissingPermissions  []string `json:"missingPermissions,omitempty"`
}

// Payload maps a denial to its status code and wire body. Pure and
// side-effect free; Allowed results have no wire representation.
func Payload(d *authz.Denial) (int, DenyPayload) {
	if d.StatusCode == http.StatusUnauthorized {
		return http.StatusUnauthorized, DenyPayload{
			Error:   "Unauthorized",
			Details: unauthorizedDetails,
		}
	}
	return d.StatusCode, DenyPayload{
		Error:               "Forbidden",
		Resource:            d.Resource,
		Details:             d.Details,
		RequiredPermissions: permissions.Strings(d.RequiredPermissions),
		MissingPermissions:  permissions.Strings(d.MissingPermissions),
	}
}

// WriteDenial renders a denial onto the response.
func WriteDenial(w http.ResponseWriter, d *authz.Denial) {
	status, payload := Payload(d)
	writeJSON(w, status, payload)
}

// WriteUnauthorized writes the standard 401 body.
func WriteUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, DenyPayload{
		Error:   "Unauthorized",
		Details: unauthorizedDetails,
	})
}

// WriteForbidden writes a 403 body without permission diagnostics, for
// scope failures at the perimeter (organization or super-admin context).
func WriteForbidden(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusForbidden, DenyPayload{
		Error:   "Forbidden",
		Details: details,
	})
}

// WriteTooManyRequests writes a 429 with a Retry-After header.
func WriteTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSecs))
	writeJSON(w, http.StatusTooManyRequests, map[string]string{
		"error":   "Too Many Requests",
		"details": "Rate limit exceeded. Retry after the specified interval.",
	})
}

// WriteInternal writes a 500 response. The err is logged but never exposed
// to the client.
func WriteInternal(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal Server Error",
		"details": "An unexpected error occurred. Please try again later.",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
