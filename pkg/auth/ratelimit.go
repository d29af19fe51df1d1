package auth

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gatehouse-io/gatehouse/pkg/api"
	"github.com/gatehouse-io/gatehouse/pkg/limiter"
)

// RateLimitMiddleware enforces per-actor rate limiting at the HTTP layer.
// The actor is the resolved session when the guard middleware ran first,
// otherwise the remote IP. Fails open when the store is nil or errors, so a
// limiter outage never blocks all traffic.
func RateLimitMiddleware(store limiter.Store, policy limiter.Policy) func(http.Handler) http.Handler {
	// A zero or negative RPM is a misconfigured policy; clamp the hint so a
	// denial never divides by zero.
	retryAfter := 1
	if policy.RPM > 0 {
		retryAfter = 60 / policy.RPM
		if retryAfter < 1 {
			retryAfter = 1
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			actorID := remoteIP(r)
			if session, err := SessionFrom(r.Context()); err == nil {
				actorID = fmt.Sprintf("%s/%s", session.OrganizationID, session.UserID)
			}

			allowed, err := store.Allow(r.Context(), actorID, policy, 1)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				api.WriteTooManyRequests(w, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = strings.TrimSuffix(strings.TrimPrefix(r.RemoteAddr, "["), "]")
	}
	return ip
}
