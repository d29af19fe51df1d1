package auth

import (
	"log/slog"
	"net/http"

	"github.com/gatehouse-io/gatehouse/pkg/api"
	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/guard"
)

// GuardMiddleware enforces the route-guard registry at the perimeter.
//
// Order per request: bypass patterns skip everything; public routes pass
// unauthenticated; otherwise the single governing guard rule (if any) is
// resolved and its auth/organization/super-admin scope enforced against the
// session produced by the resolver. Resolver faults are not absorbed — they
// surface as 500s here, the outermost request layer.
func GuardMiddleware(reg *guard.Registry, resolver authz.ContextResolver) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "perimeter")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if reg.IsBypassed(path) {
				next.ServeHTTP(w, r)
				return
			}
			if reg.IsPublic(path) {
				next.ServeHTTP(w, r)
				return
			}

			rule := reg.Resolve(path)
			if rule == nil || !rule.AuthRequired {
				// Not specially protected. Not a denial.
				next.ServeHTTP(w, r)
				return
			}

			session, err := resolver.ResolveSession(r.Context(), r.Header)
			if err != nil {
				api.WriteInternal(w, err)
				return
			}
			if session == nil {
				logger.Warn("unauthenticated request to guarded route",
					"path", path,
					"rule", rule.ID,
				)
				api.WriteUnauthorized(w)
				return
			}

			if rule.OrganizationRequired && session.OrganizationID == "" {
				logger.Warn("session lacks organization context",
					"path", path,
					"rule", rule.ID,
					"user_id", session.UserID,
				)
				api.WriteForbidden(w, authz.DetailOrgContextRequired)
				return
			}

			if rule.SuperAdminRequired && !session.SuperAdmin {
				logger.Warn("session lacks super admin scope",
					"path", path,
					"rule", rule.ID,
					"user_id", session.UserID,
				)
				api.WriteForbidden(w, authz.DetailSuperAdminRequired)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
