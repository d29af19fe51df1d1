package main

import (
	"encoding/json"
	"net/http"

	"github.com/gatehouse-io/gatehouse/pkg/api"
	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// resourceHandler wraps a handler with a permission requirement. The
// evaluator's denial is rendered as-is; unexpected resolver faults become
// 500s.
func resourceHandler(evaluator *authz.Evaluator, spec authz.PermissionSpec, next func(http.ResponseWriter, *http.Request, *authz.Context)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := evaluator.EnsureAPIPermissions(r, spec)
		if err != nil {
			api.WriteInternal(w, err)
			return
		}
		if !result.Allowed() {
			api.WriteDenial(w, result.Denial)
			return
		}
		next(w, r, result.Context)
	}
}

func registerHandlers(mux *http.ServeMux, evaluator *authz.Evaluator) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/api/activity", resourceHandler(evaluator,
		authz.PermissionSpec{
			Resource:            "admin.activity.read",
			RequiredPermissions: []permissions.Permission{permissions.ActivityRead},
		},
		func(w http.ResponseWriter, r *http.Request, ctx *authz.Context) {
			writeJSON(w, map[string]any{
				"resource": "activity",
				"viewer":   ctx.User.ID,
			})
		}))

	mux.Handle("/api/admin/users", resourceHandler(evaluator,
		authz.PermissionSpec{
			Resource:            "admin.users.read",
			RequiredPermissions: []permissions.Permission{permissions.UsersRead},
		},
		func(w http.ResponseWriter, r *http.Request, ctx *authz.Context) {
			writeJSON(w, map[string]any{
				"resource": "users",
				"role":     ctx.Admin.Role,
			})
		}))

	mux.Handle("/api/analytics", resourceHandler(evaluator,
		authz.PermissionSpec{
			Resource:            "admin.analytics.write",
			RequiredPermissions: []permissions.Permission{permissions.AnalyticsRead, permissions.AnalyticsWrite},
		},
		func(w http.ResponseWriter, r *http.Request, ctx *authz.Context) {
			writeJSON(w, map[string]any{"resource": "analytics"})
		}))
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
