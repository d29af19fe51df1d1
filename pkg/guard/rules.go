package guard

import "github.com/gatehouse-io/gatehouse/pkg/routes"

// DefaultRuleSet is the static declarative rule list the perimeter ships
// with. Deployments replace or extend it via the rule file (pkg/config) and
// WithProtectedPrefixes.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Bypass: []routes.Pattern{
			routes.Prefix("/static"),
			routes.Prefix("/assets"),
			routes.Prefix("/_next"),
			routes.Exact("/favicon.ico"),
			routes.Exact("/robots.txt"),
			routes.Exact("/healthz"),
			routes.Exact("/readyz"),
			routes.Exact("/metrics"),
		},
		Public: []PublicRule{
			{ID: "public:landing", Pattern: routes.Exact("/")},
			{ID: "public:login", Pattern: routes.Exact("/login")},
			{ID: "public:signup", Pattern: routes.Exact("/signup")},
			{ID: "public:password-reset", Pattern: routes.Prefix("/password-reset")},
			{ID: "public:auth-api", Pattern: routes.Prefix("/api/auth")},
			{ID: "public:invite-accept", Pattern: routes.Prefix("/invites/accept")},
			{ID: "public:docs", Pattern: routes.Prefix("/docs")},
			{ID: "public:pricing", Pattern: routes.Exact("/pricing")},
			{ID: "public:terms", Pattern: routes.Exact("/terms")},
			{ID: "public:privacy", Pattern: routes.Exact("/privacy")},
		},
		Guards: []Rule{
			// Application sections. Organization-scoped pages require an
			// active organization on the session.
			{ID: "app:dashboard", Scope: ScopeApp, Pattern: routes.Prefix("/dashboard"), AuthRequired: true, OrganizationRequired: true},
			{ID: "app:activity", Scope: ScopeApp, Pattern: routes.Prefix("/activity"), AuthRequired: true, OrganizationRequired: true},
			{ID: "app:analytics", Scope: ScopeApp, Pattern: routes.Prefix("/analytics"), AuthRequired: true, OrganizationRequired: true},
			{ID: "app:members", Scope: ScopeApp, Pattern: routes.Prefix("/members"), AuthRequired: true, OrganizationRequired: true},
			{ID: "app:notifications", Scope: ScopeApp, Pattern: routes.Prefix("/notifications"), AuthRequired: true},
			{ID: "app:billing", Scope: ScopeApp, Pattern: routes.Prefix("/billing"), AuthRequired: true, OrganizationRequired: true},
			{ID: "app:settings", Scope: ScopeApp, Pattern: routes.Prefix("/settings"), AuthRequired: true},
			{ID: "app:onboarding", Scope: ScopeApp, Pattern: routes.Prefix("/onboarding"), AuthRequired: true},

			// Admin console. The exact landing page and everything under
			// it require auth; the super-admin area additionally requires
			// the super-admin flag.
			{ID: "app:admin", Scope: ScopeApp, Pattern: routes.Exact("/admin"), AuthRequired: true},
			{ID: "app:admin-tree", Scope: ScopeApp, Pattern: routes.Prefix("/admin"), AuthRequired: true},
			{ID: "app:admin-super", Scope: ScopeApp, Pattern: routes.Prefix("/admin/super"), AuthRequired: true, SuperAdminRequired: true},

			// API families.
			{ID: "api:root", Scope: ScopeAPI, Pattern: routes.Prefix("/api"), AuthRequired: true},
			{ID: "api:admin", Scope: ScopeAPI, Pattern: routes.Prefix("/api/admin"), AuthRequired: true},
			{ID: "api:admin-super", Scope: ScopeAPI, Pattern: routes.Prefix("/api/admin/super"), AuthRequired: true, SuperAdminRequired: true},
			{ID: "api:organizations", Scope: ScopeAPI, Pattern: routes.Prefix("/api/organizations"), AuthRequired: true, OrganizationRequired: true},
			{ID: "api:activity", Scope: ScopeAPI, Pattern: routes.Prefix("/api/activity"), AuthRequired: true, OrganizationRequired: true},
			{ID: "api:analytics", Scope: ScopeAPI, Pattern: routes.Prefix("/api/analytics"), AuthRequired: true, OrganizationRequired: true},
			{ID: "api:notifications", Scope: ScopeAPI, Pattern: routes.Prefix("/api/notifications"), AuthRequired: true},
			{ID: "api:billing", Scope: ScopeAPI, Pattern: routes.Prefix("/api/billing"), AuthRequired: true, OrganizationRequired: true},
			{ID: "api:users", Scope: ScopeAPI, Pattern: routes.Prefix("/api/users"), AuthRequired: true},
			{ID: "api:audit", Scope: ScopeAPI, Pattern: routes.Prefix("/api/audit"), AuthRequired: true},
		},
	}
}
