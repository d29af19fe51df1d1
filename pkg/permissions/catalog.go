package permissions

// The fixed permission enumeration. Every permission a resource handler may
// require is declared here; the context-resolver collaborator maps roles to
// subsets of this catalog.
const (
	ActivityRead Permission = "activity:read"

	AnalyticsRead  Permission = "analytics:read"
	AnalyticsWrite Permission = "analytics:write"

	OrganizationsRead  Permission = "organizations:read"
	OrganizationsWrite Permission = "organizations:write"

	UsersRead  Permission = "users:read"
	UsersWrite Permission = "users:write"

	NotificationsRead  Permission = "notifications:read"
	NotificationsWrite Permission = "notifications:write"

	BillingRead  Permission = "billing:read"
	BillingWrite Permission = "billing:write"

	SettingsRead  Permission = "settings:read"
	SettingsWrite Permission = "settings:write"

	AuditRead Permission = "audit:read"
)

// Catalog lists every known permission token, for operator tooling and for
// callers that need the full enumeration. Matching itself never consults it.
func Catalog() []Permission {
	return []Permission{
		ActivityRead,
		AnalyticsRead,
		AnalyticsWrite,
		OrganizationsRead,
		OrganizationsWrite,
		UsersRead,
		UsersWrite,
		NotificationsRead,
		NotificationsWrite,
		BillingRead,
		BillingWrite,
		SettingsRead,
		SettingsWrite,
		AuditRead,
	}
}

// Known reports whether a token belongs to the fixed enumeration.
func Known(p Permission) bool {
	for _, k := range Catalog() {
		if k == p {
			return true
		}
	}
	return false
}
