package guard_test

import (
	"testing"

	"github.com/gatehouse-io/gatehouse/pkg/guard"
	"github.com/gatehouse-io/gatehouse/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LongestPrefixWins(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "api", Scope: guard.ScopeAPI, Pattern: routes.Prefix("/api"), AuthRequired: true},
			{ID: "api-admin", Scope: guard.ScopeAPI, Pattern: routes.Prefix("/api/admin"), AuthRequired: true},
		},
	})

	rule := reg.Resolve("/api/admin/users")
	require.NotNil(t, rule)
	assert.Equal(t, "api-admin", rule.ID)
}

func TestResolve_ExactOutranksPrefix(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "admin-tree", Pattern: routes.Prefix("/admin"), AuthRequired: true},
			{ID: "admin-exact", Pattern: routes.Exact("/admin"), AuthRequired: true},
		},
	})

	rule := reg.Resolve("/admin")
	require.NotNil(t, rule)
	assert.Equal(t, "admin-exact", rule.ID)

	// Nested paths never match the exact rule.
	rule = reg.Resolve("/admin/settings")
	require.NotNil(t, rule)
	assert.Equal(t, "admin-tree", rule.ID)
}

func TestResolve_NoMatchReturnsNil(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "api", Pattern: routes.Prefix("/api"), AuthRequired: true},
		},
	})

	assert.Nil(t, reg.Resolve("/unrelated"))
}

func TestResolve_Deterministic(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "first", Pattern: routes.Prefix("/aaa"), AuthRequired: true},
			{ID: "second", Pattern: routes.Prefix("/aab"), AuthRequired: true},
		},
	})

	// Both rules tie on weight but only one matches each path; repeated
	// resolution must be stable either way.
	for i := 0; i < 10; i++ {
		rule := reg.Resolve("/aaa/x")
		require.NotNil(t, rule)
		assert.Equal(t, "first", rule.ID)
	}
}

func TestResolve_EqualWeightSamePathTieIsStable(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "billing-a", Pattern: routes.Exact("/billing"), AuthRequired: true},
			{ID: "billing-b", Pattern: routes.Exact("/billing"), AuthRequired: true, SuperAdminRequired: true},
		},
	})

	// Identical patterns tie exactly; registration order decides, and the
	// winner never changes across calls.
	for i := 0; i < 10; i++ {
		rule := reg.Resolve("/billing")
		require.NotNil(t, rule)
		assert.Equal(t, "billing-a", rule.ID)
		assert.False(t, rule.SuperAdminRequired)
	}
}

func TestResolve_PathNormalizedFirst(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Guards: []guard.Rule{
			{ID: "admin", Pattern: routes.Prefix("/admin"), AuthRequired: true},
		},
	})

	rule := reg.Resolve("admin/")
	require.NotNil(t, rule)
	assert.Equal(t, "admin", rule.ID)
}

func TestIsPublic_WinsOverGuards(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Public: []guard.PublicRule{
			{ID: "public:auth-api", Pattern: routes.Prefix("/api/auth")},
		},
		Guards: []guard.Rule{
			{ID: "api", Pattern: routes.Prefix("/api"), AuthRequired: true},
		},
	})

	// The guard rule matches too, but public membership is checked first
	// by the perimeter and is independent of guard resolution.
	assert.True(t, reg.IsPublic("/api/auth/callback"))
	assert.NotNil(t, reg.Resolve("/api/auth/callback"))
}

func TestIsBypassed(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{
		Bypass: []routes.Pattern{
			routes.Prefix("/static"),
			routes.Exact("/healthz"),
		},
	})

	assert.True(t, reg.IsBypassed("/static/app.css"))
	assert.True(t, reg.IsBypassed("/healthz"))
	assert.False(t, reg.IsBypassed("/healthz/deep"))
	assert.False(t, reg.IsBypassed("/api"))
}

func TestWithProtectedPrefixes(t *testing.T) {
	reg := guard.NewRegistry(guard.RuleSet{},
		guard.WithProtectedPrefixes("reports/", "exports"),
	)

	rule := reg.Resolve("/reports/monthly")
	require.NotNil(t, rule)
	assert.Equal(t, "section:/reports", rule.ID)
	assert.True(t, rule.AuthRequired)

	require.NotNil(t, reg.Resolve("/exports"))
	assert.Nil(t, reg.Resolve("/reportsarchive"))
}

func TestDefaultRuleSet(t *testing.T) {
	reg := guard.NewRegistry(guard.DefaultRuleSet())

	// Perimeter ordering: bypass, then public, then guards.
	assert.True(t, reg.IsBypassed("/static/logo.svg"))
	assert.True(t, reg.IsPublic("/login"))
	assert.False(t, reg.IsPublic("/dashboard"))

	rule := reg.Resolve("/api/admin/super/tenants")
	require.NotNil(t, rule)
	assert.Equal(t, "api:admin-super", rule.ID)
	assert.True(t, rule.SuperAdminRequired)

	rule = reg.Resolve("/dashboard")
	require.NotNil(t, rule)
	assert.True(t, rule.OrganizationRequired)

	assert.Nil(t, reg.Resolve("/nonexistent-section"))
}

func TestRuleWeight(t *testing.T) {
	prefix := guard.Rule{Pattern: routes.Prefix("/api")}
	exact := guard.Rule{Pattern: routes.Exact("/api")}

	assert.Equal(t, 4, prefix.Weight())
	assert.Equal(t, 1004, exact.Weight())
}
