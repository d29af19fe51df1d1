package authz_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver scripts the collaborator's behavior per test.
type fakeResolver struct {
	admin    authz.AdminResolution
	adminErr error

	session    *authz.Session
	sessionErr error
}

func (f *fakeResolver) ResolveAdminContext(ctx context.Context, _ http.Header) (authz.AdminResolution, error) {
	if err := ctx.Err(); err != nil {
		return authz.AdminResolution{}, err
	}
	return f.admin, f.adminErr
}

func (f *fakeResolver) ResolveSession(ctx context.Context, _ http.Header) (*authz.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.session, f.sessionErr
}

func resolvedContext(perms ...permissions.Permission) authz.AdminResolution {
	return authz.AdminResolution{
		Status: authz.AdminResolved,
		Context: &authz.Context{
			User:    authz.User{ID: "user-1", Email: "ops@example.com"},
			Session: authz.Session{UserID: "user-1", OrganizationID: "org-1"},
			Admin:   authz.Admin{Role: "operator", Permissions: permissions.NewSet(perms...)},
		},
	}
}

func TestEvaluate_EmptyRequirementAllowsResolvedContext(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext()})

	result, err := e.Evaluate(context.Background(), "admin.activity.read", nil, nil)

	require.NoError(t, err)
	assert.True(t, result.Allowed())
	require.NotNil(t, result.Context)
	assert.Equal(t, "user-1", result.Context.User.ID)
}

func TestEvaluate_MissingPermissions(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext()})

	result, err := e.Evaluate(context.Background(), "admin.activity.read",
		[]permissions.Permission{permissions.ActivityRead}, nil)

	require.NoError(t, err)
	require.False(t, result.Allowed())
	assert.Equal(t, http.StatusForbidden, result.Denial.StatusCode)
	assert.Equal(t, "admin.activity.read", result.Denial.Resource)
	assert.Equal(t, []permissions.Permission{permissions.ActivityRead}, result.Denial.MissingPermissions)
	assert.Equal(t, []permissions.Permission{permissions.ActivityRead}, result.Denial.RequiredPermissions)
}

func TestEvaluate_PartialPermissions(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext(permissions.ActivityRead)})

	result, err := e.Evaluate(context.Background(), "admin.analytics.write",
		[]permissions.Permission{permissions.ActivityRead, permissions.AnalyticsWrite}, nil)

	require.NoError(t, err)
	require.False(t, result.Allowed())
	assert.Equal(t, []permissions.Permission{permissions.AnalyticsWrite}, result.Denial.MissingPermissions)
}

func TestEvaluate_AllPermissionsHeld(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{
		admin: resolvedContext(permissions.ActivityRead, permissions.AnalyticsWrite),
	})

	result, err := e.Evaluate(context.Background(), "admin.analytics.write",
		[]permissions.Permission{permissions.ActivityRead, permissions.AnalyticsWrite}, nil)

	require.NoError(t, err)
	assert.True(t, result.Allowed())
}

func TestEvaluate_NoSessionAtAll(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{
		admin: authz.AdminResolution{Status: authz.NoAdminContext},
	})

	result, err := e.Evaluate(context.Background(), "admin.users.read",
		[]permissions.Permission{permissions.UsersRead}, nil)

	require.NoError(t, err)
	require.False(t, result.Allowed())
	assert.Equal(t, http.StatusUnauthorized, result.Denial.StatusCode)
	assert.Equal(t, authz.DetailAuthRequired, result.Denial.Details)
}

func TestEvaluate_SessionWithoutAdminRole(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{
		admin:   authz.AdminResolution{Status: authz.NoAdminContext},
		session: &authz.Session{UserID: "user-2"},
	})

	required := []permissions.Permission{permissions.UsersRead, permissions.UsersWrite}
	result, err := e.Evaluate(context.Background(), "admin.users.write", required, nil)

	require.NoError(t, err)
	require.False(t, result.Allowed())
	assert.Equal(t, http.StatusForbidden, result.Denial.StatusCode)
	assert.Equal(t, authz.DetailAdminRoleRequired, result.Denial.Details)
	assert.Equal(t, required, result.Denial.MissingPermissions)
	assert.Equal(t, required, result.Denial.RequiredPermissions)
}

// trackingRecorder counts lifecycle brackets alongside recorded outcomes.
type trackingRecorder struct {
	started  int
	finished int
	outcomes []string
}

func (r *trackingRecorder) RecordDecision(_ context.Context, _, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *trackingRecorder) EvalStarted(ctx context.Context, _ string) (context.Context, func()) {
	r.started++
	return ctx, func() { r.finished++ }
}

func TestEvaluate_TrackerBracketsEveryEvaluation(t *testing.T) {
	rec := &trackingRecorder{}
	e := authz.NewEvaluator(
		&fakeResolver{admin: resolvedContext(permissions.ActivityRead)},
		authz.WithDecisionRecorder(rec),
	)

	_, err := e.Evaluate(context.Background(), "admin.activity.read",
		[]permissions.Permission{permissions.ActivityRead}, nil)
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), "admin.analytics.write",
		[]permissions.Permission{permissions.AnalyticsWrite}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.started)
	assert.Equal(t, 2, rec.finished)
	assert.Equal(t, []string{"allowed", "denied"}, rec.outcomes)
}

func TestEvaluate_TrackerFinishesOnResolverFault(t *testing.T) {
	rec := &trackingRecorder{}
	e := authz.NewEvaluator(
		&fakeResolver{adminErr: errors.New("identity service down")},
		authz.WithDecisionRecorder(rec),
	)

	_, err := e.Evaluate(context.Background(), "admin.users.read", nil, nil)

	require.Error(t, err)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 1, rec.finished)
	assert.Empty(t, rec.outcomes)
}

func TestEvaluate_ResolvedWithoutContextIsAFault(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{
		admin: authz.AdminResolution{Status: authz.AdminResolved},
	})

	result, err := e.Evaluate(context.Background(), "admin.users.read",
		[]permissions.Permission{permissions.UsersRead}, nil)

	require.Error(t, err)
	assert.Nil(t, result.Context)
	assert.Nil(t, result.Denial)
}

func TestEvaluate_UnexpectedFailurePropagates(t *testing.T) {
	fault := errors.New("upstream identity service unavailable")
	e := authz.NewEvaluator(&fakeResolver{adminErr: fault})

	result, err := e.Evaluate(context.Background(), "admin.users.read", nil, nil)

	require.ErrorIs(t, err, fault)
	assert.Nil(t, result.Context)
	assert.Nil(t, result.Denial)
}

func TestEvaluate_SessionFallbackFailurePropagates(t *testing.T) {
	fault := errors.New("session store timeout")
	e := authz.NewEvaluator(&fakeResolver{
		admin:      authz.AdminResolution{Status: authz.NoAdminContext},
		sessionErr: fault,
	})

	_, err := e.Evaluate(context.Background(), "admin.users.read", nil, nil)

	require.ErrorIs(t, err, fault)
}

func TestEvaluate_CancellationProducesNoResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext()})
	result, err := e.Evaluate(ctx, "admin.users.read", nil, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result.Context)
	assert.Nil(t, result.Denial)
}

func TestEnsureAPIPermissions(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext(permissions.ActivityRead)})

	req, _ := http.NewRequest(http.MethodGet, "/api/activity", nil)
	result, err := e.EnsureAPIPermissions(req, authz.PermissionSpec{
		Resource:            "admin.activity.read",
		RequiredPermissions: []permissions.Permission{permissions.ActivityRead},
	})

	require.NoError(t, err)
	assert.True(t, result.Allowed())
}

func TestEvaluate_DeterministicForSameInputs(t *testing.T) {
	e := authz.NewEvaluator(&fakeResolver{admin: resolvedContext(permissions.ActivityRead)})
	required := []permissions.Permission{permissions.AnalyticsWrite}

	first, err := e.Evaluate(context.Background(), "admin.analytics.write", required, nil)
	require.NoError(t, err)
	second, err := e.Evaluate(context.Background(), "admin.analytics.write", required, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Allowed(), second.Allowed())
	assert.Equal(t, first.Denial.MissingPermissions, second.Denial.MissingPermissions)
}
