package authz

import (
	"net/http"

	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// Fixed detail strings carried on denials. The response builder owns the
// wire phrasing; these identify the deny reason.
const (
	DetailAuthRequired       = "Authentication required"
	DetailAdminRoleRequired  = "Admin role required"
	DetailMissingPermissions = "Missing required permissions"
	DetailOrgContextRequired = "Organization context required"
	DetailSuperAdminRequired = "Super admin access required"
)

// Denial describes why a request was refused and exactly which permissions
// were missing.
type Denial struct {
	StatusCode          int
	Resource            string
	RequiredPermissions []permissions.Permission
	MissingPermissions  []permissions.Permission
	Details             string
}

// Result is the evaluator's sum type: exactly one of Context or Denial is
// set. Callers must not inspect partial state beyond the two arms.
type Result struct {
	Context *Context
	Denial  *Denial
}

// Allowed reports whether the evaluation succeeded.
func (r Result) Allowed() bool { return r.Denial == nil }

func allowed(c *Context) Result {
	return Result{Context: c}
}

func denyUnauthenticated() Result {
	return Result{Denial: &Denial{
		StatusCode: http.StatusUnauthorized,
		Details:    DetailAuthRequired,
	}}
}

func denyMissingRole(resource string, required []permissions.Permission) Result {
	return Result{Denial: &Denial{
		StatusCode:          http.StatusForbidden,
		Resource:            resource,
		RequiredPermissions: required,
		MissingPermissions:  required,
		Details:             DetailAdminRoleRequired,
	}}
}

func denyMissingPermissions(resource string, required, missing []permissions.Permission) Result {
	return Result{Denial: &Denial{
		StatusCode:          http.StatusForbidden,
		Resource:            resource,
		RequiredPermissions: required,
		MissingPermissions:  missing,
		Details:             DetailMissingPermissions,
	}}
}
