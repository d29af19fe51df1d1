package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/permissions"
)

// GatehouseClaims are the JWT claims the demo resolver expects. A real
// deployment replaces this resolver with its own identity collaborator;
// the core only consumes the authz.ContextResolver interface.
type GatehouseClaims struct {
	jwt.RegisteredClaims
	Email          string   `json:"email"`
	OrganizationID string   `json:"org_id"`
	SuperAdmin     bool     `json:"super_admin"`
	AdminRole      string   `json:"admin_role"`
	Permissions    []string `json:"permissions"`
}

// jwtResolver resolves sessions and admin contexts from a signed bearer
// token. An absent or malformed token is "no identity", not a fault.
type jwtResolver struct {
	secret []byte
}

func newJWTResolver(secret string) *jwtResolver {
	return &jwtResolver{secret: []byte(secret)}
}

func (j *jwtResolver) claims(ctx context.Context, headers http.Header) (*GatehouseClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := headers.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil
	}

	claims := &GatehouseClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		// Invalid credentials resolve to no identity; the perimeter
		// turns that into a 401.
		return nil, nil
	}
	return claims, nil
}

func (j *jwtResolver) ResolveSession(ctx context.Context, headers http.Header) (*authz.Session, error) {
	claims, err := j.claims(ctx, headers)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, nil
	}
	return &authz.Session{
		UserID:         claims.Subject,
		Email:          claims.Email,
		OrganizationID: claims.OrganizationID,
		SuperAdmin:     claims.SuperAdmin,
	}, nil
}

func (j *jwtResolver) ResolveAdminContext(ctx context.Context, headers http.Header) (authz.AdminResolution, error) {
	claims, err := j.claims(ctx, headers)
	if err != nil {
		return authz.AdminResolution{}, err
	}
	if claims == nil || claims.AdminRole == "" {
		return authz.AdminResolution{Status: authz.NoAdminContext}, nil
	}

	return authz.AdminResolution{
		Status: authz.AdminResolved,
		Context: &authz.Context{
			User: authz.User{ID: claims.Subject, Email: claims.Email},
			Session: authz.Session{
				UserID:         claims.Subject,
				Email:          claims.Email,
				OrganizationID: claims.OrganizationID,
				SuperAdmin:     claims.SuperAdmin,
			},
			Admin: authz.Admin{
				Role:        claims.AdminRole,
				Permissions: permissions.FromStrings(claims.Permissions),
				SuperAdmin:  claims.SuperAdmin,
			},
		},
	}, nil
}
