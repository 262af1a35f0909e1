package auth

import (
	"context"
	"slices"

	"bizadmin/internal/domain"
)

// CurrentUser is the authenticated principal of a request.
type CurrentUser interface {
	ID() int64
	Username() string
	Roles() []string
	Permissions() []string
	HasPermission(code string) bool
	IsAuthenticated() bool
}

type principal struct {
	rc    domain.RequestContext
	authn bool
}

func (p principal) ID() int64             { return p.rc.UserID }
func (p principal) Username() string      { return p.rc.Username }
func (p principal) Roles() []string       { return p.rc.Roles }
func (p principal) Permissions() []string { return p.rc.Permissions }
func (p principal) IsAuthenticated() bool { return p.authn }

func (p principal) HasPermission(code string) bool {
	return p.authn && slices.Contains(p.rc.Permissions, code)
}

// Anonymous is the principal used when no valid token was presented.
var Anonymous CurrentUser = principal{}

// WithClaims stores the principal derived from verified claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	id, _ := c.UserID()
	return domain.WithRequestContext(ctx, domain.RequestContext{
		UserID:      id,
		Username:    c.Username,
		Roles:       c.Roles,
		Permissions: c.Permissions,
	})
}

// FromContext returns the request principal, or Anonymous.
func FromContext(ctx context.Context) CurrentUser {
	rc, ok := domain.RequestContextFrom(ctx)
	if !ok || rc.UserID == 0 {
		return Anonymous
	}
	return principal{rc: rc, authn: true}
}
