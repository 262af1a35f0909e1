package services

import (
	"context"
	"testing"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/config"
	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/metrics"
	"bizadmin/internal/repositories"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Secret123"

type authFixture struct {
	f       *fakeSet
	issuer  *auth.Issuer
	hasher  *auth.PasswordHasher
	metrics *metrics.Metrics
	auth    AuthService
	users   UserService
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	f := newFakeSet()
	issuer := auth.NewIssuer(config.JWTConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		Issuer:     "bizadmin",
		Audience:   "bizadmin-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	hasher := auth.NewPasswordHasher(config.AuthConfig{
		BcryptCost:     bcrypt.MinCost,
		PasswordPolicy: config.PasswordPolicy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true},
	})
	m := metrics.New()
	opts := Options{Now: func() time.Time { return time.Now().UTC() }}
	return authFixture{
		f:       f,
		issuer:  issuer,
		hasher:  hasher,
		metrics: m,
		auth: NewAuthService(AuthDeps{
			Users:       f.users,
			Roles:       f.roles,
			Tokens:      f.tokens,
			Issuer:      issuer,
			Hasher:      hasher,
			Metrics:     m,
			RefreshTTL:  24 * time.Hour,
			DefaultRole: UserRole,
		}, opts),
		users: NewUserService(f.users, f.roles, f.companies, f.tokens, hasher, opts),
	}
}

// seedUser stores an active user holding role, with testPassword.
func (af authFixture) seedUser(t *testing.T, username string, roles ...domain.Role) *domain.User {
	t.Helper()
	hash, err := af.hasher.Hash(testPassword)
	require.NoError(t, err)
	return af.f.users.seed(&domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        roles,
	})
}

func userCtx(u *domain.User) context.Context {
	return domain.WithRequestContext(context.Background(), domain.RequestContext{UserID: u.ID, Username: u.Username})
}

func TestRegisterAssignsDefaultRoleAndSignsIn(t *testing.T) {
	af := newAuthFixture(t)
	read := af.f.permissions.seed(&domain.Permission{Code: "countries.read"})
	af.f.roles.seed(&domain.Role{Name: UserRole, IsSystem: true, Permissions: []domain.Permission{*read}})

	resp, err := af.auth.Register(context.Background(), dto.RegisterRequest{
		Username: "Alice", Email: "Alice@Example.com", FullName: "Alice", Password: testPassword,
	}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, []string{UserRole}, resp.User.Roles)
	assert.Equal(t, []string{"countries.read"}, resp.User.Permissions)

	claims, err := af.issuer.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"countries.read"}, claims.Permissions)

	stored, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(resp.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", stored.CreatedByIP)
	assert.NotEqual(t, resp.RefreshToken, stored.TokenHash)

	_, err = af.auth.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", FullName: "A", Password: testPassword,
	}, "")
	assert.True(t, domain.IsConflict(err))

	_, err = af.auth.Register(context.Background(), dto.RegisterRequest{
		Username: "weak", Email: "weak@example.com", FullName: "W", Password: "password",
	}, "")
	assert.True(t, domain.IsValidation(err))
}

// authEvents reads bizadmin_auth_events_total{event,result} from the registry.
func authEvents(t *testing.T, reg *prometheus.Registry, event, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "bizadmin_auth_events_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["event"] == event && labels["result"] == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestLoginUsesOneMessageForEveryFailure(t *testing.T) {
	af := newAuthFixture(t)
	af.seedUser(t, "bob")
	inactive := af.seedUser(t, "carol")
	inactive.IsActive = false
	ctx := repositories.Begin(context.Background())
	require.NoError(t, af.f.users.Update(ctx, inactive))
	require.NoError(t, af.f.users.SaveChanges(ctx))

	var messages []string
	for _, req := range []dto.LoginRequest{
		{Login: "bob", Password: "wrong"},
		{Login: "nobody", Password: testPassword},
		{Login: "carol", Password: testPassword},
	} {
		_, err := af.auth.Login(context.Background(), req, "")
		require.Error(t, err)
		var ue domain.UnauthorizedError
		require.ErrorAs(t, err, &ue)
		messages = append(messages, ue.Msg)
	}
	assert.Equal(t, []string{invalidCredentials, invalidCredentials, invalidCredentials}, messages)
	assert.Equal(t, 3.0, authEvents(t, af.metrics.Registry(), "login", "failure"))
}

func TestLoginByEmailStampsLastLogin(t *testing.T) {
	af := newAuthFixture(t)
	u := af.seedUser(t, "bob")

	resp, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: " BOB@example.com ", Password: testPassword}, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	stored, err := af.f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, 1.0, authEvents(t, af.metrics.Registry(), "login", "success"))
}

func TestRefreshRotatesToken(t *testing.T) {
	af := newAuthFixture(t)
	af.seedUser(t, "bob")
	first, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	second, err := af.auth.Refresh(context.Background(), first.RefreshToken, "10.0.0.3")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	old, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(first.RefreshToken))
	require.NoError(t, err)
	assert.True(t, old.IsRevoked())
	assert.Equal(t, reasonRotated, old.RevokeReason)
	assert.Equal(t, auth.HashToken(second.RefreshToken), old.ReplacedByHash)
	assert.Equal(t, "10.0.0.3", old.RevokedByIP)

	_, err = af.auth.Refresh(context.Background(), "not-a-token", "")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestRefreshReuseRevokesEverySession(t *testing.T) {
	af := newAuthFixture(t)
	af.seedUser(t, "bob")
	first, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)
	other, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)
	rotated, err := af.auth.Refresh(context.Background(), first.RefreshToken, "")
	require.NoError(t, err)

	// replaying the rotated-out token
	_, err = af.auth.Refresh(context.Background(), first.RefreshToken, "10.6.6.6")
	assert.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, 1.0, authEvents(t, af.metrics.Registry(), "refresh", "reuse_detected"))

	for _, raw := range []string{other.RefreshToken, rotated.RefreshToken} {
		tok, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(raw))
		require.NoError(t, err)
		assert.True(t, tok.IsRevoked())
		assert.Equal(t, reasonReuseDetected, tok.RevokeReason)
		_, err = af.auth.Refresh(context.Background(), raw, "")
		assert.True(t, domain.IsUnauthorized(err))
	}
}

func TestConcurrentRefreshOfSameTokenIsReuse(t *testing.T) {
	af := newAuthFixture(t)
	af.seedUser(t, "bob")
	first, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	// a second rotation of the same token commits between our read and our write
	var winner dto.AuthResponse
	af.f.tokens.afterGet = func() {
		winner, err = af.auth.Refresh(context.Background(), first.RefreshToken, "10.0.0.1")
		require.NoError(t, err)
	}

	_, err = af.auth.Refresh(context.Background(), first.RefreshToken, "10.0.0.2")
	assert.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, 1.0, authEvents(t, af.metrics.Registry(), "refresh", "success"))
	assert.Equal(t, 1.0, authEvents(t, af.metrics.Registry(), "refresh", "reuse_detected"))

	tok, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(winner.RefreshToken))
	require.NoError(t, err)
	assert.True(t, tok.IsRevoked())
	assert.Equal(t, reasonReuseDetected, tok.RevokeReason)

	old, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(first.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, auth.HashToken(winner.RefreshToken), old.ReplacedByHash, "winner's rotation is kept")
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	af := newAuthFixture(t)
	u := af.seedUser(t, "bob")
	raw, hash, err := auth.NewRefreshToken()
	require.NoError(t, err)
	af.f.tokens.seed(&domain.RefreshToken{UserID: u.ID, TokenHash: hash, ExpiresAt: time.Now().Add(-time.Minute)})

	_, err = af.auth.Refresh(context.Background(), raw, "")
	var ue domain.UnauthorizedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "refresh token expired", ue.Msg)
}

func TestRevokeOnlyOwnTokens(t *testing.T) {
	af := newAuthFixture(t)
	bob := af.seedUser(t, "bob")
	eve := af.seedUser(t, "eve")
	session, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	assert.True(t, domain.IsUnauthorized(af.auth.Revoke(context.Background(), session.RefreshToken, "")))
	assert.True(t, domain.IsNotFound(af.auth.Revoke(userCtx(eve), session.RefreshToken, "")))
	assert.True(t, domain.IsNotFound(af.auth.Revoke(userCtx(bob), "unknown", "")))

	require.NoError(t, af.auth.Revoke(userCtx(bob), session.RefreshToken, ""))
	assert.True(t, domain.IsConflict(af.auth.Revoke(userCtx(bob), session.RefreshToken, "")))
}

func TestLogoutAllAndChangePassword(t *testing.T) {
	af := newAuthFixture(t)
	bob := af.seedUser(t, "bob")
	for i := 0; i < 2; i++ {
		_, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
		require.NoError(t, err)
	}

	n, err := af.auth.LogoutAll(userCtx(bob), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	session, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	err = af.auth.ChangePassword(userCtx(bob), dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "Another123"}, "")
	assert.True(t, domain.IsValidation(err))
	err = af.auth.ChangePassword(userCtx(bob), dto.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "short"}, "")
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, af.auth.ChangePassword(userCtx(bob), dto.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "Another123"}, ""))
	_, err = af.auth.Refresh(context.Background(), session.RefreshToken, "")
	assert.True(t, domain.IsUnauthorized(err))

	_, err = af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	assert.True(t, domain.IsUnauthorized(err))
	_, err = af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: "Another123"}, "")
	require.NoError(t, err)
}

func TestMe(t *testing.T) {
	af := newAuthFixture(t)
	role := af.f.roles.seed(&domain.Role{Name: "Clerk"})
	bob := af.seedUser(t, "bob", *role)

	_, err := af.auth.Me(context.Background())
	assert.True(t, domain.IsUnauthorized(err))

	me, err := af.auth.Me(userCtx(bob))
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Username)
	assert.Equal(t, []string{"Clerk"}, me.Roles)
}

func TestPurgeTokens(t *testing.T) {
	af := newAuthFixture(t)
	now := time.Now().UTC()
	old := now.Add(-40 * 24 * time.Hour)
	af.f.tokens.seed(&domain.RefreshToken{UserID: 1, TokenHash: "a", ExpiresAt: old})
	af.f.tokens.seed(&domain.RefreshToken{UserID: 1, TokenHash: "b", ExpiresAt: now.Add(time.Hour), RevokedAt: &old})
	af.f.tokens.seed(&domain.RefreshToken{UserID: 1, TokenHash: "c", ExpiresAt: now.Add(time.Hour)})

	n, err := af.auth.PurgeTokens(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, af.f.tokens.live(), 1)
}

func TestUserAdministration(t *testing.T) {
	af := newAuthFixture(t)
	ctx := adminCtx()
	clerk := af.f.roles.seed(&domain.Role{Name: "Clerk"})
	auditor := af.f.roles.seed(&domain.Role{Name: "Auditor"})

	u, err := af.users.Create(ctx, dto.CreateUserRequest{
		Username: "Dave", Email: "dave@example.com", FullName: "Dave", Password: testPassword, RoleIDs: []int64{clerk.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "dave", u.Username)
	assert.Equal(t, []string{"Clerk"}, u.Roles)

	_, err = af.users.Create(ctx, dto.CreateUserRequest{Username: "dave2", Email: "DAVE@example.com", FullName: "D", Password: testPassword})
	assert.True(t, domain.IsConflict(err))
	_, err = af.users.Create(ctx, dto.CreateUserRequest{Username: "erin", Email: "erin@example.com", FullName: "E", Password: "weak"})
	assert.True(t, domain.IsValidation(err))
	company := int64(55)
	_, err = af.users.Create(ctx, dto.CreateUserRequest{Username: "erin", Email: "erin@example.com", FullName: "E", Password: testPassword, CompanyID: &company})
	assert.True(t, domain.IsValidation(err))
	_, err = af.users.Create(ctx, dto.CreateUserRequest{Username: "erin", Email: "erin@example.com", FullName: "E", Password: testPassword, RoleIDs: []int64{999}})
	assert.True(t, domain.IsValidation(err))

	u, err = af.users.AssignRoles(ctx, u.ID, []int64{auditor.ID, clerk.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Clerk", "Auditor"}, u.Roles)
	assert.True(t, domain.IsConflict(NewRoleService(af.f.roles, af.f.permissions, testOptions()).Delete(ctx, auditor.ID)))

	stored, err := af.f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, testPassword, stored.PasswordHash)
	assert.True(t, af.hasher.Verify(stored.PasswordHash, testPassword))
}

func TestUserDeleteRevokesSessionsAndProtectsSelf(t *testing.T) {
	af := newAuthFixture(t)
	bob := af.seedUser(t, "bob")
	admin := af.seedUser(t, "root")
	session, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	assert.True(t, domain.IsConflict(af.users.Delete(userCtx(admin), admin.ID)))

	require.NoError(t, af.users.Delete(userCtx(admin), bob.ID))
	tok, err := af.f.tokens.GetByHash(context.Background(), auth.HashToken(session.RefreshToken))
	require.NoError(t, err)
	assert.True(t, tok.IsRevoked())

	_, err = af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestUserDeactivationRevokesSessions(t *testing.T) {
	af := newAuthFixture(t)
	bob := af.seedUser(t, "bob")
	session, err := af.auth.Login(context.Background(), dto.LoginRequest{Login: "bob", Password: testPassword}, "")
	require.NoError(t, err)

	_, err = af.users.Update(adminCtx(), bob.ID, dto.UpdateUserRequest{Email: bob.Email, FullName: "Bob", IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = af.auth.Refresh(context.Background(), session.RefreshToken, "")
	assert.True(t, domain.IsUnauthorized(err))
}
