package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"bizadmin/internal/config"
	"bizadmin/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testIssuer() *Issuer {
	return NewIssuer(config.JWTConfig{
		Secret: testSecret, Issuer: "bizadmin", Audience: "bizadmin-api", AccessTTL: 15 * time.Minute,
	})
}

func testUser() domain.User {
	u := domain.User{Username: "alice", Roles: []domain.Role{
		{Name: "Administrator", Permissions: []domain.Permission{{Code: "countries.read"}}},
	}}
	u.ID = 42
	return u
}

func TestIssueAndParse(t *testing.T) {
	iss := testIssuer()
	raw, exp, err := iss.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"Administrator"}, claims.Roles)
	assert.Equal(t, []string{"countries.read"}, claims.Permissions)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := testIssuer()
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _, err := iss.Issue(testUser())
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(raw)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestParseRejectsWrongAudience(t *testing.T) {
	raw, _, err := testIssuer().Issue(testUser())
	require.NoError(t, err)

	other := NewIssuer(config.JWTConfig{Secret: testSecret, Issuer: "bizadmin", Audience: "other", AccessTTL: time.Minute})
	_, err = other.Parse(raw)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestParseRejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{Username: "x", RegisteredClaims: jwt.RegisteredClaims{
		Subject: "1", Issuer: "bizadmin", Audience: jwt.ClaimStrings{"bizadmin-api"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = testIssuer().Parse(raw)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestRefreshTokenHash(t *testing.T) {
	raw, hash, err := NewRefreshToken()
	require.NoError(t, err)
	assert.Len(t, raw, 43)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken(raw))

	raw2, _, err := NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(config.AuthConfig{BcryptCost: 4, PasswordPolicy: config.PasswordPolicy{
		MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true,
	}})

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "Secret123"))
	assert.False(t, h.Verify(hash, "secret123"))
	assert.False(t, h.Verify("", "Secret123"))

	assert.NoError(t, h.CheckPolicy("password", "Secret123"))
	err = h.CheckPolicy("password", "short")
	require.Error(t, err)
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.True(t, strings.Contains(ve.Msg, "too short"))
	assert.True(t, strings.Contains(ve.Msg, "missing uppercase letter"))
	assert.True(t, strings.Contains(ve.Msg, "missing digit"))
}

func TestFromContext(t *testing.T) {
	u := FromContext(context.Background())
	assert.False(t, u.IsAuthenticated())
	assert.False(t, u.HasPermission("countries.read"))

	claims := &Claims{Username: "alice", Permissions: []string{"countries.read"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}
	ctx := WithClaims(context.Background(), claims)

	u = FromContext(ctx)
	assert.True(t, u.IsAuthenticated())
	assert.Equal(t, int64(42), u.ID())
	assert.True(t, u.HasPermission("countries.read"))
	assert.False(t, u.HasPermission("countries.delete"))
	assert.Equal(t, "alice", domain.ActorFrom(ctx))
}
