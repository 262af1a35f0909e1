package services

import (
	"context"
	"errors"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/metrics"
	"bizadmin/internal/repositories"

	"go.uber.org/zap"
)

const (
	reasonRotated       = "rotated"
	reasonReuseDetected = "reuse detected"
	reasonRevoked       = "revoked"

	invalidCredentials = "invalid username or password"
)

// AuthService covers sign-in, refresh rotation and the caller's own account.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, clientIP string) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, clientIP string) (dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken, clientIP string) (dto.AuthResponse, error)
	Revoke(ctx context.Context, refreshToken, clientIP string) error
	LogoutAll(ctx context.Context, clientIP string) (int, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, clientIP string) error
	Me(ctx context.Context) (dto.UserProfile, error)
	PurgeTokens(ctx context.Context, retention time.Duration) (int64, error)
}

type AuthDeps struct {
	Users       repositories.UserRepository
	Roles       repositories.RoleRepository
	Tokens      repositories.RefreshTokenRepository
	Issuer      *auth.Issuer
	Hasher      *auth.PasswordHasher
	Metrics     *metrics.Metrics
	RefreshTTL  time.Duration
	DefaultRole string
}

type authService struct {
	AuthDeps
	opts Options
}

func NewAuthService(deps AuthDeps, opts Options) AuthService {
	return &authService{AuthDeps: deps, opts: opts}
}

func (s *authService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(logger.Component("auth"), logger.Op(op))
}

// stageSession stages a new refresh token for u and signs an access token.
// The caller commits the unit of work.
func (s *authService) stageSession(ctx context.Context, u *domain.User, clientIP string) (dto.AuthResponse, string, error) {
	access, _, err := s.Issuer.Issue(*u)
	if err != nil {
		return dto.AuthResponse{}, "", domain.Internal("issue access token", err)
	}
	raw, hash, err := auth.NewRefreshToken()
	if err != nil {
		return dto.AuthResponse{}, "", domain.Internal("issue refresh token", err)
	}
	expires := s.opts.now().Add(s.RefreshTTL)
	t := &domain.RefreshToken{
		UserID:      u.ID,
		TokenHash:   hash,
		ExpiresAt:   expires,
		CreatedByIP: clientIP,
	}
	if err := s.Tokens.Add(ctx, t); err != nil {
		return dto.AuthResponse{}, "", err
	}
	return dto.AuthResponse{
		AccessToken:      access,
		TokenType:        "Bearer",
		ExpiresIn:        int64(s.Issuer.TTL().Seconds()),
		RefreshToken:     raw,
		RefreshExpiresAt: expires,
		User:             mappers.UserToProfile(*u),
	}, hash, nil
}

// signIn stamps LastLoginAt and commits a fresh session for u.
func (s *authService) signIn(ctx context.Context, u *domain.User, clientIP string) (dto.AuthResponse, error) {
	now := s.opts.now()
	u.LastLoginAt = &now
	ctx = repositories.Begin(ctx)
	if err := s.Users.Update(ctx, u); err != nil {
		return dto.AuthResponse{}, err
	}
	resp, _, err := s.stageSession(ctx, u, clientIP)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if err := s.Users.SaveChanges(ctx); err != nil {
		return dto.AuthResponse{}, err
	}
	return resp, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, clientIP string) (dto.AuthResponse, error) {
	if err := s.Hasher.CheckPolicy("password", req.Password); err != nil {
		return dto.AuthResponse{}, err
	}
	u := mappers.NewUserFromRegister(req)
	exists, err := s.Users.ExistsByUsername(ctx, u.Username, 0)
	if err := conflictIf(exists, err, "user", "username %s is already taken", u.Username); err != nil {
		return dto.AuthResponse{}, err
	}
	exists, err = s.Users.ExistsByEmail(ctx, u.Email, 0)
	if err := conflictIf(exists, err, "user", "email %s is already registered", u.Email); err != nil {
		return dto.AuthResponse{}, err
	}
	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	u.PasswordHash = hash

	var roles []domain.Role
	if s.DefaultRole != "" {
		role, err := s.Roles.GetByName(ctx, s.DefaultRole)
		switch {
		case err == nil:
			roles = []domain.Role{*role}
		case domain.IsNotFound(err):
			s.log(ctx, "register").Warn("default role missing, user registered without roles", zap.String("role", s.DefaultRole))
		default:
			return dto.AuthResponse{}, err
		}
	}

	ctx = repositories.Begin(ctx)
	if err := s.Users.Add(ctx, &u); err != nil {
		return dto.AuthResponse{}, err
	}
	if len(roles) > 0 {
		if err := s.Users.ReplaceRoles(ctx, &u, roles); err != nil {
			return dto.AuthResponse{}, err
		}
	}
	if err := s.Users.SaveChanges(ctx); err != nil {
		return dto.AuthResponse{}, err
	}
	s.Metrics.AuthEvent("register", "success")
	s.log(ctx, "register").Info("user registered", logger.EntityID(u.ID), logger.Username(u.Username))

	stored, err := s.Users.GetByID(ctx, u.ID)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	return s.signIn(ctx, stored, clientIP)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, clientIP string) (dto.AuthResponse, error) {
	u, err := s.Users.GetByLogin(ctx, req.Login)
	if err != nil && !domain.IsNotFound(err) {
		return dto.AuthResponse{}, err
	}
	if u == nil || !s.Hasher.Verify(u.PasswordHash, req.Password) || !u.IsActive {
		s.Metrics.AuthEvent("login", "failure")
		s.log(ctx, "login").Info("login rejected", logger.ClientIP(clientIP))
		return dto.AuthResponse{}, domain.UnauthorizedError{Msg: invalidCredentials}
	}
	resp, err := s.signIn(ctx, u, clientIP)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	s.Metrics.AuthEvent("login", "success")
	s.log(ctx, "login").Info("login succeeded", logger.UserID(u.ID), logger.ClientIP(clientIP))
	return resp, nil
}

// Refresh rotates a refresh token. Presenting a revoked token is treated as
// theft: every live token of the owner is revoked.
func (s *authService) Refresh(ctx context.Context, refreshToken, clientIP string) (dto.AuthResponse, error) {
	now := s.opts.now()
	t, err := s.Tokens.GetByHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if domain.IsNotFound(err) {
			s.Metrics.AuthEvent("refresh", "unknown")
			return dto.AuthResponse{}, domain.UnauthorizedError{Msg: "invalid refresh token"}
		}
		return dto.AuthResponse{}, err
	}

	if t.IsRevoked() {
		return dto.AuthResponse{}, s.reuseDetected(ctx, t.UserID, now, clientIP)
	}
	if t.IsExpired(now) {
		s.Metrics.AuthEvent("refresh", "expired")
		return dto.AuthResponse{}, domain.UnauthorizedError{Msg: "refresh token expired"}
	}

	u, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return dto.AuthResponse{}, domain.UnauthorizedError{Msg: "invalid refresh token"}
		}
		return dto.AuthResponse{}, err
	}
	if !u.IsActive {
		return dto.AuthResponse{}, domain.UnauthorizedError{Msg: "invalid refresh token"}
	}

	ctx = repositories.Begin(ctx)
	resp, newHash, err := s.stageSession(ctx, u, clientIP)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	t.Revoke(now, clientIP, reasonRotated, newHash)
	if err := s.Tokens.RevokeActive(ctx, t); err != nil {
		return dto.AuthResponse{}, err
	}
	if err := s.Tokens.SaveChanges(ctx); err != nil {
		if errors.Is(err, repositories.ErrTokenAlreadyRevoked) {
			// lost the race against another rotation of the same token
			return dto.AuthResponse{}, s.reuseDetected(ctx, t.UserID, now, clientIP)
		}
		return dto.AuthResponse{}, err
	}
	s.Metrics.AuthEvent("refresh", "success")
	return resp, nil
}

// reuseDetected revokes every live token of userID and returns the error
// reported to the caller.
func (s *authService) reuseDetected(ctx context.Context, userID int64, now time.Time, clientIP string) error {
	ctx = repositories.Begin(ctx)
	n, err := revokeActiveTokens(ctx, s.Tokens, userID, now, clientIP, reasonReuseDetected)
	if err != nil {
		return err
	}
	if err := s.Tokens.SaveChanges(ctx); err != nil {
		return err
	}
	s.Metrics.AuthEvent("refresh", "reuse_detected")
	s.log(ctx, "refresh").Warn("revoked refresh token reused, all sessions revoked",
		logger.UserID(userID), logger.ClientIP(clientIP), logger.Count(n))
	return domain.UnauthorizedError{Msg: "invalid refresh token"}
}

func (s *authService) caller(ctx context.Context) (auth.CurrentUser, error) {
	cu := auth.FromContext(ctx)
	if !cu.IsAuthenticated() {
		return nil, domain.UnauthorizedError{Msg: "authentication required"}
	}
	return cu, nil
}

// Revoke revokes one of the caller's refresh tokens. Tokens of other users
// are reported as not found.
func (s *authService) Revoke(ctx context.Context, refreshToken, clientIP string) error {
	cu, err := s.caller(ctx)
	if err != nil {
		return err
	}
	t, err := s.Tokens.GetByHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NotFound("refresh token", "")
		}
		return err
	}
	if t.UserID != cu.ID() {
		return domain.NotFound("refresh token", "")
	}
	if t.IsRevoked() {
		return domain.Conflict("refresh token", "token is already revoked")
	}
	t.Revoke(s.opts.now(), clientIP, reasonRevoked, "")
	ctx = repositories.Begin(ctx)
	if err := s.Tokens.Update(ctx, t); err != nil {
		return err
	}
	if err := s.Tokens.SaveChanges(ctx); err != nil {
		return err
	}
	s.Metrics.AuthEvent("revoke", "success")
	return nil
}

func (s *authService) LogoutAll(ctx context.Context, clientIP string) (int, error) {
	cu, err := s.caller(ctx)
	if err != nil {
		return 0, err
	}
	ctx = repositories.Begin(ctx)
	n, err := revokeActiveTokens(ctx, s.Tokens, cu.ID(), s.opts.now(), clientIP, reasonRevoked)
	if err != nil {
		return 0, err
	}
	if err := s.Tokens.SaveChanges(ctx); err != nil {
		return 0, err
	}
	s.log(ctx, "logout_all").Info("sessions revoked", logger.UserID(cu.ID()), logger.Count(n))
	return n, nil
}

func (s *authService) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, clientIP string) error {
	cu, err := s.caller(ctx)
	if err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, cu.ID())
	if err != nil {
		return err
	}
	if !s.Hasher.Verify(u.PasswordHash, req.CurrentPassword) {
		return domain.Invalid("currentPassword", "is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return domain.Invalid("newPassword", "must differ from the current password")
	}
	if err := s.Hasher.CheckPolicy("newPassword", req.NewPassword); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	ctx = repositories.Begin(ctx)
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	if _, err := revokeActiveTokens(ctx, s.Tokens, u.ID, s.opts.now(), clientIP, reasonRevoked); err != nil {
		return err
	}
	if err := s.Users.SaveChanges(ctx); err != nil {
		return err
	}
	logger.Event(ctx, "auth", "change_password", "password changed", logger.UserID(u.ID))
	return nil
}

func (s *authService) Me(ctx context.Context) (dto.UserProfile, error) {
	cu, err := s.caller(ctx)
	if err != nil {
		return dto.UserProfile{}, err
	}
	u, err := s.Users.GetByID(ctx, cu.ID())
	if err != nil {
		if domain.IsNotFound(err) {
			return dto.UserProfile{}, domain.UnauthorizedError{Msg: "account no longer exists"}
		}
		return dto.UserProfile{}, err
	}
	return mappers.UserToProfile(*u), nil
}

// PurgeTokens hard-deletes tokens expired or revoked longer than retention ago.
func (s *authService) PurgeTokens(ctx context.Context, retention time.Duration) (int64, error) {
	before := s.opts.now().Add(-retention)
	n, err := s.Tokens.Purge(ctx, before)
	if err != nil {
		return 0, err
	}
	s.Metrics.TokensPurged(n)
	s.log(ctx, "purge").Info("refresh tokens purged", zap.Int64("count", n), zap.Time("before", before))
	return n, nil
}
