package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"bizadmin/internal/db"
	"bizadmin/internal/domain"

	"gorm.io/gorm"
)

type UserRepository interface {
	Repository[domain.User]
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ReplaceRoles(ctx context.Context, user *domain.User, roles []domain.Role) error
	Count(ctx context.Context) (int64, error)
}

type GormUserRepository struct {
	gormRepository[domain.User]
}

func NewUserRepository(gdb *gorm.DB) *GormUserRepository {
	return &GormUserRepository{newGormRepository[domain.User](gdb, "user", QuerySpec{
		Search: []string{"username", "email", "full_name"},
		Sort: map[string]string{
			"id": "id", "username": "username", "email": "email", "fullName": "full_name",
			"lastLoginAt": "last_login_at", "createdAt": "created_at",
		},
		Filters:     map[string]string{"isActive": "is_active", "companyId": "company_id"},
		Preload:     []string{"Roles", "Roles.Permissions"},
		DefaultSort: "username",
	})}
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.findOne(ctx, username, "username = ?", username)
}

// GetByLogin matches either username or email.
func (r *GormUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	return r.findOne(ctx, login, "(username = ? OR email = ?)", login, login)
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormUserRepository) ReplaceRoles(ctx context.Context, user *domain.User, roles []domain.Role) error {
	user.Roles = roles
	return r.replaceAssociation(ctx, user, "Roles", roles)
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	return countWhere[domain.User](ctx, r.DB, "1 = 1")
}

type RefreshTokenRepository interface {
	Repository[domain.RefreshToken]
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	ListActiveByUser(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error)
	RevokeActive(ctx context.Context, t *domain.RefreshToken) error
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// ErrTokenAlreadyRevoked is returned by SaveChanges when a staged RevokeActive
// finds the token already revoked by a concurrent writer.
var ErrTokenAlreadyRevoked = errors.New("refresh token already revoked")

type GormRefreshTokenRepository struct {
	gormRepository[domain.RefreshToken]
}

func NewRefreshTokenRepository(gdb *gorm.DB) *GormRefreshTokenRepository {
	return &GormRefreshTokenRepository{newGormRepository[domain.RefreshToken](gdb, "refresh token", QuerySpec{
		Sort:        map[string]string{"id": "id", "expiresAt": "expires_at", "createdAt": "created_at"},
		Filters:     map[string]string{"userId": "user_id"},
		DefaultSort: "id",
	})}
}

func (r *GormRefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	return r.findOne(ctx, "", "token_hash = ?", hash)
}

func (r *GormRefreshTokenRepository) ListActiveByUser(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error) {
	return r.findAll(ctx, "user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now)
}

// RevokeActive stages the revocation recorded on t, guarded on the row still
// being unrevoked when the unit of work commits.
func (r *GormRefreshTokenRepository) RevokeActive(ctx context.Context, t *domain.RefreshToken) error {
	t.MarkModified(domain.ActorFrom(ctx), r.now())
	id := t.ID
	values := map[string]any{
		"revoked_at":       t.RevokedAt,
		"revoked_by_ip":    t.RevokedByIP,
		"replaced_by_hash": t.ReplacedByHash,
		"revoke_reason":    t.RevokeReason,
		"modified_by":      t.ModifiedBy,
		"modified_at":      t.ModifiedAt,
	}
	return db.Enlist(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&domain.RefreshToken{}).Where("id = ? AND revoked_at IS NULL", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrTokenAlreadyRevoked
		}
		return nil
	})
}

// Purge hard-deletes tokens that expired or were revoked before the cutoff.
// It runs outside the unit of work as a maintenance statement.
func (r *GormRefreshTokenRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", before, before).
		Delete(&domain.RefreshToken{})
	if res.Error != nil {
		return 0, domain.InternalError{Msg: "purge refresh tokens", Err: res.Error}
	}
	return res.RowsAffected, nil
}
