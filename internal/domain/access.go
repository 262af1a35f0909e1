package domain

import "time"

type Module struct {
	BaseEntity
	Code        string
	Name        string
	Description string
	Icon        string
	SortOrder   int
}

func (Module) TableName() string { return "modules" }

type SubModule struct {
	BaseEntity
	ModuleID  int64
	Code      string
	Name      string
	Route     string
	SortOrder int
}

func (SubModule) TableName() string { return "sub_modules" }

type Permission struct {
	BaseEntity
	SubModuleID int64
	Code        string
	Name        string
	Description string
}

func (Permission) TableName() string { return "permissions" }

type Role struct {
	BaseEntity
	Name        string
	Description string
	IsSystem    bool
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

func (Role) TableName() string { return "roles" }

// PermissionCodes lists the codes granted by the role.
func (r Role) PermissionCodes() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Code)
	}
	return out
}

type User struct {
	BaseEntity
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	CompanyID    *int64
	IsActive     bool
	LastLoginAt  *time.Time
	Roles        []Role `gorm:"many2many:user_roles;"`
}

func (User) TableName() string { return "users" }

func (u User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}

// PermissionCodes is the de-duplicated union of the user's role permissions.
func (u User) PermissionCodes() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range u.Roles {
		for _, code := range r.PermissionCodes() {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

// RefreshToken is an opaque refresh token; only its SHA-256 hash is stored.
type RefreshToken struct {
	BaseEntity
	UserID         int64
	TokenHash      string
	ExpiresAt      time.Time
	CreatedByIP    string `gorm:"column:created_by_ip"`
	RevokedAt      *time.Time
	RevokedByIP    string `gorm:"column:revoked_by_ip"`
	ReplacedByHash string
	RevokeReason   string
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
func (t RefreshToken) IsRevoked() bool { return t.RevokedAt != nil }
func (t RefreshToken) IsActive(now time.Time) bool { return !t.IsRevoked() && !t.IsExpired(now) }

// Revoke marks the token revoked; replacedBy may be empty.
func (t *RefreshToken) Revoke(now time.Time, ip, reason, replacedBy string) {
	t.RevokedAt = &now
	t.RevokedByIP = ip
	t.RevokeReason = reason
	t.ReplacedByHash = replacedBy
}
