package mappers

import (
	"strings"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func UserToListItem(u domain.User) dto.UserListItem {
	return dto.UserListItem{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		CompanyID:   u.CompanyID,
		IsActive:    u.IsActive,
		Roles:       u.RoleNames(),
		LastLoginAt: u.LastLoginAt,
	}
}

func UserToDetail(u domain.User) dto.UserDetail {
	return dto.UserDetail{
		UserListItem: UserToListItem(u),
		Permissions:  u.PermissionCodes(),
		Audit:        auditOf(u.BaseEntity),
	}
}

func UserToProfile(u domain.User) dto.UserProfile {
	return dto.UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		CompanyID:   u.CompanyID,
		Roles:       u.RoleNames(),
		Permissions: u.PermissionCodes(),
	}
}

// NewUserFromRequest leaves PasswordHash empty; hashing belongs to the service.
func NewUserFromRequest(req dto.CreateUserRequest) domain.User {
	return domain.User{
		Username:  lower(req.Username),
		Email:     lower(req.Email),
		FullName:  trim(req.FullName),
		CompanyID: req.CompanyID,
		IsActive:  boolOr(req.IsActive, true),
	}
}

func NewUserFromRegister(req dto.RegisterRequest) domain.User {
	return domain.User{
		Username: lower(req.Username),
		Email:    lower(req.Email),
		FullName: trim(req.FullName),
		IsActive: true,
	}
}

func ApplyUserUpdate(u *domain.User, req dto.UpdateUserRequest) {
	u.Email = lower(req.Email)
	u.FullName = trim(req.FullName)
	u.CompanyID = req.CompanyID
	u.IsActive = boolOr(req.IsActive, u.IsActive)
}

var UserExportHeaders = []string{"ID", "Username", "Email", "Full Name", "Company", "Active", "Roles", "Last Login"}

func UserExportRow(u domain.User) []string {
	last := ""
	if u.LastLoginAt != nil {
		last = u.LastLoginAt.UTC().Format("2006-01-02 15:04:05")
	}
	return []string{
		itoa(u.ID), u.Username, u.Email, u.FullName, idPtr(u.CompanyID),
		yesNo(u.IsActive), strings.Join(u.RoleNames(), ", "), last,
	}
}
