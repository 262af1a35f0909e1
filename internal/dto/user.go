package dto

import "time"

type UserListItem struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	CompanyID   *int64     `json:"companyId"`
	IsActive    bool       `json:"isActive"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type UserDetail struct {
	UserListItem
	Permissions []string `json:"permissions"`
	Audit
}

type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=100"`
	Email     string  `json:"email" binding:"required,email,max=150"`
	FullName  string  `json:"fullName" binding:"required,max=150"`
	Password  string  `json:"password" binding:"required,max=128"`
	CompanyID *int64  `json:"companyId" binding:"omitempty,gt=0"`
	IsActive  *bool   `json:"isActive"`
	RoleIDs   []int64 `json:"roleIds" binding:"omitempty,dive,gt=0"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=150"`
	FullName  string `json:"fullName" binding:"required,max=150"`
	CompanyID *int64 `json:"companyId" binding:"omitempty,gt=0"`
	IsActive  *bool  `json:"isActive"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=150"`
	FullName string `json:"fullName" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

type LoginRequest struct {
	// username or email
	Login    string `json:"login" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,max=128,nefield=CurrentPassword"`
}

type UserProfile struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	CompanyID   *int64   `json:"companyId"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type AuthResponse struct {
	AccessToken      string      `json:"accessToken"`
	TokenType        string      `json:"tokenType"`
	ExpiresIn        int64       `json:"expiresIn"`
	RefreshToken     string      `json:"refreshToken"`
	RefreshExpiresAt time.Time   `json:"refreshExpiresAt"`
	User             UserProfile `json:"user"`
}
