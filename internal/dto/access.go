package dto

type ModuleListItem struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

type ModuleDetail struct {
	ModuleListItem
	Description string `json:"description"`
	Audit
}

type CreateModuleRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Icon        string `json:"icon" binding:"omitempty,max=50"`
	SortOrder   int    `json:"sortOrder" binding:"gte=0"`
}

type UpdateModuleRequest = CreateModuleRequest

type SubModuleListItem struct {
	ID        int64  `json:"id"`
	ModuleID  int64  `json:"moduleId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Route     string `json:"route"`
	SortOrder int    `json:"sortOrder"`
}

type SubModuleDetail struct {
	SubModuleListItem
	Audit
}

type CreateSubModuleRequest struct {
	ModuleID  int64  `json:"moduleId" binding:"required,gt=0"`
	Code      string `json:"code" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	Route     string `json:"route" binding:"omitempty,max=200"`
	SortOrder int    `json:"sortOrder" binding:"gte=0"`
}

type UpdateSubModuleRequest struct {
	Code      string `json:"code" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	Route     string `json:"route" binding:"omitempty,max=200"`
	SortOrder int    `json:"sortOrder" binding:"gte=0"`
}

type PermissionListItem struct {
	ID          int64  `json:"id"`
	SubModuleID int64  `json:"subModuleId"`
	Code        string `json:"code"`
	Name        string `json:"name"`
}

type PermissionDetail struct {
	PermissionListItem
	Description string `json:"description"`
	Audit
}

type CreatePermissionRequest struct {
	SubModuleID int64  `json:"subModuleId" binding:"required,gt=0"`
	Code        string `json:"code" binding:"required,max=100,perm_code"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type UpdatePermissionRequest struct {
	Code        string `json:"code" binding:"required,max=100,perm_code"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type RoleListItem struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsSystem        bool   `json:"isSystem"`
	PermissionCount int    `json:"permissionCount"`
}

type RoleDetail struct {
	RoleListItem
	Permissions []PermissionListItem `json:"permissions"`
	Audit
}

type CreateRoleRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Description   string  `json:"description" binding:"omitempty,max=500"`
	PermissionIDs []int64 `json:"permissionIds" binding:"omitempty,dive,gt=0"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}
