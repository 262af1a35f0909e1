package repositories

import (
	"context"

	"bizadmin/internal/domain"

	"gorm.io/gorm"
)

type ModuleRepository interface {
	Repository[domain.Module]
	GetByCode(ctx context.Context, code string) (*domain.Module, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	HasSubModules(ctx context.Context, id int64) (bool, error)
}

type GormModuleRepository struct {
	gormRepository[domain.Module]
}

func NewModuleRepository(gdb *gorm.DB) *GormModuleRepository {
	return &GormModuleRepository{newGormRepository[domain.Module](gdb, "module", QuerySpec{
		Search:      []string{"code", "name"},
		Sort:        map[string]string{"id": "id", "code": "code", "name": "name", "sortOrder": "sort_order"},
		DefaultSort: "sort_order, name",
	})}
}

func (r *GormModuleRepository) GetByCode(ctx context.Context, code string) (*domain.Module, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormModuleRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

func (r *GormModuleRepository) HasSubModules(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.SubModule](ctx, r.DB, "module_id = ?", id)
	return n > 0, err
}

type SubModuleRepository interface {
	Repository[domain.SubModule]
	GetByCode(ctx context.Context, moduleID int64, code string) (*domain.SubModule, error)
	ExistsByCode(ctx context.Context, moduleID int64, code string, excludeID int64) (bool, error)
	HasPermissions(ctx context.Context, id int64) (bool, error)
}

type GormSubModuleRepository struct {
	gormRepository[domain.SubModule]
}

func NewSubModuleRepository(gdb *gorm.DB) *GormSubModuleRepository {
	return &GormSubModuleRepository{newGormRepository[domain.SubModule](gdb, "sub-module", QuerySpec{
		Search:      []string{"code", "name", "route"},
		Sort:        map[string]string{"id": "id", "code": "code", "name": "name", "sortOrder": "sort_order", "moduleId": "module_id"},
		Filters:     map[string]string{"moduleId": "module_id"},
		DefaultSort: "module_id, sort_order, name",
	})}
}

func (r *GormSubModuleRepository) GetByCode(ctx context.Context, moduleID int64, code string) (*domain.SubModule, error) {
	return r.findOne(ctx, code, "module_id = ? AND code = ?", moduleID, code)
}

func (r *GormSubModuleRepository) ExistsByCode(ctx context.Context, moduleID int64, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "module_id = ? AND code = ?", moduleID, code)
}

func (r *GormSubModuleRepository) HasPermissions(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.Permission](ctx, r.DB, "sub_module_id = ?", id)
	return n > 0, err
}

type PermissionRepository interface {
	Repository[domain.Permission]
	GetByCode(ctx context.Context, code string) (*domain.Permission, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	IsAssigned(ctx context.Context, id int64) (bool, error)
}

type GormPermissionRepository struct {
	gormRepository[domain.Permission]
}

func NewPermissionRepository(gdb *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{newGormRepository[domain.Permission](gdb, "permission", QuerySpec{
		Search:      []string{"code", "name"},
		Sort:        map[string]string{"id": "id", "code": "code", "name": "name", "subModuleId": "sub_module_id"},
		Filters:     map[string]string{"subModuleId": "sub_module_id"},
		DefaultSort: "code",
	})}
}

func (r *GormPermissionRepository) GetByCode(ctx context.Context, code string) (*domain.Permission, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormPermissionRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return []domain.Permission{}, nil
	}
	return r.findAll(ctx, "id IN ?", ids)
}

func (r *GormPermissionRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

// IsAssigned reports whether any live role grants the permission.
func (r *GormPermissionRepository) IsAssigned(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table("role_permissions").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("role_permissions.permission_id = ? AND roles.is_deleted = ?", id, false).
		Count(&n).Error
	if err != nil {
		return false, domain.InternalError{Msg: "check permission assignments", Err: err}
	}
	return n > 0, nil
}

type RoleRepository interface {
	Repository[domain.Role]
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Role, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	HasUsers(ctx context.Context, id int64) (bool, error)
	ReplacePermissions(ctx context.Context, role *domain.Role, perms []domain.Permission) error
}

type GormRoleRepository struct {
	gormRepository[domain.Role]
}

func NewRoleRepository(gdb *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{newGormRepository[domain.Role](gdb, "role", QuerySpec{
		Search:      []string{"name", "description"},
		Sort:        map[string]string{"id": "id", "name": "name", "isSystem": "is_system"},
		Filters:     map[string]string{"isSystem": "is_system"},
		Preload:     []string{"Permissions"},
		DefaultSort: "name",
	})}
}

func (r *GormRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, name, "name = ?", name)
}

func (r *GormRoleRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Role, error) {
	if len(ids) == 0 {
		return []domain.Role{}, nil
	}
	return r.findAll(ctx, "id IN ?", ids)
}

func (r *GormRoleRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "name = ?", name)
}

func (r *GormRoleRepository) HasUsers(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Table("user_roles").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role_id = ? AND users.is_deleted = ?", id, false).
		Count(&n).Error
	if err != nil {
		return false, domain.InternalError{Msg: "check role members", Err: err}
	}
	return n > 0, nil
}

func (r *GormRoleRepository) ReplacePermissions(ctx context.Context, role *domain.Role, perms []domain.Permission) error {
	role.Permissions = perms
	return r.replaceAssociation(ctx, role, "Permissions", perms)
}
