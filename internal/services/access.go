package services

import (
	"context"
	"fmt"
	"slices"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/repositories"
)

type ModuleService interface {
	Resource[dto.ModuleListItem, dto.ModuleDetail, dto.CreateModuleRequest, dto.UpdateModuleRequest]
}

type moduleService struct {
	crud[domain.Module, dto.ModuleListItem, dto.ModuleDetail]
	repo repositories.ModuleRepository
}

func NewModuleService(repo repositories.ModuleRepository, opts Options) ModuleService {
	s := &moduleService{repo: repo}
	s.crud = crud[domain.Module, dto.ModuleListItem, dto.ModuleDetail]{
		resource: "module",
		title:    "Modules",
		repo:     repo,
		toList:   mappers.ModuleToListItem,
		toDetail: mappers.ModuleToDetail,
		headers:  mappers.ModuleExportHeaders,
		row:      mappers.ModuleExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, m *domain.Module) error {
			has, err := repo.HasSubModules(ctx, m.ID)
			return conflictIf(has, err, "module", "module %s still has sub-modules", m.Code)
		},
	}
	return s
}

func (s *moduleService) Create(ctx context.Context, req dto.CreateModuleRequest) (dto.ModuleDetail, error) {
	m := mappers.NewModuleFromRequest(req)
	exists, err := s.repo.ExistsByCode(ctx, m.Code, 0)
	if err := conflictIf(exists, err, "module", "code %s already exists", m.Code); err != nil {
		return dto.ModuleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &m); err != nil {
		return dto.ModuleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ModuleDetail{}, err
	}
	return mappers.ModuleToDetail(m), nil
}

func (s *moduleService) Update(ctx context.Context, id int64, req dto.UpdateModuleRequest) (dto.ModuleDetail, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ModuleDetail{}, err
	}
	mappers.ApplyModuleUpdate(m, req)
	exists, err := s.repo.ExistsByCode(ctx, m.Code, m.ID)
	if err := conflictIf(exists, err, "module", "code %s already exists", m.Code); err != nil {
		return dto.ModuleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, m); err != nil {
		return dto.ModuleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ModuleDetail{}, err
	}
	return mappers.ModuleToDetail(*m), nil
}

type SubModuleService interface {
	Resource[dto.SubModuleListItem, dto.SubModuleDetail, dto.CreateSubModuleRequest, dto.UpdateSubModuleRequest]
}

type subModuleService struct {
	crud[domain.SubModule, dto.SubModuleListItem, dto.SubModuleDetail]
	repo    repositories.SubModuleRepository
	modules repositories.ModuleRepository
}

func NewSubModuleService(repo repositories.SubModuleRepository, modules repositories.ModuleRepository, opts Options) SubModuleService {
	s := &subModuleService{repo: repo, modules: modules}
	s.crud = crud[domain.SubModule, dto.SubModuleListItem, dto.SubModuleDetail]{
		resource: "sub-module",
		title:    "Sub Modules",
		repo:     repo,
		toList:   mappers.SubModuleToListItem,
		toDetail: mappers.SubModuleToDetail,
		headers:  mappers.SubModuleExportHeaders,
		row:      mappers.SubModuleExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, sm *domain.SubModule) error {
			has, err := repo.HasPermissions(ctx, sm.ID)
			return conflictIf(has, err, "sub-module", "sub-module %s still has permissions", sm.Code)
		},
	}
	return s
}

func (s *subModuleService) validate(ctx context.Context, sm *domain.SubModule) error {
	if err := mustExist(ctx, s.modules.Exists, "moduleId", "module", sm.ModuleID); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByCode(ctx, sm.ModuleID, sm.Code, sm.ID)
	return conflictIf(exists, err, "sub-module", "code %s already exists in module %d", sm.Code, sm.ModuleID)
}

func (s *subModuleService) Create(ctx context.Context, req dto.CreateSubModuleRequest) (dto.SubModuleDetail, error) {
	sm := mappers.NewSubModuleFromRequest(req)
	if err := s.validate(ctx, &sm); err != nil {
		return dto.SubModuleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &sm); err != nil {
		return dto.SubModuleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.SubModuleDetail{}, err
	}
	return mappers.SubModuleToDetail(sm), nil
}

func (s *subModuleService) Update(ctx context.Context, id int64, req dto.UpdateSubModuleRequest) (dto.SubModuleDetail, error) {
	sm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.SubModuleDetail{}, err
	}
	mappers.ApplySubModuleUpdate(sm, req)
	if err := s.validate(ctx, sm); err != nil {
		return dto.SubModuleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, sm); err != nil {
		return dto.SubModuleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.SubModuleDetail{}, err
	}
	return mappers.SubModuleToDetail(*sm), nil
}

type PermissionService interface {
	Resource[dto.PermissionListItem, dto.PermissionDetail, dto.CreatePermissionRequest, dto.UpdatePermissionRequest]
}

type permissionService struct {
	crud[domain.Permission, dto.PermissionListItem, dto.PermissionDetail]
	repo       repositories.PermissionRepository
	subModules repositories.SubModuleRepository
}

func NewPermissionService(repo repositories.PermissionRepository, subModules repositories.SubModuleRepository, opts Options) PermissionService {
	s := &permissionService{repo: repo, subModules: subModules}
	s.crud = crud[domain.Permission, dto.PermissionListItem, dto.PermissionDetail]{
		resource: "permission",
		title:    "Permissions",
		repo:     repo,
		toList:   mappers.PermissionToListItem,
		toDetail: mappers.PermissionToDetail,
		headers:  mappers.PermissionExportHeaders,
		row:      mappers.PermissionExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, p *domain.Permission) error {
			assigned, err := repo.IsAssigned(ctx, p.ID)
			return conflictIf(assigned, err, "permission", "permission %s is assigned to a role", p.Code)
		},
	}
	return s
}

func (s *permissionService) validate(ctx context.Context, p *domain.Permission) error {
	if err := mustExist(ctx, s.subModules.Exists, "subModuleId", "sub-module", p.SubModuleID); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByCode(ctx, p.Code, p.ID)
	return conflictIf(exists, err, "permission", "code %s already exists", p.Code)
}

func (s *permissionService) Create(ctx context.Context, req dto.CreatePermissionRequest) (dto.PermissionDetail, error) {
	p := mappers.NewPermissionFromRequest(req)
	if err := s.validate(ctx, &p); err != nil {
		return dto.PermissionDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &p); err != nil {
		return dto.PermissionDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.PermissionDetail{}, err
	}
	return mappers.PermissionToDetail(p), nil
}

func (s *permissionService) Update(ctx context.Context, id int64, req dto.UpdatePermissionRequest) (dto.PermissionDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.PermissionDetail{}, err
	}
	mappers.ApplyPermissionUpdate(p, req)
	if err := s.validate(ctx, p); err != nil {
		return dto.PermissionDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, p); err != nil {
		return dto.PermissionDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.PermissionDetail{}, err
	}
	return mappers.PermissionToDetail(*p), nil
}

type RoleService interface {
	Resource[dto.RoleListItem, dto.RoleDetail, dto.CreateRoleRequest, dto.UpdateRoleRequest]
	GetPermissions(ctx context.Context, id int64) ([]dto.PermissionListItem, error)
	AssignPermissions(ctx context.Context, id int64, permissionIDs []int64) (dto.RoleDetail, error)
}

type roleService struct {
	crud[domain.Role, dto.RoleListItem, dto.RoleDetail]
	repo        repositories.RoleRepository
	permissions repositories.PermissionRepository
}

func NewRoleService(repo repositories.RoleRepository, permissions repositories.PermissionRepository, opts Options) RoleService {
	s := &roleService{repo: repo, permissions: permissions}
	s.crud = crud[domain.Role, dto.RoleListItem, dto.RoleDetail]{
		resource: "role",
		title:    "Roles",
		repo:     repo,
		toList:   mappers.RoleToListItem,
		toDetail: mappers.RoleToDetail,
		headers:  mappers.RoleExportHeaders,
		row:      mappers.RoleExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, r *domain.Role) error {
			if r.IsSystem {
				return domain.Conflict("role", fmt.Sprintf("system role %s cannot be deleted", r.Name))
			}
			has, err := repo.HasUsers(ctx, r.ID)
			return conflictIf(has, err, "role", "role %s is still assigned to users", r.Name)
		},
	}
	return s
}

// resolvePermissions loads ids, failing when any of them does not exist.
func (s *roleService) resolvePermissions(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Permission{}, nil
	}
	perms, err := s.permissions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		found := make([]int64, 0, len(perms))
		for _, p := range perms {
			found = append(found, p.ID)
		}
		for _, id := range ids {
			if !slices.Contains(found, id) {
				return nil, domain.Invalid("permissionIds", fmt.Sprintf("permission %d does not exist", id))
			}
		}
	}
	return perms, nil
}

func (s *roleService) Create(ctx context.Context, req dto.CreateRoleRequest) (dto.RoleDetail, error) {
	r := mappers.NewRoleFromRequest(req)
	exists, err := s.repo.ExistsByName(ctx, r.Name, 0)
	if err := conflictIf(exists, err, "role", "role %s already exists", r.Name); err != nil {
		return dto.RoleDetail{}, err
	}
	perms, err := s.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return dto.RoleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &r); err != nil {
		return dto.RoleDetail{}, err
	}
	if len(perms) > 0 {
		if err := s.repo.ReplacePermissions(ctx, &r, perms); err != nil {
			return dto.RoleDetail{}, err
		}
	}
	if err := s.save(ctx); err != nil {
		return dto.RoleDetail{}, err
	}
	s.log(ctx, "create").Info("role created", logger.EntityID(r.ID), logger.Count(len(perms)))
	return s.detail(ctx, r.ID)
}

func (s *roleService) Update(ctx context.Context, id int64, req dto.UpdateRoleRequest) (dto.RoleDetail, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.RoleDetail{}, err
	}
	oldName := r.Name
	mappers.ApplyRoleUpdate(r, req)
	if r.IsSystem && r.Name != oldName {
		return dto.RoleDetail{}, domain.Conflict("role", fmt.Sprintf("system role %s cannot be renamed", oldName))
	}
	exists, err := s.repo.ExistsByName(ctx, r.Name, r.ID)
	if err := conflictIf(exists, err, "role", "role %s already exists", r.Name); err != nil {
		return dto.RoleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, r); err != nil {
		return dto.RoleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.RoleDetail{}, err
	}
	return mappers.RoleToDetail(*r), nil
}

func (s *roleService) GetPermissions(ctx context.Context, id int64) ([]dto.PermissionListItem, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.MapSlice(r.Permissions, mappers.PermissionToListItem), nil
}

// AssignPermissions replaces the role's permission set.
func (s *roleService) AssignPermissions(ctx context.Context, id int64, permissionIDs []int64) (dto.RoleDetail, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.RoleDetail{}, err
	}
	perms, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return dto.RoleDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.ReplacePermissions(ctx, r, perms); err != nil {
		return dto.RoleDetail{}, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return dto.RoleDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.RoleDetail{}, err
	}
	logger.Event(ctx, "role", "assign_permissions", "role permissions replaced", logger.EntityID(r.ID), logger.Count(len(perms)))
	return mappers.RoleToDetail(*r), nil
}

// uniqueIDs drops duplicates and non-positive ids, keeping order.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
