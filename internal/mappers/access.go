package mappers

import (
	"strconv"
	"strings"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func ModuleToListItem(m domain.Module) dto.ModuleListItem {
	return dto.ModuleListItem{ID: m.ID, Code: m.Code, Name: m.Name, Icon: m.Icon, SortOrder: m.SortOrder}
}

func ModuleToDetail(m domain.Module) dto.ModuleDetail {
	return dto.ModuleDetail{ModuleListItem: ModuleToListItem(m), Description: m.Description, Audit: auditOf(m.BaseEntity)}
}

func NewModuleFromRequest(req dto.CreateModuleRequest) domain.Module {
	var m domain.Module
	ApplyModuleUpdate(&m, req)
	return m
}

func ApplyModuleUpdate(m *domain.Module, req dto.UpdateModuleRequest) {
	m.Code = lower(req.Code)
	m.Name = trim(req.Name)
	m.Description = trim(req.Description)
	m.Icon = trim(req.Icon)
	m.SortOrder = req.SortOrder
}

var ModuleExportHeaders = []string{"ID", "Code", "Name", "Icon", "Sort Order"}

func ModuleExportRow(m domain.Module) []string {
	return []string{itoa(m.ID), m.Code, m.Name, m.Icon, strconv.Itoa(m.SortOrder)}
}

func SubModuleToListItem(s domain.SubModule) dto.SubModuleListItem {
	return dto.SubModuleListItem{
		ID:        s.ID,
		ModuleID:  s.ModuleID,
		Code:      s.Code,
		Name:      s.Name,
		Route:     s.Route,
		SortOrder: s.SortOrder,
	}
}

func SubModuleToDetail(s domain.SubModule) dto.SubModuleDetail {
	return dto.SubModuleDetail{SubModuleListItem: SubModuleToListItem(s), Audit: auditOf(s.BaseEntity)}
}

func NewSubModuleFromRequest(req dto.CreateSubModuleRequest) domain.SubModule {
	s := domain.SubModule{ModuleID: req.ModuleID}
	ApplySubModuleUpdate(&s, dto.UpdateSubModuleRequest{
		Code: req.Code, Name: req.Name, Route: req.Route, SortOrder: req.SortOrder,
	})
	return s
}

func ApplySubModuleUpdate(s *domain.SubModule, req dto.UpdateSubModuleRequest) {
	s.Code = lower(req.Code)
	s.Name = trim(req.Name)
	s.Route = trim(req.Route)
	s.SortOrder = req.SortOrder
}

var SubModuleExportHeaders = []string{"ID", "Module", "Code", "Name", "Route", "Sort Order"}

func SubModuleExportRow(s domain.SubModule) []string {
	return []string{itoa(s.ID), itoa(s.ModuleID), s.Code, s.Name, s.Route, strconv.Itoa(s.SortOrder)}
}

func PermissionToListItem(p domain.Permission) dto.PermissionListItem {
	return dto.PermissionListItem{ID: p.ID, SubModuleID: p.SubModuleID, Code: p.Code, Name: p.Name}
}

func PermissionToDetail(p domain.Permission) dto.PermissionDetail {
	return dto.PermissionDetail{PermissionListItem: PermissionToListItem(p), Description: p.Description, Audit: auditOf(p.BaseEntity)}
}

func NewPermissionFromRequest(req dto.CreatePermissionRequest) domain.Permission {
	p := domain.Permission{SubModuleID: req.SubModuleID}
	ApplyPermissionUpdate(&p, dto.UpdatePermissionRequest{Code: req.Code, Name: req.Name, Description: req.Description})
	return p
}

func ApplyPermissionUpdate(p *domain.Permission, req dto.UpdatePermissionRequest) {
	p.Code = lower(req.Code)
	p.Name = trim(req.Name)
	p.Description = trim(req.Description)
}

var PermissionExportHeaders = []string{"ID", "Sub Module", "Code", "Name", "Description"}

func PermissionExportRow(p domain.Permission) []string {
	return []string{itoa(p.ID), itoa(p.SubModuleID), p.Code, p.Name, p.Description}
}

func RoleToListItem(r domain.Role) dto.RoleListItem {
	return dto.RoleListItem{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		IsSystem:        r.IsSystem,
		PermissionCount: len(r.Permissions),
	}
}

func RoleToDetail(r domain.Role) dto.RoleDetail {
	return dto.RoleDetail{
		RoleListItem: RoleToListItem(r),
		Permissions:  domain.MapSlice(r.Permissions, PermissionToListItem),
		Audit:        auditOf(r.BaseEntity),
	}
}

func NewRoleFromRequest(req dto.CreateRoleRequest) domain.Role {
	var r domain.Role
	ApplyRoleUpdate(&r, dto.UpdateRoleRequest{Name: req.Name, Description: req.Description})
	return r
}

func ApplyRoleUpdate(r *domain.Role, req dto.UpdateRoleRequest) {
	r.Name = trim(req.Name)
	r.Description = trim(req.Description)
}

var RoleExportHeaders = []string{"ID", "Name", "Description", "System", "Permissions"}

func RoleExportRow(r domain.Role) []string {
	return []string{itoa(r.ID), r.Name, r.Description, yesNo(r.IsSystem), strings.Join(r.PermissionCodes(), " ")}
}
