package mappers

import (
	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func ProductToListItem(p domain.Product) dto.ProductListItem {
	return dto.ProductListItem{ID: p.ID, Code: p.Code, Name: p.Name, IsActive: p.IsActive}
}

func ProductToDetail(p domain.Product) dto.ProductDetail {
	return dto.ProductDetail{
		ProductListItem: ProductToListItem(p),
		Description:     p.Description,
		Audit:           auditOf(p.BaseEntity),
	}
}

func NewProductFromRequest(req dto.CreateProductRequest) domain.Product {
	var p domain.Product
	ApplyProductUpdate(&p, req)
	p.IsActive = boolOr(req.IsActive, true)
	return p
}

func ApplyProductUpdate(p *domain.Product, req dto.UpdateProductRequest) {
	p.Code = upper(req.Code)
	p.Name = trim(req.Name)
	p.Description = trim(req.Description)
	p.IsActive = boolOr(req.IsActive, p.IsActive)
}

var ProductExportHeaders = []string{"ID", "Code", "Name", "Description", "Active"}

func ProductExportRow(p domain.Product) []string {
	return []string{itoa(p.ID), p.Code, p.Name, p.Description, yesNo(p.IsActive)}
}

func ProductVersionToListItem(v domain.ProductVersion) dto.ProductVersionListItem {
	return dto.ProductVersionListItem{
		ID:          v.ID,
		ProductID:   v.ProductID,
		Version:     v.Version,
		ReleaseDate: formatDatePtr(v.ReleaseDate),
		IsCurrent:   v.IsCurrent,
	}
}

func ProductVersionToDetail(v domain.ProductVersion) dto.ProductVersionDetail {
	return dto.ProductVersionDetail{
		ProductVersionListItem: ProductVersionToListItem(v),
		Notes:                  v.Notes,
		Audit:                  auditOf(v.BaseEntity),
	}
}

func NewProductVersionFromRequest(req dto.CreateProductVersionRequest) domain.ProductVersion {
	return domain.ProductVersion{
		ProductID:   req.ProductID,
		Version:     trim(req.Version),
		ReleaseDate: parseDatePtr(req.ReleaseDate),
		Notes:       trim(req.Notes),
		IsCurrent:   req.IsCurrent,
	}
}

func ApplyProductVersionUpdate(v *domain.ProductVersion, req dto.UpdateProductVersionRequest) {
	v.Version = trim(req.Version)
	v.ReleaseDate = parseDatePtr(req.ReleaseDate)
	v.Notes = trim(req.Notes)
	v.IsCurrent = req.IsCurrent
}

var ProductVersionExportHeaders = []string{"ID", "Product", "Version", "Release Date", "Current"}

func ProductVersionExportRow(v domain.ProductVersion) []string {
	return []string{itoa(v.ID), itoa(v.ProductID), v.Version, formatDatePtr(v.ReleaseDate), yesNo(v.IsCurrent)}
}
