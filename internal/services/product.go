package services

import (
	"context"
	"strings"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/repositories"
)

type ProductService interface {
	Resource[dto.ProductListItem, dto.ProductDetail, dto.CreateProductRequest, dto.UpdateProductRequest]
	GetByCode(ctx context.Context, code string) (dto.ProductDetail, error)
}

type productService struct {
	crud[domain.Product, dto.ProductListItem, dto.ProductDetail]
	repo repositories.ProductRepository
}

func NewProductService(repo repositories.ProductRepository, opts Options) ProductService {
	s := &productService{repo: repo}
	s.crud = crud[domain.Product, dto.ProductListItem, dto.ProductDetail]{
		resource: "product",
		title:    "Products",
		repo:     repo,
		toList:   mappers.ProductToListItem,
		toDetail: mappers.ProductToDetail,
		headers:  mappers.ProductExportHeaders,
		row:      mappers.ProductExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, p *domain.Product) error {
			has, err := repo.HasVersions(ctx, p.ID)
			return conflictIf(has, err, "product", "product %s still has versions", p.Code)
		},
	}
	return s
}

func (s *productService) GetByCode(ctx context.Context, code string) (dto.ProductDetail, error) {
	p, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return dto.ProductDetail{}, err
	}
	return mappers.ProductToDetail(*p), nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductDetail, error) {
	p := mappers.NewProductFromRequest(req)
	exists, err := s.repo.ExistsByCode(ctx, p.Code, 0)
	if err := conflictIf(exists, err, "product", "code %s already exists", p.Code); err != nil {
		return dto.ProductDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &p); err != nil {
		return dto.ProductDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ProductDetail{}, err
	}
	s.log(ctx, "create").Info("product created", logger.EntityID(p.ID))
	return mappers.ProductToDetail(p), nil
}

func (s *productService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (dto.ProductDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ProductDetail{}, err
	}
	mappers.ApplyProductUpdate(p, req)
	exists, err := s.repo.ExistsByCode(ctx, p.Code, p.ID)
	if err := conflictIf(exists, err, "product", "code %s already exists", p.Code); err != nil {
		return dto.ProductDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, p); err != nil {
		return dto.ProductDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ProductDetail{}, err
	}
	return mappers.ProductToDetail(*p), nil
}

type ProductVersionService interface {
	Resource[dto.ProductVersionListItem, dto.ProductVersionDetail, dto.CreateProductVersionRequest, dto.UpdateProductVersionRequest]
	SetCurrent(ctx context.Context, id int64) (dto.ProductVersionDetail, error)
}

type productVersionService struct {
	crud[domain.ProductVersion, dto.ProductVersionListItem, dto.ProductVersionDetail]
	repo     repositories.ProductVersionRepository
	products repositories.ProductRepository
}

func NewProductVersionService(repo repositories.ProductVersionRepository, products repositories.ProductRepository, opts Options) ProductVersionService {
	s := &productVersionService{repo: repo, products: products}
	s.crud = crud[domain.ProductVersion, dto.ProductVersionListItem, dto.ProductVersionDetail]{
		resource: "product version",
		title:    "Product Versions",
		repo:     repo,
		toList:   mappers.ProductVersionToListItem,
		toDetail: mappers.ProductVersionToDetail,
		headers:  mappers.ProductVersionExportHeaders,
		row:      mappers.ProductVersionExportRow,
		opts:     opts,
	}
	return s
}

func (s *productVersionService) validate(ctx context.Context, v *domain.ProductVersion) error {
	if err := mustExist(ctx, s.products.Exists, "productId", "product", v.ProductID); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByVersion(ctx, v.ProductID, v.Version, v.ID)
	return conflictIf(exists, err, "product version", "version %s already exists for product %d", v.Version, v.ProductID)
}

// clearOtherCurrent stages IsCurrent=false on every other current version of the product.
func (s *productVersionService) clearOtherCurrent(ctx context.Context, v *domain.ProductVersion) error {
	if !v.IsCurrent {
		return nil
	}
	siblings, err := s.repo.ListByProduct(ctx, v.ProductID)
	if err != nil {
		return err
	}
	for i := range siblings {
		o := &siblings[i]
		if o.ID == v.ID || !o.IsCurrent {
			continue
		}
		o.IsCurrent = false
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (s *productVersionService) Create(ctx context.Context, req dto.CreateProductVersionRequest) (dto.ProductVersionDetail, error) {
	v := mappers.NewProductVersionFromRequest(req)
	if err := s.validate(ctx, &v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.clearOtherCurrent(ctx, &v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.repo.Add(ctx, &v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	s.log(ctx, "create").Info("product version created", logger.EntityID(v.ID))
	return mappers.ProductVersionToDetail(v), nil
}

func (s *productVersionService) Update(ctx context.Context, id int64, req dto.UpdateProductVersionRequest) (dto.ProductVersionDetail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ProductVersionDetail{}, err
	}
	mappers.ApplyProductVersionUpdate(v, req)
	if err := s.validate(ctx, v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.clearOtherCurrent(ctx, v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	return mappers.ProductVersionToDetail(*v), nil
}

func (s *productVersionService) SetCurrent(ctx context.Context, id int64) (dto.ProductVersionDetail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ProductVersionDetail{}, err
	}
	v.IsCurrent = true
	ctx = repositories.Begin(ctx)
	if err := s.clearOtherCurrent(ctx, v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.ProductVersionDetail{}, err
	}
	logger.Event(ctx, "product_version", "set_current", "current version changed", logger.EntityID(v.ID))
	return mappers.ProductVersionToDetail(*v), nil
}
