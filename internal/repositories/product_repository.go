package repositories

import (
	"context"

	"bizadmin/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Repository[domain.Product]
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	HasVersions(ctx context.Context, id int64) (bool, error)
}

type GormProductRepository struct {
	gormRepository[domain.Product]
}

func NewProductRepository(gdb *gorm.DB) *GormProductRepository {
	return &GormProductRepository{newGormRepository[domain.Product](gdb, "product", QuerySpec{
		Search:      []string{"code", "name", "description"},
		Sort:        map[string]string{"id": "id", "code": "code", "name": "name", "createdAt": "created_at"},
		Filters:     map[string]string{"isActive": "is_active"},
		DefaultSort: "name",
	})}
}

func (r *GormProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

func (r *GormProductRepository) HasVersions(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.ProductVersion](ctx, r.DB, "product_id = ?", id)
	return n > 0, err
}

type ProductVersionRepository interface {
	Repository[domain.ProductVersion]
	ExistsByVersion(ctx context.Context, productID int64, version string, excludeID int64) (bool, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductVersion, error)
}

type GormProductVersionRepository struct {
	gormRepository[domain.ProductVersion]
}

func NewProductVersionRepository(gdb *gorm.DB) *GormProductVersionRepository {
	return &GormProductVersionRepository{newGormRepository[domain.ProductVersion](gdb, "product version", QuerySpec{
		Search: []string{"version", "notes"},
		Sort: map[string]string{
			"id": "id", "version": "version", "releaseDate": "release_date", "productId": "product_id",
		},
		Filters:     map[string]string{"productId": "product_id", "isCurrent": "is_current"},
		DefaultSort: "product_id, id",
	})}
}

func (r *GormProductVersionRepository) ExistsByVersion(ctx context.Context, productID int64, version string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "product_id = ? AND version = ?", productID, version)
}

func (r *GormProductVersionRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductVersion, error) {
	return r.findAll(ctx, "product_id = ?", productID)
}
