package repositories

import (
	"context"

	"bizadmin/internal/domain"

	"gorm.io/gorm"
)

type CountryRepository interface {
	Repository[domain.Country]
	GetByCode(ctx context.Context, code string) (*domain.Country, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	ExistsByISO3(ctx context.Context, iso3 string, excludeID int64) (bool, error)
	InUse(ctx context.Context, id int64) (bool, error)
}

type GormCountryRepository struct {
	gormRepository[domain.Country]
}

func NewCountryRepository(gdb *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{newGormRepository[domain.Country](gdb, "country", QuerySpec{
		Search: []string{"name", "code", "iso3"},
		Sort: map[string]string{
			"id": "id", "name": "name", "code": "code", "iso3": "iso3", "createdAt": "created_at",
		},
		Filters:     map[string]string{"isActive": "is_active", "code": "code"},
		DefaultSort: "name",
	})}
}

func (r *GormCountryRepository) GetByCode(ctx context.Context, code string) (*domain.Country, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormCountryRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

func (r *GormCountryRepository) ExistsByISO3(ctx context.Context, iso3 string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "iso3 = ?", iso3)
}

func (r *GormCountryRepository) InUse(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.Company](ctx, r.DB, "country_id = ?", id)
	return n > 0, err
}

type CurrencyRepository interface {
	Repository[domain.Currency]
	GetByCode(ctx context.Context, code string) (*domain.Currency, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	InUse(ctx context.Context, id int64) (bool, error)
}

type GormCurrencyRepository struct {
	gormRepository[domain.Currency]
}

func NewCurrencyRepository(gdb *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{newGormRepository[domain.Currency](gdb, "currency", QuerySpec{
		Search: []string{"name", "code", "symbol"},
		Sort: map[string]string{
			"id": "id", "name": "name", "code": "code", "decimalPlaces": "decimal_places", "createdAt": "created_at",
		},
		Filters:     map[string]string{"isActive": "is_active"},
		DefaultSort: "code",
	})}
}

func (r *GormCurrencyRepository) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormCurrencyRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

func (r *GormCurrencyRepository) InUse(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.Company](ctx, r.DB, "currency_id = ?", id)
	return n > 0, err
}

type TimeZoneRepository interface {
	Repository[domain.TimeZone]
	GetByName(ctx context.Context, name string) (*domain.TimeZone, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	InUse(ctx context.Context, id int64) (bool, error)
}

type GormTimeZoneRepository struct {
	gormRepository[domain.TimeZone]
}

func NewTimeZoneRepository(gdb *gorm.DB) *GormTimeZoneRepository {
	return &GormTimeZoneRepository{newGormRepository[domain.TimeZone](gdb, "time zone", QuerySpec{
		Search: []string{"name", "display_name"},
		Sort: map[string]string{
			"id": "id", "name": "name", "displayName": "display_name", "utcOffset": "utc_offset",
		},
		Filters:     map[string]string{"isActive": "is_active", "utcOffset": "utc_offset"},
		DefaultSort: "name",
	})}
}

func (r *GormTimeZoneRepository) GetByName(ctx context.Context, name string) (*domain.TimeZone, error) {
	return r.findOne(ctx, name, "name = ?", name)
}

func (r *GormTimeZoneRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "name = ?", name)
}

func (r *GormTimeZoneRepository) InUse(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.Company](ctx, r.DB, "time_zone_id = ?", id)
	return n > 0, err
}

type DateFormatRepository interface {
	Repository[domain.DateFormat]
	GetDefault(ctx context.Context) (*domain.DateFormat, error)
	ExistsByPattern(ctx context.Context, pattern string, excludeID int64) (bool, error)
	InUse(ctx context.Context, id int64) (bool, error)
}

type GormDateFormatRepository struct {
	gormRepository[domain.DateFormat]
}

func NewDateFormatRepository(gdb *gorm.DB) *GormDateFormatRepository {
	return &GormDateFormatRepository{newGormRepository[domain.DateFormat](gdb, "date format", QuerySpec{
		Search:      []string{"pattern", "description"},
		Sort:        map[string]string{"id": "id", "pattern": "pattern", "isDefault": "is_default"},
		Filters:     map[string]string{"isDefault": "is_default"},
		DefaultSort: "pattern",
	})}
}

func (r *GormDateFormatRepository) GetDefault(ctx context.Context) (*domain.DateFormat, error) {
	return r.findOne(ctx, "default", "is_default = ?", true)
}

func (r *GormDateFormatRepository) ExistsByPattern(ctx context.Context, pattern string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "pattern = ?", pattern)
}

func (r *GormDateFormatRepository) InUse(ctx context.Context, id int64) (bool, error) {
	n, err := countWhere[domain.Company](ctx, r.DB, "date_format_id = ?", id)
	return n > 0, err
}
