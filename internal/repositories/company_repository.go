package repositories

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bizadmin/internal/domain"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Repository[domain.Company]
	GetByCode(ctx context.Context, code string) (*domain.Company, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	HasDependents(ctx context.Context, id int64) (bool, error)
}

type GormCompanyRepository struct {
	gormRepository[domain.Company]
}

func NewCompanyRepository(gdb *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{newGormRepository[domain.Company](gdb, "company", QuerySpec{
		Search: []string{"code", "name", "legal_name", "email"},
		Sort: map[string]string{
			"id": "id", "code": "code", "name": "name", "createdAt": "created_at",
		},
		Filters: map[string]string{
			"isActive":   "is_active",
			"countryId":  "country_id",
			"currencyId": "currency_id",
			"timeZoneId": "time_zone_id",
		},
		DefaultSort: "name",
	})}
}

func (r *GormCompanyRepository) GetByCode(ctx context.Context, code string) (*domain.Company, error) {
	return r.findOne(ctx, code, "code = ?", code)
}

func (r *GormCompanyRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "code = ?", code)
}

// HasDependents reports live schedule rows or users attached to the company.
func (r *GormCompanyRepository) HasDependents(ctx context.Context, id int64) (bool, error) {
	checks := []func() (int64, error){
		func() (int64, error) { return countWhere[domain.BusinessDay](ctx, r.DB, "company_id = ?", id) },
		func() (int64, error) { return countWhere[domain.BusinessHours](ctx, r.DB, "company_id = ?", id) },
		func() (int64, error) { return countWhere[domain.BusinessHoliday](ctx, r.DB, "company_id = ?", id) },
		func() (int64, error) { return countWhere[domain.User](ctx, r.DB, "company_id = ?", id) },
	}
	for _, check := range checks {
		n, err := check()
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

type BusinessDayRepository interface {
	Repository[domain.BusinessDay]
	ExistsByDay(ctx context.Context, companyID int64, day int, excludeID int64) (bool, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.BusinessDay, error)
}

type GormBusinessDayRepository struct {
	gormRepository[domain.BusinessDay]
}

func NewBusinessDayRepository(gdb *gorm.DB) *GormBusinessDayRepository {
	return &GormBusinessDayRepository{newGormRepository[domain.BusinessDay](gdb, "business day", QuerySpec{
		Sort: map[string]string{
			"id": "id", "companyId": "company_id", "dayOfWeek": "day_of_week",
		},
		Filters: map[string]string{
			"companyId":    "company_id",
			"dayOfWeek":    "day_of_week",
			"isWorkingDay": "is_working_day",
		},
		DefaultSort: "company_id, day_of_week",
	})}
}

func (r *GormBusinessDayRepository) ExistsByDay(ctx context.Context, companyID int64, day int, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "company_id = ? AND day_of_week = ?", companyID, day)
}

func (r *GormBusinessDayRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.BusinessDay, error) {
	return r.findAll(ctx, "company_id = ?", companyID)
}

type BusinessHoursRepository interface {
	Repository[domain.BusinessHours]
	ListByCompanyDay(ctx context.Context, companyID int64, day int) ([]domain.BusinessHours, error)
}

type GormBusinessHoursRepository struct {
	gormRepository[domain.BusinessHours]
}

func NewBusinessHoursRepository(gdb *gorm.DB) *GormBusinessHoursRepository {
	return &GormBusinessHoursRepository{newGormRepository[domain.BusinessHours](gdb, "business hours", QuerySpec{
		Sort: map[string]string{
			"id": "id", "companyId": "company_id", "dayOfWeek": "day_of_week", "openTime": "open_time",
		},
		Filters: map[string]string{
			"companyId": "company_id",
			"dayOfWeek": "day_of_week",
		},
		DefaultSort: "company_id, day_of_week, open_time",
	})}
}

func (r *GormBusinessHoursRepository) ListByCompanyDay(ctx context.Context, companyID int64, day int) ([]domain.BusinessHours, error) {
	return r.findAll(ctx, "company_id = ? AND day_of_week = ?", companyID, day)
}

type BusinessHolidayRepository interface {
	Repository[domain.BusinessHoliday]
	ExistsByDate(ctx context.Context, companyID int64, date time.Time, excludeID int64) (bool, error)
}

type GormBusinessHolidayRepository struct {
	gormRepository[domain.BusinessHoliday]
}

func NewBusinessHolidayRepository(gdb *gorm.DB) *GormBusinessHolidayRepository {
	r := &GormBusinessHolidayRepository{newGormRepository[domain.BusinessHoliday](gdb, "business holiday", QuerySpec{
		Search: []string{"name"},
		Sort: map[string]string{
			"id": "id", "name": "name", "date": "date", "companyId": "company_id",
		},
		Filters: map[string]string{
			"companyId":   "company_id",
			"isRecurring": "is_recurring",
		},
		DefaultSort: "date",
	})}
	// year matches dated holidays inside the year plus every recurring one
	r.custom["year"] = func(tx *gorm.DB, value string) (*gorm.DB, error) {
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || year < 1 || year > 9999 {
			return nil, domain.ValidationError{Field: "year", Msg: "must be a four digit year"}
		}
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		return tx.Where("((date >= ? AND date < ?) OR is_recurring = ?)", from, to, true), nil
	}
	return r
}

func (r *GormBusinessHolidayRepository) ExistsByDate(ctx context.Context, companyID int64, date time.Time, excludeID int64) (bool, error) {
	return r.existsWhere(ctx, excludeID, "company_id = ? AND date = ?", companyID, date)
}
