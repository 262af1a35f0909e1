package repositories

import "gorm.io/gorm"

// Set bundles every repository over one connection pool.
type Set struct {
	Countries        CountryRepository
	Currencies       CurrencyRepository
	TimeZones        TimeZoneRepository
	DateFormats      DateFormatRepository
	Companies        CompanyRepository
	BusinessDays     BusinessDayRepository
	BusinessHours    BusinessHoursRepository
	BusinessHolidays BusinessHolidayRepository
	Products         ProductRepository
	ProductVersions  ProductVersionRepository
	Modules          ModuleRepository
	SubModules       SubModuleRepository
	Permissions      PermissionRepository
	Roles            RoleRepository
	Users            UserRepository
	RefreshTokens    RefreshTokenRepository
}

func NewSet(gdb *gorm.DB) *Set {
	return &Set{
		Countries:        NewCountryRepository(gdb),
		Currencies:       NewCurrencyRepository(gdb),
		TimeZones:        NewTimeZoneRepository(gdb),
		DateFormats:      NewDateFormatRepository(gdb),
		Companies:        NewCompanyRepository(gdb),
		BusinessDays:     NewBusinessDayRepository(gdb),
		BusinessHours:    NewBusinessHoursRepository(gdb),
		BusinessHolidays: NewBusinessHolidayRepository(gdb),
		Products:         NewProductRepository(gdb),
		ProductVersions:  NewProductVersionRepository(gdb),
		Modules:          NewModuleRepository(gdb),
		SubModules:       NewSubModuleRepository(gdb),
		Permissions:      NewPermissionRepository(gdb),
		Roles:            NewRoleRepository(gdb),
		Users:            NewUserRepository(gdb),
		RefreshTokens:    NewRefreshTokenRepository(gdb),
	}
}
