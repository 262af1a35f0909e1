package services

import (
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/metrics"
	"bizadmin/internal/repositories"
	"bizadmin/internal/storage"
)

// Set is every feature service, built once at startup.
type Set struct {
	Countries        CountryService
	Currencies       CurrencyService
	TimeZones        TimeZoneService
	DateFormats      DateFormatService
	Companies        CompanyService
	BusinessDays     BusinessDayService
	BusinessHours    BusinessHoursService
	BusinessHolidays BusinessHolidayService
	Products         ProductService
	ProductVersions  ProductVersionService
	Modules          ModuleService
	SubModules       SubModuleService
	Permissions      PermissionService
	Roles            RoleService
	Users            UserService
	Auth             AuthService
}

// Deps are the collaborators beyond repositories.
type Deps struct {
	Issuer       *auth.Issuer
	Hasher       *auth.PasswordHasher
	Metrics      *metrics.Metrics
	Files        storage.Storage
	MaxLogoBytes int64
	RefreshTTL   time.Duration
	DefaultRole  string
}

func NewSet(r *repositories.Set, d Deps, opts Options) *Set {
	return &Set{
		Countries:   NewCountryService(r.Countries, opts),
		Currencies:  NewCurrencyService(r.Currencies, opts),
		TimeZones:   NewTimeZoneService(r.TimeZones, opts),
		DateFormats: NewDateFormatService(r.DateFormats, opts),
		Companies: NewCompanyService(r.Companies, CompanyRefs{
			Countries:   r.Countries,
			Currencies:  r.Currencies,
			TimeZones:   r.TimeZones,
			DateFormats: r.DateFormats,
		}, d.Files, d.MaxLogoBytes, opts),
		BusinessDays:     NewBusinessDayService(r.BusinessDays, r.Companies, opts),
		BusinessHours:    NewBusinessHoursService(r.BusinessHours, r.Companies, opts),
		BusinessHolidays: NewBusinessHolidayService(r.BusinessHolidays, r.Companies, opts),
		Products:         NewProductService(r.Products, opts),
		ProductVersions:  NewProductVersionService(r.ProductVersions, r.Products, opts),
		Modules:          NewModuleService(r.Modules, opts),
		SubModules:       NewSubModuleService(r.SubModules, r.Modules, opts),
		Permissions:      NewPermissionService(r.Permissions, r.SubModules, opts),
		Roles:            NewRoleService(r.Roles, r.Permissions, opts),
		Users:            NewUserService(r.Users, r.Roles, r.Companies, r.RefreshTokens, d.Hasher, opts),
		Auth: NewAuthService(AuthDeps{
			Users:       r.Users,
			Roles:       r.Roles,
			Tokens:      r.RefreshTokens,
			Issuer:      d.Issuer,
			Hasher:      d.Hasher,
			Metrics:     d.Metrics,
			RefreshTTL:  d.RefreshTTL,
			DefaultRole: d.DefaultRole,
		}, opts),
	}
}
