package services

import (
	"context"
	"strings"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/domain"
	"bizadmin/internal/logger"
	"bizadmin/internal/repositories"

	"go.uber.org/zap"
)

const (
	AdminRole = "Administrator"
	UserRole  = "User"
)

// Actions granted per resource; read is the only one the User role gets.
var Actions = []string{"read", "create", "update", "delete", "export"}

type CatalogArea struct {
	Code      string
	Name      string
	Icon      string
	Resources []CatalogResource
}

type CatalogResource struct {
	Code string
	Name string
}

// Catalog is the module tree seeded into modules, sub-modules and permissions.
// Resource codes double as route segments and permission prefixes.
var Catalog = []CatalogArea{
	{Code: "reference", Name: "Reference Data", Icon: "globe", Resources: []CatalogResource{
		{"countries", "Countries"},
		{"currencies", "Currencies"},
		{"time-zones", "Time Zones"},
		{"date-formats", "Date Formats"},
	}},
	{Code: "organization", Name: "Organization", Icon: "building", Resources: []CatalogResource{
		{"companies", "Companies"},
		{"business-days", "Business Days"},
		{"business-hours", "Business Hours"},
		{"business-holidays", "Business Holidays"},
	}},
	{Code: "catalog", Name: "Product Catalog", Icon: "box", Resources: []CatalogResource{
		{"products", "Products"},
		{"product-versions", "Product Versions"},
	}},
	{Code: "access", Name: "Access Control", Icon: "shield", Resources: []CatalogResource{
		{"modules", "Modules"},
		{"sub-modules", "Sub Modules"},
		{"permissions", "Permissions"},
		{"roles", "Roles"},
		{"users", "Users"},
	}},
}

// PermissionCode joins a resource and an action, e.g. countries.read.
func PermissionCode(resource, action string) string {
	return resource + "." + action
}

type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// SeedReport counts the rows created by one run. A second run reports zeros.
type SeedReport struct {
	Modules     int `json:"modules"`
	SubModules  int `json:"subModules"`
	Permissions int `json:"permissions"`
	Roles       int `json:"roles"`
	Users       int `json:"users"`
	Reference   int `json:"reference"`
}

// Seeder inserts the permission catalog, system roles, the first
// administrator and starter reference data. Existing rows are left alone.
type Seeder struct {
	repos  *repositories.Set
	hasher *auth.PasswordHasher
	now    func() time.Time
}

func NewSeeder(repos *repositories.Set, hasher *auth.PasswordHasher) *Seeder {
	return &Seeder{repos: repos, hasher: hasher, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Seeder) Run(ctx context.Context, opts SeedOptions) (SeedReport, error) {
	var rep SeedReport
	log := logger.From(ctx).With(logger.Component("seed"))

	perms, err := s.seedCatalog(ctx, &rep)
	if err != nil {
		return rep, err
	}
	admin, err := s.seedRoles(ctx, perms, &rep)
	if err != nil {
		return rep, err
	}
	if opts.AdminUsername != "" {
		if err := s.seedAdmin(ctx, opts, admin, &rep); err != nil {
			return rep, err
		}
	}
	if err := s.seedReference(ctx, &rep); err != nil {
		return rep, err
	}
	log.Info("seed finished",
		zap.Int("modules", rep.Modules),
		zap.Int("sub_modules", rep.SubModules),
		zap.Int("permissions", rep.Permissions),
		zap.Int("roles", rep.Roles),
		zap.Int("users", rep.Users),
		zap.Int("reference", rep.Reference),
	)
	return rep, nil
}

// getOrAdd returns the row found by get, or stages and commits fresh.
func getOrAdd[E any](ctx context.Context, repo repositories.Repository[E], get func() (*E, error), fresh *E) (*E, bool, error) {
	e, err := get()
	if err == nil {
		return e, false, nil
	}
	if !domain.IsNotFound(err) {
		return nil, false, err
	}
	ctx = repositories.Begin(ctx)
	if err := repo.Add(ctx, fresh); err != nil {
		return nil, false, err
	}
	if err := repo.SaveChanges(ctx); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (s *Seeder) seedCatalog(ctx context.Context, rep *SeedReport) ([]domain.Permission, error) {
	var all []domain.Permission
	for i, area := range Catalog {
		m, created, err := getOrAdd(ctx, s.repos.Modules,
			func() (*domain.Module, error) { return s.repos.Modules.GetByCode(ctx, area.Code) },
			&domain.Module{Code: area.Code, Name: area.Name, Icon: area.Icon, SortOrder: (i + 1) * 10})
		if err != nil {
			return nil, err
		}
		if created {
			rep.Modules++
		}
		for j, res := range area.Resources {
			sm, created, err := getOrAdd(ctx, s.repos.SubModules,
				func() (*domain.SubModule, error) { return s.repos.SubModules.GetByCode(ctx, m.ID, res.Code) },
				&domain.SubModule{ModuleID: m.ID, Code: res.Code, Name: res.Name, Route: "/" + res.Code, SortOrder: (j + 1) * 10})
			if err != nil {
				return nil, err
			}
			if created {
				rep.SubModules++
			}
			for _, action := range Actions {
				code := PermissionCode(res.Code, action)
				p, created, err := getOrAdd(ctx, s.repos.Permissions,
					func() (*domain.Permission, error) { return s.repos.Permissions.GetByCode(ctx, code) },
					&domain.Permission{
						SubModuleID: sm.ID,
						Code:        code,
						Name:        strings.ToUpper(action[:1]) + action[1:] + " " + res.Name,
					})
				if err != nil {
					return nil, err
				}
				if created {
					rep.Permissions++
				}
				all = append(all, *p)
			}
		}
	}
	return all, nil
}

// seedRoles ensures both system roles exist and resyncs their grants with the catalog.
func (s *Seeder) seedRoles(ctx context.Context, perms []domain.Permission, rep *SeedReport) (*domain.Role, error) {
	var reads []domain.Permission
	for _, p := range perms {
		if strings.HasSuffix(p.Code, ".read") {
			reads = append(reads, p)
		}
	}
	grants := []struct {
		name, desc string
		perms      []domain.Permission
	}{
		{AdminRole, "Full access to every resource", perms},
		{UserRole, "Read-only access", reads},
	}

	var admin *domain.Role
	for _, g := range grants {
		r, created, err := getOrAdd(ctx, s.repos.Roles,
			func() (*domain.Role, error) { return s.repos.Roles.GetByName(ctx, g.name) },
			&domain.Role{Name: g.name, Description: g.desc, IsSystem: true})
		if err != nil {
			return nil, err
		}
		if created {
			rep.Roles++
		}
		wctx := repositories.Begin(ctx)
		if err := s.repos.Roles.ReplacePermissions(wctx, r, g.perms); err != nil {
			return nil, err
		}
		if err := s.repos.Roles.SaveChanges(wctx); err != nil {
			return nil, err
		}
		if g.name == AdminRole {
			admin = r
		}
	}
	return admin, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, opts SeedOptions, admin *domain.Role, rep *SeedReport) error {
	username := strings.ToLower(strings.TrimSpace(opts.AdminUsername))
	exists, err := s.repos.Users.ExistsByUsername(ctx, username, 0)
	if err != nil || exists {
		return err
	}
	if err := s.hasher.CheckPolicy("adminPassword", opts.AdminPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(opts.AdminPassword)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		email = username + "@localhost"
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		IsActive:     true,
	}
	ctx = repositories.Begin(ctx)
	if err := s.repos.Users.Add(ctx, u); err != nil {
		return err
	}
	if err := s.repos.Users.ReplaceRoles(ctx, u, []domain.Role{*admin}); err != nil {
		return err
	}
	if err := s.repos.Users.SaveChanges(ctx); err != nil {
		return err
	}
	rep.Users++
	return nil
}

var (
	seedCountries = []domain.Country{
		{Name: "Indonesia", Code: "ID", ISO3: "IDN", DialCode: "+62", IsActive: true},
		{Name: "Singapore", Code: "SG", ISO3: "SGP", DialCode: "+65", IsActive: true},
		{Name: "United Kingdom", Code: "GB", ISO3: "GBR", DialCode: "+44", IsActive: true},
		{Name: "United States", Code: "US", ISO3: "USA", DialCode: "+1", IsActive: true},
	}
	seedCurrencies = []domain.Currency{
		{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", DecimalPlaces: 0, IsActive: true},
		{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", DecimalPlaces: 2, IsActive: true},
		{Code: "EUR", Name: "Euro", Symbol: "€", DecimalPlaces: 2, IsActive: true},
		{Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, IsActive: true},
	}
	seedTimeZones = []domain.TimeZone{
		{Name: "UTC", DisplayName: "Coordinated Universal Time", IsActive: true},
		{Name: "Asia/Jakarta", DisplayName: "Western Indonesia Time", IsActive: true},
		{Name: "Asia/Singapore", DisplayName: "Singapore Time", IsActive: true},
		{Name: "Europe/London", DisplayName: "United Kingdom Time", IsActive: true},
		{Name: "America/New_York", DisplayName: "US Eastern Time", IsActive: true},
	}
	seedDateFormats = []domain.DateFormat{
		{Pattern: "yyyy-MM-dd", Description: "ISO 8601", IsDefault: true},
		{Pattern: "dd/MM/yyyy", Description: "Day first"},
		{Pattern: "MM/dd/yyyy", Description: "Month first"},
		{Pattern: "dd MMM yyyy", Description: "Short month name"},
	}
)

// addIfMissing stages e unless exists reports a live row with the same natural key.
func addIfMissing[E any](ctx context.Context, repo repositories.Repository[E], exists func() (bool, error), e *E) (bool, error) {
	ok, err := exists()
	if err != nil || ok {
		return false, err
	}
	return true, repo.Add(ctx, e)
}

func (s *Seeder) seedReference(ctx context.Context, rep *SeedReport) error {
	r := s.repos
	ctx = repositories.Begin(ctx)
	now := s.now()
	count := func(created bool, err error) error {
		if created {
			rep.Reference++
		}
		return err
	}

	for i := range seedCountries {
		c := seedCountries[i]
		if err := count(addIfMissing(ctx, r.Countries, func() (bool, error) { return r.Countries.ExistsByCode(ctx, c.Code, 0) }, &c)); err != nil {
			return err
		}
	}
	for i := range seedCurrencies {
		c := seedCurrencies[i]
		if err := count(addIfMissing(ctx, r.Currencies, func() (bool, error) { return r.Currencies.ExistsByCode(ctx, c.Code, 0) }, &c)); err != nil {
			return err
		}
	}
	for i := range seedTimeZones {
		tz := seedTimeZones[i]
		loc, err := time.LoadLocation(tz.Name)
		if err != nil {
			return domain.Internal("load seed time zone "+tz.Name, err)
		}
		tz.UTCOffset = utcOffset(loc, now)
		if err := count(addIfMissing(ctx, r.TimeZones, func() (bool, error) { return r.TimeZones.ExistsByName(ctx, tz.Name, 0) }, &tz)); err != nil {
			return err
		}
	}

	hasDefault := true
	if _, err := r.DateFormats.GetDefault(ctx); err != nil {
		if !domain.IsNotFound(err) {
			return err
		}
		hasDefault = false
	}
	for i := range seedDateFormats {
		f := seedDateFormats[i]
		f.IsDefault = f.IsDefault && !hasDefault
		if example, ok := formatPattern(f.Pattern, now); ok {
			f.Example = example
		}
		if err := count(addIfMissing(ctx, r.DateFormats, func() (bool, error) { return r.DateFormats.ExistsByPattern(ctx, f.Pattern, 0) }, &f)); err != nil {
			return err
		}
	}
	return r.Countries.SaveChanges(ctx)
}
