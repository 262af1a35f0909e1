package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"bizadmin/internal/db"
	"bizadmin/internal/domain"
	"bizadmin/internal/repositories"

	"gorm.io/gorm"
)

// memRepo is an in-memory Repository[E]. Writes are staged on the unit of
// work in ctx like the gorm repositories and applied by SaveChanges.
type memRepo[E any] struct {
	mu       sync.Mutex
	resource string
	rows     map[int64]*E
	nextID   int64
	saveErr  error
	saves    int
}

func newMemRepo[E any](resource string) *memRepo[E] {
	return &memRepo[E]{resource: resource, rows: map[int64]*E{}}
}

func baseOf[E any](e *E) *domain.BaseEntity { return any(e).(domain.Entity).Base() }

func clone[E any](e *E) *E {
	c := *e
	return &c
}

// seed stores e directly, bypassing the unit of work.
func (m *memRepo[E]) seed(e *E) *E {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	baseOf(e).ID = m.nextID
	m.rows[m.nextID] = clone(e)
	return e
}

func (m *memRepo[E]) live() []E {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.rows))
	for id, e := range m.rows {
		if !baseOf(e).IsDeleted {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		out = append(out, *clone(m.rows[id]))
	}
	return out
}

func (m *memRepo[E]) find(pred func(*E) bool) []E {
	out := []E{}
	for _, e := range m.live() {
		if pred(&e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *memRepo[E]) first(key string, pred func(*E) bool) (*E, error) {
	found := m.find(pred)
	if len(found) == 0 {
		return nil, domain.NotFoundError{Resource: m.resource, Key: key}
	}
	return &found[0], nil
}

func (m *memRepo[E]) exists(excludeID int64, pred func(*E) bool) (bool, error) {
	for _, e := range m.find(pred) {
		if baseOf(&e).ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// raw returns the stored row, deleted or not.
func (m *memRepo[E]) raw(id int64) *E {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.rows[id]; ok {
		return clone(e)
	}
	return nil
}

func (m *memRepo[E]) GetByID(ctx context.Context, id int64) (*E, error) {
	return m.first(strconv.FormatInt(id, 10), func(e *E) bool { return baseOf(e).ID == id })
}

func (m *memRepo[E]) Exists(ctx context.Context, id int64) (bool, error) {
	return m.exists(0, func(e *E) bool { return baseOf(e).ID == id })
}

func (m *memRepo[E]) Page(ctx context.Context, q domain.QueryRequest) (domain.PagedResult[E], error) {
	q = q.Normalize()
	all := m.live()
	total := int64(len(all))
	start := min(q.Offset(), len(all))
	end := min(start+q.PageSize, len(all))
	return domain.NewPagedResult(all[start:end], q, total), nil
}

func (m *memRepo[E]) All(ctx context.Context, filters ...domain.Filter) ([]E, error) {
	return m.live(), nil
}

func (m *memRepo[E]) Add(ctx context.Context, e *E) error {
	baseOf(e).MarkCreated(domain.ActorFrom(ctx), time.Now().UTC())
	return db.Enlist(ctx, func(*gorm.DB) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.nextID++
		baseOf(e).ID = m.nextID
		m.rows[m.nextID] = clone(e)
		return nil
	})
}

func (m *memRepo[E]) Update(ctx context.Context, e *E) error {
	baseOf(e).MarkModified(domain.ActorFrom(ctx), time.Now().UTC())
	return m.stage(ctx, e)
}

func (m *memRepo[E]) Delete(ctx context.Context, e *E) error {
	baseOf(e).MarkDeleted(domain.ActorFrom(ctx), time.Now().UTC())
	return m.stage(ctx, e)
}

func (m *memRepo[E]) stage(ctx context.Context, e *E) error {
	snapshot := clone(e)
	return db.Enlist(ctx, func(*gorm.DB) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		id := baseOf(snapshot).ID
		if _, ok := m.rows[id]; !ok {
			return errors.New("update of unknown row")
		}
		m.rows[id] = snapshot
		return nil
	})
}

// SaveChanges replays every staged operation, including those staged by
// other fakes sharing the unit of work.
func (m *memRepo[E]) SaveChanges(ctx context.Context) error {
	ops, err := db.Drain(ctx)
	if err != nil {
		return domain.InternalError{Msg: "save changes without unit of work", Err: err}
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	for _, op := range ops {
		if err := op(nil); err != nil {
			return err
		}
	}
	return nil
}


type fakeCountries struct {
	*memRepo[domain.Country]
	inUse map[int64]bool
}

func (f *fakeCountries) GetByCode(ctx context.Context, code string) (*domain.Country, error) {
	return f.first(code, func(c *domain.Country) bool { return c.Code == code })
}
func (f *fakeCountries) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(c *domain.Country) bool { return c.Code == code })
}
func (f *fakeCountries) ExistsByISO3(ctx context.Context, iso3 string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(c *domain.Country) bool { return c.ISO3 == iso3 })
}
func (f *fakeCountries) InUse(ctx context.Context, id int64) (bool, error) { return f.inUse[id], nil }

type fakeCurrencies struct {
	*memRepo[domain.Currency]
	inUse map[int64]bool
}

func (f *fakeCurrencies) GetByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return f.first(code, func(c *domain.Currency) bool { return c.Code == code })
}
func (f *fakeCurrencies) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(c *domain.Currency) bool { return c.Code == code })
}
func (f *fakeCurrencies) InUse(ctx context.Context, id int64) (bool, error) { return f.inUse[id], nil }

type fakeTimeZones struct {
	*memRepo[domain.TimeZone]
	inUse map[int64]bool
}

func (f *fakeTimeZones) GetByName(ctx context.Context, name string) (*domain.TimeZone, error) {
	return f.first(name, func(t *domain.TimeZone) bool { return t.Name == name })
}
func (f *fakeTimeZones) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(t *domain.TimeZone) bool { return t.Name == name })
}
func (f *fakeTimeZones) InUse(ctx context.Context, id int64) (bool, error) { return f.inUse[id], nil }

type fakeDateFormats struct {
	*memRepo[domain.DateFormat]
	inUse map[int64]bool
}

func (f *fakeDateFormats) GetDefault(ctx context.Context) (*domain.DateFormat, error) {
	return f.first("default", func(d *domain.DateFormat) bool { return d.IsDefault })
}
func (f *fakeDateFormats) ExistsByPattern(ctx context.Context, pattern string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(d *domain.DateFormat) bool { return d.Pattern == pattern })
}
func (f *fakeDateFormats) InUse(ctx context.Context, id int64) (bool, error) { return f.inUse[id], nil }

type fakeCompanies struct {
	*memRepo[domain.Company]
	dependents map[int64]bool
}

func (f *fakeCompanies) GetByCode(ctx context.Context, code string) (*domain.Company, error) {
	return f.first(code, func(c *domain.Company) bool { return c.Code == code })
}
func (f *fakeCompanies) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(c *domain.Company) bool { return c.Code == code })
}
func (f *fakeCompanies) HasDependents(ctx context.Context, id int64) (bool, error) {
	return f.dependents[id], nil
}

type fakeBusinessDays struct{ *memRepo[domain.BusinessDay] }

func (f *fakeBusinessDays) ExistsByDay(ctx context.Context, companyID int64, day int, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(d *domain.BusinessDay) bool { return d.CompanyID == companyID && d.DayOfWeek == day })
}
func (f *fakeBusinessDays) ListByCompany(ctx context.Context, companyID int64) ([]domain.BusinessDay, error) {
	return f.find(func(d *domain.BusinessDay) bool { return d.CompanyID == companyID }), nil
}

type fakeBusinessHours struct{ *memRepo[domain.BusinessHours] }

func (f *fakeBusinessHours) ListByCompanyDay(ctx context.Context, companyID int64, day int) ([]domain.BusinessHours, error) {
	return f.find(func(h *domain.BusinessHours) bool { return h.CompanyID == companyID && h.DayOfWeek == day }), nil
}

type fakeBusinessHolidays struct{ *memRepo[domain.BusinessHoliday] }

func (f *fakeBusinessHolidays) ExistsByDate(ctx context.Context, companyID int64, date time.Time, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(h *domain.BusinessHoliday) bool {
		return h.CompanyID == companyID && h.Date.Equal(date)
	})
}

type fakeProducts struct {
	*memRepo[domain.Product]
	versions *fakeProductVersions
}

func (f *fakeProducts) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return f.first(code, func(p *domain.Product) bool { return p.Code == code })
}
func (f *fakeProducts) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(p *domain.Product) bool { return p.Code == code })
}
func (f *fakeProducts) HasVersions(ctx context.Context, id int64) (bool, error) {
	return len(f.versions.find(func(v *domain.ProductVersion) bool { return v.ProductID == id })) > 0, nil
}

type fakeProductVersions struct{ *memRepo[domain.ProductVersion] }

func (f *fakeProductVersions) ExistsByVersion(ctx context.Context, productID int64, version string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(v *domain.ProductVersion) bool { return v.ProductID == productID && v.Version == version })
}
func (f *fakeProductVersions) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductVersion, error) {
	return f.find(func(v *domain.ProductVersion) bool { return v.ProductID == productID }), nil
}

type fakeModules struct {
	*memRepo[domain.Module]
	subs *fakeSubModules
}

func (f *fakeModules) GetByCode(ctx context.Context, code string) (*domain.Module, error) {
	return f.first(code, func(m *domain.Module) bool { return m.Code == code })
}
func (f *fakeModules) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(m *domain.Module) bool { return m.Code == code })
}
func (f *fakeModules) HasSubModules(ctx context.Context, id int64) (bool, error) {
	return len(f.subs.find(func(s *domain.SubModule) bool { return s.ModuleID == id })) > 0, nil
}

type fakeSubModules struct {
	*memRepo[domain.SubModule]
	perms *fakePermissions
}

func (f *fakeSubModules) GetByCode(ctx context.Context, moduleID int64, code string) (*domain.SubModule, error) {
	return f.first(code, func(s *domain.SubModule) bool { return s.ModuleID == moduleID && s.Code == code })
}
func (f *fakeSubModules) ExistsByCode(ctx context.Context, moduleID int64, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(s *domain.SubModule) bool { return s.ModuleID == moduleID && s.Code == code })
}
func (f *fakeSubModules) HasPermissions(ctx context.Context, id int64) (bool, error) {
	return len(f.perms.find(func(p *domain.Permission) bool { return p.SubModuleID == id })) > 0, nil
}

type fakePermissions struct {
	*memRepo[domain.Permission]
	roles *fakeRoles
}

func (f *fakePermissions) GetByCode(ctx context.Context, code string) (*domain.Permission, error) {
	return f.first(code, func(p *domain.Permission) bool { return p.Code == code })
}
func (f *fakePermissions) GetByIDs(ctx context.Context, ids []int64) ([]domain.Permission, error) {
	return f.find(func(p *domain.Permission) bool { return slices.Contains(ids, p.ID) }), nil
}
func (f *fakePermissions) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(p *domain.Permission) bool { return p.Code == code })
}
func (f *fakePermissions) IsAssigned(ctx context.Context, id int64) (bool, error) {
	roles := f.roles.find(func(r *domain.Role) bool {
		return slices.ContainsFunc(r.Permissions, func(p domain.Permission) bool { return p.ID == id })
	})
	return len(roles) > 0, nil
}

type fakeRoles struct {
	*memRepo[domain.Role]
	users *fakeUsers
}

func (f *fakeRoles) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return f.first(name, func(r *domain.Role) bool { return r.Name == name })
}
func (f *fakeRoles) GetByIDs(ctx context.Context, ids []int64) ([]domain.Role, error) {
	return f.find(func(r *domain.Role) bool { return slices.Contains(ids, r.ID) }), nil
}
func (f *fakeRoles) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(r *domain.Role) bool { return r.Name == name })
}
func (f *fakeRoles) HasUsers(ctx context.Context, id int64) (bool, error) {
	users := f.users.find(func(u *domain.User) bool {
		return slices.ContainsFunc(u.Roles, func(r domain.Role) bool { return r.ID == id })
	})
	return len(users) > 0, nil
}
func (f *fakeRoles) ReplacePermissions(ctx context.Context, role *domain.Role, perms []domain.Permission) error {
	role.Permissions = perms
	return db.Enlist(ctx, func(*gorm.DB) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		stored, ok := f.rows[role.ID]
		if !ok {
			return errors.New("replace permissions of unknown role")
		}
		stored.Permissions = slices.Clone(perms)
		return nil
	})
}

type fakeUsers struct {
	*memRepo[domain.User]
	roles *fakeRoles
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return f.first(username, func(u *domain.User) bool { return u.Username == username })
}
func (f *fakeUsers) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	u, err := f.first(login, func(u *domain.User) bool { return u.Username == login || u.Email == login })
	if err != nil {
		return nil, err
	}
	f.reloadRoles(u)
	return u, nil
}
func (f *fakeUsers) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(u *domain.User) bool { return u.Username == username })
}
func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return f.exists(excludeID, func(u *domain.User) bool { return u.Email == email })
}
func (f *fakeUsers) ReplaceRoles(ctx context.Context, user *domain.User, roles []domain.Role) error {
	user.Roles = roles
	return db.Enlist(ctx, func(*gorm.DB) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		stored, ok := f.rows[user.ID]
		if !ok {
			return errors.New("replace roles of unknown user")
		}
		stored.Roles = slices.Clone(roles)
		return nil
	})
}
func (f *fakeUsers) Count(ctx context.Context) (int64, error) { return int64(len(f.live())), nil }

// GetByID mirrors the gorm preload of Roles and Roles.Permissions.
func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := f.memRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.reloadRoles(u)
	return u, nil
}

func (f *fakeUsers) reloadRoles(u *domain.User) {
	if f.roles == nil {
		return
	}
	roles := make([]domain.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if stored := f.roles.raw(r.ID); stored != nil && !stored.IsDeleted {
			roles = append(roles, *stored)
		}
	}
	u.Roles = roles
}

type fakeTokens struct {
	*memRepo[domain.RefreshToken]
	// afterGet runs once after the next GetByHash read, before the caller acts on it.
	afterGet func()
}

func (f *fakeTokens) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	t, err := f.first("", func(t *domain.RefreshToken) bool { return t.TokenHash == hash })
	if hook := f.afterGet; hook != nil {
		f.afterGet = nil
		hook()
	}
	return t, err
}

func (f *fakeTokens) RevokeActive(ctx context.Context, t *domain.RefreshToken) error {
	baseOf(t).MarkModified(domain.ActorFrom(ctx), time.Now().UTC())
	snapshot := clone(t)
	return db.Enlist(ctx, func(*gorm.DB) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		cur, ok := f.rows[snapshot.ID]
		if !ok || cur.RevokedAt != nil {
			return repositories.ErrTokenAlreadyRevoked
		}
		f.rows[snapshot.ID] = snapshot
		return nil
	})
}
func (f *fakeTokens) ListActiveByUser(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshToken, error) {
	return f.find(func(t *domain.RefreshToken) bool { return t.UserID == userID && t.IsActive(now) }), nil
}
func (f *fakeTokens) Purge(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.rows {
		if t.ExpiresAt.Before(before) || (t.RevokedAt != nil && t.RevokedAt.Before(before)) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeSet wires the fakes the way repositories.NewSet wires the gorm ones.
type fakeSet struct {
	countries        *fakeCountries
	currencies       *fakeCurrencies
	timeZones        *fakeTimeZones
	dateFormats      *fakeDateFormats
	companies        *fakeCompanies
	businessDays     *fakeBusinessDays
	businessHours    *fakeBusinessHours
	businessHolidays *fakeBusinessHolidays
	products         *fakeProducts
	versions         *fakeProductVersions
	modules          *fakeModules
	subModules       *fakeSubModules
	permissions      *fakePermissions
	roles            *fakeRoles
	users            *fakeUsers
	tokens           *fakeTokens
}

func newFakeSet() *fakeSet {
	f := &fakeSet{
		countries:        &fakeCountries{memRepo: newMemRepo[domain.Country]("country"), inUse: map[int64]bool{}},
		currencies:       &fakeCurrencies{memRepo: newMemRepo[domain.Currency]("currency"), inUse: map[int64]bool{}},
		timeZones:        &fakeTimeZones{memRepo: newMemRepo[domain.TimeZone]("time zone"), inUse: map[int64]bool{}},
		dateFormats:      &fakeDateFormats{memRepo: newMemRepo[domain.DateFormat]("date format"), inUse: map[int64]bool{}},
		companies:        &fakeCompanies{memRepo: newMemRepo[domain.Company]("company"), dependents: map[int64]bool{}},
		businessDays:     &fakeBusinessDays{newMemRepo[domain.BusinessDay]("business day")},
		businessHours:    &fakeBusinessHours{newMemRepo[domain.BusinessHours]("business hours")},
		businessHolidays: &fakeBusinessHolidays{newMemRepo[domain.BusinessHoliday]("business holiday")},
		products:         &fakeProducts{memRepo: newMemRepo[domain.Product]("product")},
		versions:         &fakeProductVersions{newMemRepo[domain.ProductVersion]("product version")},
		modules:          &fakeModules{memRepo: newMemRepo[domain.Module]("module")},
		subModules:       &fakeSubModules{memRepo: newMemRepo[domain.SubModule]("sub-module")},
		permissions:      &fakePermissions{memRepo: newMemRepo[domain.Permission]("permission")},
		roles:            &fakeRoles{memRepo: newMemRepo[domain.Role]("role")},
		users:            &fakeUsers{memRepo: newMemRepo[domain.User]("user")},
		tokens:           &fakeTokens{memRepo: newMemRepo[domain.RefreshToken]("refresh token")},
	}
	f.products.versions = f.versions
	f.modules.subs = f.subModules
	f.subModules.perms = f.permissions
	f.permissions.roles = f.roles
	f.roles.users = f.users
	f.users.roles = f.roles
	return f
}

func (f *fakeSet) set() *repositories.Set {
	return &repositories.Set{
		Countries:        f.countries,
		Currencies:       f.currencies,
		TimeZones:        f.timeZones,
		DateFormats:      f.dateFormats,
		Companies:        f.companies,
		BusinessDays:     f.businessDays,
		BusinessHours:    f.businessHours,
		BusinessHolidays: f.businessHolidays,
		Products:         f.products,
		ProductVersions:  f.versions,
		Modules:          f.modules,
		SubModules:       f.subModules,
		Permissions:      f.permissions,
		Roles:            f.roles,
		Users:            f.users,
		RefreshTokens:    f.tokens,
	}
}
