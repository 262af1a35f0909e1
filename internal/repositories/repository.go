package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bizadmin/internal/db"
	"bizadmin/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the data access contract every entity repository embeds.
// Writes are staged on the unit of work in ctx and applied by SaveChanges.
type Repository[E any] interface {
	GetByID(ctx context.Context, id int64) (*E, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Page(ctx context.Context, q domain.QueryRequest) (domain.PagedResult[E], error)
	All(ctx context.Context, filters ...domain.Filter) ([]E, error)
	Add(ctx context.Context, e *E) error
	Update(ctx context.Context, e *E) error
	Delete(ctx context.Context, e *E) error
	SaveChanges(ctx context.Context) error
}

// Begin attaches a unit of work to ctx; services call it before staging writes.
func Begin(ctx context.Context) context.Context {
	if _, ok := db.FromContext(ctx); ok {
		return ctx
	}
	return db.Begin(ctx)
}

// QuerySpec whitelists what callers may search, sort and filter on.
// Keys are JSON field names, values are column names.
type QuerySpec struct {
	Search      []string
	Sort        map[string]string
	Filters     map[string]string
	Preload     []string
	DefaultSort string
}

// FilterFunc turns a filter value into a custom condition, for filters that are not plain eq.
type FilterFunc func(tx *gorm.DB, value string) (*gorm.DB, error)

type gormRepository[E any] struct {
	DB       *gorm.DB
	resource string
	spec     QuerySpec
	custom   map[string]FilterFunc
	now      func() time.Time
}

func newGormRepository[E any](gdb *gorm.DB, resource string, spec QuerySpec) gormRepository[E] {
	if spec.DefaultSort == "" {
		spec.DefaultSort = "id"
	}
	return gormRepository[E]{
		DB:       gdb,
		resource: resource,
		spec:     spec,
		custom:   map[string]FilterFunc{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// base starts a read scoped to live rows.
func (r gormRepository[E]) base(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(new(E)).Where("is_deleted = ?", false)
}

// query is base plus the configured preloads.
func (r gormRepository[E]) query(ctx context.Context) *gorm.DB {
	return r.preload(r.base(ctx))
}

func (r gormRepository[E]) preload(tx *gorm.DB) *gorm.DB {
	for _, p := range r.spec.Preload {
		tx = tx.Preload(p, "is_deleted = ?", false)
	}
	return tx
}

func (r gormRepository[E]) GetByID(ctx context.Context, id int64) (*E, error) {
	return r.findOne(ctx, strconv.FormatInt(id, 10), "id = ?", id)
}

func (r gormRepository[E]) Exists(ctx context.Context, id int64) (bool, error) {
	return r.existsWhere(ctx, 0, "id = ?", id)
}

// findOne loads the first live row matching cond; key names the lookup in NotFound errors.
func (r gormRepository[E]) findOne(ctx context.Context, key string, cond string, args ...any) (*E, error) {
	var e E
	err := r.query(ctx).Where(cond, args...).First(&e).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, domain.NotFoundError{Resource: r.resource, Key: key, Err: err}
		}
		return nil, domain.InternalError{Msg: fmt.Sprintf("load %s", r.resource), Err: err}
	}
	return &e, nil
}

// findAll loads every live row matching cond ordered by the default sort.
func (r gormRepository[E]) findAll(ctx context.Context, cond string, args ...any) ([]E, error) {
	out := []E{}
	tx := r.query(ctx)
	if cond != "" {
		tx = tx.Where(cond, args...)
	}
	if err := tx.Order(r.spec.DefaultSort).Find(&out).Error; err != nil {
		return nil, domain.InternalError{Msg: fmt.Sprintf("list %s", r.resource), Err: err}
	}
	return out, nil
}

// existsWhere counts live rows matching cond, ignoring excludeID when non-zero.
func (r gormRepository[E]) existsWhere(ctx context.Context, excludeID int64, cond string, args ...any) (bool, error) {
	var n int64
	tx := r.base(ctx).Where(cond, args...)
	if excludeID > 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, domain.InternalError{Msg: fmt.Sprintf("check %s", r.resource), Err: err}
	}
	return n > 0, nil
}

// countWhere counts live rows of model M matching cond; used for dependency checks.
func countWhere[M any](ctx context.Context, gdb *gorm.DB, cond string, args ...any) (int64, error) {
	var n int64
	err := gdb.WithContext(ctx).Model(new(M)).Where("is_deleted = ?", false).Where(cond, args...).Count(&n).Error
	if err != nil {
		return 0, domain.InternalError{Msg: "count dependents", Err: err}
	}
	return n, nil
}

func (r gormRepository[E]) applyFilters(tx *gorm.DB, filters []domain.Filter) (*gorm.DB, error) {
	for _, f := range filters {
		if f.Op != "" && f.Op != "eq" {
			return nil, domain.ValidationError{Field: f.Field, Msg: fmt.Sprintf("operator %q not supported", f.Op)}
		}
		if fn, ok := r.custom[f.Field]; ok {
			var err error
			if tx, err = fn(tx, f.Value); err != nil {
				return nil, err
			}
			continue
		}
		col, ok := r.spec.Filters[f.Field]
		if !ok {
			return nil, domain.ValidationError{Field: f.Field, Msg: "unknown filter"}
		}
		v, err := filterValue(f.Field, f.Value)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	return tx, nil
}

func (r gormRepository[E]) applySearch(tx *gorm.DB, search string) *gorm.DB {
	if search == "" || len(r.spec.Search) == 0 {
		return tx
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	conds := make([]string, 0, len(r.spec.Search))
	args := make([]any, 0, len(r.spec.Search))
	for _, col := range r.spec.Search {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return tx.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// orderBy resolves SortBy against the whitelist; empty falls back to DefaultSort.
func (r gormRepository[E]) orderBy(q domain.QueryRequest) (any, error) {
	if q.SortBy == "" {
		if !q.SortDesc {
			return r.spec.DefaultSort, nil
		}
		cols := strings.Split(r.spec.DefaultSort, ",")
		for i, c := range cols {
			cols[i] = strings.TrimSpace(c) + " DESC"
		}
		return strings.Join(cols, ", "), nil
	}
	col, ok := r.spec.Sort[q.SortBy]
	if !ok {
		return nil, domain.ValidationError{Field: "sortBy", Msg: fmt.Sprintf("cannot sort by %q", q.SortBy)}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.SortDesc}, nil
}

// Page runs the paged query: filters, search, count, sort, then one page of rows.
func (r gormRepository[E]) Page(ctx context.Context, q domain.QueryRequest) (domain.PagedResult[E], error) {
	q = q.Normalize()
	order, err := r.orderBy(q)
	if err != nil {
		return domain.PagedResult[E]{}, err
	}
	tx, err := r.applyFilters(r.base(ctx), q.Filters)
	if err != nil {
		return domain.PagedResult[E]{}, err
	}
	tx = r.applySearch(tx, q.Search)

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return domain.PagedResult[E]{}, domain.InternalError{Msg: fmt.Sprintf("count %s", r.resource), Err: err}
	}

	items := []E{}
	if total > 0 {
		err = r.preload(tx).Order(order).Limit(q.PageSize).Offset(q.Offset()).Find(&items).Error
		if err != nil {
			return domain.PagedResult[E]{}, domain.InternalError{Msg: fmt.Sprintf("list %s", r.resource), Err: err}
		}
	}
	return domain.NewPagedResult(items, q, total), nil
}

// All is the unpaged query, filtered like Page and ordered by the default sort.
func (r gormRepository[E]) All(ctx context.Context, filters ...domain.Filter) ([]E, error) {
	tx, err := r.applyFilters(r.query(ctx), filters)
	if err != nil {
		return nil, err
	}
	out := []E{}
	if err := tx.Order(r.spec.DefaultSort).Find(&out).Error; err != nil {
		return nil, domain.InternalError{Msg: fmt.Sprintf("list %s", r.resource), Err: err}
	}
	return out, nil
}

func (r gormRepository[E]) Add(ctx context.Context, e *E) error {
	if ent, ok := any(e).(domain.Entity); ok {
		ent.Base().MarkCreated(domain.ActorFrom(ctx), r.now())
	}
	return db.Enlist(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(e).Error
	})
}

func (r gormRepository[E]) Update(ctx context.Context, e *E) error {
	if ent, ok := any(e).(domain.Entity); ok {
		ent.Base().MarkModified(domain.ActorFrom(ctx), r.now())
	}
	return db.Enlist(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(e).Error
	})
}

// Delete is a soft delete: the row stays, flagged and stamped.
func (r gormRepository[E]) Delete(ctx context.Context, e *E) error {
	ent, ok := any(e).(domain.Entity)
	if !ok {
		return domain.InternalError{Msg: fmt.Sprintf("%s does not support soft delete", r.resource)}
	}
	b := ent.Base()
	b.MarkDeleted(domain.ActorFrom(ctx), r.now())
	id, by, at := b.ID, b.ModifiedBy, *b.ModifiedAt
	return db.Enlist(ctx, func(tx *gorm.DB) error {
		return tx.Model(new(E)).Where("id = ?", id).Updates(map[string]any{
			"is_deleted":  true,
			"modified_by": by,
			"modified_at": at,
		}).Error
	})
}

// replaceAssociation stages a many-to-many replacement on owner.
func (r gormRepository[E]) replaceAssociation(ctx context.Context, owner *E, name string, values any) error {
	return db.Enlist(ctx, func(tx *gorm.DB) error {
		return tx.Model(owner).Association(name).Replace(values)
	})
}

// SaveChanges flushes the unit of work and maps driver errors to domain errors.
func (r gormRepository[E]) SaveChanges(ctx context.Context) error {
	err := db.Commit(ctx, r.DB)
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKey(err):
		return domain.ConflictError{Resource: r.resource, Msg: "duplicate value", Err: err}
	case errors.Is(err, db.ErrNoUnitOfWork):
		return domain.InternalError{Msg: "save changes without unit of work", Err: err}
	default:
		return domain.InternalError{Msg: fmt.Sprintf("save %s", r.resource), Err: err}
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// filterValue converts id, day and flag filters so both dialects compare typed values.
func filterValue(field, v string) (any, error) {
	switch {
	case strings.HasSuffix(field, "Id"):
		return parseID(field, v)
	case field == "dayOfWeek":
		d, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || d < 0 || d > 6 {
			return nil, domain.ValidationError{Field: field, Msg: "must be between 0 and 6"}
		}
		return d, nil
	case strings.HasPrefix(field, "is"):
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, domain.ValidationError{Field: field, Msg: "must be true or false"}
		}
		return b, nil
	}
	return strings.TrimSpace(v), nil
}

func parseID(field, v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: field, Msg: "must be a positive integer"}
	}
	return id, nil
}
