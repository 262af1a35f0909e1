// Package services holds the business rules for every feature. Services stage
// writes through repositories and commit them with SaveChanges.
package services

import (
	"context"
	"encoding/json"
	"time"

	"bizadmin/internal/cache"
	"bizadmin/internal/domain"
	"bizadmin/internal/export"
	"bizadmin/internal/logger"
	"bizadmin/internal/repositories"

	"go.uber.org/zap"
)

// Resource is the CRUD surface shared by every feature service.
// L is the list DTO, D the detail DTO, C and U the create and update requests.
type Resource[L, D, C, U any] interface {
	GetByID(ctx context.Context, id int64) (D, error)
	List(ctx context.Context, q domain.QueryRequest) (domain.PagedResult[L], error)
	All(ctx context.Context) ([]L, error)
	Create(ctx context.Context, req C) (D, error)
	Update(ctx context.Context, id int64, req U) (D, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, q domain.QueryRequest) (export.Table, error)
}

// Options are the dependencies every service shares.
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

// crud implements the read, delete and export half of Resource for entity E.
type crud[E any, L any, D any] struct {
	resource string
	title    string
	repo     repositories.Repository[E]
	toList   func(E) L
	toDetail func(E) D
	headers  []string
	row      func(E) []string
	opts     Options

	// beforeDelete vetoes a delete, usually with a ConflictError naming the dependents.
	beforeDelete func(ctx context.Context, e *E) error
	// afterDelete stages extra writes in the same unit of work.
	afterDelete func(ctx context.Context, e *E) error
}

func (c crud[E, L, D]) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(logger.Component(c.resource), logger.Op(op))
}

func (c crud[E, L, D]) GetByID(ctx context.Context, id int64) (D, error) {
	var zero D
	if id <= 0 {
		return zero, domain.NotFound(c.resource, id)
	}
	e, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return c.toDetail(*e), nil
}

func (c crud[E, L, D]) List(ctx context.Context, q domain.QueryRequest) (domain.PagedResult[L], error) {
	page, err := c.repo.Page(ctx, q)
	if err != nil {
		return domain.PagedResult[L]{}, err
	}
	return domain.MapPage(page, c.toList), nil
}

func (c crud[E, L, D]) cacheKey() string { return "lookup:" + c.resource }

// All returns the unpaged lookup list, served from cache when possible.
func (c crud[E, L, D]) All(ctx context.Context) ([]L, error) {
	if c.opts.Cache != nil {
		if b, ok := c.opts.Cache.Get(ctx, c.cacheKey()); ok {
			var cached []L
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}
	items, err := c.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := domain.MapSlice(items, c.toList)
	if c.opts.Cache != nil {
		if b, err := json.Marshal(out); err == nil {
			c.opts.Cache.Set(ctx, c.cacheKey(), b, c.opts.CacheTTL)
		}
	}
	return out, nil
}

func (c crud[E, L, D]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NotFound(c.resource, id)
	}
	e, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.beforeDelete != nil {
		if err := c.beforeDelete(ctx, e); err != nil {
			return err
		}
	}
	ctx = repositories.Begin(ctx)
	if err := c.repo.Delete(ctx, e); err != nil {
		return err
	}
	if c.afterDelete != nil {
		if err := c.afterDelete(ctx, e); err != nil {
			return err
		}
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	c.log(ctx, "delete").Info("deleted", logger.EntityID(id))
	return nil
}

// Export pages through every row matching q (ignoring q's paging) into a table.
func (c crud[E, L, D]) Export(ctx context.Context, q domain.QueryRequest) (export.Table, error) {
	t := export.Table{Title: c.title, Headers: c.headers, Rows: [][]string{}}
	q.PageSize = domain.MaxPageSize
	for page := 1; ; page++ {
		q.Page = page
		res, err := c.repo.Page(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		for _, e := range res.Items {
			t.Rows = append(t.Rows, c.row(e))
		}
		if !res.HasNext {
			break
		}
	}
	return t, nil
}

// save commits the unit of work and drops the cached lookup list.
func (c crud[E, L, D]) save(ctx context.Context) error {
	if err := c.repo.SaveChanges(ctx); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c crud[E, L, D]) invalidate(ctx context.Context) {
	if c.opts.Cache != nil {
		c.opts.Cache.Delete(ctx, c.cacheKey())
	}
}

// detail reloads e so the response reflects the stored row (ids, audit, preloads).
func (c crud[E, L, D]) detail(ctx context.Context, id int64) (D, error) {
	return c.GetByID(ctx, id)
}
