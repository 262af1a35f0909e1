package db

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

var ErrNoUnitOfWork = errors.New("db: no unit of work in context")

// Operation is one staged write, replayed inside the commit transaction.
type Operation func(tx *gorm.DB) error

// UnitOfWork collects writes until Commit flushes them together.
type UnitOfWork struct {
	mu  sync.Mutex
	ops []Operation
}

type uowKey struct{}

// Begin attaches a fresh unit of work to ctx.
func Begin(ctx context.Context) context.Context {
	return context.WithValue(ctx, uowKey{}, &UnitOfWork{})
}

func FromContext(ctx context.Context) (*UnitOfWork, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(uowKey{}).(*UnitOfWork)
	return u, ok && u != nil
}

// Enlist stages op on the unit of work carried by ctx.
func Enlist(ctx context.Context, op Operation) error {
	u, ok := FromContext(ctx)
	if !ok {
		return ErrNoUnitOfWork
	}
	u.mu.Lock()
	u.ops = append(u.ops, op)
	u.mu.Unlock()
	return nil
}

func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.ops)
}

func (u *UnitOfWork) drain() []Operation {
	u.mu.Lock()
	defer u.mu.Unlock()
	ops := u.ops
	u.ops = nil
	return ops
}

// Drain removes and returns the staged operations without running them.
// Callers that are not backed by gorm (in-memory stores) replay them with a nil tx.
func Drain(ctx context.Context) ([]Operation, error) {
	u, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoUnitOfWork
	}
	return u.drain(), nil
}

// Commit replays every staged operation in one transaction and clears the unit.
// On failure the transaction is rolled back and the staged operations are dropped.
func Commit(ctx context.Context, gdb *gorm.DB) error {
	u, ok := FromContext(ctx)
	if !ok {
		return ErrNoUnitOfWork
	}
	ops := u.drain()
	if len(ops) == 0 {
		return nil
	}
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
