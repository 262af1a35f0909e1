package domain

import "time"

// BaseEntity holds the identity, audit and soft-delete columns shared by every table.
type BaseEntity struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt *time.Time
	IsDeleted  bool
}

// Entity is implemented by every persisted record through BaseEntity.
type Entity interface {
	Base() *BaseEntity
}

func (b *BaseEntity) Base() *BaseEntity { return b }

func (b *BaseEntity) MarkCreated(actor string, now time.Time) {
	b.CreatedBy = actor
	b.CreatedAt = now
	b.ModifiedBy = actor
	b.ModifiedAt = &now
}

func (b *BaseEntity) MarkModified(actor string, now time.Time) {
	b.ModifiedBy = actor
	b.ModifiedAt = &now
}

func (b *BaseEntity) MarkDeleted(actor string, now time.Time) {
	b.IsDeleted = true
	b.MarkModified(actor, now)
}
