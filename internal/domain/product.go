package domain

import "time"

type Product struct {
	BaseEntity
	Code        string
	Name        string
	Description string
	IsActive    bool
}

func (Product) TableName() string { return "products" }

type ProductVersion struct {
	BaseEntity
	ProductID   int64
	Version     string
	ReleaseDate *time.Time `gorm:"type:date"`
	Notes       string
	IsCurrent   bool
}

func (ProductVersion) TableName() string { return "product_versions" }
