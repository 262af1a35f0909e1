package dto

type ProductListItem struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type ProductDetail struct {
	ProductListItem
	Description string `json:"description"`
	Audit
}

type CreateProductRequest struct {
	Code        string `json:"code" binding:"required,max=30"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateProductRequest = CreateProductRequest

type ProductVersionListItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	Version     string `json:"version"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
}

type ProductVersionDetail struct {
	ProductVersionListItem
	Notes string `json:"notes"`
	Audit
}

type CreateProductVersionRequest struct {
	ProductID   int64  `json:"productId" binding:"required,gt=0"`
	Version     string `json:"version" binding:"required,max=50,semver"`
	ReleaseDate string `json:"releaseDate" binding:"omitempty,date"`
	Notes       string `json:"notes" binding:"omitempty,max=2000"`
	IsCurrent   bool   `json:"isCurrent"`
}

type UpdateProductVersionRequest struct {
	Version     string `json:"version" binding:"required,max=50,semver"`
	ReleaseDate string `json:"releaseDate" binding:"omitempty,date"`
	Notes       string `json:"notes" binding:"omitempty,max=2000"`
	IsCurrent   bool   `json:"isCurrent"`
}
