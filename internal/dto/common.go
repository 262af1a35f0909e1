// Package dto holds the request and response shapes exposed by the HTTP API.
package dto

import "time"

// Audit is embedded in every detail DTO.
type Audit struct {
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedBy string     `json:"modifiedBy,omitempty"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

// IDsRequest replaces a set of related ids, e.g. role permissions.
type IDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,dive,gt=0"`
}
