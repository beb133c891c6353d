package models

import "time"

// Region is an administrative territory, the unit of access scoping.
// Ratings, feedbacks and admin assignments reference regions by ID.
type Region struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Region model
func (Region) TableName() string {
	return "regions"
}

// CreateRegionRequest is the payload for creating a region
type CreateRegionRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateRegionRequest is the payload for renaming a region
type UpdateRegionRequest struct {
	Name string `json:"name" binding:"required"`
}
