package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating is a citizen-submitted 1-5 star rating for a region. Ratings are
// immutable after creation; there is no update or delete operation.
type Rating struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RegionID    uint      `json:"region_id" gorm:"not null;index"`
	Region      *Region   `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	Rating      int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment     string    `json:"comment,omitempty" gorm:"type:text"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}

// BeforeCreate stamps the submission time when the client did not
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}

// EffectiveTime is the timestamp used for date-range filtering and trend
// bucketing: creation time, falling back to the submission stamp.
func (r *Rating) EffectiveTime() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.SubmittedAt
}

// CreateRatingRequest is the public submission payload
type CreateRatingRequest struct {
	RegionID uint   `json:"region_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}
