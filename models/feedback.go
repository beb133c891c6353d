package models

import (
	"time"

	"gorm.io/gorm"
)

type FeedbackStatus string

const (
	FeedbackStatusPending              FeedbackStatus = "pending"
	FeedbackStatusAcceptedAndForwarded FeedbackStatus = "accepted_and_forwarded"
	FeedbackStatusCompleted            FeedbackStatus = "completed"
	// Legacy statuses kept for older clients
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
	FeedbackStatusAnswered FeedbackStatus = "answered"
)

// IsValidFeedbackStatus checks a status value against the known set
func IsValidFeedbackStatus(s string) bool {
	switch FeedbackStatus(s) {
	case FeedbackStatusPending, FeedbackStatusAcceptedAndForwarded,
		FeedbackStatusCompleted, FeedbackStatusReviewed, FeedbackStatusAnswered:
		return true
	default:
		return false
	}
}

// FeedbackUserInfo is the submitter identity snapshot stored alongside a
// non-anonymous feedback.
type FeedbackUserInfo struct {
	FullName string `json:"fullName" gorm:"size:255"`
	Phone    string `json:"phone" gorm:"size:50"`
	Email    string `json:"email" gorm:"size:255"`
}

// Feedback is a citizen-submitted free-text report about a region, linked to
// the rating it was filed with. Anonymous feedback never stores identity
// fields, regardless of what the client sent.
type Feedback struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	RegionID  uint    `json:"region_id" gorm:"not null;index"`
	Region    *Region `json:"region,omitempty" gorm:"foreignKey:RegionID"`
	RatingID  uint    `json:"rating_id" gorm:"not null;index"`
	Rating    *Rating `json:"rating,omitempty" gorm:"foreignKey:RatingID"`
	UserID    *uint   `json:"user_id,omitempty" gorm:"index"`
	Anonymous bool    `json:"anonymous" gorm:"default:false"`
	Message   string  `json:"message" gorm:"type:text;not null"`
	Subject   string  `json:"subject,omitempty" gorm:"size:255"`

	UserInfo FeedbackUserInfo `json:"-" gorm:"embedded;embeddedPrefix:user_info_"`

	Status      FeedbackStatus `json:"status" gorm:"type:varchar(30);not null;default:'pending'"`
	Response    string         `json:"response,omitempty" gorm:"type:text"`
	SubmittedAt time.Time      `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedbacks"
}

// BeforeCreate stamps the submission time and defaults the status
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now()
	}
	if f.Status == "" {
		f.Status = FeedbackStatusPending
	}
	return nil
}

// FeedbackUserInfoRequest carries submitter identity on a non-anonymous
// submission.
type FeedbackUserInfoRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateFeedbackRequest is the public submission payload. Anonymous is a
// pointer so that an explicit false is distinguishable from a missing field.
type CreateFeedbackRequest struct {
	RegionID  uint                     `json:"region_id" binding:"required"`
	RatingID  uint                     `json:"rating_id" binding:"required"`
	Anonymous *bool                    `json:"anonymous" binding:"required"`
	Message   string                   `json:"message" binding:"required"`
	Subject   string                   `json:"subject"`
	UserInfo  *FeedbackUserInfoRequest `json:"user_info"`
}

// UpdateFeedbackRequest moves a feedback through the review workflow. The
// response is a pointer so an omitted field leaves the stored response alone.
type UpdateFeedbackRequest struct {
	Status   string  `json:"status" binding:"required,oneof=pending accepted_and_forwarded completed reviewed answered"`
	Response *string `json:"response"`
}
