package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a deduplicated non-anonymous feedback submitter, keyed by email.
// Repeat submissions with the same email overwrite name and phone.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	FullName  string    `json:"full_name" gorm:"size:255;not null"`
	Phone     string    `json:"phone,omitempty" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeSave normalizes the email so dedup lookups are case-insensitive
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
