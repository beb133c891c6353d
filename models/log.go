package models

import "time"

// Log is an append-only audit record. The auto-increment ID doubles as the
// forward-only pagination cursor.
type Log struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"size:100;not null;index"`
	UserID    *uint     `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the Log model
func (Log) TableName() string {
	return "logs"
}

// Audit actions recorded by the services
const (
	ActionLogin          = "LOGIN"
	ActionFailedLogin    = "FAILED_LOGIN"
	ActionCreateRating   = "CREATE_RATING"
	ActionCreateFeedback = "CREATE_FEEDBACK"
	ActionUpdateFeedback = "UPDATE_FEEDBACK"
)
