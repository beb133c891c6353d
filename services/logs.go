package services

import (
	"time"

	"gorm.io/gorm"

	"region-feedback-server/logger"
	"region-feedback-server/models"
	"region-feedback-server/utils"
)

// DefaultLogPageSize bounds a single audit log page
const DefaultLogPageSize = 50

// CursorMeta carries the forward-only pagination cursors. Next is null on the
// last page; Prev echoes the cursor the page was requested with.
type CursorMeta struct {
	Next *string `json:"nextCursor"`
	Prev *string `json:"prevCursor"`
}

// LogPage is one page of audit records in insertion order
type LogPage struct {
	Data   []models.Log `json:"data"`
	Cursor CursorMeta   `json:"cursor"`
}

// LogsService records and lists audit entries
type LogsService struct {
	db *gorm.DB
}

// NewLogsService creates a logs service bound to a database handle
func NewLogsService(db *gorm.DB) *LogsService {
	return &LogsService{db: db}
}

// Record appends an audit entry. Failures are logged and swallowed; an audit
// write must never fail the operation it describes.
func (s *LogsService) Record(action string, userID *uint) {
	entry := models.Log{
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Log.Error().Err(err).Str("action", action).Msg("Failed to record audit entry")
	}
}

// List returns audit records after the given cursor in ascending ID order,
// optionally filtered by action. A malformed cursor restarts from the
// beginning. The next cursor is only set when the page came back full.
func (s *LogsService) List(cursor string, limit int, action string) (*LogPage, error) {
	if limit < 1 || limit > DefaultLogPageSize {
		limit = DefaultLogPageSize
	}

	q := s.db.Model(&models.Log{})
	if after, ok := utils.DecodeCursor(cursor); ok {
		q = q.Where("id > ?", after)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}

	entries := []models.Log{}
	if err := q.Order("id ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	page := &LogPage{Data: entries}
	if len(entries) == limit {
		next := utils.EncodeCursor(entries[len(entries)-1].ID)
		page.Cursor.Next = &next
	}
	if cursor != "" {
		page.Cursor.Prev = &cursor
	}
	return page, nil
}
