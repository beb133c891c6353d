package jobs

import (
	"time"

	"gorm.io/gorm"

	"region-feedback-server/logger"
	"region-feedback-server/models"
)

// RetentionJob prunes audit log entries older than the configured window
type RetentionJob struct {
	db       *gorm.DB
	days     int
	stopChan chan bool
}

// NewRetentionJob creates a retention job. A zero or negative window disables
// pruning.
func NewRetentionJob(db *gorm.DB, days int) *RetentionJob {
	return &RetentionJob{
		db:       db,
		days:     days,
		stopChan: make(chan bool),
	}
}

// Start begins the retention loop
func (j *RetentionJob) Start() {
	if j.days <= 0 {
		logger.Log.Info().Msg("Audit log retention disabled")
		return
	}
	go j.run()
	logger.Log.Info().Int("days", j.days).Msg("Audit log retention job started")
}

// Stop stops the retention loop
func (j *RetentionJob) Stop() {
	if j.days <= 0 {
		return
	}
	j.stopChan <- true
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	j.prune()
	for {
		select {
		case <-ticker.C:
			j.prune()
		case <-j.stopChan:
			return
		}
	}
}

func (j *RetentionJob) prune() {
	cutoff := time.Now().AddDate(0, 0, -j.days)
	result := j.db.Where("timestamp < ?", cutoff).Delete(&models.Log{})
	if result.Error != nil {
		logger.Log.Error().Err(result.Error).Msg("Failed to prune audit log")
		return
	}
	if result.RowsAffected > 0 {
		logger.Log.Info().Int64("removed", result.RowsAffected).Msg("Pruned expired audit entries")
	}
}
