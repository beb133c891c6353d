package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"region-feedback-server/database"
	"region-feedback-server/logger"
	"region-feedback-server/middleware"
	"region-feedback-server/models"
	"region-feedback-server/services"
	"region-feedback-server/utils"
)

// UserView is a directory entry with its submission count
type UserView struct {
	models.User
	FeedbackCount int64 `json:"feedback_count"`
}

// listUsers returns the submitter directory with per-user feedback counts
func listUsers(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	q := database.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := utils.SafeLikePattern(search)
		q = q.Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count users")
		utils.InternalError(c)
		return
	}

	users := []models.User{}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list users")
		utils.InternalError(c)
		return
	}

	views := make([]UserView, len(users))
	for i, user := range users {
		var count int64
		if err := database.DB.Model(&models.Feedback{}).
			Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			logger.Log.Error().Err(err).Msg("Failed to count user feedbacks")
			utils.InternalError(c)
			return
		}
		views[i] = UserView{User: user, FeedbackCount: count}
	}

	respondPage(c, views, utils.BuildPaginationMeta(total, page, limit))
}

// getUser returns one submitter directory entry
func getUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	var count int64
	if err := database.DB.Model(&models.Feedback{}).
		Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count user feedbacks")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, UserView{User: user, FeedbackCount: count})
}

// listUserFeedbacks returns one submitter's feedback, still bounded by the
// caller's region scope.
func listUserFeedbacks(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	page, limit := parsePagination(c, 20)

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found")
		return
	}

	caller := middleware.CurrentUser(c)
	filter := services.ResolveRegionFilter(caller, nil)
	if filter.IsEmpty() {
		respondPage(c, []FeedbackView{}, utils.BuildPaginationMeta(0, page, limit))
		return
	}

	q := filter.Apply(database.DB.Model(&models.Feedback{}), "region_id").
		Where("user_id = ?", user.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count user feedbacks")
		utils.InternalError(c)
		return
	}

	feedbacks := []models.Feedback{}
	err := q.Preload("Region").Preload("Rating").
		Order("submitted_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list user feedbacks")
		utils.InternalError(c)
		return
	}

	respondPage(c, feedbackViews(feedbacks), utils.BuildPaginationMeta(total, page, limit))
}
