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
	"region-feedback-server/websocket"
)

var feedbackSortFields = map[string]string{
	"submittedAt": "submitted_at",
	"status":      "status",
}

// FeedbackView is the outward shape of a feedback record. Submitter identity
// is only included for non-anonymous feedback.
type FeedbackView struct {
	*models.Feedback
	UserInfo *models.FeedbackUserInfo `json:"user_info,omitempty"`
}

func feedbackView(f *models.Feedback) FeedbackView {
	view := FeedbackView{Feedback: f}
	if !f.Anonymous {
		info := f.UserInfo
		view.UserInfo = &info
	}
	return view
}

func feedbackViews(feedbacks []models.Feedback) []FeedbackView {
	views := make([]FeedbackView, len(feedbacks))
	for i := range feedbacks {
		views[i] = feedbackView(&feedbacks[i])
	}
	return views
}

// createFeedback accepts a public feedback submission tied to a rating.
// Anonymous submissions never persist identity, whatever the client sent.
func createFeedback(c *gin.Context) {
	var req models.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var region models.Region
	if err := database.DB.First(&region, req.RegionID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Region not found")
		return
	}
	var rating models.Rating
	if err := database.DB.First(&rating, req.RatingID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Rating not found")
		return
	}

	feedback := models.Feedback{
		RegionID:  req.RegionID,
		RatingID:  req.RatingID,
		Anonymous: *req.Anonymous,
		Message:   req.Message,
		Subject:   req.Subject,
		Status:    models.FeedbackStatusPending,
	}

	if !feedback.Anonymous {
		if req.UserInfo == nil {
			utils.JSONError(c, http.StatusBadRequest, "Contact info is required for non-anonymous feedback")
			return
		}
		info := models.FeedbackUserInfo{
			FullName: req.UserInfo.FullName,
			Phone:    req.UserInfo.Phone,
			Email:    req.UserInfo.Email,
		}
		user, err := services.NewUsersService(database.DB).FindOrCreate(info)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to resolve feedback user")
			utils.InternalError(c)
			return
		}
		feedback.UserID = &user.ID
		feedback.UserInfo = info
	}

	if err := database.DB.Create(&feedback).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create feedback")
		utils.InternalError(c)
		return
	}

	services.NewLogsService(database.DB).Record(models.ActionCreateFeedback, feedback.UserID)
	if eventHub != nil {
		eventHub.Publish(websocket.EventFeedbackCreated, feedback.RegionID, feedbackView(&feedback))
	}

	respondData(c, http.StatusCreated, feedbackView(&feedback))
}

// listFeedbacks returns in-scope feedback with search, status filter and
// sorting
func listFeedbacks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, limit := parsePagination(c, 20)

	requested, ok := parseRegionQuery(c)
	if !ok {
		return
	}
	orderBy, ok := sortColumn(c, feedbackSortFields, "submittedAt")
	if !ok {
		return
	}

	status := c.Query("status")
	if status != "" && !models.IsValidFeedbackStatus(status) {
		utils.JSONError(c, http.StatusBadRequest, "Unknown status filter: "+status)
		return
	}

	filter := services.ResolveRegionFilter(user, requested)
	if filter.IsEmpty() {
		respondPage(c, []FeedbackView{}, utils.BuildPaginationMeta(0, page, limit))
		return
	}

	q := filter.Apply(database.DB.Model(&models.Feedback{}), "region_id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := utils.SafeLikePattern(search)
		q = q.Where(`LOWER(message) LIKE ? ESCAPE '\' OR LOWER(subject) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count feedbacks")
		utils.InternalError(c)
		return
	}

	feedbacks := []models.Feedback{}
	err := q.Preload("Region").Preload("Rating").
		Order(orderBy).
		Offset((page - 1) * limit).Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list feedbacks")
		utils.InternalError(c)
		return
	}

	respondPage(c, feedbackViews(feedbacks), utils.BuildPaginationMeta(total, page, limit))
}

// getFeedback returns one feedback record. Out-of-scope records are denied.
func getFeedback(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	feedback, ok := fetchScopedFeedback(c, id)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, feedbackView(feedback))
}

// updateFeedback moves a feedback through its review workflow
func updateFeedback(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	feedback, ok := fetchScopedFeedback(c, id)
	if !ok {
		return
	}

	feedback.Status = models.FeedbackStatus(req.Status)
	if req.Response != nil {
		feedback.Response = *req.Response
	}
	if err := database.DB.Save(feedback).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update feedback")
		utils.InternalError(c)
		return
	}

	user := middleware.CurrentUser(c)
	var actorID *uint
	if user != nil {
		actorID = &user.ID
	}
	services.NewLogsService(database.DB).Record(models.ActionUpdateFeedback, actorID)

	respondData(c, http.StatusOK, feedbackView(feedback))
}

func fetchScopedFeedback(c *gin.Context, id uint) (*models.Feedback, bool) {
	var feedback models.Feedback
	if err := database.DB.Preload("Region").Preload("Rating").
		First(&feedback, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Feedback not found")
		return nil, false
	}

	user := middleware.CurrentUser(c)
	if !services.ResolveRegionFilter(user, nil).Contains(feedback.RegionID) {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return &feedback, true
}
