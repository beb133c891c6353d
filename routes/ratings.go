package routes

import (
	"errors"
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

var ratingSortFields = map[string]string{
	"submittedAt": "submitted_at",
	"rating":      "rating",
}

// createRating accepts a public star rating for a region
func createRating(c *gin.Context) {
	var req models.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var region models.Region
	if err := database.DB.First(&region, req.RegionID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Region not found")
		return
	}

	rating := models.Rating{
		RegionID: req.RegionID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := database.DB.Create(&rating).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create rating")
		utils.InternalError(c)
		return
	}

	services.NewLogsService(database.DB).Record(models.ActionCreateRating, nil)
	if eventHub != nil {
		eventHub.Publish(websocket.EventRatingCreated, rating.RegionID, rating)
	}

	respondData(c, http.StatusCreated, rating)
}

// listRatings returns in-scope ratings with pagination and sorting
func listRatings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, limit := parsePagination(c, 20)

	requested, ok := parseRegionQuery(c)
	if !ok {
		return
	}
	orderBy, ok := sortColumn(c, ratingSortFields, "submittedAt")
	if !ok {
		return
	}

	filter := services.ResolveRegionFilter(user, requested)
	if filter.IsEmpty() {
		respondPage(c, []models.Rating{}, utils.BuildPaginationMeta(0, page, limit))
		return
	}

	q := filter.Apply(database.DB.Model(&models.Rating{}), "region_id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count ratings")
		utils.InternalError(c)
		return
	}

	ratings := []models.Rating{}
	err := q.Preload("Region").
		Order(orderBy).
		Offset((page - 1) * limit).Limit(limit).
		Find(&ratings).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list ratings")
		utils.InternalError(c)
		return
	}

	respondPage(c, ratings, utils.BuildPaginationMeta(total, page, limit))
}

// getRating returns one rating. An out-of-scope rating is denied, not served.
func getRating(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var rating models.Rating
	if err := database.DB.Preload("Region").First(&rating, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Rating not found")
		return
	}

	user := middleware.CurrentUser(c)
	if !services.ResolveRegionFilter(user, nil).Contains(rating.RegionID) {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return
	}

	respondData(c, http.StatusOK, rating)
}

// ratingStats returns the per-region distribution and daily trend
func ratingStats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	period := c.DefaultQuery("period", services.PeriodWeek)
	if !services.IsValidPeriod(period) {
		utils.JSONError(c, http.StatusBadRequest, "Period must be one of day, week, month, year")
		return
	}

	requested, ok := parseRegionQuery(c)
	if !ok {
		return
	}

	result, err := services.NewStatsService(database.DB).GetStats(services.StatsQuery{
		Period:    period,
		Region:    requested,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}, user)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) || errors.Is(err, services.ErrInvalidDateRange) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to compute rating stats")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, result)
}
