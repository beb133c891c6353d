package routes

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"region-feedback-server/database"
	"region-feedback-server/logger"
	"region-feedback-server/middleware"
	"region-feedback-server/models"
	"region-feedback-server/services"
	"region-feedback-server/utils"
)

// createRegion adds a region to the directory. Super-admin only.
func createRegion(c *gin.Context) {
	var req models.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var existing models.Region
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.JSONError(c, http.StatusConflict, "A region with this name already exists")
		return
	}

	region := models.Region{Name: req.Name}
	if err := database.DB.Create(&region).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create region")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusCreated, region)
}

// listRegions returns the region directory. Public; an authenticated region
// admin only sees their assigned regions.
func listRegions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	filter := services.ResolveRegionFilter(user, nil)
	if filter.IsEmpty() {
		respondData(c, http.StatusOK, []models.Region{})
		return
	}

	regions := []models.Region{}
	err := filter.Apply(database.DB.Model(&models.Region{}), "id").
		Order("id ASC").Find(&regions).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list regions")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, regions)
}

// getRegion returns one region with its rating summary. Unlike the other
// scoped lookups, an out-of-scope region answers with an explicit denial.
func getRegion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var region models.Region
	if err := database.DB.First(&region, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Region not found")
		return
	}

	user := middleware.CurrentUser(c)
	filter := services.ResolveRegionFilter(user, nil)
	if !filter.Contains(region.ID) {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return
	}

	var ratings []models.Rating
	if err := database.DB.Where("region_id = ?", region.ID).Find(&ratings).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load region ratings")
		utils.InternalError(c)
		return
	}

	counts := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	sum := 0
	for _, r := range ratings {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		counts[starKey(r.Rating)]++
		sum += r.Rating
	}
	average := 0.0
	if len(ratings) > 0 {
		average = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	}

	payload := gin.H{
		"region": region,
		"ratings": gin.H{
			"counts":  counts,
			"total":   len(ratings),
			"average": average,
		},
	}

	// The admin assignment count is only meaningful to authenticated staff.
	if user != nil {
		var adminCount int64
		err := database.DB.Table("admin_allowed_regions").
			Where("region_id = ?", region.ID).Count(&adminCount).Error
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to count region admins")
			utils.InternalError(c)
			return
		}
		payload["admin_count"] = adminCount
	}

	respondData(c, http.StatusOK, payload)
}

// updateRegion renames a region. Super-admin only.
func updateRegion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var region models.Region
	if err := database.DB.First(&region, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Region not found")
		return
	}

	var existing models.Region
	if err := database.DB.Where("name = ? AND id <> ?", req.Name, region.ID).
		First(&existing).Error; err == nil {
		utils.JSONError(c, http.StatusConflict, "A region with this name already exists")
		return
	}

	region.Name = req.Name
	if err := database.DB.Save(&region).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update region")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, region)
}

// deleteRegion removes a region. Super-admin only. Existing ratings,
// feedbacks and assignments keep their region reference; readers tolerate the
// dangling id.
func deleteRegion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var region models.Region
	if err := database.DB.First(&region, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Region not found")
		return
	}

	if err := database.DB.Delete(&region).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete region")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

func starKey(star int) string {
	return string(rune('0' + star))
}
