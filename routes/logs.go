package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"region-feedback-server/database"
	"region-feedback-server/logger"
	"region-feedback-server/services"
	"region-feedback-server/utils"
)

// listLogs returns audit entries with forward-only cursor pagination
func listLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultLogPageSize)))

	page, err := services.NewLogsService(database.DB).List(
		c.Query("cursor"),
		limit,
		c.Query("action"),
	)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list audit entries")
		utils.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page.Data,
		"cursor":  page.Cursor,
	})
}
