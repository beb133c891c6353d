package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"region-feedback-server/middleware"
	"region-feedback-server/utils"
	"region-feedback-server/websocket"
)

// eventHub receives submission events published by the public handlers
var eventHub *websocket.Hub

// SetupRoutes registers the full HTTP surface
func SetupRoutes(router *gin.Engine, hub *websocket.Hub) {
	eventHub = hub

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Public surface: submissions and the region directory.
	api.POST("/ratings", createRating)
	api.POST("/feedbacks", createFeedback)
	api.GET("/regions", middleware.OptionalAuth(), listRegions)
	api.GET("/regions/:id", middleware.OptionalAuth(), getRegion)

	auth := api.Group("/auth")
	auth.POST("/login", login)
	auth.POST("/refresh", refresh)

	// Browser WebSocket clients pass the token as a query parameter.
	api.GET("/admin/ws/events", middleware.WebSocketAuth(), serveEvents)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/auth/profile", profile)

		protected.POST("/admins", middleware.RequireSuperAdmin(), createAdmin)
		protected.GET("/admins", listAdmins)
		protected.GET("/admins/:id", getAdmin)
		protected.PATCH("/admins/:id", updateAdmin)
		protected.DELETE("/admins/:id", deleteAdmin)

		protected.POST("/regions", middleware.RequireSuperAdmin(), createRegion)
		protected.PATCH("/regions/:id", middleware.RequireSuperAdmin(), updateRegion)
		protected.DELETE("/regions/:id", middleware.RequireSuperAdmin(), deleteRegion)

		protected.GET("/admin/ratings", listRatings)
		protected.GET("/admin/ratings/stats", ratingStats)
		protected.GET("/admin/ratings/:id", getRating)

		protected.GET("/admin/feedbacks", listFeedbacks)
		protected.GET("/admin/feedbacks/:id", getFeedback)
		protected.PATCH("/admin/feedbacks/:id", updateFeedback)

		protected.GET("/users", listUsers)
		protected.GET("/users/:id", getUser)
		protected.GET("/users/:id/feedbacks", listUserFeedbacks)

		protected.GET("/logs", listLogs)
	}
}

func serveEvents(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	websocket.ServeEventFeed(eventHub, c.Writer, c.Request, user)
}

// parseIDParam reads the :id path parameter; a malformed value yields a 400
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page/limit query values with defaults
func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return utils.NormalizePagination(page, limit, defaultLimit)
}

// parseRegionQuery reads the optional region query parameter
func parseRegionQuery(c *gin.Context) (*uint, bool) {
	raw := c.Query("region")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid region filter")
		return nil, false
	}
	value := uint(id)
	return &value, true
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondPage(c *gin.Context, data interface{}, meta utils.PaginationMeta) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": meta})
}

// sortColumn resolves a requested sort field against an allow-list. Unknown
// fields are rejected uniformly across entities.
func sortColumn(c *gin.Context, allowed map[string]string, defaultField string) (string, bool) {
	field := c.DefaultQuery("sort", defaultField)
	column, ok := allowed[field]
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Unknown sort field: "+field)
		return "", false
	}

	order := c.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		utils.JSONError(c, http.StatusBadRequest, "Order must be asc or desc")
		return "", false
	}
	return column + " " + order, true
}
