package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"region-feedback-server/database"
	"region-feedback-server/logger"
	"region-feedback-server/middleware"
	"region-feedback-server/models"
	"region-feedback-server/services"
	"region-feedback-server/utils"
)

// LoginRequest carries admin credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// login authenticates an admin and issues a token pair. Unknown email and
// wrong password produce identical responses; both record a failed-login
// audit entry.
func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	logs := services.NewLogsService(database.DB)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin models.Admin
	if err := database.DB.Preload("AllowedRegions").
		Where("email = ?", email).First(&admin).Error; err != nil {
		logs.Record(models.ActionFailedLogin, nil)
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		logs.Record(models.ActionFailedLogin, &admin.ID)
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokens, err := utils.GenerateTokenPair(&admin)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to sign tokens")
		utils.InternalError(c)
		return
	}

	logs.Record(models.ActionLogin, &admin.ID)
	respondData(c, http.StatusOK, gin.H{
		"admin":  admin,
		"tokens": tokens,
	})
}

// refresh exchanges a valid refresh token for a new pair. Claims are
// re-derived from the admin's current record, so role or region changes take
// effect here rather than at access-token expiry.
func refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	claims, err := utils.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	adminID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var admin models.Admin
	if err := database.DB.Preload("AllowedRegions").
		First(&admin, uint(adminID)).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	tokens, err := utils.GenerateTokenPair(&admin)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to sign tokens")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, gin.H{"tokens": tokens})
}

// profile returns the caller's current directory record
func profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var admin models.Admin
	if err := database.DB.Preload("AllowedRegions").First(&admin, user.ID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Admin not found")
		return
	}
	respondData(c, http.StatusOK, admin)
}
