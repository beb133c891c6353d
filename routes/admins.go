package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"region-feedback-server/database"
	"region-feedback-server/logger"
	"region-feedback-server/middleware"
	"region-feedback-server/models"
	"region-feedback-server/services"
	"region-feedback-server/utils"
)

var adminSortFields = map[string]string{
	"fullname":   "fullname",
	"created_at": "created_at",
}

// createAdmin provisions a new admin account. Super-admin only.
func createAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if ok, problems := utils.ValidatePasswordStrength(req.Password); !ok {
		utils.JSONError(c, http.StatusBadRequest, "Password too weak", problems...)
		return
	}

	regions, ok := resolveRegions(c, req.AllowedRegions)
	if !ok {
		return
	}

	// Emails are stored lowercased; normalize before the conflict lookup so a
	// different-cased duplicate still hits the 409 path.
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Admin
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.JSONError(c, http.StatusConflict, "An admin with this email already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to hash password")
		utils.InternalError(c)
		return
	}

	admin := models.Admin{
		Fullname:       req.Fullname,
		Email:          email,
		PasswordHash:   hash,
		Role:           models.AdminRole(req.Role),
		AllowedRegions: regions,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create admin")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusCreated, admin)
}

// listAdmins returns admins visible to the caller: a region admin only sees
// accounts whose assignments overlap their own.
func listAdmins(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, limit := parsePagination(c, 20)

	orderBy, ok := sortColumn(c, adminSortFields, "created_at")
	if !ok {
		return
	}

	filter := services.ResolveRegionFilter(user, nil)
	if filter.IsEmpty() {
		respondPage(c, []models.Admin{}, utils.BuildPaginationMeta(0, page, limit))
		return
	}

	q := database.DB.Model(&models.Admin{})
	if !filter.IsUnrestricted() {
		q = q.Where("admins.id IN (?)", database.DB.
			Table("admin_allowed_regions").
			Select("admin_id").
			Where("region_id IN ?", filter.RegionIDs()))
	}

	if search := c.Query("search"); search != "" {
		pattern := utils.SafeLikePattern(search)
		q = q.Where(`LOWER(fullname) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count admins")
		utils.InternalError(c)
		return
	}

	admins := []models.Admin{}
	err := q.Preload("AllowedRegions").
		Order(orderBy).
		Offset((page - 1) * limit).Limit(limit).
		Find(&admins).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list admins")
		utils.InternalError(c)
		return
	}

	respondPage(c, admins, utils.BuildPaginationMeta(total, page, limit))
}

// getAdmin returns one admin account. Out-of-scope accounts are denied.
func getAdmin(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	admin, ok := fetchScopedAdmin(c, id)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, admin)
}

// updateAdmin modifies an in-scope admin account. Role changes and edits to
// super-admin accounts require a super-admin caller.
func updateAdmin(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	admin, ok := fetchScopedAdmin(c, id)
	if !ok {
		return
	}

	caller := middleware.CurrentUser(c)
	isSuper := caller != nil && models.AdminRole(caller.Role) == models.RoleSuperAdmin
	if admin.IsSuperAdmin() && !isSuper {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return
	}
	if req.Role != nil && !isSuper {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != admin.Email {
			var existing models.Admin
			if err := database.DB.Where("email = ? AND id <> ?", email, admin.ID).
				First(&existing).Error; err == nil {
				utils.JSONError(c, http.StatusConflict, "An admin with this email already exists")
				return
			}
			admin.Email = email
		}
	}
	if req.Fullname != nil {
		admin.Fullname = *req.Fullname
	}
	if req.Role != nil {
		admin.Role = models.AdminRole(*req.Role)
	}
	if req.Password != nil {
		if ok, problems := utils.ValidatePasswordStrength(*req.Password); !ok {
			utils.JSONError(c, http.StatusBadRequest, "Password too weak", problems...)
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Failed to hash password")
			utils.InternalError(c)
			return
		}
		admin.PasswordHash = hash
	}

	if err := database.DB.Save(admin).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update admin")
		utils.InternalError(c)
		return
	}

	if req.AllowedRegions != nil {
		regions, ok := resolveRegions(c, *req.AllowedRegions)
		if !ok {
			return
		}
		if err := database.DB.Model(admin).Association("AllowedRegions").Replace(regions); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update admin regions")
			utils.InternalError(c)
			return
		}
		admin.AllowedRegions = regions
	}

	respondData(c, http.StatusOK, admin)
}

// deleteAdmin removes an in-scope admin account. Super-admin accounts cannot
// be deleted.
func deleteAdmin(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	admin, ok := fetchScopedAdmin(c, id)
	if !ok {
		return
	}
	if admin.IsSuperAdmin() {
		utils.JSONError(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := database.DB.Model(admin).Association("AllowedRegions").Clear(); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to clear admin regions")
		utils.InternalError(c)
		return
	}
	if err := database.DB.Delete(admin).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete admin")
		utils.InternalError(c)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// fetchScopedAdmin loads an admin and applies the caller's scope. An
// out-of-scope account is denied, not served.
func fetchScopedAdmin(c *gin.Context, id uint) (*models.Admin, bool) {
	var admin models.Admin
	if err := database.DB.Preload("AllowedRegions").First(&admin, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "Admin not found")
		return nil, false
	}

	user := middleware.CurrentUser(c)
	filter := services.ResolveRegionFilter(user, nil)
	if !filter.IsUnrestricted() {
		visible := false
		for _, region := range admin.AllowedRegions {
			if filter.Contains(region.ID) {
				visible = true
				break
			}
		}
		if !visible {
			utils.JSONError(c, http.StatusForbidden, "Access denied")
			return nil, false
		}
	}
	return &admin, true
}

// resolveRegions validates that every referenced region exists
func resolveRegions(c *gin.Context, ids []uint) ([]models.Region, bool) {
	if len(ids) == 0 {
		return []models.Region{}, true
	}

	var regions []models.Region
	if err := database.DB.Where("id IN ?", ids).Find(&regions).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to resolve regions")
		utils.InternalError(c)
		return nil, false
	}
	if len(regions) != len(uniqueIDs(ids)) {
		utils.JSONError(c, http.StatusBadRequest, "One or more regions do not exist")
		return nil, false
	}
	return regions, true
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
