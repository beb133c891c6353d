package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

// Admin is a back-office account. ADMIN-role accounts only see data from
// their assigned regions; SUPER_ADMIN accounts see everything regardless of
// the assignment list.
type Admin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Fullname     string    `json:"fullname" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         AdminRole `json:"role" gorm:"type:varchar(20);not null;default:'admin'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Assignment rows survive region deletion; readers drop unresolvable IDs.
	AllowedRegions []Region `json:"allowed_regions,omitempty" gorm:"many2many:admin_allowed_regions"`
}

// TableName specifies the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// BeforeSave normalizes the email so lookups are case-insensitive
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	return nil
}

// IsSuperAdmin checks if the admin has the unscoped role
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// AllowedRegionIDs returns the IDs of the loaded region assignments
func (a *Admin) AllowedRegionIDs() []uint {
	ids := make([]uint, 0, len(a.AllowedRegions))
	for _, r := range a.AllowedRegions {
		ids = append(ids, r.ID)
	}
	return ids
}

// AllowedRegionIDStrings returns the assignment IDs as decimal strings, the
// shape persisted inside token claims.
func (a *Admin) AllowedRegionIDStrings() []string {
	ids := make([]string, 0, len(a.AllowedRegions))
	for _, r := range a.AllowedRegions {
		ids = append(ids, strconv.FormatUint(uint64(r.ID), 10))
	}
	return ids
}

// IsValidRole checks if the admin role is valid
func (a *Admin) IsValidRole() bool {
	switch a.Role {
	case RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// CreateAdminRequest is the payload for creating an admin account
type CreateAdminRequest struct {
	Fullname       string `json:"fullname" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=12"`
	Role           string `json:"role" binding:"omitempty,oneof=admin super_admin"`
	AllowedRegions []uint `json:"allowed_regions"`
}

// UpdateAdminRequest is the payload for updating an admin account
type UpdateAdminRequest struct {
	Fullname       *string `json:"fullname"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Password       *string `json:"password" binding:"omitempty,min=12"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin super_admin"`
	AllowedRegions *[]uint `json:"allowed_regions"`
}
