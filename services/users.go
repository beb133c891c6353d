package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"region-feedback-server/models"
)

// UsersService maintains the deduplicated submitter directory
type UsersService struct {
	db *gorm.DB
}

// NewUsersService creates a users service bound to a database handle
func NewUsersService(db *gorm.DB) *UsersService {
	return &UsersService{db: db}
}

// FindOrCreate resolves contact info to a user record keyed by email. An
// existing record is refreshed with the latest name and phone, so repeat
// submitters stay a single user with current details.
func (s *UsersService) FindOrCreate(info models.FeedbackUserInfo) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = models.User{
			Email:    email,
			FullName: info.FullName,
			Phone:    info.Phone,
		}
		if createErr := s.db.Create(&user).Error; createErr != nil {
			return nil, createErr
		}
		return &user, nil
	}

	user.FullName = info.FullName
	user.Phone = info.Phone
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
