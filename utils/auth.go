package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"region-feedback-server/config"
	"region-feedback-server/models"
	"region-feedback-server/types"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenPair holds a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokenPair signs an access and a refresh token for an admin. Both
// carry the same claims; the secrets and lifetimes differ.
func GenerateTokenPair(admin *models.Admin) (*TokenPair, error) {
	cfg := config.AppConfig.JWT

	access, err := signToken(admin, cfg.Secret, cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(admin, cfg.RefreshSecret, cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func signToken(admin *models.Admin, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Email:          admin.Email,
		Role:           string(admin.Role),
		Fullname:       admin.Fullname,
		AllowedRegions: admin.AllowedRegionIDStrings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken verifies an access token and returns its claims
func VerifyAccessToken(tokenString string) (*types.Claims, error) {
	return verifyToken(tokenString, config.AppConfig.JWT.Secret)
}

// VerifyRefreshToken verifies a refresh token against the refresh secret
func VerifyRefreshToken(tokenString string) (*types.Claims, error) {
	return verifyToken(tokenString, config.AppConfig.JWT.RefreshSecret)
}

func verifyToken(tokenString, secret string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidatePasswordStrength validates password strength for admin accounts
func ValidatePasswordStrength(password string) (bool, []string) {
	var problems []string

	if len(password) < 12 {
		problems = append(problems, "Password must be at least 12 characters long")
	}
	if len(password) > 128 {
		problems = append(problems, "Password must be less than 128 characters")
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune("@$!%*?&", char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "Password must contain at least one digit")
	}
	if !hasSpecial {
		problems = append(problems, "Password must contain at least one special character (@$!%*?&)")
	}

	return len(problems) == 0, problems
}
