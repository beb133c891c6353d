package types

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by both access and refresh tokens.
// AllowedRegions holds region IDs as decimal strings.
type Claims struct {
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	Fullname       string   `json:"fullname"`
	AllowedRegions []string `json:"allowedRegions"`
	jwt.RegisteredClaims
}

// RequestUser is the authenticated caller derived from token claims and
// attached to the request context.
type RequestUser struct {
	ID             uint
	Email          string
	Role           string
	Fullname       string
	AllowedRegions []uint
}

// ToRequestUser converts token claims into a RequestUser. Malformed region
// IDs in the claim are skipped rather than failing the request.
func (c *Claims) ToRequestUser() *RequestUser {
	id, _ := strconv.ParseUint(c.Subject, 10, 64)

	regions := make([]uint, 0, len(c.AllowedRegions))
	for _, raw := range c.AllowedRegions {
		rid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		regions = append(regions, uint(rid))
	}

	return &RequestUser{
		ID:             uint(id),
		Email:          c.Email,
		Role:           c.Role,
		Fullname:       c.Fullname,
		AllowedRegions: regions,
	}
}
