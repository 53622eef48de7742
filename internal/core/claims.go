package core

import "github.com/golang-jwt/jwt/v4"

// SessionClaims 為 session token 的 payload
type SessionClaims struct {
	IdentityID            string   `json:"identityId"`
	Role                  Role     `json:"role"`
	ProfileComplete       bool     `json:"profileComplete"`
	HasCredentialPassword bool     `json:"hasCredentialPassword"`
	Name                  string   `json:"name,omitempty"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone,omitempty"`
	Gender                Gender   `json:"gender,omitempty"`
	DateOfBirth           string   `json:"dateOfBirth,omitempty"`
	Address               *Address `json:"address,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) Snapshot() IdentitySnapshot {
	return IdentitySnapshot{
		ID:                    c.IdentityID,
		Name:                  c.Name,
		Email:                 c.Email,
		Role:                  c.Role,
		ProfileComplete:       c.ProfileComplete,
		HasCredentialPassword: c.HasCredentialPassword,
		Phone:                 c.Phone,
		Gender:                c.Gender,
		DateOfBirth:           c.DateOfBirth,
		Address:               c.Address,
	}
}
