package dto

import (
	"time"

	"wanderlust/internal/core"
)

type IdentityResponseDto struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Email                 string        `json:"email"`
	Role                  core.Role     `json:"role"`
	ProfileComplete       bool          `json:"profileComplete"`
	HasCredentialPassword bool          `json:"hasCredentialPassword"`
	EmailVerified         bool          `json:"emailVerified"`
	LinkedProviders       []string      `json:"linkedProviders,omitempty"`
	Phone                 string        `json:"phone,omitempty"`
	DateOfBirth           string        `json:"dateOfBirth,omitempty"`
	Gender                core.Gender   `json:"gender,omitempty"`
	Address               *core.Address `json:"address,omitempty"`
	LastLoginAt           *time.Time    `json:"lastLoginAt,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// 修改角色
type UpdateIdentityRoleDto struct {
	Role core.Role `json:"role" validate:"required,oneof=user admin owner agent"`
}
