package dto

import (
	"time"

	"wanderlust/internal/core"
	"wanderlust/internal/pkg/request"
)

// 自行註冊
type RegisterDto struct {
	Name     string    `json:"name" validate:"required,min=2,max=80"`
	Email    string    `json:"email" validate:"required,email,max=254"`
	Password string    `json:"password" validate:"required,pwd"`
	Phone    string    `json:"phone,omitempty" validate:"omitempty,phone"`
	Role     core.Role `json:"role,omitempty" validate:"omitempty,oneof=user admin owner agent"`
}

// 帳密登入
type SignInDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// 外部登入：Google 為 ID token
type ExternalSignInDto struct {
	IDToken string `json:"idToken" validate:"required"`
}

// 外部登入帳號補設密碼
type SetPasswordDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

func (SetPasswordDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"password.pwd": "password must be between 6 and 72 characters long",
	}
}

// 更新個人資料；nil 代表不變更
type UpdateProfileDto struct {
	Name        *string       `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Phone       *string       `json:"phone,omitempty" validate:"omitempty,phone"`
	DateOfBirth *string       `json:"dateOfBirth,omitempty" validate:"omitempty,ymd"`
	Gender      *core.Gender  `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Address     *core.Address `json:"address,omitempty"`
}

// 簽發 session 後回傳
type SessionResponseDto struct {
	Token     string                `json:"token"`
	TokenType string                `json:"tokenType"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Identity  core.IdentitySnapshot `json:"identity"`
}

// 目前 session 內容
type SessionInfoDto struct {
	Identity  core.IdentitySnapshot `json:"identity"`
	IssuedAt  time.Time             `json:"issuedAt"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

type ProfileResponseDto struct {
	Profile *IdentityResponseDto `json:"profile"`
	Session *SessionResponseDto  `json:"session,omitempty"`
}
