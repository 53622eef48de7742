package core

type Role string

const (
	RoleUser  Role = "user"  // 一般使用者
	RoleAdmin Role = "admin" // 管理員：可維護所有目錄資料
	RoleOwner Role = "owner" // 商家
	RoleAgent Role = "agent" // 旅行社
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner, RoleAgent:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// ExternalProvider 外部登入來源
type ExternalProvider string

const (
	ProviderGoogle ExternalProvider = "google"
)

type Address struct {
	Street     string `json:"street,omitempty" bson:"street,omitempty" validate:"omitempty,max=200"`
	Area       string `json:"area,omitempty" bson:"area,omitempty" validate:"omitempty,max=100"`
	City       string `json:"city,omitempty" bson:"city,omitempty" validate:"omitempty,max=100"`
	State      string `json:"state,omitempty" bson:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty" validate:"omitempty,max=12"`
}

// IdentitySnapshot 是簽發 session 時由身分紀錄複製出的欄位，不含密碼雜湊
type IdentitySnapshot struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Role                  Role     `json:"role"`
	ProfileComplete       bool     `json:"profileComplete"`
	HasCredentialPassword bool     `json:"hasCredentialPassword"`
	Phone                 string   `json:"phone,omitempty"`
	Gender                Gender   `json:"gender,omitempty"`
	DateOfBirth           string   `json:"dateOfBirth,omitempty"`
	Address               *Address `json:"address,omitempty"`
}

func (s IdentitySnapshot) IsAdmin() bool {
	return s.Role == RoleAdmin
}
