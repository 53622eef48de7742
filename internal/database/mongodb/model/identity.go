package model

import (
	"errors"
	"strings"
	"time"

	"wanderlust/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrExternalAccountMismatch = errors.New("provider already linked to a different account")

type ExternalIdentity struct {
	ProviderAccountID string    `json:"providerAccountId" bson:"providerAccountId"`
	ProviderEmail     string    `json:"providerEmail,omitempty" bson:"providerEmail,omitempty"`
	LinkedAt          time.Time `json:"linkedAt" bson:"linkedAt"`
}

type Identity struct {
	ID                    primitive.ObjectID          `json:"id" bson:"_id"`                                                    // 唯一識別碼
	Name                  string                      `json:"name" bson:"name"`                                                 // 顯示名稱
	Email                 string                      `json:"email" bson:"email"`                                               // 小寫、去空白後儲存
	PasswordHash          string                      `json:"-" bson:"passwordHash,omitempty"`                                  // bcrypt
	ExternalIdentities    map[string]ExternalIdentity `json:"externalIdentities,omitempty" bson:"externalIdentities,omitempty"` // provider → 帳號
	HasCredentialPassword bool                        `json:"hasCredentialPassword" bson:"hasCredentialPassword"`               // 曾設定過密碼
	EmailVerified         bool                        `json:"emailVerified" bson:"emailVerified"`                               // 外部登入驗證過
	Role                  core.Role                   `json:"role" bson:"role"`
	ProfileComplete       bool                        `json:"profileComplete" bson:"profileComplete"` // 由 BeforeSave 計算
	Phone                 string                      `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth           string                      `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Gender                core.Gender                 `json:"gender,omitempty" bson:"gender,omitempty"`
	Address               *core.Address               `json:"address,omitempty" bson:"address,omitempty"`
	LastLoginAt           *time.Time                  `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt             time.Time                   `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time                   `json:"updatedAt" bson:"updatedAt"`
}

var IdentityIndexes = []mongo.IndexModel{
	{ // email 已正規化為小寫，唯一索引即為不分大小寫唯一
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_createdAt_desc"),
	},
	{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetName("idx_role"),
	},
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (i *Identity) HasPassword() bool {
	return i.PasswordHash != ""
}

func (i *Identity) AccountState() core.AccountState {
	return core.DeriveAccountState(i.HasPassword(), len(i.ExternalIdentities), i.ProfileComplete)
}

// BeforeSave 在每次寫入前執行：正規化 email、重算 profileComplete、檢查至少一種登入方式
func (i *Identity) BeforeSave(now time.Time) error {
	i.Email = NormalizeEmail(i.Email)
	i.Name = strings.TrimSpace(i.Name)
	i.Phone = strings.TrimSpace(i.Phone)
	state, err := i.AccountState().Apply(core.AccountEvent{
		Kind:            core.EventProfileUpdated,
		ProfileComplete: core.ProfileCompleteFor(i.Name, i.Email, i.Phone),
	})
	if err != nil {
		return err
	}
	if !state.Valid() {
		return core.ErrNoCredential
	}
	i.ProfileComplete = state.IsProfileComplete()
	if state.HasPassword() {
		i.HasCredentialPassword = true
	}
	if i.Role == "" {
		i.Role = core.RoleUser
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
	return nil
}

// LinkExternal 附加外部身分；已連結同一帳號時回傳 changed=false
func (i *Identity) LinkExternal(provider core.ExternalProvider, accountID, email string, now time.Time) (changed bool, err error) {
	if existing, ok := i.ExternalIdentities[string(provider)]; ok {
		if existing.ProviderAccountID != accountID {
			return false, ErrExternalAccountMismatch
		}
		return false, nil
	}
	state, err := i.AccountState().Apply(core.AccountEvent{Kind: core.EventExternalLinked})
	if err != nil {
		return false, err
	}
	if i.ExternalIdentities == nil {
		i.ExternalIdentities = map[string]ExternalIdentity{}
	}
	i.ExternalIdentities[string(provider)] = ExternalIdentity{
		ProviderAccountID: accountID,
		ProviderEmail:     NormalizeEmail(email),
		LinkedAt:          now,
	}
	// 外部來源已驗證過 email
	i.EmailVerified = state.HasExternal()
	return true, nil
}

// SetPassword 寫入密碼雜湊；已有密碼時回傳 core.ErrPasswordAlreadySet
func (i *Identity) SetPassword(hash string) error {
	state, err := i.AccountState().Apply(core.AccountEvent{Kind: core.EventPasswordSet})
	if err != nil {
		return err
	}
	i.PasswordHash = hash
	i.HasCredentialPassword = state.HasPassword()
	return nil
}

func (i *Identity) Snapshot() core.IdentitySnapshot {
	return core.IdentitySnapshot{
		ID:                    i.ID.Hex(),
		Name:                  i.Name,
		Email:                 i.Email,
		Role:                  i.Role,
		ProfileComplete:       i.ProfileComplete,
		HasCredentialPassword: i.HasPassword(),
		Phone:                 i.Phone,
		Gender:                i.Gender,
		DateOfBirth:           i.DateOfBirth,
		Address:               i.Address,
	}
}
