package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogDocument 所有目錄資源共用的行為
type CatalogDocument interface {
	Base() *CatalogBase
}

// CatalogBase 目錄資源的共同欄位，以 inline 方式存放
type CatalogBase struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	IsActive  *bool              `json:"isActive" bson:"isActive"`
	CreatedBy primitive.ObjectID `json:"-" bson:"createdBy"`
	Creator   *CreatorRef        `json:"createdBy,omitempty" bson:"-"` // 查詢後填入
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *CatalogBase) Base() *CatalogBase { return b }

func (b *CatalogBase) Active() bool {
	return b.IsActive == nil || *b.IsActive
}

type CreatorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Location struct {
	Address    string `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=200"`
	City       string `json:"city" bson:"city" validate:"required,max=100"`
	State      string `json:"state" bson:"state" validate:"required,max=100"`
	Country    string `json:"country,omitempty" bson:"country,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty" validate:"omitempty,max=12"`
}

type Image struct {
	URL     string `json:"url" bson:"url" validate:"required,http_url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty" validate:"omitempty,max=200"`
}

type Contact struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Email   string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,http_url"`
}

type Duration struct {
	Days   int `json:"days" bson:"days" validate:"min=1,max=60"`
	Nights int `json:"nights" bson:"nights" validate:"min=0,max=60"`
}

type RoomInventory struct {
	Total     int `json:"total" bson:"total" validate:"min=1,max=10000"`
	Available int `json:"available" bson:"available" validate:"min=0"`
}

// 依 createdAt 倒序列表、依 isActive 篩選是所有目錄共用的索引
func catalogIndexes(extra ...mongo.IndexModel) []mongo.IndexModel {
	base := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().SetName("idx_isActive"),
		},
		{
			Keys:    bson.D{{Key: "location.city", Value: 1}},
			Options: options.Index().SetName("idx_location_city"),
		},
	}
	return append(base, extra...)
}

// 名稱在啟用中的資料內不可重複（nameKey 為小寫名稱）
func uniqueActiveNameIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "nameKey", Value: 1}},
		Options: options.Index().
			SetName("uniq_active_nameKey").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	}
}
