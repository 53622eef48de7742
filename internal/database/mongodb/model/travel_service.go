package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TravelService 導遊、攝影、簽證等附加服務
type TravelService struct {
	CatalogBase `bson:",inline"`
	Name        string         `json:"name" bson:"name" validate:"required,min=2,max=120"`
	NameKey     string         `json:"-" bson:"nameKey"`
	Description string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Category    string         `json:"category" bson:"category" validate:"required,oneof=guide photography transport visa insurance event"`
	Pricing     ServicePricing `json:"pricing" bson:"pricing"`
	Location    *Location      `json:"location,omitempty" bson:"location,omitempty"`
	Contact     *Contact       `json:"contact,omitempty" bson:"contact,omitempty"`
	Images      []Image        `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
}

type ServicePricing struct {
	Amount   float64 `json:"amount" bson:"amount" validate:"gt=0"`
	Unit     string  `json:"unit" bson:"unit" validate:"required,oneof=per_person per_day per_hour flat"`
	Currency string  `json:"currency" bson:"currency" validate:"required,iso4217"`
}

var TravelServiceIndexes = catalogIndexes(
	uniqueActiveNameIndex(),
	mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "pricing.amount", Value: 1}},
		Options: options.Index().SetName("idx_category_amount"),
	},
)
