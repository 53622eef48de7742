package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TravelPackage struct {
	CatalogBase  `bson:",inline"`
	Name         string         `json:"name" bson:"name" validate:"required,min=2,max=120"`
	NameKey      string         `json:"-" bson:"nameKey"`
	Description  string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=4000"`
	Type         string         `json:"type" bson:"type" validate:"required,oneof=honeymoon family adventure pilgrimage corporate weekend"`
	Duration     Duration       `json:"duration" bson:"duration"`
	Destinations []string       `json:"destinations" bson:"destinations" validate:"required,min=1,max=30,dive,required,max=100"`
	Pricing      PackagePricing `json:"pricing" bson:"pricing"`
	ValidFrom    *time.Time     `json:"validFrom,omitempty" bson:"validFrom,omitempty"`
	ValidUntil   *time.Time     `json:"validUntil,omitempty" bson:"validUntil,omitempty"`
	Inclusions   []string       `json:"inclusions,omitempty" bson:"inclusions,omitempty" validate:"omitempty,dive,required,max=200"`
	Images       []Image        `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
}

type PackagePricing struct {
	BasePrice       float64  `json:"basePrice" bson:"basePrice" validate:"gt=0"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty" validate:"omitempty,gte=0"`
	Currency        string   `json:"currency" bson:"currency" validate:"required,iso4217"`
}

var PackageIndexes = catalogIndexes(
	uniqueActiveNameIndex(),
	mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "pricing.basePrice", Value: 1}},
		Options: options.Index().SetName("idx_type_basePrice"),
	},
)
