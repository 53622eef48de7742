package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Resort struct {
	CatalogBase `bson:",inline"`
	Name        string        `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description string        `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Category    string        `json:"category" bson:"category" validate:"required,oneof=beach hill wildlife spa heritage adventure"`
	Location    Location      `json:"location" bson:"location"`
	Pricing     ResortPricing `json:"pricing" bson:"pricing"`
	Rooms       RoomInventory `json:"rooms" bson:"rooms"`
	Facilities  []string      `json:"facilities,omitempty" bson:"facilities,omitempty" validate:"omitempty,max=50,dive,required,max=60"`
	Images      []Image       `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
	Contact     *Contact      `json:"contact,omitempty" bson:"contact,omitempty"`
}

type ResortPricing struct {
	PricePerNight float64        `json:"pricePerNight" bson:"pricePerNight" validate:"gt=0"`
	Currency      string         `json:"currency" bson:"currency" validate:"required,iso4217"`
	Seasonal      []SeasonalRate `json:"seasonal,omitempty" bson:"seasonal,omitempty" validate:"omitempty,max=12,dive"`
}

type SeasonalRate struct {
	Season     string  `json:"season" bson:"season" validate:"required,max=40"`
	StartMonth int     `json:"startMonth" bson:"startMonth" validate:"min=1,max=12"`
	EndMonth   int     `json:"endMonth" bson:"endMonth" validate:"min=1,max=12"`
	Multiplier float64 `json:"multiplier" bson:"multiplier" validate:"gt=0"`
}

var ResortIndexes = catalogIndexes(
	mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "pricing.pricePerNight", Value: 1}},
		Options: options.Index().SetName("idx_category_pricePerNight"),
	},
)
