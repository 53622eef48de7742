package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Tour struct {
	CatalogBase  `bson:",inline"`
	Name         string         `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description  string         `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=4000"`
	Category     string         `json:"category" bson:"category" validate:"required,oneof=adventure cultural wildlife religious beach honeymoon family"`
	Duration     Duration       `json:"duration" bson:"duration"`
	Destinations []string       `json:"destinations" bson:"destinations" validate:"required,min=1,max=30,dive,required,max=100"`
	Itinerary    []ItineraryDay `json:"itinerary,omitempty" bson:"itinerary,omitempty" validate:"omitempty,max=60,dive"`
	Pricing      TourPricing    `json:"pricing" bson:"pricing"`
	MaxGroupSize int            `json:"maxGroupSize,omitempty" bson:"maxGroupSize,omitempty" validate:"omitempty,min=1,max=500"`
	Inclusions   []string       `json:"inclusions,omitempty" bson:"inclusions,omitempty" validate:"omitempty,dive,required,max=200"`
	Exclusions   []string       `json:"exclusions,omitempty" bson:"exclusions,omitempty" validate:"omitempty,dive,required,max=200"`
	Images       []Image        `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
}

type ItineraryDay struct {
	Day         int    `json:"day" bson:"day" validate:"min=1"`
	Title       string `json:"title" bson:"title" validate:"required,max=120"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
}

type TourPricing struct {
	AdultPrice float64 `json:"adultPrice" bson:"adultPrice" validate:"gt=0"`
	ChildPrice float64 `json:"childPrice,omitempty" bson:"childPrice,omitempty" validate:"gte=0"`
	Currency   string  `json:"currency" bson:"currency" validate:"required,iso4217"`
}

var TourIndexes = catalogIndexes(
	mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "duration.days", Value: 1}},
		Options: options.Index().SetName("idx_category_days"),
	},
)
