package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Hotel struct {
	CatalogBase  `bson:",inline"`
	Name         string        `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description  string        `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Type         string        `json:"type" bson:"type" validate:"required,oneof=budget standard deluxe luxury boutique"`
	StarRating   int           `json:"starRating" bson:"starRating" validate:"min=1,max=5"`
	Location     Location      `json:"location" bson:"location"`
	Pricing      HotelPricing  `json:"pricing" bson:"pricing"`
	Rooms        RoomInventory `json:"rooms" bson:"rooms"`
	Amenities    []string      `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,max=50,dive,required,max=60"`
	Images       []Image       `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
	Contact      *Contact      `json:"contact,omitempty" bson:"contact,omitempty"`
	CheckInTime  string        `json:"checkInTime,omitempty" bson:"checkInTime,omitempty" validate:"omitempty,datetime=15:04"`
	CheckOutTime string        `json:"checkOutTime,omitempty" bson:"checkOutTime,omitempty" validate:"omitempty,datetime=15:04"`
}

type HotelPricing struct {
	BasePrice  float64 `json:"basePrice" bson:"basePrice" validate:"gt=0"`
	Currency   string  `json:"currency" bson:"currency" validate:"required,iso4217"`
	TaxPercent float64 `json:"taxPercent,omitempty" bson:"taxPercent,omitempty" validate:"gte=0,lte=100"`
}

var HotelIndexes = catalogIndexes(
	mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "pricing.basePrice", Value: 1}},
		Options: options.Index().SetName("idx_type_basePrice"),
	},
)
