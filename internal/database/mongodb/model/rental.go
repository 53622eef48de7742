package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RentalService struct {
	CatalogBase    `bson:",inline"`
	Name           string        `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Description    string        `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Type           string        `json:"type" bson:"type" validate:"required,oneof=car bike scooter bus tempo_traveller boat"`
	Vehicle        Vehicle       `json:"vehicle" bson:"vehicle"`
	Location       Location      `json:"location" bson:"location"`
	Pricing        RentalPricing `json:"pricing" bson:"pricing"`
	AvailableUnits int           `json:"availableUnits" bson:"availableUnits" validate:"min=0,max=10000"`
	DriverIncluded bool          `json:"driverIncluded" bson:"driverIncluded"`
	Images         []Image       `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=20,dive"`
	Contact        *Contact      `json:"contact,omitempty" bson:"contact,omitempty"`
}

type Vehicle struct {
	Make         string `json:"make" bson:"make" validate:"required,max=60"`
	Model        string `json:"model" bson:"model" validate:"required,max=60"`
	Seats        int    `json:"seats" bson:"seats" validate:"min=1,max=80"`
	FuelType     string `json:"fuelType,omitempty" bson:"fuelType,omitempty" validate:"omitempty,oneof=petrol diesel electric cng hybrid"`
	Transmission string `json:"transmission,omitempty" bson:"transmission,omitempty" validate:"omitempty,oneof=manual automatic"`
}

type RentalPricing struct {
	PerDay          float64 `json:"perDay" bson:"perDay" validate:"gt=0"`
	PerKm           float64 `json:"perKm,omitempty" bson:"perKm,omitempty" validate:"gte=0"`
	SecurityDeposit float64 `json:"securityDeposit,omitempty" bson:"securityDeposit,omitempty" validate:"gte=0"`
	Currency        string  `json:"currency" bson:"currency" validate:"required,iso4217"`
}

var RentalServiceIndexes = catalogIndexes(
	mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "pricing.perDay", Value: 1}},
		Options: options.Index().SetName("idx_type_perDay"),
	},
)
