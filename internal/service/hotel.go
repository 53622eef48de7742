package service

import (
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.uber.org/zap"
)

type HotelService = CatalogService[*model.Hotel]

var hotelFields = CatalogFields{
	Kind:         core.CatalogHotel,
	TypeField:    "type",
	PriceField:   "pricing.basePrice",
	SearchFields: []string{"name", "description"},
	CityFields:   []string{"location.city"},
	StateFields:  []string{"location.state"},
}

func NewHotelService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.Hotel],
	creators CreatorLookup,
) *HotelService {
	return newCatalogService(logger, trace, metric, store, creators, hotelFields, catalogHooks[*model.Hotel]{
		prepare: func(h *model.Hotel) {
			prepareBase(&h.CatalogBase)
			defaultCurrency(&h.Pricing.Currency)
		},
		rules: func(h *model.Hotel) []cErr.FieldError {
			return roomRules(h.Rooms)
		},
	})
}

func roomRules(rooms model.RoomInventory) []cErr.FieldError {
	if rooms.Available > rooms.Total {
		return []cErr.FieldError{{Field: "rooms.available", Message: "cannot exceed rooms.total"}}
	}
	return nil
}
