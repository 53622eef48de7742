package service

import (
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type TravelServiceService = CatalogService[*model.TravelService]

var travelServiceFields = CatalogFields{
	Kind:         core.CatalogService,
	TypeField:    "category",
	PriceField:   "pricing.amount",
	SearchFields: []string{"name", "description"},
	CityFields:   []string{"location.city"},
	StateFields:  []string{"location.state"},
}

func NewTravelServiceService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.TravelService],
	creators CreatorLookup,
) *TravelServiceService {
	return newCatalogService(logger, trace, metric, store, creators, travelServiceFields, catalogHooks[*model.TravelService]{
		prepare: func(t *model.TravelService) {
			prepareBase(&t.CatalogBase)
			defaultCurrency(&t.Pricing.Currency)
			t.NameKey = nameKey(t.Name)
		},
		unique: func(t *model.TravelService) bson.M {
			return activeNameFilter(&t.CatalogBase, t.NameKey)
		},
	})
}
