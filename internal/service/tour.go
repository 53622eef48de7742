package service

import (
	"fmt"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.uber.org/zap"
)

type TourService = CatalogService[*model.Tour]

var tourFields = CatalogFields{
	Kind:         core.CatalogTour,
	TypeField:    "category",
	PriceField:   "pricing.adultPrice",
	DaysField:    "duration.days",
	SearchFields: []string{"name", "description"},
	CityFields:   []string{"destinations"},
	StateFields:  []string{"destinations"},
}

func NewTourService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.Tour],
	creators CreatorLookup,
) *TourService {
	return newCatalogService(logger, trace, metric, store, creators, tourFields, catalogHooks[*model.Tour]{
		prepare: func(t *model.Tour) {
			prepareBase(&t.CatalogBase)
			defaultCurrency(&t.Pricing.Currency)
		},
		rules: tourRules,
	})
}

func tourRules(t *model.Tour) []cErr.FieldError {
	details := durationRules(t.Duration)
	seen := make(map[int]bool, len(t.Itinerary))
	for i, day := range t.Itinerary {
		field := fmt.Sprintf("itinerary[%d].day", i)
		if day.Day > t.Duration.Days {
			details = append(details, cErr.FieldError{Field: field, Message: "itinerary days cannot exceed tour duration"})
		}
		if seen[day.Day] {
			details = append(details, cErr.FieldError{Field: field, Message: "duplicate itinerary day"})
		}
		seen[day.Day] = true
	}
	if t.Pricing.ChildPrice > t.Pricing.AdultPrice {
		details = append(details, cErr.FieldError{Field: "pricing.childPrice", Message: "cannot exceed pricing.adultPrice"})
	}
	return details
}

func durationRules(d model.Duration) []cErr.FieldError {
	if d.Nights > d.Days {
		return []cErr.FieldError{{Field: "duration.nights", Message: "cannot exceed duration.days"}}
	}
	return nil
}
