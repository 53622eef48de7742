package service

import (
	"fmt"
	"strings"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.uber.org/zap"
)

type ResortService = CatalogService[*model.Resort]

const (
	minSeasonalMultiplier = 0.5
	maxSeasonalMultiplier = 3.0
)

var resortFields = CatalogFields{
	Kind:         core.CatalogResort,
	TypeField:    "category",
	PriceField:   "pricing.pricePerNight",
	SearchFields: []string{"name", "description"},
	CityFields:   []string{"location.city"},
	StateFields:  []string{"location.state"},
}

func NewResortService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.Resort],
	creators CreatorLookup,
) *ResortService {
	return newCatalogService(logger, trace, metric, store, creators, resortFields, catalogHooks[*model.Resort]{
		prepare: func(r *model.Resort) {
			prepareBase(&r.CatalogBase)
			defaultCurrency(&r.Pricing.Currency)
		},
		rules: resortRules,
	})
}

func resortRules(r *model.Resort) []cErr.FieldError {
	details := roomRules(r.Rooms)
	seen := make(map[string]bool, len(r.Pricing.Seasonal))
	for i, season := range r.Pricing.Seasonal {
		if season.Multiplier < minSeasonalMultiplier || season.Multiplier > maxSeasonalMultiplier {
			details = append(details, cErr.FieldError{
				Field:   fmt.Sprintf("pricing.seasonal[%d].multiplier", i),
				Message: fmt.Sprintf("must be between %.1f and %.1f", minSeasonalMultiplier, maxSeasonalMultiplier),
			})
		}
		key := strings.ToLower(strings.TrimSpace(season.Season))
		if seen[key] {
			details = append(details, cErr.FieldError{
				Field:   fmt.Sprintf("pricing.seasonal[%d].season", i),
				Message: "duplicate season name",
			})
		}
		seen[key] = true
	}
	return details
}
