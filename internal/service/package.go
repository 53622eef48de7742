package service

import (
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type PackageService = CatalogService[*model.TravelPackage]

var packageFields = CatalogFields{
	Kind:         core.CatalogPackage,
	TypeField:    "type",
	PriceField:   "pricing.basePrice",
	DaysField:    "duration.days",
	SearchFields: []string{"name", "description"},
	CityFields:   []string{"destinations"},
	StateFields:  []string{"destinations"},
}

func NewPackageService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.TravelPackage],
	creators CreatorLookup,
) *PackageService {
	return newCatalogService(logger, trace, metric, store, creators, packageFields, catalogHooks[*model.TravelPackage]{
		prepare: func(p *model.TravelPackage) {
			prepareBase(&p.CatalogBase)
			defaultCurrency(&p.Pricing.Currency)
			p.NameKey = nameKey(p.Name)
		},
		rules: packageRules,
		unique: func(p *model.TravelPackage) bson.M {
			return activeNameFilter(&p.CatalogBase, p.NameKey)
		},
	})
}

func packageRules(p *model.TravelPackage) []cErr.FieldError {
	details := durationRules(p.Duration)
	if p.Pricing.DiscountedPrice != nil && *p.Pricing.DiscountedPrice > p.Pricing.BasePrice {
		details = append(details, cErr.FieldError{Field: "pricing.discountedPrice", Message: "cannot exceed pricing.basePrice"})
	}
	if p.ValidFrom != nil && p.ValidUntil != nil && !p.ValidUntil.After(*p.ValidFrom) {
		details = append(details, cErr.FieldError{Field: "validUntil", Message: "must be after validFrom"})
	}
	return details
}
