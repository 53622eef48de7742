package service

import (
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.uber.org/zap"
)

type RentalService = CatalogService[*model.RentalService]

// 押金上限為日租金的倍數
const maxDepositMultiple = 10

var rentalFields = CatalogFields{
	Kind:         core.CatalogRental,
	TypeField:    "type",
	PriceField:   "pricing.perDay",
	SearchFields: []string{"name", "description", "vehicle.make", "vehicle.model"},
	CityFields:   []string{"location.city"},
	StateFields:  []string{"location.state"},
}

func NewRentalService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[*model.RentalService],
	creators CreatorLookup,
) *RentalService {
	return newCatalogService(logger, trace, metric, store, creators, rentalFields, catalogHooks[*model.RentalService]{
		prepare: func(r *model.RentalService) {
			prepareBase(&r.CatalogBase)
			defaultCurrency(&r.Pricing.Currency)
		},
		rules: rentalRules,
	})
}

func rentalRules(r *model.RentalService) []cErr.FieldError {
	// seats >= 1 由 validate tag 檢查
	var details []cErr.FieldError
	if r.Pricing.SecurityDeposit > maxDepositMultiple*r.Pricing.PerDay {
		details = append(details, cErr.FieldError{Field: "pricing.securityDeposit", Message: "cannot exceed 10 times pricing.perDay"})
	}
	return details
}
