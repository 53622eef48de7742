package service

import (
	fluentdRepo "wanderlust/internal/database/fluentd/repository"
	"wanderlust/internal/database/mongodb/model"
	mongoRepo "wanderlust/internal/database/mongodb/repository"
	redisRepo "wanderlust/internal/database/redis/repository"

	"github.com/google/wire"
)

// 外部登入驗證器透過 ProvideRegistryWithVerifiers 一次註冊
var ProviderSet = wire.NewSet(
	NewHealthService,
	NewAuthService,
	NewSessionService,
	NewIdentityService,
	NewHotelService,
	NewResortService,
	NewTourService,
	NewPackageService,
	NewRentalService,
	NewTravelServiceService,
	NewGoogleVerifier,
	ProvideRegistryWithVerifiers,
	wire.Bind(new(IdentityStore), new(*mongoRepo.IdentityRepository)),
	wire.Bind(new(CreatorLookup), new(*mongoRepo.IdentityRepository)),
	wire.Bind(new(RevocationStore), new(*redisRepo.SessionRevocationRepository)),
	wire.Bind(new(AuthEventSink), new(*fluentdRepo.LogRepository)),
	ProvideHotelStore,
	ProvideResortStore,
	ProvideTourStore,
	ProvidePackageStore,
	ProvideRentalStore,
	ProvideTravelServiceStore,
)

func ProvideHotelStore(repository *mongoRepo.HotelRepository) CatalogStore[*model.Hotel] {
	return repository
}

func ProvideResortStore(repository *mongoRepo.ResortRepository) CatalogStore[*model.Resort] {
	return repository
}

func ProvideTourStore(repository *mongoRepo.TourRepository) CatalogStore[*model.Tour] {
	return repository
}

func ProvidePackageStore(repository *mongoRepo.PackageRepository) CatalogStore[*model.TravelPackage] {
	return repository
}

func ProvideRentalStore(repository *mongoRepo.RentalServiceRepository) CatalogStore[*model.RentalService] {
	return repository
}

func ProvideTravelServiceStore(repository *mongoRepo.TravelServiceRepository) CatalogStore[*model.TravelService] {
	return repository
}
