package database

import (
	client "wanderlust/internal/database/client"
	fluentdRepo "wanderlust/internal/database/fluentd/repository"
	mongoRepo "wanderlust/internal/database/mongodb/repository"
	redisRepo "wanderlust/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
