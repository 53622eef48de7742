package core

// ─── Database Types ────────────────────────────────────────────────────────────

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	// 未設定 MONGODB__DATABASE 時使用
	MongoDBWanderlust MongoDatabaseName = "wanderlust"
)

// MongoDB collections
const (
	MongoCollectionIdentities     MongoCollection = "identities"
	MongoCollectionHotels         MongoCollection = "hotels"
	MongoCollectionResorts        MongoCollection = "resorts"
	MongoCollectionTours          MongoCollection = "tours"
	MongoCollectionPackages       MongoCollection = "packages"
	MongoCollectionRentalServices MongoCollection = "rental_services"
	MongoCollectionServices       MongoCollection = "services"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyBlacklist     RedisKey = "blacklist_token" // 已登出的 session jti
	RedisKeyLoginThrottle RedisKey = "login_throttle"  // 登入嘗試計數
	RedisKeyServerName    RedisKey = "wanderlust"      // 伺服器名稱
)

const (
	FluentdRequest   FluentdSubTag = "request_log"
	FluentdResponse  FluentdSubTag = "response_log"
	FluentdAuthEvent FluentdSubTag = "auth_event_log"
)
