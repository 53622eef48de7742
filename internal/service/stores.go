package service

import (
	"context"
	"time"

	"wanderlust/internal/core"
	fluentdModel "wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityStore 身分資料存取；由 mongodb repository 實作
type IdentityStore interface {
	Create(ctx context.Context, identity *model.Identity) (*model.Identity, error)
	GetByID(ctx context.Context, identityID primitive.ObjectID) (*model.Identity, error)
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
	Replace(ctx context.Context, identity *model.Identity) (*model.Identity, error)
	UpdateLastLogin(ctx context.Context, identityID primitive.ObjectID, loginTime time.Time) (int64, error)
	UpdateRole(ctx context.Context, identityID primitive.ObjectID, role core.Role) (int64, error)
	List(ctx context.Context, role core.Role) ([]*model.Identity, error)
	ForEach(ctx context.Context, visit func(identity *model.Identity) error) error
	CreatorLookup
}

// CreatorLookup 目錄列表填入 createdBy 使用
type CreatorLookup interface {
	FindByIDs(ctx context.Context, identityIDs []primitive.ObjectID) ([]*model.Identity, error)
}

// RevocationStore 登出後的 jti 黑名單
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthEventSink 身分事件輸出（fluentd）
type AuthEventSink interface {
	LogAuthEvent(ctx context.Context, event fluentdModel.AuthEventLog) error
}

// CatalogStore 目錄資源存取；D 為文件指標型別
type CatalogStore[D model.CatalogDocument] interface {
	Create(ctx context.Context, document D) (D, error)
	GetByID(ctx context.Context, documentID primitive.ObjectID) (D, error)
	List(ctx context.Context, filter bson.M) ([]D, error)
	ReplaceByID(ctx context.Context, documentID primitive.ObjectID, document D) (D, error)
	DeleteByID(ctx context.Context, documentID primitive.ObjectID) error
	Exists(ctx context.Context, filter bson.M) (bool, error)
}
