package repository

import (
	"context"
	"fmt"
	"time"

	"wanderlust/internal/core"
	client "wanderlust/internal/database/client"
	"wanderlust/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IdentityRepository struct {
	collection *mongo.Collection
}

func NewIdentityRepository(mongoClient *client.MongoClient) *IdentityRepository {
	repository := &IdentityRepository{
		collection: mongoClient.Collection(core.MongoCollectionIdentities),
	}
	// 啟動時建立索引（冪等、存在即跳過）
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *IdentityRepository) ensureIndexes(contextValue context.Context) error {
	_, err := repository.collection.Indexes().CreateMany(contextValue, model.IdentityIndexes)
	return err
}

// Create：寫入前執行 BeforeSave；email 重複時回傳 duplicate key 錯誤
func (repository *IdentityRepository) Create(
	contextValue context.Context,
	identity *model.Identity,
) (_ *model.Identity, returnedError error) {

	if identity.ID.IsZero() {
		identity.ID = primitive.NewObjectID()
	}
	if returnedError = identity.BeforeSave(time.Now().UTC()); returnedError != nil {
		return nil, returnedError
	}

	insertResult, insertError := repository.collection.InsertOne(contextValue, identity)
	if insertError != nil {
		return nil, insertError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	identity.ID = objectID
	return identity, nil
}

func (repository *IdentityRepository) GetByID(
	contextValue context.Context,
	identityID primitive.ObjectID,
) (_ *model.Identity, returnedError error) {

	var identity model.Identity
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": identityID}).Decode(&identity); returnedError != nil {
		return nil, returnedError
	}
	return &identity, nil
}

// FindByEmail：以正規化後的 email 查詢
func (repository *IdentityRepository) FindByEmail(
	contextValue context.Context,
	email string,
) (_ *model.Identity, returnedError error) {

	var identity model.Identity
	filter := bson.M{"email": model.NormalizeEmail(email)}
	if returnedError = repository.collection.FindOne(contextValue, filter).Decode(&identity); returnedError != nil {
		return nil, returnedError
	}
	return &identity, nil
}

// Replace：整份覆寫，寫入前執行 BeforeSave
func (repository *IdentityRepository) Replace(
	contextValue context.Context,
	identity *model.Identity,
) (_ *model.Identity, returnedError error) {

	if returnedError = identity.BeforeSave(time.Now().UTC()); returnedError != nil {
		return nil, returnedError
	}
	result, replaceError := repository.collection.ReplaceOne(contextValue, bson.M{"_id": identity.ID}, identity)
	if replaceError != nil {
		return nil, replaceError
	}
	if result.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return identity, nil
}

func (repository *IdentityRepository) UpdateLastLogin(
	contextValue context.Context,
	identityID primitive.ObjectID,
	loginTime time.Time,
) (_ int64, returnedError error) {

	update := bson.M{"$set": bson.M{"lastLoginAt": loginTime.UTC()}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": identityID}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	return result.MatchedCount, nil
}

func (repository *IdentityRepository) UpdateRole(
	contextValue context.Context,
	identityID primitive.ObjectID,
	role core.Role,
) (_ int64, returnedError error) {

	update := bson.M{"$set": bson.M{"role": role}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": identityID}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	return result.MatchedCount, nil
}

// FindByIDs：一次查回多筆，供目錄列表填入 createdBy
func (repository *IdentityRepository) FindByIDs(
	contextValue context.Context,
	identityIDs []primitive.ObjectID,
) (_ []*model.Identity, returnedError error) {

	if len(identityIDs) == 0 {
		return nil, nil
	}
	findOptions := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	cursor, findError := repository.collection.Find(contextValue, bson.M{"_id": bson.M{"$in": identityIDs}}, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var identities []*model.Identity
	if returnedError = cursor.All(contextValue, &identities); returnedError != nil {
		return nil, returnedError
	}
	return identities, nil
}

// List：依角色篩選（空字串代表全部），依建立時間倒序
func (repository *IdentityRepository) List(
	contextValue context.Context,
	role core.Role,
) (_ []*model.Identity, returnedError error) {

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	findOptions := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var identities []*model.Identity
	if returnedError = cursor.All(contextValue, &identities); returnedError != nil {
		return nil, returnedError
	}
	return identities, nil
}

// ForEach：游標逐筆走訪，供批次修復使用
func (repository *IdentityRepository) ForEach(
	contextValue context.Context,
	visit func(identity *model.Identity) error,
) (returnedError error) {

	cursor, findError := repository.collection.Find(contextValue, bson.M{})
	if findError != nil {
		return findError
	}
	defer cursor.Close(contextValue)

	for cursor.Next(contextValue) {
		var identity model.Identity
		if decodeError := cursor.Decode(&identity); decodeError != nil {
			return decodeError
		}
		if returnedError = visit(&identity); returnedError != nil {
			return returnedError
		}
	}
	return cursor.Err()
}
