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

// CatalogRepository 六種目錄資源共用的 CRUD；D 為文件指標型別
type CatalogRepository[D model.CatalogDocument] struct {
	collection  *mongo.Collection
	newDocument func() D
}

type (
	HotelRepository         = CatalogRepository[*model.Hotel]
	ResortRepository        = CatalogRepository[*model.Resort]
	TourRepository          = CatalogRepository[*model.Tour]
	PackageRepository       = CatalogRepository[*model.TravelPackage]
	RentalServiceRepository = CatalogRepository[*model.RentalService]
	TravelServiceRepository = CatalogRepository[*model.TravelService]
)

func newCatalogRepository[D model.CatalogDocument](
	mongoClient *client.MongoClient,
	collection core.MongoCollection,
	indexes []mongo.IndexModel,
	newDocument func() D,
) *CatalogRepository[D] {
	repository := &CatalogRepository[D]{
		collection:  mongoClient.Collection(collection),
		newDocument: newDocument,
	}
	_, _ = repository.collection.Indexes().CreateMany(context.Background(), indexes)
	return repository
}

func NewHotelRepository(mongoClient *client.MongoClient) *HotelRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionHotels, model.HotelIndexes,
		func() *model.Hotel { return &model.Hotel{} })
}

func NewResortRepository(mongoClient *client.MongoClient) *ResortRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionResorts, model.ResortIndexes,
		func() *model.Resort { return &model.Resort{} })
}

func NewTourRepository(mongoClient *client.MongoClient) *TourRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionTours, model.TourIndexes,
		func() *model.Tour { return &model.Tour{} })
}

func NewPackageRepository(mongoClient *client.MongoClient) *PackageRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionPackages, model.PackageIndexes,
		func() *model.TravelPackage { return &model.TravelPackage{} })
}

func NewRentalServiceRepository(mongoClient *client.MongoClient) *RentalServiceRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionRentalServices, model.RentalServiceIndexes,
		func() *model.RentalService { return &model.RentalService{} })
}

func NewTravelServiceRepository(mongoClient *client.MongoClient) *TravelServiceRepository {
	return newCatalogRepository(mongoClient, core.MongoCollectionServices, model.TravelServiceIndexes,
		func() *model.TravelService { return &model.TravelService{} })
}

// Create：單文件插入
func (repository *CatalogRepository[D]) Create(
	contextValue context.Context,
	document D,
) (_ D, returnedError error) {

	var zero D
	base := document.Base()
	nowUTC := time.Now().UTC()
	if base.ID.IsZero() {
		base.ID = primitive.NewObjectID()
	}
	base.CreatedAt = nowUTC
	base.UpdatedAt = nowUTC

	insertResult, insertError := repository.collection.InsertOne(contextValue, document)
	if insertError != nil {
		return zero, insertError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return zero, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	base.ID = objectID
	return document, nil
}

// GetByID：找不到時回傳 mongo.ErrNoDocuments
func (repository *CatalogRepository[D]) GetByID(
	contextValue context.Context,
	documentID primitive.ObjectID,
) (_ D, returnedError error) {

	var zero D
	document := repository.newDocument()
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": documentID}).Decode(document); returnedError != nil {
		return zero, returnedError
	}
	return document, nil
}

// List：依建立時間倒序，不分頁
func (repository *CatalogRepository[D]) List(
	contextValue context.Context,
	filter bson.M,
) (_ []D, returnedError error) {

	if filter == nil {
		filter = bson.M{}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	documents := make([]D, 0)
	for cursor.Next(contextValue) {
		document := repository.newDocument()
		if decodeError := cursor.Decode(document); decodeError != nil {
			return nil, decodeError
		}
		documents = append(documents, document)
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}
	return documents, nil
}

// ReplaceByID：整份覆寫，保留 _id；呼叫端需先帶入 createdBy / createdAt
func (repository *CatalogRepository[D]) ReplaceByID(
	contextValue context.Context,
	documentID primitive.ObjectID,
	document D,
) (_ D, returnedError error) {

	var zero D
	base := document.Base()
	base.ID = documentID
	base.UpdatedAt = time.Now().UTC()

	result, replaceError := repository.collection.ReplaceOne(contextValue, bson.M{"_id": documentID}, document)
	if replaceError != nil {
		return zero, replaceError
	}
	if result.MatchedCount == 0 {
		return zero, mongo.ErrNoDocuments
	}
	return document, nil
}

// DeleteByID：硬刪除，找不到時回傳 mongo.ErrNoDocuments
func (repository *CatalogRepository[D]) DeleteByID(
	contextValue context.Context,
	documentID primitive.ObjectID,
) (returnedError error) {

	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"_id": documentID})
	if deleteError != nil {
		return deleteError
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Exists：唯一性檢查用
func (repository *CatalogRepository[D]) Exists(
	contextValue context.Context,
	filter bson.M,
) (_ bool, returnedError error) {

	count, countError := repository.collection.CountDocuments(contextValue, filter, options.Count().SetLimit(1))
	if countError != nil {
		return false, countError
	}
	return count > 0, nil
}
