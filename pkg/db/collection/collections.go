package collection

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

func (dbService *CollectionDBService) CreateCollection(collection types.Collection) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionCollections().InsertOne(ctx, collection)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", types.ErrDuplicateToken
		}
		return "", err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted ID type")
	}
	return id.Hex(), nil
}

func (dbService *CollectionDBService) GetCollectionByAdminToken(token string) (collection types.Collection, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"adminToken": token}
	err = dbService.collectionCollections().FindOne(ctx, filter).Decode(&collection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return collection, types.ErrNotFound
		}
		return collection, err
	}
	return collection, nil
}

func (dbService *CollectionDBService) GetCollectionBySubmissionToken(token string) (collection types.Collection, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"submissionToken": token}
	err = dbService.collectionCollections().FindOne(ctx, filter).Decode(&collection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return collection, types.ErrNotFound
		}
		return collection, err
	}
	return collection, nil
}

func (dbService *CollectionDBService) GetCollectionsByOwner(ownerID string) (collections []types.Collection, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"ownerID": ownerID}
	cursor, err := dbService.collectionCollections().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &collections)
	if err != nil {
		return nil, err
	}
	return collections, nil
}
