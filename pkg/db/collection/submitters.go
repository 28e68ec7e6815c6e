package collection

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

// AddSubmitter registers an expected respondent. The unique index on
// (collectionID, name) rejects duplicates; the roster stays unchanged then.
func (dbService *CollectionDBService) AddSubmitter(collectionID string, name string) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionSubmitters().InsertOne(ctx, types.Submitter{
		CollectionID: collectionID,
		Name:         name,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", types.ErrDuplicateSubmitter
		}
		return "", err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted ID type")
	}
	return id.Hex(), nil
}

func (dbService *CollectionDBService) GetSubmitters(collectionID string) (submitters []types.Submitter, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"collectionID": collectionID}
	cursor, err := dbService.collectionSubmitters().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &submitters)
	if err != nil {
		return nil, err
	}
	return submitters, nil
}
