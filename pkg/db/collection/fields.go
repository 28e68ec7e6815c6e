package collection

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

// ReplaceFields swaps the full set of field definitions for a collection:
// delete all, then reinsert with order taken from the list position. Not a
// single commit - a crash in between can leave a partial schema.
func (dbService *CollectionDBService) ReplaceFields(collectionID string, fields []types.FieldDefinition) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if _, err := dbService.collectionFields().DeleteMany(ctx, bson.M{"collectionID": collectionID}); err != nil {
		return err
	}

	if len(fields) == 0 {
		return nil
	}

	docs := make([]interface{}, len(fields))
	for i, field := range fields {
		field.ID = primitive.NilObjectID
		field.CollectionID = collectionID
		field.Order = i
		docs[i] = field
	}

	_, err := dbService.collectionFields().InsertMany(ctx, docs)
	return err
}

func (dbService *CollectionDBService) GetFields(collectionID string) (fields []types.FieldDefinition, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"collectionID": collectionID}
	opts := options.Find().SetSort(bson.M{"order": 1})

	cursor, err := dbService.collectionFields().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &fields)
	if err != nil {
		return nil, err
	}
	return fields, nil
}
