package collection

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

// UpsertSubmission writes the one submission row for (collection, submitter)
// as a single atomic find-and-replace, so concurrent submits for the same
// submitter cannot produce two rows. The whole responses map is replaced.
func (dbService *CollectionDBService) UpsertSubmission(submission types.Submission) (types.Submission, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"collectionID":  submission.CollectionID,
		"submitterName": submission.SubmitterName,
	}
	submission.ID = primitive.NilObjectID

	upsert := true
	rd := options.After
	opts := options.FindOneAndReplaceOptions{
		Upsert:         &upsert,
		ReturnDocument: &rd,
	}
	elem := types.Submission{}
	err := dbService.collectionSubmissions().FindOneAndReplace(
		ctx, filter, submission, &opts,
	).Decode(&elem)
	return elem, err
}

func (dbService *CollectionDBService) GetSubmission(collectionID string, submitterName string) (submission types.Submission, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"collectionID":  collectionID,
		"submitterName": submitterName,
	}
	err = dbService.collectionSubmissions().FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return submission, types.ErrNotFound
		}
		return submission, err
	}
	return submission, nil
}

func (dbService *CollectionDBService) GetSubmissions(collectionID string) (submissions []types.Submission, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"collectionID": collectionID}
	cursor, err := dbService.collectionSubmissions().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &submissions)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
