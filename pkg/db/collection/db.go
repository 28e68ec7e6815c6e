package collection

import (
	"context"
	"log/slog"
	"time"

	"github.com/hikuken/submission-project/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_COLLECTIONS = "collections"
	COLLECTION_NAME_FIELDS      = "fieldDefinitions"
	COLLECTION_NAME_SUBMISSIONS = "submissions"
	COLLECTION_NAME_SUBMITTERS  = "submitters"
)

type CollectionDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewCollectionDBService(configs db.DBConfig) (*CollectionDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	collectionDBSc := &CollectionDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if err := collectionDBSc.ensureIndexes(); err != nil {
		slog.Error("Error ensuring indexes for collection DB", slog.String("error", err.Error()))
	}

	return collectionDBSc, nil
}

func (dbService *CollectionDBService) getDBName() string {
	return dbService.DBNamePrefix + "collectionDB"
}

func (dbService *CollectionDBService) collectionCollections() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_COLLECTIONS)
}

func (dbService *CollectionDBService) collectionFields() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_FIELDS)
}

func (dbService *CollectionDBService) collectionSubmissions() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SUBMISSIONS)
}

func (dbService *CollectionDBService) collectionSubmitters() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SUBMITTERS)
}

func (dbService *CollectionDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *CollectionDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for collection DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	// capability tokens must never be reused across collections
	_, err := dbService.collectionCollections().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "adminToken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "submissionToken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "ownerID", Value: 1}},
		},
	})
	if err != nil {
		slog.Error("Error creating indexes for collections", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionFields().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "collectionID", Value: 1},
			{Key: "order", Value: 1},
		},
	})
	if err != nil {
		slog.Error("Error creating index for field definitions", slog.String("error", err.Error()))
	}

	// one submission row per (collection, submitter name); the unique index
	// backs the upsert against concurrent submits
	_, err = dbService.collectionSubmissions().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "collectionID", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "collectionID", Value: 1},
				{Key: "submitterName", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		slog.Error("Error creating indexes for submissions", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionSubmitters().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "collectionID", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		slog.Error("Error creating index for submitters", slog.String("error", err.Error()))
	}

	return nil
}
