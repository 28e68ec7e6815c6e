package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Collection struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	OwnerID         string             `bson:"ownerID" json:"ownerId"`
	AdminToken      string             `bson:"adminToken" json:"adminToken"`
	SubmissionToken string             `bson:"submissionToken" json:"submissionToken"`
	HasPassword     bool               `bson:"hasPassword" json:"hasPassword"`
	PasswordHash    string             `bson:"passwordHash,omitempty" json:"-"`
	CreatedAt       int64              `bson:"createdAt" json:"createdAt"`
}

type Submitter struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CollectionID string             `bson:"collectionID" json:"collectionId"`
	Name         string             `bson:"name" json:"name"`
}
