package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindNumber FieldKind = "number"
	FieldKindImage  FieldKind = "image"
	FieldKindChoice FieldKind = "choice"
)

// Label of the submitter-selector field that every collection must contain.
const SubmitterFieldLabel = "Name"

type FieldDefinition struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CollectionID  string             `bson:"collectionID" json:"collectionId"`
	Label         string             `bson:"label" json:"label"`
	Kind          FieldKind          `bson:"kind" json:"kind"`
	Required      bool               `bson:"required" json:"required"`
	ChoiceOptions []string           `bson:"choiceOptions,omitempty" json:"choiceOptions,omitempty"`
	Order         int                `bson:"order" json:"order"`
}

func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindImage, FieldKindChoice:
		return true
	}
	return false
}

func (f FieldDefinition) IsSubmitterField() bool {
	return f.Label == SubmitterFieldLabel && f.Kind == FieldKindChoice
}

// DefaultSubmitterField returns the mandatory "Name" selector field seeded
// into every new collection.
func DefaultSubmitterField(collectionID string) FieldDefinition {
	return FieldDefinition{
		CollectionID: collectionID,
		Label:        SubmitterFieldLabel,
		Kind:         FieldKindChoice,
		Required:     true,
		Order:        0,
	}
}
