package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachmentHandlePrefix marks string response values that reference an
// object in the blob store instead of plain text.
const AttachmentHandlePrefix = "att_"

type ValueKind string

const (
	ValueKindText       ValueKind = "text"
	ValueKindNumber     ValueKind = "number"
	ValueKindFlag       ValueKind = "flag"
	ValueKindAttachment ValueKind = "attachment"
)

// ResponseValue is the tagged union of value kinds a submission may contain.
// On the wire it is a plain JSON primitive; in the document store it is kept
// with an explicit kind tag so readers can switch exhaustively.
type ResponseValue struct {
	Kind       ValueKind `bson:"kind" json:"-"`
	Text       string    `bson:"text,omitempty" json:"-"`
	Number     float64   `bson:"number,omitempty" json:"-"`
	Flag       bool      `bson:"flag,omitempty" json:"-"`
	Attachment string    `bson:"attachment,omitempty" json:"-"`
}

func TextValue(v string) ResponseValue {
	return ResponseValue{Kind: ValueKindText, Text: v}
}

func NumberValue(v float64) ResponseValue {
	return ResponseValue{Kind: ValueKindNumber, Number: v}
}

func FlagValue(v bool) ResponseValue {
	return ResponseValue{Kind: ValueKindFlag, Flag: v}
}

func AttachmentValue(handle string) ResponseValue {
	return ResponseValue{Kind: ValueKindAttachment, Attachment: handle}
}

func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case bool:
		*v = FlagValue(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return err
		}
		*v = NumberValue(f)
	case string:
		if strings.HasPrefix(val, AttachmentHandlePrefix) {
			*v = AttachmentValue(val)
		} else {
			*v = TextValue(val)
		}
	default:
		return fmt.Errorf("unsupported response value type %T", raw)
	}
	return nil
}

func (v ResponseValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueKindNumber:
		return json.Marshal(v.Number)
	case ValueKindFlag:
		return json.Marshal(v.Flag)
	case ValueKindAttachment:
		return json.Marshal(v.Attachment)
	default:
		return json.Marshal(v.Text)
	}
}

// ResolvedAttachment replaces an attachment handle in read results once the
// blob store resolved it to a fetchable URL.
type ResolvedAttachment struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}

type Submission struct {
	ID            primitive.ObjectID       `bson:"_id,omitempty" json:"id,omitempty"`
	CollectionID  string                   `bson:"collectionID" json:"collectionId"`
	SubmitterName string                   `bson:"submitterName" json:"submitterName"`
	Responses     map[string]ResponseValue `bson:"responses" json:"responses"`
	SubmittedAt   int64                    `bson:"submittedAt" json:"submittedAt"`
}
