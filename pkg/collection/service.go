package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hikuken/submission-project/pkg/collection/types"
	"github.com/hikuken/submission-project/pkg/filestore"
)

const (
	// how often collection creation retries token minting when the store
	// reports a token collision
	tokenMintAttempts = 3
)

// Store is the document store the collection service runs against.
type Store interface {
	CreateCollection(collection types.Collection) (id string, err error)
	GetCollectionByAdminToken(token string) (types.Collection, error)
	GetCollectionBySubmissionToken(token string) (types.Collection, error)
	GetCollectionsByOwner(ownerID string) ([]types.Collection, error)

	ReplaceFields(collectionID string, fields []types.FieldDefinition) error
	GetFields(collectionID string) ([]types.FieldDefinition, error)

	AddSubmitter(collectionID string, name string) (id string, err error)
	GetSubmitters(collectionID string) ([]types.Submitter, error)

	UpsertSubmission(submission types.Submission) (types.Submission, error)
	GetSubmission(collectionID string, submitterName string) (types.Submission, error)
	GetSubmissions(collectionID string) ([]types.Submission, error)
}

type Service struct {
	store       Store
	objectStore filestore.ObjectStore
}

func NewService(store Store, objectStore filestore.ObjectStore) *Service {
	return &Service{
		store:       store,
		objectStore: objectStore,
	}
}

type CreateCollectionResult struct {
	CollectionID    string `json:"collectionId"`
	AdminToken      string `json:"adminToken"`
	SubmissionToken string `json:"submissionToken"`
}

// CreateCollection mints the two capability tokens, stores the collection and
// seeds the mandatory submitter-selector field.
func (s *Service) CreateCollection(ctx context.Context, ownerID string, name string, password string) (CreateCollectionResult, error) {
	if ownerID == "" {
		return CreateCollectionResult{}, errors.New("owner is required")
	}
	if name == "" {
		return CreateCollectionResult{}, errors.New("name is required")
	}

	newCollection := types.Collection{
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().Unix(),
	}
	if password != "" {
		hash, err := HashPassword(password)
		if err != nil {
			return CreateCollectionResult{}, fmt.Errorf("failed to derive password secret: %w", err)
		}
		newCollection.HasPassword = true
		newCollection.PasswordHash = hash
	}

	var collectionID string
	for attempt := 0; attempt < tokenMintAttempts; attempt++ {
		adminToken, err := NewURLToken(DefaultTokenLength)
		if err != nil {
			return CreateCollectionResult{}, err
		}
		submissionToken, err := NewURLToken(DefaultTokenLength)
		if err != nil {
			return CreateCollectionResult{}, err
		}
		newCollection.AdminToken = adminToken
		newCollection.SubmissionToken = submissionToken

		collectionID, err = s.store.CreateCollection(newCollection)
		if err == nil {
			break
		}
		if errors.Is(err, types.ErrDuplicateToken) {
			slog.Warn("token collision while creating collection, minting new tokens", slog.Int("attempt", attempt+1))
			continue
		}
		return CreateCollectionResult{}, err
	}
	if collectionID == "" {
		return CreateCollectionResult{}, types.ErrDuplicateToken
	}

	if err := s.store.ReplaceFields(collectionID, []types.FieldDefinition{
		types.DefaultSubmitterField(collectionID),
	}); err != nil {
		return CreateCollectionResult{}, fmt.Errorf("failed to seed default field: %w", err)
	}

	return CreateCollectionResult{
		CollectionID:    collectionID,
		AdminToken:      newCollection.AdminToken,
		SubmissionToken: newCollection.SubmissionToken,
	}, nil
}

func (s *Service) GetCollectionsByOwner(ctx context.Context, ownerID string) ([]types.Collection, error) {
	return s.store.GetCollectionsByOwner(ownerID)
}

func (s *Service) GetCollectionBySubmissionToken(ctx context.Context, submissionToken string) (types.Collection, error) {
	return s.store.GetCollectionBySubmissionToken(submissionToken)
}

// ReplaceFields swaps the full schema of a collection. Order is reassigned
// from the position in the incoming list. The submitter-selector field is
// kept in front if the caller left it out.
func (s *Service) ReplaceFields(ctx context.Context, collectionID string, fields []types.FieldDefinition) error {
	for _, f := range fields {
		if !f.Kind.IsValid() {
			return fmt.Errorf("invalid field kind: %s", f.Kind)
		}
	}

	hasSubmitterField := false
	for _, f := range fields {
		if f.IsSubmitterField() {
			hasSubmitterField = true
			break
		}
	}
	if !hasSubmitterField {
		fields = append([]types.FieldDefinition{types.DefaultSubmitterField(collectionID)}, fields...)
	}

	return s.store.ReplaceFields(collectionID, fields)
}

func (s *Service) AddSubmitter(ctx context.Context, collectionID string, name string) (string, error) {
	if name == "" {
		return "", errors.New("submitter name is required")
	}
	return s.store.AddSubmitter(collectionID, name)
}

// SubmitResponse upserts the single submission row for the given submitter.
// A resubmit replaces the whole responses map, last write wins. The ledger is
// schema-agnostic: responses are not validated against the field definitions.
func (s *Service) SubmitResponse(ctx context.Context, collectionID string, submitterName string, responses map[string]types.ResponseValue) (string, error) {
	if submitterName == "" {
		return "", errors.New("submitter name is required")
	}
	if responses == nil {
		responses = map[string]types.ResponseValue{}
	}

	saved, err := s.store.UpsertSubmission(types.Submission{
		CollectionID:  collectionID,
		SubmitterName: submitterName,
		Responses:     responses,
		SubmittedAt:   time.Now().Unix(),
	})
	if err != nil {
		return "", err
	}
	return saved.ID.Hex(), nil
}

// GetSubmission returns the stored submission for the submitter, with raw
// attachment handles. Used to warn about resubmission, never to block it.
func (s *Service) GetSubmission(ctx context.Context, collectionID string, submitterName string) (types.Submission, error) {
	return s.store.GetSubmission(collectionID, submitterName)
}

func (s *Service) IssueUploadTarget(ctx context.Context) (filestore.UploadTarget, error) {
	return s.objectStore.IssueUploadTarget(ctx)
}
