package collection

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hikuken/submission-project/pkg/collection/types"
	"github.com/hikuken/submission-project/pkg/filestore"
)

type fakeStore struct {
	collections map[string]types.Collection
	fields      map[string][]types.FieldDefinition
	submitters  map[string][]types.Submitter
	submissions map[string][]types.Submission

	createCollectionErrs []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		collections: map[string]types.Collection{},
		fields:      map[string][]types.FieldDefinition{},
		submitters:  map[string][]types.Submitter{},
		submissions: map[string][]types.Submission{},
	}
}

func (s *fakeStore) CreateCollection(collection types.Collection) (string, error) {
	if len(s.createCollectionErrs) > 0 {
		err := s.createCollectionErrs[0]
		s.createCollectionErrs = s.createCollectionErrs[1:]
		if err != nil {
			return "", err
		}
	}
	collection.ID = primitive.NewObjectID()
	s.collections[collection.ID.Hex()] = collection
	return collection.ID.Hex(), nil
}

func (s *fakeStore) GetCollectionByAdminToken(token string) (types.Collection, error) {
	for _, coll := range s.collections {
		if coll.AdminToken == token {
			return coll, nil
		}
	}
	return types.Collection{}, types.ErrNotFound
}

func (s *fakeStore) GetCollectionBySubmissionToken(token string) (types.Collection, error) {
	for _, coll := range s.collections {
		if coll.SubmissionToken == token {
			return coll, nil
		}
	}
	return types.Collection{}, types.ErrNotFound
}

func (s *fakeStore) GetCollectionsByOwner(ownerID string) ([]types.Collection, error) {
	collections := []types.Collection{}
	for _, coll := range s.collections {
		if coll.OwnerID == ownerID {
			collections = append(collections, coll)
		}
	}
	return collections, nil
}

func (s *fakeStore) ReplaceFields(collectionID string, fields []types.FieldDefinition) error {
	stored := make([]types.FieldDefinition, len(fields))
	for i, field := range fields {
		field.CollectionID = collectionID
		field.Order = i
		stored[i] = field
	}
	s.fields[collectionID] = stored
	return nil
}

func (s *fakeStore) GetFields(collectionID string) ([]types.FieldDefinition, error) {
	return s.fields[collectionID], nil
}

func (s *fakeStore) AddSubmitter(collectionID string, name string) (string, error) {
	for _, submitter := range s.submitters[collectionID] {
		if submitter.Name == name {
			return "", types.ErrDuplicateSubmitter
		}
	}
	submitter := types.Submitter{ID: primitive.NewObjectID(), CollectionID: collectionID, Name: name}
	s.submitters[collectionID] = append(s.submitters[collectionID], submitter)
	return submitter.ID.Hex(), nil
}

func (s *fakeStore) GetSubmitters(collectionID string) ([]types.Submitter, error) {
	return s.submitters[collectionID], nil
}

func (s *fakeStore) UpsertSubmission(submission types.Submission) (types.Submission, error) {
	for i, existing := range s.submissions[submission.CollectionID] {
		if existing.SubmitterName == submission.SubmitterName {
			submission.ID = existing.ID
			s.submissions[submission.CollectionID][i] = submission
			return submission, nil
		}
	}
	submission.ID = primitive.NewObjectID()
	s.submissions[submission.CollectionID] = append(s.submissions[submission.CollectionID], submission)
	return submission, nil
}

func (s *fakeStore) GetSubmission(collectionID string, submitterName string) (types.Submission, error) {
	for _, submission := range s.submissions[collectionID] {
		if submission.SubmitterName == submitterName {
			return submission, nil
		}
	}
	return types.Submission{}, types.ErrNotFound
}

func (s *fakeStore) GetSubmissions(collectionID string) ([]types.Submission, error) {
	return s.submissions[collectionID], nil
}

type fakeObjectStore struct {
	objects map[string]string
}

func (s *fakeObjectStore) IssueUploadTarget(ctx context.Context) (filestore.UploadTarget, error) {
	return filestore.UploadTarget{
		Handle: types.AttachmentHandlePrefix + "new",
		URL:    "https://filestore.test/upload",
		Method: "PUT",
	}, nil
}

func (s *fakeObjectStore) ResolveURL(ctx context.Context, handle string) (string, error) {
	url, ok := s.objects[handle]
	if !ok {
		return "", filestore.ErrObjectNotFound
	}
	return url, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, &fakeObjectStore{objects: map[string]string{}})
}

func TestCreateCollection(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AdminToken) != DefaultTokenLength {
		t.Errorf("len(AdminToken) = %d, want %d", len(result.AdminToken), DefaultTokenLength)
	}
	if len(result.SubmissionToken) != DefaultTokenLength {
		t.Errorf("len(SubmissionToken) = %d, want %d", len(result.SubmissionToken), DefaultTokenLength)
	}
	if result.AdminToken == result.SubmissionToken {
		t.Errorf("admin and submission tokens are equal")
	}

	fields := store.fields[result.CollectionID]
	if len(fields) != 1 {
		t.Fatalf("seeded %d fields, want 1", len(fields))
	}
	seeded := fields[0]
	if !seeded.IsSubmitterField() || !seeded.Required || seeded.Order != 0 {
		t.Errorf("unexpected seeded field: %+v", seeded)
	}

	coll := store.collections[result.CollectionID]
	if coll.HasPassword {
		t.Errorf("collection without password has HasPassword set")
	}
}

func TestCreateCollectionWithPassword(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coll := store.collections[result.CollectionID]
	if !coll.HasPassword {
		t.Errorf("HasPassword not set")
	}
	if coll.PasswordHash == "" || coll.PasswordHash == "abc123" {
		t.Errorf("password stored without derivation")
	}
}

func TestCreateCollectionRetriesOnTokenCollision(t *testing.T) {
	store := newFakeStore()
	store.createCollectionErrs = []error{types.ErrDuplicateToken}
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CollectionID == "" {
		t.Errorf("no collection created after retry")
	}
}

func TestCreateCollectionRequiresOwner(t *testing.T) {
	s := newTestService(newFakeStore())
	if _, err := s.CreateCollection(context.Background(), "", "Field Trip", ""); err == nil {
		t.Errorf("expected error for missing owner")
	}
}

func TestSubmitResponseUpsert(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	first := map[string]types.ResponseValue{
		"comment": types.TextValue("first try"),
		"age":     types.NumberValue(12),
	}
	firstID, err := s.SubmitResponse(context.Background(), "c1", "Taro", first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := map[string]types.ResponseValue{
		"comment": types.TextValue("second try"),
	}
	secondID, err := s.SubmitResponse(context.Background(), "c1", "Taro", second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if firstID != secondID {
		t.Errorf("resubmit created a new row: %s != %s", firstID, secondID)
	}
	if len(store.submissions["c1"]) != 1 {
		t.Fatalf("found %d submission rows, want 1", len(store.submissions["c1"]))
	}

	saved := store.submissions["c1"][0]
	if len(saved.Responses) != 1 {
		t.Errorf("responses not fully replaced: %+v", saved.Responses)
	}
	if saved.Responses["comment"].Text != "second try" {
		t.Errorf("responses[comment] = %q, want %q", saved.Responses["comment"].Text, "second try")
	}
}

func TestSubmitResponseEmptyPayload(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	if _, err := s.SubmitResponse(context.Background(), "c1", "Taro", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.submissions["c1"]) != 1 {
		t.Errorf("empty submission not stored")
	}
}

func TestSubmitResponseRequiresSubmitterName(t *testing.T) {
	s := newTestService(newFakeStore())
	if _, err := s.SubmitResponse(context.Background(), "c1", "", nil); err == nil {
		t.Errorf("expected error for missing submitter name")
	}
}

func TestAddSubmitterConflict(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	if _, err := s.AddSubmitter(context.Background(), "c1", "Taro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddSubmitter(context.Background(), "c1", "Taro"); !errors.Is(err, types.ErrDuplicateSubmitter) {
		t.Errorf("AddSubmitter() = %v, want ErrDuplicateSubmitter", err)
	}
	if len(store.submitters["c1"]) != 1 {
		t.Errorf("roster changed on conflict: %+v", store.submitters["c1"])
	}
}

func TestReplaceFieldsKeepsSubmitterField(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	err := s.ReplaceFields(context.Background(), "c1", []types.FieldDefinition{
		{Label: "Comment", Kind: types.FieldKindText},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := store.fields["c1"]
	if len(fields) != 2 {
		t.Fatalf("stored %d fields, want 2", len(fields))
	}
	if !fields[0].IsSubmitterField() || fields[0].Order != 0 {
		t.Errorf("submitter field not kept in front: %+v", fields[0])
	}
	if fields[1].Label != "Comment" || fields[1].Order != 1 {
		t.Errorf("unexpected second field: %+v", fields[1])
	}
}

func TestReplaceFieldsReassignsOrder(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	if err := s.ReplaceFields(context.Background(), "c1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.ReplaceFields(context.Background(), "c1", []types.FieldDefinition{
		{Label: "Name", Kind: types.FieldKindChoice, Required: true, Order: 99},
		{Label: "Photo", Kind: types.FieldKindImage, Order: 42},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, field := range store.fields["c1"] {
		if field.Order != i {
			t.Errorf("fields[%d].Order = %d, want %d", i, field.Order, i)
		}
	}
}

func TestReplaceFieldsRejectsInvalidKind(t *testing.T) {
	s := newTestService(newFakeStore())
	err := s.ReplaceFields(context.Background(), "c1", []types.FieldDefinition{
		{Label: "Broken", Kind: "video"},
	})
	if err == nil {
		t.Errorf("expected error for invalid field kind")
	}
}

func TestGetAdminView(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddSubmitter(context.Background(), result.CollectionID, "Taro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddSubmitter(context.Background(), result.CollectionID, "Hana"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.SubmitResponse(context.Background(), result.CollectionID, "Taro", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := s.GetAdminView(context.Background(), result.AdminToken, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Submissions) != 1 {
		t.Errorf("len(Submissions) = %d, want 1", len(view.Submissions))
	}
	if len(view.NonRespondents) != 1 || view.NonRespondents[0].Name != "Hana" {
		t.Errorf("NonRespondents = %+v, want [Hana]", view.NonRespondents)
	}
	if len(view.Fields) != 1 || !view.Fields[0].IsSubmitterField() {
		t.Errorf("unexpected fields in view: %+v", view.Fields)
	}
}

func TestGetAdminViewUnknownToken(t *testing.T) {
	s := newTestService(newFakeStore())
	if _, err := s.GetAdminView(context.Background(), "nosuchtoken", ""); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("GetAdminView() = %v, want ErrNotFound", err)
	}
}

func TestGetAdminViewResolvesAttachments(t *testing.T) {
	store := newFakeStore()
	objectStore := &fakeObjectStore{objects: map[string]string{
		types.AttachmentHandlePrefix + "ok": "https://filestore.test/att_ok",
	}}
	s := NewService(store, objectStore)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	responses := map[string]types.ResponseValue{
		"photo":   types.AttachmentValue(types.AttachmentHandlePrefix + "ok"),
		"missing": types.AttachmentValue(types.AttachmentHandlePrefix + "gone"),
		"comment": types.TextValue("hello"),
		"age":     types.NumberValue(12),
		"agreed":  types.FlagValue(true),
	}
	if _, err := s.SubmitResponse(context.Background(), result.CollectionID, "Taro", responses); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := s.GetAdminView(context.Background(), result.AdminToken, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved := view.Submissions[0].Responses
	attachment, ok := resolved["photo"].(types.ResolvedAttachment)
	if !ok {
		t.Fatalf("responses[photo] = %T, want ResolvedAttachment", resolved["photo"])
	}
	if attachment.StorageID != types.AttachmentHandlePrefix+"ok" || attachment.URL != "https://filestore.test/att_ok" {
		t.Errorf("unexpected resolved attachment: %+v", attachment)
	}

	// stale handle degrades to the raw handle, the read does not fail
	if raw, ok := resolved["missing"].(string); !ok || raw != types.AttachmentHandlePrefix+"gone" {
		t.Errorf("responses[missing] = %v, want raw handle", resolved["missing"])
	}

	if resolved["comment"] != "hello" {
		t.Errorf("responses[comment] = %v, want hello", resolved["comment"])
	}
	if resolved["age"] != float64(12) {
		t.Errorf("responses[age] = %v, want 12", resolved["age"])
	}
	if resolved["agreed"] != true {
		t.Errorf("responses[agreed] = %v, want true", resolved["agreed"])
	}
}

func TestPasswordScenario(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	requirement, err := s.CheckPasswordRequired(context.Background(), result.AdminToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !requirement.Exists || !requirement.RequiresPassword || requirement.Name != "Field Trip" {
		t.Errorf("unexpected requirement: %+v", requirement)
	}

	if err := s.VerifyPassword(context.Background(), result.AdminToken, "wrong"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("VerifyPassword(wrong) = %v, want ErrAccessDenied", err)
	}
	if err := s.VerifyPassword(context.Background(), result.AdminToken, "abc123"); err != nil {
		t.Errorf("VerifyPassword(correct) = %v, want nil", err)
	}

	if _, err := s.GetAdminView(context.Background(), result.AdminToken, "wrong"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("GetAdminView(wrong password) = %v, want ErrAccessDenied", err)
	}
	if _, err := s.GetAdminView(context.Background(), result.AdminToken, "abc123"); err != nil {
		t.Errorf("GetAdminView(correct password) = %v, want nil", err)
	}
}

func TestCheckPasswordRequiredUnknownToken(t *testing.T) {
	s := newTestService(newFakeStore())
	requirement, err := s.CheckPasswordRequired(context.Background(), "nosuchtoken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requirement.Exists || requirement.RequiresPassword {
		t.Errorf("unexpected requirement for unknown token: %+v", requirement)
	}
}

func TestGetSubmissionView(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store)

	result, err := s.CreateCollection(context.Background(), "organizer-1", "Field Trip", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddSubmitter(context.Background(), result.CollectionID, "Taro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := s.GetSubmissionView(context.Background(), result.SubmissionToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Name != "Field Trip" {
		t.Errorf("view.Name = %q, want Field Trip", view.Name)
	}
	if len(view.SubmitterNames) != 1 || view.SubmitterNames[0] != "Taro" {
		t.Errorf("view.SubmitterNames = %v, want [Taro]", view.SubmitterNames)
	}
}
