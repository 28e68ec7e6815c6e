package collection

import (
	"context"
	"errors"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

type ResolvedSubmission struct {
	ID            string         `json:"id"`
	SubmitterName string         `json:"submitterName"`
	Responses     map[string]any `json:"responses"`
	SubmittedAt   int64          `json:"submittedAt"`
}

// AdminView is the full aggregate behind the admin capability URL.
type AdminView struct {
	Collection     types.Collection        `json:"collection"`
	Fields         []types.FieldDefinition `json:"fields"`
	Submissions    []ResolvedSubmission    `json:"submissions"`
	Submitters     []types.Submitter       `json:"submitters"`
	NonRespondents []types.Submitter       `json:"nonRespondents"`
}

// SubmissionView is what the submission capability URL exposes: enough to
// render the form, nothing about other submitters' answers.
type SubmissionView struct {
	CollectionID   string                  `json:"collectionId"`
	Name           string                  `json:"name"`
	Fields         []types.FieldDefinition `json:"fields"`
	SubmitterNames []string                `json:"submitters"`
}

type PasswordRequirement struct {
	Exists           bool   `json:"exists"`
	RequiresPassword bool   `json:"requiresPassword"`
	Name             string `json:"name,omitempty"`
}

// GetAdminView loads the collection behind the admin token and assembles the
// aggregate: schema, submissions with resolved attachments, roster and the
// reconciled non-respondent set. The access gate is checked on every call.
func (s *Service) GetAdminView(ctx context.Context, adminToken string, suppliedPassword string) (*AdminView, error) {
	coll, err := s.store.GetCollectionByAdminToken(adminToken)
	if err != nil {
		return nil, err
	}
	if err := CheckAccess(coll, suppliedPassword); err != nil {
		return nil, err
	}

	collectionID := coll.ID.Hex()
	fields, err := s.store.GetFields(collectionID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.store.GetSubmissions(collectionID)
	if err != nil {
		return nil, err
	}
	submitters, err := s.store.GetSubmitters(collectionID)
	if err != nil {
		return nil, err
	}

	resolvedSubmissions := make([]ResolvedSubmission, len(submissions))
	for i, submission := range submissions {
		resolvedSubmissions[i] = ResolvedSubmission{
			ID:            submission.ID.Hex(),
			SubmitterName: submission.SubmitterName,
			Responses:     s.resolveResponses(ctx, submission.Responses),
			SubmittedAt:   submission.SubmittedAt,
		}
	}

	return &AdminView{
		Collection:     coll,
		Fields:         fields,
		Submissions:    resolvedSubmissions,
		Submitters:     submitters,
		NonRespondents: NonRespondents(submitters, submissions),
	}, nil
}

// GetSubmissionView loads the form aggregate behind the submission token.
func (s *Service) GetSubmissionView(ctx context.Context, submissionToken string) (*SubmissionView, error) {
	coll, err := s.store.GetCollectionBySubmissionToken(submissionToken)
	if err != nil {
		return nil, err
	}

	collectionID := coll.ID.Hex()
	fields, err := s.store.GetFields(collectionID)
	if err != nil {
		return nil, err
	}
	submitters, err := s.store.GetSubmitters(collectionID)
	if err != nil {
		return nil, err
	}

	submitterNames := make([]string, len(submitters))
	for i, submitter := range submitters {
		submitterNames[i] = submitter.Name
	}

	return &SubmissionView{
		CollectionID:   collectionID,
		Name:           coll.Name,
		Fields:         fields,
		SubmitterNames: submitterNames,
	}, nil
}

// CheckPasswordRequired tells a client whether the admin view behind the
// token exists and whether it is password protected. An unknown token is not
// an error here.
func (s *Service) CheckPasswordRequired(ctx context.Context, adminToken string) (PasswordRequirement, error) {
	coll, err := s.store.GetCollectionByAdminToken(adminToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return PasswordRequirement{}, nil
		}
		return PasswordRequirement{}, err
	}
	return PasswordRequirement{
		Exists:           true,
		RequiresPassword: coll.HasPassword,
		Name:             coll.Name,
	}, nil
}

// VerifyPassword runs the access gate for the admin token. It returns
// types.ErrNotFound for unknown tokens and types.ErrAccessDenied for a wrong
// secret, so callers can tell the two apart.
func (s *Service) VerifyPassword(ctx context.Context, adminToken string, suppliedPassword string) error {
	coll, err := s.store.GetCollectionByAdminToken(adminToken)
	if err != nil {
		return err
	}
	return CheckAccess(coll, suppliedPassword)
}
