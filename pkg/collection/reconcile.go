package collection

import (
	"github.com/hikuken/submission-project/pkg/collection/types"
)

// Respondents returns the distinct submitter names present in the submission
// set, in first-seen order. Names that are not on the roster are included -
// open submission is allowed.
func Respondents(submissions []types.Submission) []string {
	seen := make(map[string]struct{}, len(submissions))
	respondents := make([]string, 0, len(submissions))
	for _, submission := range submissions {
		if _, ok := seen[submission.SubmitterName]; ok {
			continue
		}
		seen[submission.SubmitterName] = struct{}{}
		respondents = append(respondents, submission.SubmitterName)
	}
	return respondents
}

// NonRespondents returns every roster entry without a submission. Matching
// is exact string comparison, no normalization.
func NonRespondents(roster []types.Submitter, submissions []types.Submission) []types.Submitter {
	responded := make(map[string]struct{}, len(submissions))
	for _, submission := range submissions {
		responded[submission.SubmitterName] = struct{}{}
	}

	nonRespondents := []types.Submitter{}
	for _, submitter := range roster {
		if _, ok := responded[submitter.Name]; !ok {
			nonRespondents = append(nonRespondents, submitter)
		}
	}
	return nonRespondents
}
