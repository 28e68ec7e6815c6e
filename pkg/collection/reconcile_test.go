package collection

import (
	"testing"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

func rosterOf(names ...string) []types.Submitter {
	roster := make([]types.Submitter, len(names))
	for i, name := range names {
		roster[i] = types.Submitter{CollectionID: "c1", Name: name}
	}
	return roster
}

func submissionsOf(names ...string) []types.Submission {
	submissions := make([]types.Submission, len(names))
	for i, name := range names {
		submissions[i] = types.Submission{CollectionID: "c1", SubmitterName: name}
	}
	return submissions
}

func TestNonRespondents(t *testing.T) {
	tests := []struct {
		name        string
		roster      []types.Submitter
		submissions []types.Submission
		expected    []string
	}{
		{
			name:        "empty roster",
			roster:      rosterOf(),
			submissions: submissionsOf("Taro"),
			expected:    []string{},
		},
		{
			name:        "nobody responded",
			roster:      rosterOf("Taro", "Hana"),
			submissions: submissionsOf(),
			expected:    []string{"Taro", "Hana"},
		},
		{
			name:        "one responded",
			roster:      rosterOf("Taro", "Hana"),
			submissions: submissionsOf("Taro"),
			expected:    []string{"Hana"},
		},
		{
			name:        "all responded",
			roster:      rosterOf("Taro", "Hana"),
			submissions: submissionsOf("Taro", "Hana"),
			expected:    []string{},
		},
		{
			name:        "orphan submission does not affect roster",
			roster:      rosterOf("Taro"),
			submissions: submissionsOf("Unknown"),
			expected:    []string{"Taro"},
		},
		{
			name:        "matching is exact, no normalization",
			roster:      rosterOf("Taro"),
			submissions: submissionsOf("taro"),
			expected:    []string{"Taro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NonRespondents(tt.roster, tt.submissions)
			if len(got) != len(tt.expected) {
				t.Fatalf("NonRespondents() returned %d entries, want %d", len(got), len(tt.expected))
			}
			for i, submitter := range got {
				if submitter.Name != tt.expected[i] {
					t.Errorf("NonRespondents()[%d] = %q, want %q", i, submitter.Name, tt.expected[i])
				}
			}
		})
	}
}

func TestRespondents(t *testing.T) {
	submissions := submissionsOf("Taro", "Hana", "Taro")
	got := Respondents(submissions)
	if len(got) != 2 {
		t.Fatalf("Respondents() returned %d entries, want 2", len(got))
	}
	if got[0] != "Taro" || got[1] != "Hana" {
		t.Errorf("Respondents() = %v, want [Taro Hana]", got)
	}
}

func TestRespondentsEmpty(t *testing.T) {
	if got := Respondents(nil); len(got) != 0 {
		t.Errorf("Respondents(nil) = %v, want empty", got)
	}
}
