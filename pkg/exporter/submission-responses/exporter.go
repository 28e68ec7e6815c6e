package submissionresponses

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hikuken/submission-project/pkg/collection"
	"github.com/hikuken/submission-project/pkg/collection/types"
)

const submitterColumnHeader = "Submitter"

// SubmissionExporter writes the CSV projection of a collection: header row
// with the submitter column and the field labels in schema order, one row
// per submission. Cells are looked up by the canonical field key.
type SubmissionExporter struct {
	fields    []types.FieldDefinition
	csvWriter *csv.Writer
}

func NewSubmissionExporter(
	fields []types.FieldDefinition,
	writer io.Writer,
) (*SubmissionExporter, error) {
	csvWriter := csv.NewWriter(writer)

	record := make([]string, 0, len(fields)+1)
	record = append(record, submitterColumnHeader)
	for _, field := range fields {
		record = append(record, field.Label)
	}
	if err := csvWriter.Write(record); err != nil {
		return nil, err
	}

	return &SubmissionExporter{
		fields:    fields,
		csvWriter: csvWriter,
	}, nil
}

func (se *SubmissionExporter) WriteSubmission(submitterName string, responses map[string]any) error {
	record := make([]string, 0, len(se.fields)+1)
	record = append(record, submitterName)
	for _, field := range se.fields {
		record = append(record, cellValue(responses[collection.KeyFor(field.Label)]))
	}
	return se.csvWriter.Write(record)
}

func (se *SubmissionExporter) Finish() error {
	se.csvWriter.Flush()
	return se.csvWriter.Error()
}

func cellValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		// an unresolved attachment handle renders empty, not as the raw handle
		if strings.HasPrefix(v, types.AttachmentHandlePrefix) {
			return ""
		}
		return v
	case types.ResolvedAttachment:
		return v.URL
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
