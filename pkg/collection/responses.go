package collection

import (
	"context"
	"log/slog"

	"github.com/hikuken/submission-project/pkg/collection/types"
)

// resolveResponses replaces attachment handles in a response map with
// {storageId, url} pairs. A handle that no longer resolves degrades to the
// raw handle string; resolution never fails the read. Other value kinds pass
// through unchanged.
func (s *Service) resolveResponses(ctx context.Context, responses map[string]types.ResponseValue) map[string]any {
	resolved := make(map[string]any, len(responses))
	for key, value := range responses {
		switch value.Kind {
		case types.ValueKindNumber:
			resolved[key] = value.Number
		case types.ValueKindFlag:
			resolved[key] = value.Flag
		case types.ValueKindAttachment:
			url, err := s.objectStore.ResolveURL(ctx, value.Attachment)
			if err != nil {
				slog.Warn("could not resolve attachment handle",
					slog.String("handle", value.Attachment),
					slog.String("error", err.Error()))
				resolved[key] = value.Attachment
				continue
			}
			resolved[key] = types.ResolvedAttachment{
				StorageID: value.Attachment,
				URL:       url,
			}
		default:
			resolved[key] = value.Text
		}
	}
	return resolved
}
