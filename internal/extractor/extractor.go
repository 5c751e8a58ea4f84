package extractor

import (
	"context"
	"errors"

	"github.com/jwalitptl/hms-api/internal/model"
)

// ErrExtraction is returned when the extraction collaborator's response
// cannot be parsed into a care plan.
var ErrExtraction = errors.New("failed to extract care plan")

// PlanExtractor turns free-text doctor notes into a structured care plan.
// Missing fields in the collaborator's response default to empty slices
// rather than failing the whole extraction.
type PlanExtractor interface {
	Extract(ctx context.Context, note string) (*model.CarePlan, error)
}
