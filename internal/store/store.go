package store

import (
	"context"

	"github.com/agenthands/distill/internal/core/model"
)

// GraphStore persists merged results downstream of the pipeline. The core
// never depends on it; the server wires one in when configured.
type GraphStore interface {
	// SaveResult writes the job, its entities and relationships under the
	// given group and returns the stored job UUID.
	SaveResult(ctx context.Context, groupID string, result *model.MergedResult) (string, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
