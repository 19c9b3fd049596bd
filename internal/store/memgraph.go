package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/distill/internal/core/model"
)

// MemgraphStore persists merged results into Memgraph. Entities merge by
// (normalized_name, group_id) so repeated jobs over the same group upsert
// rather than duplicate.
type MemgraphStore struct {
	Driver GraphDriver
}

func NewMemgraphStore(uri, username, password string) (*MemgraphStore, error) {
	driver, err := NewMemgraphDriver(uri, username, password)
	if err != nil {
		return nil, err
	}
	return &MemgraphStore{Driver: driver}, nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}

func (s *MemgraphStore) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Entity(uuid);",
		"CREATE INDEX ON :Entity(group_id);",
		"CREATE INDEX ON :Entity(normalized_name);",
		"CREATE INDEX ON :Job(uuid);",
		"CREATE INDEX ON :Job(group_id);",
	}

	for _, q := range queries {
		_, err := s.Driver.ExecuteQuery(ctx, q, nil)
		if err != nil {
			log.Printf("Warning: failed to create index '%s': %v", q, err)
			// Continue, as index might already exist
		}
	}

	return nil
}

func (s *MemgraphStore) SaveResult(ctx context.Context, groupID string, result *model.MergedResult) (string, error) {
	now := time.Now().UTC()

	jobUUID := result.JobID
	if jobUUID == "" {
		jobUUID = uuid.New().String()
	}

	jobParams := map[string]interface{}{
		"uuid":                  jobUUID,
		"group_id":              groupID,
		"created_at":            now,
		"total_entities":        result.Statistics.TotalEntities,
		"total_relationships":   result.Statistics.TotalRelationships,
		"passes_attempted":      result.Statistics.PassesAttempted,
		"passes_succeeded":      result.Statistics.PassesSucceeded,
		"dropped_relationships": result.Statistics.DroppedRelationships,
		"completeness_score":    result.Statistics.CompletenessScore,
		"is_complete":           result.Validation.IsComplete,
	}
	if _, err := s.Driver.ExecuteQuery(ctx, SaveJobNodeQuery, jobParams); err != nil {
		return "", fmt.Errorf("failed to save job node: %w", err)
	}

	// Entity UUIDs come back from the MERGE so relationship edges always
	// reference the stored node, not a freshly generated id.
	entityUUIDs := make(map[string]string, len(result.Entities))
	for _, entity := range result.Entities {
		norm := model.NormalizeName(entity.Name)
		params := map[string]interface{}{
			"uuid":                 uuid.New().String(),
			"normalized_name":      norm,
			"group_id":             groupID,
			"name":                 entity.Name,
			"type":                 entity.Type,
			"confidence":           entity.Confidence,
			"first_mention_offset": entity.FirstMentionOffset,
			"evidence":             entity.Evidence,
			"created_at":           now,
		}
		res, err := s.Driver.ExecuteQuery(ctx, SaveEntityNodeQuery, params)
		if err != nil {
			return "", fmt.Errorf("failed to save entity %q: %w", entity.Name, err)
		}
		storedUUID := params["uuid"].(string)
		if len(res.Records) > 0 {
			if v, ok := res.Records[0].Get("uuid"); ok {
				if str, ok := v.(string); ok && str != "" {
					storedUUID = str
				}
			}
		}
		entityUUIDs[norm] = storedUUID

		edgeParams := map[string]interface{}{
			"uuid":        uuid.New().String(),
			"job_uuid":    jobUUID,
			"entity_uuid": storedUUID,
			"created_at":  now,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, SaveExtractedEdgeQuery, edgeParams); err != nil {
			log.Printf("Failed to link job to entity %s: %v", entity.Name, err)
		}
	}

	for _, rel := range result.Relationships {
		sourceUUID, okSource := entityUUIDs[model.NormalizeName(rel.Subject)]
		targetUUID, okTarget := entityUUIDs[model.NormalizeName(rel.Object)]
		if !okSource || !okTarget {
			// Merge already validated references, so a miss here means an
			// inconsistent result; skip rather than fail the whole save.
			continue
		}
		params := map[string]interface{}{
			"uuid":        uuid.New().String(),
			"source_uuid": sourceUUID,
			"target_uuid": targetUUID,
			"type":        rel.Type,
			"fact":        rel.Fact,
			"confidence":  rel.Confidence,
			"group_id":    groupID,
			"job_uuid":    jobUUID,
			"created_at":  now,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, SaveRelationshipEdgeQuery, params); err != nil {
			log.Printf("Failed to save relationship %s -> %s: %v", rel.Subject, rel.Object, err)
		}
	}

	return jobUUID, nil
}
