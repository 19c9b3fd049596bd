package contextbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/distill/internal/core/model"
)

// Caps on how much upstream context gets folded into a dependent prompt.
// A relationship pass can use the full entity roster; the evidence pass
// only sources quotes for the strongest entities.
const (
	RelationshipEntityCap = 100
	EvidenceEntityCap     = 25
)

// Build constructs the context map for one dependent pass from the results
// recorded so far. A missing or failed dependency yields an empty field,
// never an error: downstream passes degrade with partial context instead of
// blocking on an upstream failure.
func Build(def model.PassDefinition, results map[string]model.PassResult) model.ContextMap {
	ctx := model.ContextMap{}

	for _, dep := range def.DependsOn {
		res, ok := results[dep]
		if !ok || !res.Success {
			continue
		}
		if len(res.Payload.Entities) > 0 {
			switch def.Schema {
			case model.SchemaEvidence:
				ctx["top_entities"] = formatEntities(res.Payload.Entities, EvidenceEntityCap)
			default:
				ctx["entities"] = formatEntities(res.Payload.Entities, RelationshipEntityCap)
			}
		}
	}

	// Every field the built-in templates reference must exist, even when the
	// upstream pass failed, so rendering never errors on a missing key.
	if _, ok := ctx["entities"]; !ok {
		ctx["entities"] = ""
	}
	if _, ok := ctx["top_entities"]; !ok {
		ctx["top_entities"] = ""
	}

	return ctx
}

// formatEntities renders a ranked, capped entity list for prompt injection.
// Ranking is confidence-descending with name as tiebreak so the same
// upstream result always produces the same context.
func formatEntities(entities []model.ExtractedEntity, limit int) string {
	ranked := make([]model.ExtractedEntity, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	var b strings.Builder
	for _, e := range ranked {
		if e.Type != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", e.Name, e.Type)
		} else {
			fmt.Fprintf(&b, "- %s\n", e.Name)
		}
	}
	return b.String()
}
