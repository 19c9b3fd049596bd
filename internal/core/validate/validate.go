package validate

import (
	"strings"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core/model"
)

// Issue codes attached to a ValidationReport. Advisory only: the validator
// never fails a job, callers decide how to react.
const (
	IssueLowEntityDensity          = "low_entity_density"
	IssueInsufficientRelationships = "insufficient_relationships"
	IssuePossibleTruncation        = "possible_truncation"
)

// truncationMarkers are suffixes that indicate an entity name was cut off
// mid-value. Budget discipline upstream should make these impossible to
// observe; detecting one is a hard incompleteness signal.
var truncationMarkers = []string{"...", "…", "-", ","}

// Validate scores the merged result for completeness. Pure and error-free:
// the report annotates, the caller reacts.
func Validate(res *model.MergedResult, transcriptLen int, cfg config.ValidationConfig) model.ValidationReport {
	report := model.ValidationReport{Issues: []string{}}

	densityScore := 1.0
	if transcriptLen > 0 {
		density := float64(len(res.Entities)) / (float64(transcriptLen) / 1000.0)
		if cfg.MinEntityDensity > 0 {
			densityScore = density / cfg.MinEntityDensity
			if densityScore > 1 {
				densityScore = 1
			}
			if density < cfg.MinEntityDensity {
				report.Issues = append(report.Issues, IssueLowEntityDensity)
			}
		}
	}

	relationshipScore := 1.0
	if len(res.Entities) > 0 && cfg.MinRelationshipRatio > 0 {
		ratio := float64(len(res.Relationships)) / float64(len(res.Entities))
		relationshipScore = ratio / cfg.MinRelationshipRatio
		if relationshipScore > 1 {
			relationshipScore = 1
		}
		if ratio < cfg.MinRelationshipRatio {
			report.Issues = append(report.Issues, IssueInsufficientRelationships)
		}
	}

	truncated := false
	for _, e := range res.Entities {
		if nameTruncated(e.Name) {
			truncated = true
			break
		}
	}
	truncationScore := 1.0
	if truncated {
		report.Issues = append(report.Issues, IssuePossibleTruncation)
		truncationScore = 0
	}

	report.QualityScore = 0.5*densityScore + 0.3*relationshipScore + 0.2*truncationScore
	// Truncation forces incomplete regardless of the other signals.
	report.IsComplete = !truncated && len(report.Issues) == 0

	return report
}

func nameTruncated(name string) bool {
	trimmed := strings.TrimRight(name, " ")
	if trimmed == "" {
		return false
	}
	for _, marker := range truncationMarkers {
		if strings.HasSuffix(trimmed, marker) {
			return true
		}
	}
	return false
}
