package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core/model"
)

func denseResult(entities, relationships int) *model.MergedResult {
	res := &model.MergedResult{}
	for i := 0; i < entities; i++ {
		res.Entities = append(res.Entities, model.Entity{Name: fmt.Sprintf("Entity %d", i), Evidence: []string{}})
	}
	for i := 0; i < relationships; i++ {
		res.Relationships = append(res.Relationships, model.Relationship{})
	}
	return res
}

func TestValidate_CompleteResult(t *testing.T) {
	cfg := config.Default().Validation
	// 30 entities over 10k chars = 3.0 per 1000; 15 relationships = 0.5 ratio.
	report := Validate(denseResult(30, 15), 10000, cfg)

	assert.True(t, report.IsComplete)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1.0, report.QualityScore)
}

func TestValidate_LowEntityDensity(t *testing.T) {
	cfg := config.Default().Validation
	// 2 entities over 40k chars = 0.05 per 1000.
	report := Validate(denseResult(2, 1), 40000, cfg)

	assert.Contains(t, report.Issues, IssueLowEntityDensity)
	assert.False(t, report.IsComplete)
	assert.Less(t, report.QualityScore, 1.0)
}

func TestValidate_InsufficientRelationships(t *testing.T) {
	cfg := config.Default().Validation
	report := Validate(denseResult(40, 2), 10000, cfg)

	assert.Contains(t, report.Issues, IssueInsufficientRelationships)
	assert.False(t, report.IsComplete)
}

func TestValidate_TruncationMarkerForcesIncomplete(t *testing.T) {
	cfg := config.Default().Validation
	res := denseResult(30, 15)
	res.Entities[7].Name = "International Monetary Fu..."

	report := Validate(res, 10000, cfg)

	assert.Contains(t, report.Issues, IssuePossibleTruncation)
	assert.False(t, report.IsComplete)
	assert.Less(t, report.QualityScore, 1.0)
}

func TestValidate_UnicodeEllipsis(t *testing.T) {
	cfg := config.Default().Validation
	res := denseResult(30, 15)
	res.Entities[0].Name = "Acme Corporatio…"

	report := Validate(res, 10000, cfg)

	assert.Contains(t, report.Issues, IssuePossibleTruncation)
	assert.False(t, report.IsComplete)
}
