package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/distill/internal/core/model"
)

func TestDefault_ValidCatalog(t *testing.T) {
	cat, err := Default(nil)

	assert.NoError(t, err)
	assert.Len(t, cat.All(), 5)

	entities, ok := cat.Get(PassEntities)
	assert.True(t, ok)
	assert.True(t, entities.Mandatory)
	assert.True(t, entities.ParallelEligible)

	relationships, ok := cat.Get(PassRelationships)
	assert.True(t, ok)
	assert.True(t, relationships.Mandatory)
	assert.Contains(t, relationships.DependsOn, PassEntities)
}

func TestDefault_TopologicalOrder(t *testing.T) {
	cat, err := Default(nil)
	assert.NoError(t, err)

	position := map[string]int{}
	for i, def := range cat.All() {
		position[def.Name] = i
	}

	assert.Less(t, position[PassEntities], position[PassRelationships])
	assert.Less(t, position[PassEntities], position[PassEvidence])
}

func TestDefault_PromptOverride(t *testing.T) {
	cat, err := Default(map[string]string{PassEntities: "custom template {{.transcript}}"})
	assert.NoError(t, err)

	def, _ := cat.Get(PassEntities)
	assert.Equal(t, "custom template {{.transcript}}", def.PromptTemplate)
}

func TestNew_RejectsCycle(t *testing.T) {
	_, err := New([]model.PassDefinition{
		{Name: "a", MaxOutputTokens: 100, Schema: model.SchemaEntities, DependsOn: []string{"b"}},
		{Name: "b", MaxOutputTokens: 100, Schema: model.SchemaEntities, DependsOn: []string{"a"}},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNew_RejectsUnknownDependency(t *testing.T) {
	_, err := New([]model.PassDefinition{
		{Name: "a", MaxOutputTokens: 100, Schema: model.SchemaEntities, DependsOn: []string{"ghost"}},
	})

	assert.Error(t, err)
}

func TestNew_RejectsParallelWithDependencies(t *testing.T) {
	_, err := New([]model.PassDefinition{
		{Name: "a", MaxOutputTokens: 100, Schema: model.SchemaEntities, ParallelEligible: true},
		{Name: "b", MaxOutputTokens: 100, Schema: model.SchemaEntities, DependsOn: []string{"a"}, ParallelEligible: true},
	})

	assert.Error(t, err)
}

func TestNew_RejectsNonPositiveBudget(t *testing.T) {
	_, err := New([]model.PassDefinition{
		{Name: "a", MaxOutputTokens: 0, Schema: model.SchemaEntities},
	})

	assert.Error(t, err)
}
