package catalog

import (
	"fmt"
	"sort"

	"github.com/agenthands/distill/internal/core/model"
)

// Pass names. The entity and relationship passes are the two mandatory
// passes; everything else degrades gracefully when it fails.
const (
	PassEntities      = "entities"
	PassRelationships = "relationships"
	PassKeyPoints     = "key_points"
	PassTemporal      = "temporal"
	PassEvidence      = "evidence"
)

// Catalog is the read-only pass registry. Safe to share across jobs.
type Catalog struct {
	passes map[string]model.PassDefinition
	topo   []string
}

// Default builds the built-in pass set. Prompt template bodies can be
// overridden per pass name (from the [prompts] config table).
func Default(promptOverrides map[string]string) (*Catalog, error) {
	defs := []model.PassDefinition{
		{
			Name:             PassEntities,
			MaxOutputTokens:  4096,
			PromptTemplate:   entitiesPrompt,
			Schema:           model.SchemaEntities,
			Mandatory:        true,
			ParallelEligible: true,
		},
		{
			Name:            PassRelationships,
			MaxOutputTokens: 4096,
			PromptTemplate:  relationshipsPrompt,
			Schema:          model.SchemaRelationships,
			DependsOn:       []string{PassEntities},
			Mandatory:       true,
		},
		{
			Name:             PassKeyPoints,
			MaxOutputTokens:  2048,
			PromptTemplate:   keyPointsPrompt,
			Schema:           model.SchemaKeyPoints,
			ParallelEligible: true,
		},
		{
			Name:             PassTemporal,
			MaxOutputTokens:  2048,
			PromptTemplate:   temporalPrompt,
			Schema:           model.SchemaTemporal,
			ParallelEligible: true,
		},
		{
			Name:            PassEvidence,
			MaxOutputTokens: 3072,
			PromptTemplate:  evidencePrompt,
			Schema:          model.SchemaEvidence,
			DependsOn:       []string{PassEntities},
		},
	}

	for i := range defs {
		if override, ok := promptOverrides[defs[i].Name]; ok && override != "" {
			defs[i].PromptTemplate = override
		}
	}

	return New(defs)
}

// New validates the definitions and returns a catalog. The dependency graph
// must be acyclic, dependencies must exist, and only passes without
// dependencies may be parallel eligible.
func New(defs []model.PassDefinition) (*Catalog, error) {
	passes := make(map[string]model.PassDefinition, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("pass definition with empty name")
		}
		if _, dup := passes[def.Name]; dup {
			return nil, fmt.Errorf("duplicate pass definition: %s", def.Name)
		}
		if def.MaxOutputTokens <= 0 {
			return nil, fmt.Errorf("pass %s: max output tokens must be positive", def.Name)
		}
		if def.ParallelEligible && len(def.DependsOn) > 0 {
			return nil, fmt.Errorf("pass %s: parallel eligible but has dependencies", def.Name)
		}
		passes[def.Name] = def
	}

	for _, def := range defs {
		for _, dep := range append(append([]string{}, def.DependsOn...), def.HardDeps...) {
			if _, ok := passes[dep]; !ok {
				return nil, fmt.Errorf("pass %s depends on unknown pass %s", def.Name, dep)
			}
		}
	}

	topo, err := topoSort(passes)
	if err != nil {
		return nil, err
	}

	return &Catalog{passes: passes, topo: topo}, nil
}

// Get returns the definition for a pass name.
func (c *Catalog) Get(name string) (model.PassDefinition, bool) {
	def, ok := c.passes[name]
	return def, ok
}

// All returns every definition in topological order.
func (c *Catalog) All() []model.PassDefinition {
	out := make([]model.PassDefinition, 0, len(c.topo))
	for _, name := range c.topo {
		out = append(out, c.passes[name])
	}
	return out
}

// topoSort orders passes so every pass follows its dependencies, with ties
// broken alphabetically for stable scheduling.
func topoSort(passes map[string]model.PassDefinition) ([]string, error) {
	names := make([]string, 0, len(passes))
	for name := range passes {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(passes))
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("pass dependency cycle involving %s", name)
		}
		state[name] = visiting
		deps := append(append([]string{}, passes[name].DependsOn...), passes[name].HardDeps...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
