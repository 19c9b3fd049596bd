package model

// SchemaKind identifies which wire shape a pass response must parse into.
type SchemaKind string

const (
	SchemaEntities      SchemaKind = "entities"
	SchemaRelationships SchemaKind = "relationships"
	SchemaKeyPoints     SchemaKind = "key_points"
	SchemaTemporal      SchemaKind = "temporal"
	SchemaEvidence      SchemaKind = "evidence"
)

// PassDefinition is one entry of the pass catalog. Definitions are loaded
// once at startup and shared read-only across jobs.
type PassDefinition struct {
	Name             string
	MaxOutputTokens  int
	PromptTemplate   string
	Schema           SchemaKind
	DependsOn        []string
	HardDeps         []string
	Mandatory        bool
	ParallelEligible bool
}

// ContextMap carries the upstream slices a dependent pass substitutes into
// its prompt. Built fresh per pass, never shared or mutated across passes.
type ContextMap map[string]string
