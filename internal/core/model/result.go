package model

import "strings"

// PassPayload holds the parsed output of one pass. Only the slice matching
// the pass schema is populated.
type PassPayload struct {
	Entities      []ExtractedEntity       `json:"entities,omitempty"`
	Relationships []ExtractedRelationship `json:"relationships,omitempty"`
	KeyPoints     []KeyPoint              `json:"key_points,omitempty"`
	Events        []TemporalEvent         `json:"events,omitempty"`
	Evidence      []EvidenceQuote         `json:"evidence,omitempty"`
}

// PassResult is the terminal outcome of one pass execution. Immutable once
// recorded; on failure the raw response is kept for diagnostics.
type PassResult struct {
	Pass    string      `json:"pass"`
	Success bool        `json:"success"`
	Payload PassPayload `json:"payload,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	RawText string      `json:"raw_text,omitempty"`
}

func SuccessResult(pass string, payload PassPayload) PassResult {
	return PassResult{Pass: pass, Success: true, Payload: payload}
}

func FailureResult(pass, reason, rawText string) PassResult {
	return PassResult{Pass: pass, Reason: reason, RawText: rawText}
}

// Entity is a deduplicated entity in the merged result.
type Entity struct {
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Confidence         float64  `json:"confidence"`
	FirstMentionOffset int      `json:"first_mention_offset,omitempty"`
	Evidence           []string `json:"evidence"`
}

// Relationship is a validated relationship: both Subject and Object match a
// deduplicated entity by normalized name.
type Relationship struct {
	Subject    string  `json:"subject"`
	Object     string  `json:"object"`
	Type       string  `json:"type"`
	Fact       string  `json:"fact"`
	Confidence float64 `json:"confidence"`
}

type Statistics struct {
	TotalEntities        int     `json:"total_entities"`
	TotalRelationships   int     `json:"total_relationships"`
	PassesAttempted      int     `json:"passes_attempted"`
	PassesSucceeded      int     `json:"passes_succeeded"`
	DroppedRelationships int     `json:"dropped_relationships"`
	CompletenessScore    float64 `json:"completeness_score"`
}

type ValidationReport struct {
	IsComplete   bool     `json:"is_complete"`
	Issues       []string `json:"issues"`
	QualityScore float64  `json:"quality_score"`
}

// MergedResult is the final output of one extraction job. Owned by the
// caller once returned; the pipeline retains nothing.
type MergedResult struct {
	JobID         string            `json:"job_id"`
	Entities      []Entity          `json:"entities"`
	Relationships []Relationship    `json:"relationships"`
	Events        []TemporalEvent   `json:"events"`
	KeyPoints     []KeyPoint        `json:"key_points"`
	Statistics    Statistics        `json:"statistics"`
	Validation    ValidationReport  `json:"validation"`
	PassFailures  map[string]string `json:"pass_failures,omitempty"`
}

// NormalizeName is the deduplication key for entities: lowercased with
// whitespace runs collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
