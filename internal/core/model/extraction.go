package model

// Wire shapes for pass responses. Each pass asks the LLM for exactly one of
// these top-level objects so a truncated or off-schema reply is detectable.

type ExtractedEntity struct {
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	Confidence         float64 `json:"confidence"`
	FirstMentionOffset int     `json:"first_mention_offset,omitempty"`
}

type ExtractedEntities struct {
	Entities []ExtractedEntity `json:"entities"`
}

type ExtractedRelationship struct {
	Subject    string  `json:"subject"`
	Object     string  `json:"object"`
	Type       string  `json:"type"`
	Fact       string  `json:"fact"`
	Confidence float64 `json:"confidence"`
}

type ExtractedRelationships struct {
	Relationships []ExtractedRelationship `json:"relationships"`
}

type KeyPoint struct {
	Text       string  `json:"text"`
	Importance float64 `json:"importance"`
}

type ExtractedKeyPoints struct {
	KeyPoints []KeyPoint `json:"key_points"`
}

type TemporalEvent struct {
	When        string   `json:"when"`
	Description string   `json:"description"`
	Entities    []string `json:"entities,omitempty"`
}

type ExtractedTemporalEvents struct {
	Events []TemporalEvent `json:"events"`
}

type EvidenceQuote struct {
	Entity string `json:"entity"`
	Quote  string `json:"quote"`
	Offset int    `json:"offset,omitempty"`
}

type ExtractedEvidence struct {
	Evidence []EvidenceQuote `json:"evidence"`
}
