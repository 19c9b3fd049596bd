package catalog

// Built-in prompt templates. Rendered with text/template over a map whose
// keys are "transcript" plus whatever the context builder supplies for the
// pass ("entities", "top_entities"). Overridable per pass via config.

const entitiesPrompt = `You are an information extraction system.
Extract every distinct named entity (people, organizations, places, products, concepts) from the transcript below.

Return a JSON object:
{"entities": [{"name": "...", "type": "person|organization|place|product|concept|other", "confidence": 0.0, "first_mention_offset": 0}]}

Rules:
- "confidence" is your certainty the entity is real and correctly typed, between 0 and 1.
- "first_mention_offset" is the approximate character offset of the first mention.
- Do not invent entities that are not in the transcript.
- Output only the JSON object.

Transcript:
{{.transcript}}`

const relationshipsPrompt = `You are an information extraction system.
Identify relationships between the known entities based on the transcript below.

Known entities:
{{.entities}}

Return a JSON object:
{"relationships": [{"subject": "...", "object": "...", "type": "...", "fact": "...", "confidence": 0.0}]}

Rules:
- "subject" and "object" must be names from the known entities list. If the list is empty, use the most clearly named entities in the transcript.
- "fact" is one sentence from or grounded in the transcript supporting the relationship.
- Output only the JSON object.

Transcript:
{{.transcript}}`

const keyPointsPrompt = `Summarize the transcript below into its key points.

Return a JSON object:
{"key_points": [{"text": "...", "importance": 0.0}]}

Rules:
- Each key point is one self-contained sentence.
- "importance" ranks the point between 0 and 1.
- Output only the JSON object.

Transcript:
{{.transcript}}`

const temporalPrompt = `Extract the timeline of events from the transcript below.

Return a JSON object:
{"events": [{"when": "...", "description": "...", "entities": ["..."]}]}

Rules:
- "when" is the date, time, or relative time expression as stated in the transcript.
- Only include events with an explicit temporal anchor.
- Output only the JSON object.

Transcript:
{{.transcript}}`

const evidencePrompt = `Collect direct supporting quotes for the entities listed below from the transcript.

Entities:
{{.top_entities}}

Return a JSON object:
{"evidence": [{"entity": "...", "quote": "...", "offset": 0}]}

Rules:
- "quote" must be verbatim from the transcript.
- "entity" must be a name from the entities list. If the list is empty, quote the most significant claims instead and name their subject.
- Output only the JSON object.

Transcript:
{{.transcript}}`
