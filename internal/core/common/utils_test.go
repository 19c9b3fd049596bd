package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type entityList struct {
	Entities []struct {
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
	} `json:"entities"`
}

func TestParseJSON_MarkdownFences(t *testing.T) {
	response := "Here is the result:\n```json\n{\"entities\": [{\"name\": \"Alice\", \"type\": \"person\", \"confidence\": 0.9}]}\n```"

	result, err := ParseJSON[entityList](response)

	assert.NoError(t, err)
	assert.Len(t, result.Entities, 1)
	assert.Equal(t, "Alice", result.Entities[0].Name)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[entityList]("no json here")
	assert.Error(t, err)
}

func TestRepairJSON_TruncatedString(t *testing.T) {
	truncated := `{"entities":[{"name":"Alice","type":"person","confidence":0.9},{"name":"Bob","type":"per`

	repaired := RepairJSON(truncated)

	var result entityList
	err := json.Unmarshal([]byte(repaired), &result)
	assert.NoError(t, err, "repaired JSON should parse: %s", repaired)
	assert.GreaterOrEqual(t, len(result.Entities), 1)
	assert.Equal(t, "Alice", result.Entities[0].Name)
}

func TestRepairJSON_TruncatedNumber(t *testing.T) {
	truncated := `{"entities":[{"name":"Alice","type":"person","confidence":0.`

	repaired := RepairJSON(truncated)

	var result entityList
	err := json.Unmarshal([]byte(repaired), &result)
	assert.NoError(t, err, "repaired JSON should parse: %s", repaired)
	assert.Len(t, result.Entities, 1)
	assert.Equal(t, "Alice", result.Entities[0].Name)
}

func TestRepairJSON_DanglingKey(t *testing.T) {
	truncated := `{"entities":[{"name":"Alice","type":"person","confidence":0.9},{"name":`

	repaired := RepairJSON(truncated)

	var result entityList
	err := json.Unmarshal([]byte(repaired), &result)
	assert.NoError(t, err, "repaired JSON should parse: %s", repaired)
	assert.Len(t, result.Entities, 1)
}

func TestRepairJSON_CompleteInputUnchanged(t *testing.T) {
	complete := `{"entities":[{"name":"Alice","type":"person","confidence":0.9}]}`
	assert.Equal(t, complete, RepairJSON(complete))
}
