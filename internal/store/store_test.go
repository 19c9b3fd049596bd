package store

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/distill/internal/core/model"
)

type MockDriver struct {
	Queries     []string
	Params      []map[string]interface{}
	EntityUUIDs []string
	Err         error
	entityIdx   int
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if query == SaveEntityNodeQuery && m.entityIdx < len(m.EntityUUIDs) {
		record := &neo4j.Record{
			Keys:   []string{"uuid"},
			Values: []interface{}{m.EntityUUIDs[m.entityIdx]},
		}
		m.entityIdx++
		return neo4j.EagerResult{Records: []*neo4j.Record{record}}, nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func sampleResult() *model.MergedResult {
	return &model.MergedResult{
		JobID: "job-1",
		Entities: []model.Entity{
			{Name: "Alice", Type: "person", Confidence: 0.9},
			{Name: "Bob", Type: "person", Confidence: 0.8},
		},
		Relationships: []model.Relationship{
			{Subject: "Alice", Object: "Bob", Type: "knows", Fact: "Alice knows Bob.", Confidence: 0.85},
		},
		Statistics: model.Statistics{TotalEntities: 2, TotalRelationships: 1},
	}
}

func TestSaveResult_QuerySequence(t *testing.T) {
	mock := &MockDriver{EntityUUIDs: []string{"entity-alice", "entity-bob"}}
	s := &MemgraphStore{Driver: mock}

	jobID, err := s.SaveResult(context.Background(), "group-1", sampleResult())

	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	// Job node, then per entity a MERGE plus an EXTRACTED edge, then the
	// relationship edge.
	require.Len(t, mock.Queries, 6)
	assert.Equal(t, SaveJobNodeQuery, mock.Queries[0])
	assert.Equal(t, SaveEntityNodeQuery, mock.Queries[1])
	assert.Equal(t, SaveExtractedEdgeQuery, mock.Queries[2])
	assert.Equal(t, SaveEntityNodeQuery, mock.Queries[3])
	assert.Equal(t, SaveExtractedEdgeQuery, mock.Queries[4])
	assert.Equal(t, SaveRelationshipEdgeQuery, mock.Queries[5])
}

func TestSaveResult_UsesStoredEntityUUIDs(t *testing.T) {
	mock := &MockDriver{EntityUUIDs: []string{"entity-alice", "entity-bob"}}
	s := &MemgraphStore{Driver: mock}

	_, err := s.SaveResult(context.Background(), "group-1", sampleResult())
	require.NoError(t, err)

	// EXTRACTED edges reference the UUIDs the MERGE returned.
	assert.Equal(t, "entity-alice", mock.Params[2]["entity_uuid"])
	assert.Equal(t, "entity-bob", mock.Params[4]["entity_uuid"])

	relParams := mock.Params[5]
	assert.Equal(t, "entity-alice", relParams["source_uuid"])
	assert.Equal(t, "entity-bob", relParams["target_uuid"])
	assert.Equal(t, "knows", relParams["type"])
	assert.Equal(t, "group-1", relParams["group_id"])
}

func TestSaveResult_GeneratesJobID(t *testing.T) {
	mock := &MockDriver{}
	s := &MemgraphStore{Driver: mock}

	result := sampleResult()
	result.JobID = ""
	result.Entities = nil
	result.Relationships = nil

	jobID, err := s.SaveResult(context.Background(), "group-1", result)

	require.NoError(t, err)
	assert.NotEmpty(t, jobID)
	assert.Equal(t, jobID, mock.Params[0]["uuid"])
}

func TestSaveResult_NormalizedNameInEntityParams(t *testing.T) {
	mock := &MockDriver{}
	s := &MemgraphStore{Driver: mock}

	result := sampleResult()
	result.Entities = []model.Entity{{Name: "Dr.  Sarah Chen", Type: "person", Confidence: 0.9}}
	result.Relationships = nil

	_, err := s.SaveResult(context.Background(), "group-1", result)
	require.NoError(t, err)

	assert.Equal(t, "dr. sarah chen", mock.Params[1]["normalized_name"])
	assert.Equal(t, "Dr.  Sarah Chen", mock.Params[1]["name"])
}

func TestSaveResult_JobNodeFailure(t *testing.T) {
	mock := &MockDriver{Err: errors.New("connection lost")}
	s := &MemgraphStore{Driver: mock}

	_, err := s.SaveResult(context.Background(), "group-1", sampleResult())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save job node")
}
