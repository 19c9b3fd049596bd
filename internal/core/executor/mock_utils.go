package executor

import (
	"context"
	"sync"

	"github.com/agenthands/distill/internal/llm"
)

type MockLLMClient struct {
	mu       sync.Mutex
	Response string
	Err      error
	// Queue entries are consumed in order before falling back to
	// Response/Err, so a test can script "fail, fail, succeed".
	Queue    []MockReply
	Requests []llm.GenerateRequest
}

type MockReply struct {
	Response string
	Err      error
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if len(m.Queue) > 0 {
		reply := m.Queue[0]
		m.Queue = m.Queue[1:]
		return reply.Response, reply.Err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
