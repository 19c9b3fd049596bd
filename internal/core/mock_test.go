package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/agenthands/distill/internal/llm"
)

// scriptedLLM routes responses by recognizing which pass a prompt belongs
// to, so tests stay independent of the order parallel passes fire in.
type scriptedLLM struct {
	mu        sync.Mutex
	Responses map[string]string
	Errs      map[string]error
	Delays    map[string]time.Duration
	// Started and Finished record wall-clock times per pass for ordering
	// assertions.
	Started  map[string]time.Time
	Finished map[string]time.Time
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{
		Responses: map[string]string{},
		Errs:      map[string]error{},
		Delays:    map[string]time.Duration{},
		Started:   map[string]time.Time{},
		Finished:  map[string]time.Time{},
	}
}

func classifyPrompt(prompt string) string {
	switch {
	case strings.Contains(prompt, "distinct named entity"):
		return "entities"
	case strings.Contains(prompt, "Identify relationships"):
		return "relationships"
	case strings.Contains(prompt, "key points"):
		return "key_points"
	case strings.Contains(prompt, "timeline of events"):
		return "temporal"
	case strings.Contains(prompt, "supporting quotes"):
		return "evidence"
	default:
		return "unknown"
	}
}

func (s *scriptedLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	pass := classifyPrompt(req.Prompt)

	s.mu.Lock()
	if _, seen := s.Started[pass]; !seen {
		s.Started[pass] = time.Now()
	}
	delay := s.Delays[pass]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Finished[pass] = time.Now()
	if err, ok := s.Errs[pass]; ok {
		return "", err
	}
	return s.Responses[pass], nil
}
