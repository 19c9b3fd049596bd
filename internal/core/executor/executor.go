package executor

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/agenthands/distill/internal/core/common"
	"github.com/agenthands/distill/internal/core/model"
	"github.com/agenthands/distill/internal/llm"
)

// Executor runs a single pass: render the prompt, call the inference client
// under the pass's token ceiling, parse the response against the pass
// schema. Retry is bounded and internal; callers only see a terminal
// PassResult.
type Executor struct {
	LLM            llm.LLMClient
	MaxAttempts    int
	InitialBackoff time.Duration
}

func New(client llm.LLMClient, maxAttempts int, initialBackoff time.Duration) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		LLM:            client,
		MaxAttempts:    maxAttempts,
		InitialBackoff: initialBackoff,
	}
}

// Execute runs one pass to a terminal result. It never returns an error:
// every failure mode is folded into PassResult so a single broken pass
// cannot crash the job.
func (e *Executor) Execute(ctx context.Context, def model.PassDefinition, transcript string, passCtx model.ContextMap) model.PassResult {
	prompt, err := renderPrompt(def, transcript, passCtx)
	if err != nil {
		return model.FailureResult(def.Name, fmt.Sprintf("render prompt: %v", err), "")
	}

	response, err := e.generate(ctx, def, prompt)
	if err != nil {
		return model.FailureResult(def.Name, fmt.Sprintf("inference: %v", err), "")
	}

	payload, err := parsePayload(def.Schema, response)
	if err != nil {
		// One bounded structural repair: trim the trailing incomplete
		// element and close open containers, then re-validate.
		repaired := common.RepairJSON(response)
		payload, err = parsePayload(def.Schema, repaired)
		if err != nil {
			return model.FailureResult(def.Name, fmt.Sprintf("parse: %v", err), response)
		}
	}

	return model.SuccessResult(def.Name, payload)
}

// generate calls the inference client with exponential backoff. Retry stops
// when attempts are exhausted, the error is fatal, or the job is canceled.
func (e *Executor) generate(ctx context.Context, def model.PassDefinition, prompt string) (string, error) {
	req := llm.GenerateRequest{
		Prompt:          prompt,
		MaxOutputTokens: def.MaxOutputTokens,
		JSONOutput:      true,
	}

	backoff := e.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		response, err := e.LLM.Generate(ctx, req)
		if err == nil {
			return response, nil
		}
		lastErr = err
		if !llm.Retryable(err) || attempt == e.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return "", lastErr
}

func renderPrompt(def model.PassDefinition, transcript string, passCtx model.ContextMap) (string, error) {
	tmpl, err := template.New(def.Name).Option("missingkey=zero").Parse(def.PromptTemplate)
	if err != nil {
		return "", err
	}

	data := map[string]string{"transcript": transcript}
	for k, v := range passCtx {
		data[k] = v
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// parsePayload validates the raw response against the schema the pass
// declared and lifts it into a PassPayload.
func parsePayload(schema model.SchemaKind, response string) (model.PassPayload, error) {
	switch schema {
	case model.SchemaEntities:
		parsed, err := common.ParseJSON[model.ExtractedEntities](response)
		if err != nil {
			return model.PassPayload{}, err
		}
		return model.PassPayload{Entities: parsed.Entities}, nil
	case model.SchemaRelationships:
		parsed, err := common.ParseJSON[model.ExtractedRelationships](response)
		if err != nil {
			return model.PassPayload{}, err
		}
		return model.PassPayload{Relationships: parsed.Relationships}, nil
	case model.SchemaKeyPoints:
		parsed, err := common.ParseJSON[model.ExtractedKeyPoints](response)
		if err != nil {
			return model.PassPayload{}, err
		}
		return model.PassPayload{KeyPoints: parsed.KeyPoints}, nil
	case model.SchemaTemporal:
		parsed, err := common.ParseJSON[model.ExtractedTemporalEvents](response)
		if err != nil {
			return model.PassPayload{}, err
		}
		return model.PassPayload{Events: parsed.Events}, nil
	case model.SchemaEvidence:
		parsed, err := common.ParseJSON[model.ExtractedEvidence](response)
		if err != nil {
			return model.PassPayload{}, err
		}
		return model.PassPayload{Evidence: parsed.Evidence}, nil
	default:
		return model.PassPayload{}, fmt.Errorf("unknown schema kind: %s", schema)
	}
}
