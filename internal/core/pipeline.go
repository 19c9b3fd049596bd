package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core/catalog"
	"github.com/agenthands/distill/internal/core/contextbuild"
	"github.com/agenthands/distill/internal/core/executor"
	"github.com/agenthands/distill/internal/core/merge"
	"github.com/agenthands/distill/internal/core/model"
	"github.com/agenthands/distill/internal/core/optimizer"
	"github.com/agenthands/distill/internal/core/validate"
	"github.com/agenthands/distill/internal/llm"
)

// ErrInvalidInput mirrors the optimizer sentinel so callers only import core.
var ErrInvalidInput = optimizer.ErrInvalidInput

// ErrCoreExtraction is returned when both mandatory passes (entity and
// relationship extraction) fail: without them there is nothing to merge.
var ErrCoreExtraction = errors.New("distill: core extraction failed")

// jobState tracks where a job is in its lifecycle. Purely diagnostic; the
// transitions are driven by the Extract control flow.
type jobState string

const (
	statePending           jobState = "pending"
	stateRunningParallel   jobState = "running_parallel"
	stateRunningSequential jobState = "running_sequential"
	stateMerging           jobState = "merging"
	stateValidating        jobState = "validating"
	stateDone              jobState = "done"
	stateFailed            jobState = "failed"
)

// job owns the mutable pass-result map for one extraction run. Never shared
// across jobs; discarded once the merged result is returned.
type job struct {
	id      string
	state   jobState
	mu      sync.Mutex
	results map[string]model.PassResult
}

func (j *job) record(res model.PassResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[res.Pass] = res
}

func (j *job) get(name string) (model.PassResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	res, ok := j.results[name]
	return res, ok
}

// snapshot copies the result map so downstream stages read an immutable view.
func (j *job) snapshot() map[string]model.PassResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]model.PassResult, len(j.results))
	for k, v := range j.results {
		out[k] = v
	}
	return out
}

// Pipeline schedules multi-pass extraction jobs. All fields are read-only
// after construction, so one Pipeline serves concurrent jobs.
type Pipeline struct {
	Catalog     *catalog.Catalog
	Optimizer   *optimizer.Optimizer
	Executor    *executor.Executor
	Validation  config.ValidationConfig
	MaxParallel int
}

func NewPipeline(llmClient llm.LLMClient, cfg *config.Config) (*Pipeline, error) {
	cat, err := catalog.Default(cfg.Prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to build pass catalog: %w", err)
	}

	maxParallel := cfg.Concurrency.MaxParallelPasses
	if maxParallel < 1 {
		maxParallel = 1
	}

	return &Pipeline{
		Catalog:     cat,
		Optimizer:   optimizer.New(cat, cfg.Optimizer),
		Executor:    executor.New(llmClient, cfg.Executor.MaxAttempts, time.Duration(cfg.Executor.InitialBackoffMS)*time.Millisecond),
		Validation:  cfg.Validation,
		MaxParallel: maxParallel,
	}, nil
}

// ExtractOptions carries per-job metadata. Classification tunes which
// auxiliary passes the optimizer activates.
type ExtractOptions struct {
	Classification string
}

// Extract runs one transcript through the full pipeline and returns the
// merged, validated result. Synchronous from the caller's view; internally
// the parallel-eligible passes run concurrently. Cancellation via ctx
// abandons in-flight passes but merges whatever already completed, provided
// the mandatory passes succeeded.
func (p *Pipeline) Extract(ctx context.Context, transcript string, opts ExtractOptions) (*model.MergedResult, error) {
	plan, err := p.Optimizer.Plan(len(transcript), opts.Classification)
	if err != nil {
		return nil, err
	}

	j := &job{
		id:      uuid.New().String(),
		state:   statePending,
		results: make(map[string]model.PassResult, len(plan)),
	}

	// Phase 1: all passes without dependencies, concurrently.
	j.state = stateRunningParallel
	var parallel, sequential []model.PassDefinition
	for _, def := range plan {
		if len(def.DependsOn) == 0 && len(def.HardDeps) == 0 {
			parallel = append(parallel, def)
		} else {
			sequential = append(sequential, def)
		}
	}

	sem := make(chan struct{}, p.MaxParallel)
	var wg sync.WaitGroup
	for _, def := range parallel {
		wg.Add(1)
		go func(def model.PassDefinition) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			j.record(p.runPass(ctx, def, transcript, j))
		}(def)
	}
	wg.Wait()

	// Phase 2: dependent passes in topological order. Plan order already
	// guarantees every dependency has a terminal result by the time its
	// dependents run, whether it succeeded or failed.
	j.state = stateRunningSequential
	for _, def := range sequential {
		j.record(p.runPass(ctx, def, transcript, j))
	}

	results := j.snapshot()

	if mandatoryFailed(plan, results) {
		j.state = stateFailed
		return nil, fmt.Errorf("%w: no mandatory pass produced output", ErrCoreExtraction)
	}

	j.state = stateMerging
	merged := merge.Merge(results)
	merged.JobID = j.id

	j.state = stateValidating
	merged.Validation = validate.Validate(merged, len(transcript), p.Validation)
	merged.Statistics.CompletenessScore = merged.Validation.QualityScore

	j.state = stateDone
	return merged, nil
}

// runPass executes one pass to a terminal result, honoring cancellation and
// hard dependencies. Soft dependency failures degrade to partial context.
func (p *Pipeline) runPass(ctx context.Context, def model.PassDefinition, transcript string, j *job) model.PassResult {
	if ctx.Err() != nil {
		return model.FailureResult(def.Name, fmt.Sprintf("job canceled before pass started: %v", ctx.Err()), "")
	}
	for _, dep := range def.HardDeps {
		res, ok := j.get(dep)
		if !ok || !res.Success {
			return model.FailureResult(def.Name, fmt.Sprintf("hard dependency %s did not succeed", dep), "")
		}
	}
	passCtx := contextbuild.Build(def, j.snapshot())
	return p.Executor.Execute(ctx, def, transcript, passCtx)
}

// mandatoryFailed reports whether every mandatory pass in the plan reached a
// failure state. One mandatory pass surviving is enough to merge.
func mandatoryFailed(plan []model.PassDefinition, results map[string]model.PassResult) bool {
	total := 0
	failed := 0
	for _, def := range plan {
		if !def.Mandatory {
			continue
		}
		total++
		res, ok := results[def.Name]
		if !ok || !res.Success {
			failed++
		}
	}
	return total > 0 && failed == total
}
