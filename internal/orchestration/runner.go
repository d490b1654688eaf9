// Package orchestration drives a whole suite: it loads each model's
// predictions, feeds them through the report builder, and collects the
// results. Models are independent, so they run concurrently under a bounded
// worker pool; one model failing never stops the others (graceful
// degradation is this caller's policy, not the engines').
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clfeval/clfeval/internal/cache"
	"github.com/clfeval/clfeval/internal/config"
	"github.com/clfeval/clfeval/internal/dataset"
	"github.com/clfeval/clfeval/internal/models"
	"github.com/clfeval/clfeval/internal/report"
)

// EventType represents the type of progress event.
type EventType string

// EventType constants
const (
	EventSuiteStart    EventType = "suite_start"
	EventSuiteComplete EventType = "suite_complete"
	EventModelStart    EventType = "model_start"
	EventModelComplete EventType = "model_complete"
	EventModelCached   EventType = "model_cached"
	EventModelFailed   EventType = "model_failed"
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	EventType   EventType
	ModelName   string
	ModelNum    int
	TotalModels int
	Err         error
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// ModelOutcome pairs a model with either its result or the error that
// aborted its evaluation.
type ModelOutcome struct {
	ModelName string
	Result    *models.ModelResult
	Err       error
}

// Runner evaluates every model in a suite.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *cache.Cache

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures a Runner.
type Option func(*Runner)

// WithCache enables result memoization.
func WithCache(c *cache.Cache) Option {
	return func(r *Runner) { r.cache = c }
}

// NewRunner creates a runner for the given suite.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{cfg: cfg, logger: logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

// AddProgressListener registers a callback for progress events. Callbacks
// run sequentially under a mutex, so listeners need no locking of their own.
func (r *Runner) AddProgressListener(l ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	for _, l := range r.listeners {
		l(event)
	}
}

// Evaluate runs the whole suite and returns one outcome per configured
// model, in configuration order.
func (r *Runner) Evaluate(ctx context.Context) ([]ModelOutcome, error) {
	var auxTable map[string]float64
	if r.cfg.AuxCSV != nil {
		var err error
		auxTable, err = dataset.LoadAuxCSV(r.cfg.AuxCSV.Path, r.cfg.AuxCSV.IDColumn, r.cfg.AuxCSV.ValueColumn)
		if err != nil {
			return nil, fmt.Errorf("aux table: %w", err)
		}
	}

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	total := len(r.cfg.Models)
	r.notifyProgress(ProgressEvent{EventType: EventSuiteStart, TotalModels: total})

	type indexed struct {
		index   int
		outcome ModelOutcome
	}

	resultChan := make(chan indexed, total)
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, mc := range r.cfg.Models {
		wg.Add(1)
		go func(idx int, mc config.ModelConfig) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				resultChan <- indexed{index: idx, outcome: ModelOutcome{ModelName: mc.Name, Err: ctx.Err()}}
				return
			}

			r.notifyProgress(ProgressEvent{
				EventType:   EventModelStart,
				ModelName:   mc.Name,
				ModelNum:    idx + 1,
				TotalModels: total,
			})

			outcome, cached := r.evaluateModel(mc, auxTable)
			resultChan <- indexed{index: idx, outcome: outcome}

			event := ProgressEvent{
				ModelName:   mc.Name,
				ModelNum:    idx + 1,
				TotalModels: total,
				Err:         outcome.Err,
			}
			switch {
			case outcome.Err != nil:
				event.EventType = EventModelFailed
			case cached:
				event.EventType = EventModelCached
			default:
				event.EventType = EventModelComplete
			}
			r.notifyProgress(event)
		}(i, mc)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	outcomes := make([]ModelOutcome, total)
	for res := range resultChan {
		outcomes[res.index] = res.outcome
	}

	r.notifyProgress(ProgressEvent{EventType: EventSuiteComplete, TotalModels: total})
	return outcomes, nil
}

// evaluateModel evaluates one model end to end. Errors are captured in the
// outcome so the rest of the suite keeps running.
func (r *Runner) evaluateModel(mc config.ModelConfig, auxTable map[string]float64) (ModelOutcome, bool) {
	outcome := ModelOutcome{ModelName: mc.Name}

	ps, err := dataset.LoadPredictions(mc.Predictions)
	if err != nil {
		outcome.Err = err
		return outcome, false
	}
	var joinWarnings []string
	if auxTable != nil {
		ps, joinWarnings = dataset.JoinAux(ps, auxTable, r.logger)
	}

	k := r.cfg.K()
	if r.cache != nil {
		key, err := cache.Key(mc.Name, ps, k, mc.InferenceTimeMs, mc.Throughput)
		if err == nil {
			if cached, found := r.cache.Get(key); found {
				r.logger.Debug("cache hit", "model", mc.Name, "key", key)
				outcome.Result = cached
				return outcome, true
			}
			result, buildErr := r.buildResult(mc, ps, k, joinWarnings)
			if buildErr != nil {
				outcome.Err = buildErr
				return outcome, false
			}
			if putErr := r.cache.Put(key, result); putErr != nil {
				r.logger.Warn("cache write failed", "model", mc.Name, "error", putErr)
			}
			outcome.Result = result
			return outcome, false
		}
		r.logger.Warn("cache key computation failed", "model", mc.Name, "error", err)
	}

	result, err := r.buildResult(mc, ps, k, joinWarnings)
	if err != nil {
		outcome.Err = err
		return outcome, false
	}
	outcome.Result = result
	return outcome, false
}

func (r *Runner) buildResult(mc config.ModelConfig, ps models.PredictionSet, k int, joinWarnings []string) (*models.ModelResult, error) {
	opts, err := mc.Options()
	if err != nil {
		return nil, err
	}
	builderOpts := []report.Option{}
	if opts.ROCParallelism > 1 {
		builderOpts = append(builderOpts, report.WithROCParallelism(opts.ROCParallelism))
	}
	if opts.AccuracyCI {
		builderOpts = append(builderOpts, report.WithAccuracyCI())
	}
	builder := report.NewBuilder(r.logger, builderOpts...)

	result, err := builder.Build(mc.Name, ps, k, mc.InferenceTimeMs, mc.Throughput)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, joinWarnings...)
	return result, nil
}
