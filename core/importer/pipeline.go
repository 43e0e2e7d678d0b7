package importer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gyrinx-content/core/datasource"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline runs a set of steps in dependency order as one import run.
type Pipeline struct {
	steps  []Step
	runs   RunStore
	logger *zap.Logger
}

// NewPipeline creates a pipeline. Steps are registered in the given order, which breaks
// ties between independent types. runs may be nil, in which case no provenance is stored.
func NewPipeline(runs RunStore, logger *zap.Logger, steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, runs: runs, logger: logger}
}

// Types returns the registered types in registration order.
func (p *Pipeline) Types() []EntityType {
	types := make([]EntityType, len(p.steps))
	for i, s := range p.steps {
		types[i] = s.Type()
	}
	return types
}

// Order sorts the steps so that every step follows its dependencies. When only is not
// empty the result is restricted to those types; dependencies outside the subset are
// expected to already be stored. Unknown types, unknown dependencies and cycles are errors.
func (p *Pipeline) Order(only ...EntityType) ([]Step, error) {
	pos := make(map[EntityType]int, len(p.steps))
	for i, s := range p.steps {
		if _, dup := pos[s.Type()]; dup {
			return nil, fmt.Errorf("type %s registered twice", s.Type())
		}
		pos[s.Type()] = i
	}

	indegree := make([]int, len(p.steps))
	dependents := make([][]int, len(p.steps))
	for i, s := range p.steps {
		for _, dep := range s.DependsOn() {
			j, ok := pos[dep]
			if !ok {
				return nil, fmt.Errorf("%s depends on unknown type %s", s.Type(), dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i, n := range indegree {
		if n == 0 {
			ready = append(ready, i)
		}
	}

	sorted := make([]Step, 0, len(p.steps))
	for len(ready) > 0 {
		slices.Sort(ready)
		i := ready[0]
		ready = ready[1:]
		sorted = append(sorted, p.steps[i])
		for _, k := range dependents[i] {
			indegree[k]--
			if indegree[k] == 0 {
				ready = append(ready, k)
			}
		}
	}

	if len(sorted) != len(p.steps) {
		var stuck []EntityType
		for i, n := range indegree {
			if n > 0 {
				stuck = append(stuck, p.steps[i].Type())
			}
		}
		return nil, fmt.Errorf("%w between %v", ErrDependencyCycle, stuck)
	}

	if len(only) == 0 {
		return sorted, nil
	}
	for _, t := range only {
		if _, ok := pos[t]; !ok {
			return nil, fmt.Errorf("unknown type %s", t)
		}
	}
	return slices.DeleteFunc(sorted, func(s Step) bool {
		return !slices.Contains(only, s.Type())
	}), nil
}

// Execute imports a loaded set. A provenance record is created before the first step
// and finished after the last one; both are skipped in dry-run. The returned report
// covers every step that ran, including a failed one.
func (p *Pipeline) Execute(ctx context.Context, set *datasource.Set, opts Options) (*Report, error) {
	steps, err := p.Order(opts.Only...)
	if err != nil {
		return nil, err
	}

	opts.RunID = uuid.New()
	report := &Report{
		RunID:     opts.RunID,
		Ruleset:   opts.Ruleset,
		Source:    opts.Source,
		DryRun:    opts.DryRun,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
		Warnings:  append([]string(nil), set.Warnings...),
	}
	for _, f := range set.Failures {
		report.Warnings = append(report.Warnings, "skipped "+f.Error())
	}

	run := &Run{
		ID:              opts.RunID,
		Ruleset:         opts.Ruleset,
		SourceDirectory: opts.Source,
		Status:          RunRunning,
		StartedAt:       report.StartedAt,
	}
	persist := !opts.DryRun && p.runs != nil
	if persist {
		if err := p.runs.Create(ctx, run); err != nil {
			return report, err
		}
	}

	idx := NewIndex()
	for _, s := range p.steps {
		idx.Register(s.Type(), s.Find)
	}

	logger := p.logger.With(zap.String("run_id", opts.RunID.String()), zap.Bool("dry_run", opts.DryRun))
	var runErr error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		stepStart := time.Now()
		res, err := step.Run(ctx, set, idx, opts)
		if res != nil {
			report.Steps = append(report.Steps, res)
		}
		if err != nil {
			runErr = err
			break
		}
		logger.Info("Imported entity type",
			zap.String("type", string(res.Type)),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("removed", res.Removed),
			zap.Int("indexed", idx.Len(res.Type)),
			zap.Duration("duration", time.Since(stepStart)),
		)
	}

	finished := time.Now().UTC()
	report.FinishedAt = finished
	report.Status = RunSucceeded
	if runErr != nil {
		report.Status = RunFailed
		report.Error = runErr.Error()
	}

	if persist {
		run.Status = report.Status
		run.Error = report.Error
		run.FinishedAt = &finished
		if err := p.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}

	return report, runErr
}
