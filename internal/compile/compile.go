package compile

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

// Options configure a compilation.
type Options struct {
	Flatten flatten.Options
	Workers int // parallel compilations in CompileAll; <= 0 means GOMAXPROCS
}

// Result is the outcome of compiling one schema in a batch.
type Result struct {
	Name string
	Plan analyzer.Plan
	Err  error
}

// OK reports whether the schema compiled.
func (r Result) OK() bool {
	return r.Err == nil
}

// Compile validates, flattens and lays out s. It has no side effects besides
// debug logging.
func Compile(s schema.Schema, opts Options) (analyzer.Plan, error) {
	log := Logger().With(zap.String("schema", s.Name))

	if err := s.Validate(); err != nil {
		log.Debug("schema rejected", zap.Error(err))
		return analyzer.Plan{}, err
	}

	plan, err := analyzer.Analyze(s, opts.Flatten)
	if err != nil {
		log.Debug("layout failed", zap.Error(err))
		return analyzer.Plan{}, err
	}

	st := plan.Stats()
	log.Debug("layout computed",
		zap.Int("fields", st.Fields),
		zap.Int("size", plan.Size),
		zap.Int("align", plan.Align),
		zap.Int("padding", st.Padding),
	)
	return plan, nil
}

// CompileAll compiles every schema independently, at most opts.Workers at a
// time. Results keep the input order. A failing schema never affects the
// others; schemas not yet started when ctx is done fail with ctx.Err().
// Two schemas sharing a record name fail with DuplicateIdentifier, except
// the first.
func CompileAll(ctx context.Context, schemas []schema.Schema, opts Options) []Result {
	results := make([]Result, len(schemas))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)

	names := make(map[string]bool, len(schemas))
	for i, s := range schemas {
		results[i].Name = s.Name

		if s.Name != "" && names[s.Name] {
			results[i].Err = schema.NewError(schema.KindDuplicateIdentifier).Schema(s.Name).
				Detail("record name declared more than once").Build()
			continue
		}
		names[s.Name] = true

		if err := ctx.Err(); err != nil {
			results[i].Err = fmt.Errorf("%s: %w", s.Name, err)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = fmt.Errorf("%s: %w", s.Name, err)
				return nil
			}
			results[i].Plan, results[i].Err = Compile(s, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	Logger().Debug("batch compiled",
		zap.Int("schemas", len(schemas)),
		zap.Int("failed", failed),
		zap.Int("workers", workers),
	)
	return results
}

// Err joins the errors of every failed result, or returns nil.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Plans returns the plans of successful results in order.
func Plans(results []Result) []analyzer.Plan {
	plans := make([]analyzer.Plan, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			plans = append(plans, r.Plan)
		}
	}
	return plans
}
