package fixture

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
)

// Request asks for one artifact.
type Request struct {
	Format      string
	Destination io.Writer
	BudgetBytes uint64
	// Seed fixes the random source. Zero draws a fresh seed.
	Seed uint64
}

// Result describes a committed artifact.
type Result struct {
	BytesWritten uint64
	Format       string
	Extension    string
	Family       Family
	Units        int
	// Tolerance is the largest single unit, the most a non-truncating format
	// may overshoot the budget by.
	Tolerance uint64
	Seed      uint64
}

// Engine runs requests against a Registry.
type Engine struct {
	registry *Registry
	logger   hclog.Logger
}

// NewEngine returns an engine over the default registry. A nil logger discards output.
func NewEngine(logger hclog.Logger) *Engine {
	return NewEngineWithRegistry(DefaultRegistry(), logger)
}

// NewEngineWithRegistry returns an engine over reg.
func NewEngineWithRegistry(reg *Registry, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{registry: reg, logger: logger}
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Generate runs req. Nothing is written unless the artifact is complete; the
// destination receives exactly one Write.
func (e *Engine) Generate(ctx context.Context, req Request) (Result, error) {
	format, ok := e.registry.Lookup(req.Format)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", fxerrors.ErrUnsupportedFormat, req.Format)
	}
	if req.Destination == nil {
		return Result{}, fmt.Errorf("%w: no destination", fxerrors.ErrSinkWriteFailure)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := budget.New(req.BudgetBytes, 0)

	e.logger.Debug("🎲 Generating", "format", format.Name, "budget", req.BudgetBytes, "seed", seed)
	data, err := format.Generator.Generate(r, b)
	if err != nil {
		if !fxerrors.IsTagged(err) {
			err = fmt.Errorf("%w: %s: %v", fxerrors.ErrEncodingFailure, format.Name, err)
		}
		e.logger.Debug("❌ Generation failed", "format", format.Name, "error", err)
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	n, err := req.Destination.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", fxerrors.ErrSinkWriteFailure, err)
	}

	e.logger.Trace("✅ Generated", "format", format.Name, "bytes", n, "units", b.Units())
	return Result{
		BytesWritten: uint64(n),
		Format:       format.Name,
		Extension:    format.Extension,
		Family:       format.Family,
		Units:        b.Units(),
		Tolerance:    b.Tolerance(),
		Seed:         seed,
	}, nil
}
