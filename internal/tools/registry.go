package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/logging"
)

// Handler executes a validated tool invocation and returns a human-readable
// message for the conversation transcript. Errors are converted to error
// Results at the registry boundary and never propagate further.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Spec describes one registered tool.
type Spec struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler `json:"-"`
}

// Result is the outcome of a tool invocation. Message is the only channel
// for success/failure signaling; there is no structured error code surfaced
// to the reasoning backend.
type Result struct {
	OK      bool
	Message string
}

// Registry maps tool names to specs. Register all tools at startup, then
// Seal; the registry is immutable afterwards.
type Registry struct {
	specs   map[string]Spec
	order   []string
	sealed  bool
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		specs:  make(map[string]Spec),
		logger: logger,
	}
}

// SetMetrics attaches a metrics recorder; every Invoke is then instrumented.
func (r *Registry) SetMetrics(m *instrumentation.Metrics) {
	r.metrics = m
}

// Register adds a tool to the registry. It fails on duplicate names, on
// invalid schemas, and after Seal.
func (r *Registry) Register(spec Spec) error {
	if r.sealed {
		return fmt.Errorf("register %s: %w", spec.Name, ErrRegistrySealed)
	}
	if err := validateSpec(spec); err != nil {
		return err
	}
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("tool %s is already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Seal freezes the registry. Later Register calls fail.
func (r *Registry) Seal() {
	r.sealed = true
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Specs returns the tool catalog in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Invoke validates rawArgs against the tool's schema and runs its handler.
// Every failure mode, unknown tool, validation failure, handler error,
// handler panic, is converted to an error Result so the agent loop can feed
// it back to the reasoning backend as an observation.
func (r *Registry) Invoke(ctx context.Context, name string, rawArgs map[string]any) Result {
	start := time.Now()
	result := r.invoke(ctx, name, rawArgs)

	status := logging.StatusSuccess
	if !result.OK {
		status = logging.StatusError
	}
	if r.metrics != nil {
		r.metrics.RecordToolInvocation(ctx, name, status, time.Since(start))
	}
	r.logger.Debug("tool invoked",
		logging.Tool(name),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, time.Since(start)))

	return result
}

func (r *Registry) invoke(ctx context.Context, name string, rawArgs map[string]any) (result Result) {
	spec, ok := r.specs[name]
	if !ok {
		return Result{Message: fmt.Sprintf("%v: %s", ErrUnknownTool, name)}
	}

	args, verr := validateArgs(spec, rawArgs)
	if verr != nil {
		return Result{Message: verr.Error()}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panicked",
				logging.Tool(name),
				slog.Any("panic", rec))
			result = Result{Message: fmt.Sprintf("tool %s failed unexpectedly", name)}
		}
	}()

	msg, err := spec.Handler(ctx, args)
	if err != nil {
		return Result{Message: fmt.Sprintf("tool %s failed: %v", name, err)}
	}
	return Result{OK: true, Message: msg}
}
