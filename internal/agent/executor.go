package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/logging"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

// MaxIterations caps the reasoning/dispatch round trips of one turn.
const MaxIterations = 8

// ErrIterationLimit is returned (wrapped) when a turn exceeds
// MaxIterations without the backend producing a final answer.
var ErrIterationLimit = errors.New("iteration limit exceeded")

// DefaultSystemPrompt frames the assistant for the reasoning backend.
const DefaultSystemPrompt = `You are a personal desk assistant with access to ` +
	`Gmail, Google Calendar, Google Sheets, Google Docs and Notion through ` +
	`tools. Use tools when the user's request needs live data or an action; ` +
	`answer directly otherwise. Report tool failures honestly instead of ` +
	`pretending the action happened.`

// Reply is the outcome of one conversation turn.
type Reply struct {
	Message string
	Success bool
}

// Executor drives conversation turns against a Backend and the tool
// registry.
type Executor struct {
	backend  Backend
	registry *tools.Registry
	sessions *session.Store
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
	system   string
}

// NewExecutor creates an executor. Metrics may be nil.
func NewExecutor(backend Backend, registry *tools.Registry, sessions *session.Store, metrics *instrumentation.Metrics, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		backend:  backend,
		registry: registry,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		system:   DefaultSystemPrompt,
	}
}

// SetSystemPrompt overrides the system prompt.
func (e *Executor) SetSystemPrompt(prompt string) {
	e.system = prompt
}

// Run executes one conversation turn. It serializes on the session's
// run lock, stages the turn's attachments, and loops between the
// backend and the registry until a final answer or the iteration cap.
//
// The user turn is always recorded; an assistant turn is appended only
// when the backend produced a final answer.
func (e *Executor) Run(ctx context.Context, sessionID, input string, attachments []session.Attachment) (Reply, error) {
	start := time.Now()

	sessionID = e.sessions.GetOrCreate(sessionID)
	if err := e.sessions.Acquire(ctx, sessionID); err != nil {
		return Reply{Message: "another request is still running for this session", Success: false}, err
	}
	defer e.sessions.Release(sessionID)

	if len(attachments) > 0 {
		e.sessions.StageAttachments(sessionID, attachments)
	}

	history := e.sessions.History(sessionID)
	e.sessions.AppendTurn(sessionID, session.RoleUser, input)

	ctx = session.WithSessionID(ctx, sessionID)
	logger := e.logger.With(logging.SessionHash(sessionID))

	reply, iterations, err := e.loop(ctx, logger, history, input)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	if e.metrics != nil {
		e.metrics.RecordChatTurn(ctx, status, iterations, time.Since(start))
	}
	logger.Info("chat turn finished",
		logging.Operation("chat"),
		logging.Status(status),
		logging.Iteration(iterations),
		logging.Duration(time.Since(start)))

	if err != nil {
		return reply, err
	}

	e.sessions.AppendTurn(sessionID, session.RoleAssistant, reply.Message)
	return reply, nil
}

func (e *Executor) loop(ctx context.Context, logger *slog.Logger, history []session.Turn, input string) (Reply, int, error) {
	var observations []Observation

	for iteration := 1; iteration <= MaxIterations; iteration++ {
		decision, err := e.generate(ctx, Request{
			System:       e.system,
			History:      history,
			Catalog:      e.registry.Specs(),
			Input:        input,
			Observations: observations,
		})
		if err != nil {
			logger.Error("reasoning backend failed",
				logging.Iteration(iteration), logging.Err(err))
			return Reply{Message: fmt.Sprintf("reasoning failed: %v", err), Success: false}, iteration, err
		}

		if len(decision.Calls) == 0 {
			return Reply{Message: decision.Final, Success: true}, iteration, nil
		}

		// Dispatch in request order. Failures become observations for
		// the backend, never turn aborts.
		for _, call := range decision.Calls {
			result := e.registry.Invoke(ctx, call.Name, call.Args)
			content := result.Message
			if !result.OK {
				content = fmt.Sprintf("error: %s", result.Message)
			}
			observations = append(observations, Observation{Tool: call.Name, Content: content})
			logger.Debug("tool dispatched",
				logging.Tool(call.Name),
				logging.Iteration(iteration))
		}
	}

	reply := Reply{
		Message: "I could not finish this request within the allowed number of steps.",
		Success: false,
	}
	if len(observations) > 0 {
		last := observations[len(observations)-1]
		reply.Message = fmt.Sprintf(
			"I ran out of steps before finishing. Last tool result (%s): %s",
			last.Tool, last.Content)
	}
	return reply, MaxIterations, fmt.Errorf("turn aborted after %d round trips: %w", MaxIterations, ErrIterationLimit)
}

func (e *Executor) generate(ctx context.Context, req Request) (*Decision, error) {
	start := time.Now()
	decision, err := e.backend.Generate(ctx, req)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	if e.metrics != nil {
		e.metrics.RecordReasoningCall(ctx, status, time.Since(start))
	}

	if err != nil {
		return nil, err
	}
	if decision == nil {
		return nil, errors.New("backend returned no decision")
	}
	return decision, nil
}
