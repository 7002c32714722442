package agent

import (
	"context"

	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

// Request is one reasoning step: the conversation so far, the tool
// catalog, and the observations collected during the current turn.
type Request struct {
	System       string
	History      []session.Turn
	Catalog      []tools.Spec
	Input        string
	Observations []Observation
}

// ToolCall is a tool invocation requested by the backend.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Observation is the textual outcome of one dispatched tool call.
type Observation struct {
	Tool    string
	Content string
}

// Decision is what the backend wants next: either a final answer for
// the user or a batch of tool calls to dispatch.
type Decision struct {
	Final string
	Calls []ToolCall
}

// Backend is the reasoning backend contract.
type Backend interface {
	Generate(ctx context.Context, req Request) (*Decision, error)
}
