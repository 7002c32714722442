package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned (wrapped) when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrRegistrySealed is returned by Register after Seal has been called.
var ErrRegistrySealed = errors.New("tool registry is sealed")

// ValidationError reports tool arguments that failed schema checks. It is
// recoverable: the reasoning loop can re-prompt for the offending fields.
type ValidationError struct {
	Tool   string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %s", e.Tool, strings.Join(e.Fields, "; "))
}
