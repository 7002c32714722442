package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend implements Backend on the Gemini API using native
// function calling.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend. An empty apiKey falls back
// to the GEMINI_API_KEY environment variable.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Model returns the configured model name.
func (b *GeminiBackend) Model() string {
	return b.model
}

// Generate runs one reasoning step: conversation plus catalog in,
// either a final answer or function calls out.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) (*Decision, error) {
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if decls := toFunctionDeclarations(req.Catalog); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	contents := toContents(req)

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return toDecision(resp)
}

// toContents rebuilds the Gemini conversation: prior turns, the user
// input, then one functionCall/functionResponse pair per observation so
// the model sees its earlier tool round trips.
func toContents(req Request) []*genai.Content {
	var contents []*genai.Content

	for _, turn := range req.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == session.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	contents = append(contents, genai.NewContentFromText(req.Input, genai.RoleUser))

	for _, obs := range req.Observations {
		contents = append(contents,
			&genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: obs.Tool}}},
			},
			&genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{
					genai.NewPartFromFunctionResponse(obs.Tool, map[string]any{"result": obs.Content}),
				},
			},
		)
	}

	return contents
}

func toFunctionDeclarations(catalog []tools.Spec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(catalog))
	for _, spec := range catalog {
		properties := make(map[string]*genai.Schema, len(spec.Params))
		var required []string

		for _, p := range spec.Params {
			schema := &genai.Schema{
				Type:        toSchemaType(p.Type),
				Description: p.Description,
			}
			if len(p.Enum) > 0 {
				schema.Enum = p.Enum
			}
			properties[p.Name] = schema
			if p.Required {
				required = append(required, p.Name)
			}
		}

		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}
	return decls
}

func toSchemaType(t tools.ParamType) genai.Type {
	switch t {
	case tools.TypeNumber:
		return genai.TypeNumber
	case tools.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func toDecision(resp *genai.GenerateContentResponse) (*Decision, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	decision := &Decision{}
	var text strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			decision.Calls = append(decision.Calls, ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	if len(decision.Calls) == 0 {
		decision.Final = strings.TrimSpace(text.String())
	}
	return decision, nil
}
