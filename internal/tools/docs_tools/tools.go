package docs_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deskmate/deskmate/internal/docs"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

type docsClient interface {
	Create(title, body string) (*docs.DocumentInfo, error)
	GetPlainText(documentID string) (string, error)
	AppendText(documentID, text string) error
}

var clientFor = func(sc *server.ServerContext, account string) docsClient {
	if client := sc.DocsClientForAccount(account); client != nil {
		return client
	}
	return nil
}

// Register adds the docs tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "create_document",
			Description: "Create a new Google Doc, optionally with initial content.",
			Params: []tools.Param{
				{Name: "title", Type: tools.TypeString, Required: true, Description: "Document title"},
				{Name: "body", Type: tools.TypeString, Description: "Initial document text"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleCreate(ctx, sc, args)
			},
		},
		{
			Name:        "get_document",
			Description: "Read a Google Doc's content as plain text.",
			Params: []tools.Param{
				{Name: "document_id", Type: tools.TypeString, Required: true, Description: "Document ID"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleGet(ctx, sc, args)
			},
		},
		{
			Name:        "append_text",
			Description: "Append text to the end of a Google Doc.",
			Params: []tools.Param{
				{Name: "document_id", Type: tools.TypeString, Required: true, Description: "Document ID"},
				{Name: "text", Type: tools.TypeString, Required: true, Description: "Text to append"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleAppend(ctx, sc, args)
			},
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", spec.Name, err)
		}
	}
	return nil
}

func handleCreate(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	start := time.Now()
	info, err := client.Create(common.String(args, "title"), common.String(args, "body"))
	common.RecordOperation(ctx, sc.Metrics(), "docs", "create_document", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Document created.\nID: %s\nTitle: %s", info.ID, info.Title), nil
}

func handleGet(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	start := time.Now()
	text, err := client.GetPlainText(common.String(args, "document_id"))
	common.RecordOperation(ctx, sc.Metrics(), "docs", "get_document", start, err)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "The document is empty.", nil
	}
	return text, nil
}

func handleAppend(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	documentID := common.String(args, "document_id")
	start := time.Now()
	err := client.AppendText(documentID, common.String(args, "text"))
	common.RecordOperation(ctx, sc.Metrics(), "docs", "append_text", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Text appended to document %s.", documentID), nil
}
