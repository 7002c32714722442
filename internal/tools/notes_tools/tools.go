package notes_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/notion"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

type notionClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]notion.PageSummary, error)
	CreatePage(ctx context.Context, databaseID, title, content string) (*notion.PageSummary, error)
	QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, maxResults int) ([]notion.PageSummary, error)
}

var clientFor = func(sc *server.ServerContext) notionClient {
	if client := sc.NotionClient(); client != nil {
		return client
	}
	return nil
}

// Register adds the notes tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "search_notes",
			Description: "Search Notion pages and databases by text.",
			Params: []tools.Param{
				{Name: "query", Type: tools.TypeString, Required: true, Description: "Search text"},
				{Name: "max_results", Type: tools.TypeNumber, Default: 10.0, Description: "Maximum number of results"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleSearch(ctx, sc, args)
			},
		},
		{
			Name:        "create_note",
			Description: "Create a note page in a Notion database.",
			Params: []tools.Param{
				{Name: "database_id", Type: tools.TypeString, Required: true, Description: "Target database ID"},
				{Name: "title", Type: tools.TypeString, Required: true, Description: "Note title"},
				{Name: "content", Type: tools.TypeString, Description: "Note body text"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleCreate(ctx, sc, args)
			},
		},
		{
			Name:        "query_database",
			Description: "List entries of a Notion database, optionally filtered. The filter is a raw Notion filter object as JSON.",
			Params: []tools.Param{
				{Name: "database_id", Type: tools.TypeString, Required: true, Description: "Database ID"},
				{Name: "filter", Type: tools.TypeString, Description: "Notion filter object as JSON"},
				{Name: "max_results", Type: tools.TypeNumber, Default: 25.0, Description: "Maximum number of entries"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleQuery(ctx, sc, args)
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

func notionUnavailable() error {
	return errors.New("Notion is not configured. Set NOTION_TOKEN to an integration token to enable notes tools.")
}

func handleSearch(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc)
	if client == nil {
		return "", notionUnavailable()
	}

	start := time.Now()
	results, err := client.Search(ctx, common.String(args, "query"), int(common.Number(args, "max_results")))
	common.RecordOperation(ctx, sc.Metrics(), "notion", "search", start, err)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No matching pages found.", nil
	}
	return formatPages(results), nil
}

func handleCreate(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc)
	if client == nil {
		return "", notionUnavailable()
	}

	start := time.Now()
	page, err := client.CreatePage(ctx,
		common.String(args, "database_id"),
		common.String(args, "title"),
		common.String(args, "content"))
	common.RecordOperation(ctx, sc.Metrics(), "notion", "create_page", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Note created.\nID: %s\nTitle: %s\nURL: %s", page.ID, page.Title, page.URL), nil
}

func handleQuery(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc)
	if client == nil {
		return "", notionUnavailable()
	}

	var filter map[string]any
	if raw := common.String(args, "filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return "", fmt.Errorf("filter must be a JSON object: %w", err)
		}
	}

	start := time.Now()
	entries, err := client.QueryDatabase(ctx,
		common.String(args, "database_id"), filter, int(common.Number(args, "max_results")))
	common.RecordOperation(ctx, sc.Metrics(), "notion", "query_database", start, err)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "The database has no matching entries.", nil
	}
	return formatPages(entries), nil
}

func formatPages(pages []notion.PageSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d page(s):\n", len(pages))
	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "\nID: %s\nTitle: %s\nURL: %s\n", p.ID, title, p.URL)
	}
	return b.String()
}
