package notes_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/deskmate/deskmate/internal/notion"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tools"
)

type fakeNotionClient struct {
	pages      []notion.PageSummary
	lastFilter map[string]any
}

func (f *fakeNotionClient) Search(ctx context.Context, query string, maxResults int) ([]notion.PageSummary, error) {
	return f.pages, nil
}

func (f *fakeNotionClient) CreatePage(ctx context.Context, databaseID, title, content string) (*notion.PageSummary, error) {
	return &notion.PageSummary{ID: "page-1", Title: title, URL: "https://notion.so/page-1"}, nil
}

func (f *fakeNotionClient) QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, maxResults int) ([]notion.PageSummary, error) {
	f.lastFilter = filter
	return f.pages, nil
}

func newTestRegistry(t *testing.T, fake notionClient) *tools.Registry {
	t.Helper()

	sc := server.NewServerContext(context.Background(), nil, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext) notionClient { return fake }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	reg.Seal()
	return reg
}

func TestRegisterProvidesNotesTools(t *testing.T) {
	reg := newTestRegistry(t, &fakeNotionClient{})

	want := []string{"search_notes", "create_note", "query_database"}
	specs := reg.Specs()
	if len(specs) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(specs), len(want))
	}
	for i, name := range want {
		if specs[i].Name != name {
			t.Errorf("spec[%d] = %s, want %s", i, specs[i].Name, name)
		}
	}
}

func TestSearchNotes(t *testing.T) {
	fake := &fakeNotionClient{
		pages: []notion.PageSummary{{ID: "p1", Title: "Roadmap", URL: "https://notion.so/p1"}},
	}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "search_notes", map[string]any{"query": "roadmap"})
	if !result.OK {
		t.Fatalf("search_notes failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "Roadmap") {
		t.Errorf("result missing page title: %s", result.Message)
	}
}

func TestCreateNote(t *testing.T) {
	reg := newTestRegistry(t, &fakeNotionClient{})

	result := reg.Invoke(context.Background(), "create_note", map[string]any{
		"database_id": "db1",
		"title":       "Meeting notes",
	})
	if !result.OK {
		t.Fatalf("create_note failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "page-1") {
		t.Errorf("result does not carry the page ID: %s", result.Message)
	}
}

func TestQueryDatabaseForwardsFilter(t *testing.T) {
	fake := &fakeNotionClient{
		pages: []notion.PageSummary{{ID: "row1", Title: "Open item"}},
	}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "query_database", map[string]any{
		"database_id": "db1",
		"filter":      `{"property": "Status", "select": {"equals": "Open"}}`,
	})
	if !result.OK {
		t.Fatalf("query_database failed: %s", result.Message)
	}
	if fake.lastFilter == nil || fake.lastFilter["property"] != "Status" {
		t.Errorf("filter not forwarded: %v", fake.lastFilter)
	}
}

func TestQueryDatabaseRejectsBadFilter(t *testing.T) {
	reg := newTestRegistry(t, &fakeNotionClient{})

	result := reg.Invoke(context.Background(), "query_database", map[string]any{
		"database_id": "db1",
		"filter":      "status is open",
	})
	if result.OK {
		t.Fatal("query_database accepted a malformed filter")
	}
}

func TestNotionUnconfigured(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext) notionClient { return nil }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	result := reg.Invoke(context.Background(), "search_notes", map[string]any{"query": "x"})
	if result.OK {
		t.Fatal("search_notes succeeded without a token")
	}
	if !strings.Contains(result.Message, "NOTION_TOKEN") {
		t.Errorf("result does not explain configuration: %s", result.Message)
	}
}
