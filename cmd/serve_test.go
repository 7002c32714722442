package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

func TestRegisterToolFamilies(t *testing.T) {
	store := session.NewStore(time.Hour, nil)
	defer store.Stop()

	sc := server.NewServerContext(context.Background(), store, nil, nil)
	defer sc.Shutdown()

	registry := tools.NewRegistry(nil)
	if err := registerToolFamilies(registry, sc); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	expected := []string{
		"send_email", "create_draft", "list_messages", "delete_message",
		"list_events", "create_event", "delete_event",
		"create_spreadsheet", "read_range", "append_rows",
		"create_document", "get_document", "append_text",
		"list_tasks", "create_task", "complete_task", "delete_task",
		"search_notes", "create_note", "query_database",
	}
	if registry.Len() != len(expected) {
		t.Errorf("registered %d tools, want %d", registry.Len(), len(expected))
	}

	registered := make(map[string]bool)
	for _, spec := range registry.Specs() {
		registered[spec.Name] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestLoadServeEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("NOTION_TOKEN", "env-notion")
	t.Setenv("METRICS_ADDR", ":9999")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := serveConfig{
		MetricsEnabled: true,
		MetricsAddr:    server.DefaultMetricsAddr,
	}
	loadServeEnv(&cfg)

	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.NotionToken != "env-notion" {
		t.Errorf("NotionToken = %q", cfg.NotionToken)
	}
	if cfg.MetricsAddr != ":9999" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, env override ignored")
	}
}

func TestLoadServeEnvKeepsFlagValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("METRICS_ADDR", ":9999")

	cfg := serveConfig{
		GeminiAPIKey:   "flag-key",
		MetricsAddr:    ":7070",
		MetricsEnabled: true,
	}
	loadServeEnv(&cfg)

	if cfg.GeminiAPIKey != "flag-key" {
		t.Errorf("GeminiAPIKey = %q, flag value lost", cfg.GeminiAPIKey)
	}
	if cfg.MetricsAddr != ":7070" {
		t.Errorf("MetricsAddr = %q, flag value lost", cfg.MetricsAddr)
	}
}
