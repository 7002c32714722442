package docs_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/deskmate/deskmate/internal/docs"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tools"
)

type fakeDocsClient struct {
	text     string
	appended []string
}

func (f *fakeDocsClient) Create(title, body string) (*docs.DocumentInfo, error) {
	return &docs.DocumentInfo{ID: "doc-1", Title: title}, nil
}

func (f *fakeDocsClient) GetPlainText(documentID string) (string, error) {
	return f.text, nil
}

func (f *fakeDocsClient) AppendText(documentID, text string) error {
	f.appended = append(f.appended, text)
	return nil
}

func newTestRegistry(t *testing.T, fake docsClient) *tools.Registry {
	t.Helper()

	sc := server.NewServerContext(context.Background(), nil, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext, string) docsClient { return fake }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	reg.Seal()
	return reg
}

func TestRegisterProvidesDocsTools(t *testing.T) {
	reg := newTestRegistry(t, &fakeDocsClient{})

	want := []string{"create_document", "get_document", "append_text"}
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

func TestCreateDocument(t *testing.T) {
	reg := newTestRegistry(t, &fakeDocsClient{})

	result := reg.Invoke(context.Background(), "create_document", map[string]any{"title": "Notes"})
	if !result.OK {
		t.Fatalf("create_document failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "doc-1") {
		t.Errorf("result does not carry the document ID: %s", result.Message)
	}
}

func TestGetDocument(t *testing.T) {
	reg := newTestRegistry(t, &fakeDocsClient{text: "Quarterly plan\n\nShip it."})

	result := reg.Invoke(context.Background(), "get_document", map[string]any{"document_id": "doc-1"})
	if !result.OK {
		t.Fatalf("get_document failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "Quarterly plan") {
		t.Errorf("result missing document text: %s", result.Message)
	}
}

func TestGetDocumentEmpty(t *testing.T) {
	reg := newTestRegistry(t, &fakeDocsClient{})

	result := reg.Invoke(context.Background(), "get_document", map[string]any{"document_id": "doc-1"})
	if !result.OK {
		t.Fatalf("get_document failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "empty") {
		t.Errorf("empty document not reported: %s", result.Message)
	}
}

func TestAppendText(t *testing.T) {
	fake := &fakeDocsClient{}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "append_text", map[string]any{
		"document_id": "doc-1",
		"text":        "New paragraph",
	})
	if !result.OK {
		t.Fatalf("append_text failed: %s", result.Message)
	}
	if len(fake.appended) != 1 || fake.appended[0] != "New paragraph" {
		t.Errorf("appended = %v", fake.appended)
	}
}

func TestAppendTextMissingRequired(t *testing.T) {
	fake := &fakeDocsClient{}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "append_text", map[string]any{"document_id": "doc-1"})
	if result.OK {
		t.Fatal("append_text without text succeeded")
	}
	if len(fake.appended) != 0 {
		t.Error("handler ran despite failed validation")
	}
}
