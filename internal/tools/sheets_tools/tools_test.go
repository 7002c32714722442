package sheets_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/sheets"
	"github.com/deskmate/deskmate/internal/tools"
)

type fakeSheetsClient struct {
	values   [][]any
	appended [][]any
}

func (f *fakeSheetsClient) Create(title string) (*sheets.SpreadsheetInfo, error) {
	return &sheets.SpreadsheetInfo{ID: "ss-1", Title: title, URL: "https://sheets.example/ss-1"}, nil
}

func (f *fakeSheetsClient) ReadRange(spreadsheetID, readRange string) ([][]any, error) {
	return f.values, nil
}

func (f *fakeSheetsClient) AppendRows(spreadsheetID, appendRange string, rows [][]any) (int64, error) {
	f.appended = append(f.appended, rows...)
	return int64(len(rows)), nil
}

func newTestRegistry(t *testing.T, fake sheetsClient) *tools.Registry {
	t.Helper()

	sc := server.NewServerContext(context.Background(), nil, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext, string) sheetsClient { return fake }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	reg.Seal()
	return reg
}

func TestRegisterProvidesSheetsTools(t *testing.T) {
	reg := newTestRegistry(t, &fakeSheetsClient{})

	want := []string{"create_spreadsheet", "read_range", "append_rows"}
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

func TestCreateSpreadsheet(t *testing.T) {
	reg := newTestRegistry(t, &fakeSheetsClient{})

	result := reg.Invoke(context.Background(), "create_spreadsheet", map[string]any{"title": "Budget"})
	if !result.OK {
		t.Fatalf("create_spreadsheet failed: %s", result.Message)
	}
	for _, want := range []string{"ss-1", "Budget"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("result missing %q: %s", want, result.Message)
		}
	}
}

func TestReadRange(t *testing.T) {
	fake := &fakeSheetsClient{values: [][]any{{"Item", "Qty"}, {"Apples", 3.0}}}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "read_range", map[string]any{
		"spreadsheet_id": "ss-1",
		"range":          "Sheet1!A1:B2",
	})
	if !result.OK {
		t.Fatalf("read_range failed: %s", result.Message)
	}
	if !strings.Contains(result.Message, "Apples\t3") {
		t.Errorf("rows not rendered tab-separated: %s", result.Message)
	}
}

func TestAppendRows(t *testing.T) {
	fake := &fakeSheetsClient{}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "append_rows", map[string]any{
		"spreadsheet_id": "ss-1",
		"rows":           `[["Pears", 7], ["Plums", 2]]`,
	})
	if !result.OK {
		t.Fatalf("append_rows failed: %s", result.Message)
	}
	if len(fake.appended) != 2 {
		t.Fatalf("appended %d rows, want 2", len(fake.appended))
	}
	if !strings.Contains(result.Message, "2 row(s)") {
		t.Errorf("result does not report the count: %s", result.Message)
	}
}

func TestAppendRowsRejectsBadJSON(t *testing.T) {
	fake := &fakeSheetsClient{}
	reg := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "append_rows", map[string]any{
		"spreadsheet_id": "ss-1",
		"rows":           "Pears, 7",
	})
	if result.OK {
		t.Fatal("append_rows accepted malformed rows")
	}
	if len(fake.appended) != 0 {
		t.Error("rows were appended despite the parse failure")
	}
}
