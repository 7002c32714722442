package sheets_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/sheets"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

type sheetsClient interface {
	Create(title string) (*sheets.SpreadsheetInfo, error)
	ReadRange(spreadsheetID, readRange string) ([][]any, error)
	AppendRows(spreadsheetID, appendRange string, rows [][]any) (int64, error)
}

var clientFor = func(sc *server.ServerContext, account string) sheetsClient {
	if client := sc.SheetsClientForAccount(account); client != nil {
		return client
	}
	return nil
}

// Register adds the sheets tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "create_spreadsheet",
			Description: "Create a new Google Sheets spreadsheet.",
			Params: []tools.Param{
				{Name: "title", Type: tools.TypeString, Required: true, Description: "Spreadsheet title"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleCreate(ctx, sc, args)
			},
		},
		{
			Name:        "read_range",
			Description: "Read cell values from a spreadsheet range in A1 notation.",
			Params: []tools.Param{
				{Name: "spreadsheet_id", Type: tools.TypeString, Required: true, Description: "Spreadsheet ID"},
				{Name: "range", Type: tools.TypeString, Required: true, Description: "Range in A1 notation, e.g. 'Sheet1!A1:C10'"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleRead(ctx, sc, args)
			},
		},
		{
			Name:        "append_rows",
			Description: "Append rows to a spreadsheet. Rows are a JSON array of arrays, e.g. [[\"Item\",3],[\"Other\",5]].",
			Params: []tools.Param{
				{Name: "spreadsheet_id", Type: tools.TypeString, Required: true, Description: "Spreadsheet ID"},
				{Name: "rows", Type: tools.TypeString, Required: true, Description: "JSON array of row arrays"},
				{Name: "range", Type: tools.TypeString, Description: "Range to append after (default: first sheet)"},
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
	info, err := client.Create(common.String(args, "title"))
	common.RecordOperation(ctx, sc.Metrics(), "sheets", "create_spreadsheet", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Spreadsheet created.\nID: %s\nTitle: %s\nURL: %s", info.ID, info.Title, info.URL), nil
}

func handleRead(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	readRange := common.String(args, "range")
	start := time.Now()
	values, err := client.ReadRange(common.String(args, "spreadsheet_id"), readRange)
	common.RecordOperation(ctx, sc.Metrics(), "sheets", "read_range", start, err)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return fmt.Sprintf("Range %s is empty.", readRange), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Values in %s:\n", readRange)
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func handleAppend(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	var rows [][]any
	if err := json.Unmarshal([]byte(common.String(args, "rows")), &rows); err != nil {
		return "", fmt.Errorf("rows must be a JSON array of arrays: %w", err)
	}

	start := time.Now()
	updated, err := client.AppendRows(common.String(args, "spreadsheet_id"), common.String(args, "range"), rows)
	common.RecordOperation(ctx, sc.Metrics(), "sheets", "append_rows", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Appended %d row(s).", updated), nil
}
