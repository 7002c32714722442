package mail_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/gmail"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

// mailClient is the slice of the Gmail client the mail tools use.
type mailClient interface {
	Send(env gmail.Envelope) (string, error)
	CreateDraft(env gmail.Envelope) (string, error)
	ListMessages(query string, maxResults int64) ([]gmail.MessageSummary, error)
	DeleteMessage(messageID string) error
}

// clientFor resolves the Gmail client for an account. Overridable in
// tests.
var clientFor = func(sc *server.ServerContext, account string) mailClient {
	if client := sc.GmailClientForAccount(account); client != nil {
		return client
	}
	return nil
}

// Register adds the mail tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "send_email",
			Description: "Send an email through Gmail. Attachments staged on the current session are included automatically.",
			Params: []tools.Param{
				{Name: "to", Type: tools.TypeString, Required: true, Description: "Recipient email address(es), comma-separated"},
				{Name: "subject", Type: tools.TypeString, Required: true, Description: "Email subject"},
				{Name: "body", Type: tools.TypeString, Description: "Email body, plain text or HTML"},
				{Name: "cc", Type: tools.TypeString, Description: "CC address(es), comma-separated"},
				{Name: "bcc", Type: tools.TypeString, Description: "BCC address(es), comma-separated"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to send from"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleSend(ctx, sc, args, false)
			},
		},
		{
			Name:        "create_draft",
			Description: "Create a Gmail draft without sending it. Attachments staged on the current session are included automatically.",
			Params: []tools.Param{
				{Name: "to", Type: tools.TypeString, Required: true, Description: "Recipient email address(es), comma-separated"},
				{Name: "subject", Type: tools.TypeString, Required: true, Description: "Email subject"},
				{Name: "body", Type: tools.TypeString, Description: "Email body, plain text or HTML"},
				{Name: "cc", Type: tools.TypeString, Description: "CC address(es), comma-separated"},
				{Name: "bcc", Type: tools.TypeString, Description: "BCC address(es), comma-separated"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to draft in"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleSend(ctx, sc, args, true)
			},
		},
		{
			Name:        "list_messages",
			Description: "List recent Gmail messages matching a search query.",
			Params: []tools.Param{
				{Name: "query", Type: tools.TypeString, Description: "Gmail search query, e.g. 'is:unread from:alice'"},
				{Name: "max_results", Type: tools.TypeNumber, Default: 10.0, Description: "Maximum number of messages to return"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to search"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleList(ctx, sc, args)
			},
		},
		{
			Name:        "delete_message",
			Description: "Move a Gmail message to the trash.",
			Params: []tools.Param{
				{Name: "message_id", Type: tools.TypeString, Required: true, Description: "ID of the message to delete"},
				{Name: "account", Type: tools.TypeString, Description: "Google account the message belongs to"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleDelete(ctx, sc, args)
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

func handleSend(ctx context.Context, sc *server.ServerContext, args map[string]any, draft bool) (string, error) {
	// Staged attachments belong to the invoking session only and are
	// consumed exactly once, before any other outcome of the call. A
	// failed invocation must not leave them staged for a later one.
	var attachments []session.Attachment
	if sessionID, ok := session.SessionIDFromContext(ctx); ok && sc.Sessions() != nil {
		attachments = sc.Sessions().ConsumeAttachments(sessionID)
	}

	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	env := gmail.Envelope{
		To:          common.SplitList(common.String(args, "to")),
		Cc:          common.SplitList(common.String(args, "cc")),
		Bcc:         common.SplitList(common.String(args, "bcc")),
		Subject:     common.String(args, "subject"),
		Body:        common.String(args, "body"),
		Attachments: attachments,
	}

	if draft {
		start := time.Now()
		draftID, err := client.CreateDraft(env)
		common.RecordOperation(ctx, sc.Metrics(), "gmail", "create_draft", start, err)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Draft created.\nDraft ID: %s\nTo: %s\nSubject: %s%s",
			draftID, strings.Join(env.To, ", "), env.Subject, attachmentNote(env)), nil
	}

	start := time.Now()
	messageID, err := client.Send(env)
	common.RecordOperation(ctx, sc.Metrics(), "gmail", "send", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Email sent.\nMessage ID: %s\nTo: %s\nSubject: %s%s",
		messageID, strings.Join(env.To, ", "), env.Subject, attachmentNote(env)), nil
}

func attachmentNote(env gmail.Envelope) string {
	if len(env.Attachments) == 0 {
		return ""
	}
	names := make([]string, len(env.Attachments))
	for i, att := range env.Attachments {
		names[i] = att.Name
	}
	return fmt.Sprintf("\nAttachments: %s", strings.Join(names, ", "))
}

func handleList(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	query := common.String(args, "query")
	maxResults := int64(common.Number(args, "max_results"))

	start := time.Now()
	messages, err := client.ListMessages(query, maxResults)
	common.RecordOperation(ctx, sc.Metrics(), "gmail", "list_messages", start, err)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "No messages found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d message(s):\n", len(messages))
	for _, m := range messages {
		fmt.Fprintf(&b, "\nID: %s\nFrom: %s\nSubject: %s\nDate: %s\n%s\n",
			m.ID, m.From, m.Subject, m.Date.Format("2006-01-02 15:04"), m.Snippet)
	}
	return b.String(), nil
}

func handleDelete(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	messageID := common.String(args, "message_id")
	start := time.Now()
	err := client.DeleteMessage(messageID)
	common.RecordOperation(ctx, sc.Metrics(), "gmail", "delete_message", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Message %s moved to trash.", messageID), nil
}
