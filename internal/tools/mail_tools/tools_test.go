package mail_tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/deskmate/deskmate/internal/gmail"
	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

type fakeMailClient struct {
	sent    []gmail.Envelope
	drafted []gmail.Envelope
	deleted []string
	list    []gmail.MessageSummary
}

func (f *fakeMailClient) Send(env gmail.Envelope) (string, error) {
	f.sent = append(f.sent, env)
	return "msg-1", nil
}

func (f *fakeMailClient) CreateDraft(env gmail.Envelope) (string, error) {
	f.drafted = append(f.drafted, env)
	return "draft-1", nil
}

func (f *fakeMailClient) ListMessages(query string, maxResults int64) ([]gmail.MessageSummary, error) {
	return f.list, nil
}

func (f *fakeMailClient) DeleteMessage(messageID string) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func newTestRegistry(t *testing.T, fake mailClient) (*tools.Registry, *server.ServerContext) {
	t.Helper()

	store := session.NewStore(time.Hour, nil)
	t.Cleanup(store.Stop)

	sc := server.NewServerContext(context.Background(), store, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext, string) mailClient { return fake }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	reg.Seal()
	return reg, sc
}

func TestRegisterProvidesMailTools(t *testing.T) {
	reg, _ := newTestRegistry(t, &fakeMailClient{})

	want := []string{"send_email", "create_draft", "list_messages", "delete_message"}
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

func TestSendEmailConsumesStagedAttachments(t *testing.T) {
	fake := &fakeMailClient{}
	reg, sc := newTestRegistry(t, fake)

	id := sc.Sessions().GetOrCreate("")
	sc.Sessions().StageAttachments(id, []session.Attachment{
		{Name: "report.pdf", MIMEType: "application/pdf", Data: []byte("pdf")},
	})

	ctx := session.WithSessionID(context.Background(), id)
	args := map[string]any{"to": "a@x.com", "subject": "Hi", "body": "Hello"}

	result := reg.Invoke(ctx, "send_email", args)
	if !result.OK {
		t.Fatalf("send_email failed: %s", result.Message)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d envelopes, want 1", len(fake.sent))
	}
	if len(fake.sent[0].Attachments) != 1 || fake.sent[0].Attachments[0].Name != "report.pdf" {
		t.Errorf("staged attachment not consumed into envelope: %+v", fake.sent[0].Attachments)
	}
	if !strings.Contains(result.Message, "report.pdf") {
		t.Errorf("result does not mention the attachment: %s", result.Message)
	}

	// A second send on the same session must not see the attachment again.
	result = reg.Invoke(ctx, "send_email", args)
	if !result.OK {
		t.Fatalf("second send_email failed: %s", result.Message)
	}
	if len(fake.sent[1].Attachments) != 0 {
		t.Errorf("attachment consumed twice: %+v", fake.sent[1].Attachments)
	}
}

func TestSendEmailIgnoresOtherSessionsAttachments(t *testing.T) {
	fake := &fakeMailClient{}
	reg, sc := newTestRegistry(t, fake)

	alice := sc.Sessions().GetOrCreate("")
	bob := sc.Sessions().GetOrCreate("")
	sc.Sessions().StageAttachments(bob, []session.Attachment{{Name: "bobs.txt", Data: []byte("b")}})

	ctx := session.WithSessionID(context.Background(), alice)
	result := reg.Invoke(ctx, "send_email", map[string]any{"to": "a@x.com", "subject": "Hi"})
	if !result.OK {
		t.Fatalf("send_email failed: %s", result.Message)
	}
	if len(fake.sent[0].Attachments) != 0 {
		t.Errorf("envelope picked up another session's attachments: %+v", fake.sent[0].Attachments)
	}
	if atts := sc.Sessions().ConsumeAttachments(bob); len(atts) != 1 {
		t.Errorf("bob's staging area was drained: %d left", len(atts))
	}
}

func TestSendEmailMissingRequiredField(t *testing.T) {
	fake := &fakeMailClient{}
	reg, _ := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "send_email", map[string]any{"subject": "Hi"})
	if result.OK {
		t.Fatal("send_email without recipients succeeded")
	}
	if len(fake.sent) != 0 {
		t.Error("handler ran despite failed validation")
	}
}

func TestCreateDraft(t *testing.T) {
	fake := &fakeMailClient{}
	reg, _ := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "create_draft", map[string]any{
		"to":      "a@x.com, b@x.com",
		"subject": "Plan",
		"body":    "Draft body",
	})
	if !result.OK {
		t.Fatalf("create_draft failed: %s", result.Message)
	}
	if len(fake.drafted) != 1 {
		t.Fatalf("drafted %d envelopes, want 1", len(fake.drafted))
	}
	if len(fake.drafted[0].To) != 2 {
		t.Errorf("comma-separated recipients not split: %v", fake.drafted[0].To)
	}
	if !strings.Contains(result.Message, "draft-1") {
		t.Errorf("result does not carry the draft ID: %s", result.Message)
	}
}

func TestListMessages(t *testing.T) {
	fake := &fakeMailClient{
		list: []gmail.MessageSummary{
			{ID: "m1", From: "alice@example.com", Subject: "Lunch", Date: time.Now(), Snippet: "Tomorrow?"},
		},
	}
	reg, _ := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "list_messages", map[string]any{"query": "is:unread"})
	if !result.OK {
		t.Fatalf("list_messages failed: %s", result.Message)
	}
	for _, want := range []string{"m1", "alice@example.com", "Lunch"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("result missing %q: %s", want, result.Message)
		}
	}
}

func TestDeleteMessage(t *testing.T) {
	fake := &fakeMailClient{}
	reg, _ := newTestRegistry(t, fake)

	result := reg.Invoke(context.Background(), "delete_message", map[string]any{"message_id": "m9"})
	if !result.OK {
		t.Fatalf("delete_message failed: %s", result.Message)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "m9" {
		t.Errorf("deleted = %v, want [m9]", fake.deleted)
	}
}

func TestUnauthenticatedSendStillConsumesStaging(t *testing.T) {
	store := session.NewStore(time.Hour, nil)
	t.Cleanup(store.Stop)
	sc := server.NewServerContext(context.Background(), store, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext, string) mailClient { return nil }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	id := store.GetOrCreate("")
	store.StageAttachments(id, []session.Attachment{{Name: "secret.pdf", Data: []byte("p")}})

	ctx := session.WithSessionID(context.Background(), id)
	result := reg.Invoke(ctx, "send_email", map[string]any{"to": "a@x.com", "subject": "Hi"})
	if result.OK {
		t.Fatal("send_email succeeded without a token")
	}

	// The failed send must not leave the attachment staged for whatever
	// tool invocation happens to come next on this session.
	if atts := store.ConsumeAttachments(id); len(atts) != 0 {
		t.Errorf("attachments still staged after failed send: %+v", atts)
	}
}

func TestSendEmailRecordsServiceOperation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := instrumentation.NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}

	store := session.NewStore(time.Hour, nil)
	t.Cleanup(store.Stop)
	sc := server.NewServerContext(context.Background(), store, metrics, nil)
	t.Cleanup(sc.Shutdown)

	fake := &fakeMailClient{}
	orig := clientFor
	clientFor = func(*server.ServerContext, string) mailClient { return fake }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	reg.Seal()

	result := reg.Invoke(context.Background(), "send_email", map[string]any{"to": "a@x.com", "subject": "Hi"})
	if !result.OK {
		t.Fatalf("send_email failed: %s", result.Message)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "service_operations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("service_operations_total has unexpected data %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				if svc, ok := dp.Attributes.Value(attribute.Key("service")); ok && svc.AsString() == "gmail" {
					total += dp.Value
				}
			}
		}
	}
	if total != 1 {
		t.Errorf("gmail service operations recorded = %d, want 1", total)
	}
}

func TestAuthRequired(t *testing.T) {
	store := session.NewStore(time.Hour, nil)
	t.Cleanup(store.Stop)
	sc := server.NewServerContext(context.Background(), store, nil, nil)
	t.Cleanup(sc.Shutdown)

	orig := clientFor
	clientFor = func(*server.ServerContext, string) mailClient { return nil }
	t.Cleanup(func() { clientFor = orig })

	reg := tools.NewRegistry(nil)
	if err := Register(reg, sc); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	result := reg.Invoke(context.Background(), "send_email", map[string]any{"to": "a@x.com", "subject": "Hi"})
	if result.OK {
		t.Fatal("send_email succeeded without a token")
	}
	if !strings.Contains(result.Message, "authorize") {
		t.Errorf("result does not carry the authorization walkthrough: %s", result.Message)
	}
}
