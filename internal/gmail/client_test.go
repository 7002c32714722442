package gmail

import (
	"context"
	"strings"
	"testing"
)

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		wantErr string
	}{
		{
			name:    "missing subject",
			env:     Envelope{To: []string{"a@x.com"}, Body: "Hello"},
			wantErr: "subject is required",
		},
		{
			name:    "missing recipients",
			env:     Envelope{Subject: "Hi", Body: "Hello"},
			wantErr: "recipient",
		},
	}

	var c Client
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Send(tt.env); err == nil {
				t.Fatal("Send() succeeded, want error")
			} else if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Send() error = %q, want it to mention %q", err, tt.wantErr)
			}

			if _, err := c.CreateDraft(tt.env); err == nil {
				t.Fatal("CreateDraft() succeeded, want error")
			} else if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CreateDraft() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteMessageValidation(t *testing.T) {
	var c Client
	if err := c.DeleteMessage(""); err == nil {
		t.Fatal("DeleteMessage(\"\") succeeded, want error")
	}
}

func TestNewClientForAccountWithProviderNilProvider(t *testing.T) {
	if _, err := NewClientForAccountWithProvider(context.Background(), "default", nil); err == nil {
		t.Fatal("nil token provider accepted, want error")
	}
}
