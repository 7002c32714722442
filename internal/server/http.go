package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/deskmate/deskmate/internal/agent"
	"github.com/deskmate/deskmate/internal/gmail"
	"github.com/deskmate/deskmate/internal/logging"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/tools"
)

// API is the HTTP surface of the assistant: conversational turns on
// /chat, direct mail operations on /mail/*, and /health.
type API struct {
	sc       *ServerContext
	executor *agent.Executor
	registry *tools.Registry
}

// NewAPI creates the HTTP API.
func NewAPI(sc *ServerContext, executor *agent.Executor, registry *tools.Registry) *API {
	return &API{sc: sc, executor: executor, registry: registry}
}

// Handler builds the route table.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", a.handleChat)
	mux.HandleFunc("POST /mail/send", a.handleMailSend)
	mux.HandleFunc("POST /mail/draft", a.handleMailDraft)
	mux.HandleFunc("GET /health", a.handleHealth)
	return a.instrument(mux)
}

var tracer trace.Tracer = otel.Tracer("deskmate/server")

// instrument wraps the mux with request tracing, logging and HTTP
// metrics.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		next.ServeHTTP(rec, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		span.End()

		if m := a.sc.Metrics(); m != nil {
			m.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
		}
		a.sc.Logger().Debug("http request",
			logging.Operation(r.Method+" "+r.URL.Path),
			logging.Status(fmt.Sprintf("%d", rec.status)),
			logging.Duration(time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// wireAttachment is the attachment shape on the wire: base64 data,
// optionally carrying a data-URI prefix.
type wireAttachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
	Size int64  `json:"size"`
}

var dataURIPattern = regexp.MustCompile(`^data:[^;]*;base64,`)

// decodeAttachment turns a wire attachment into binary form. The
// data-URI prefix and embedded whitespace are tolerated.
func decodeAttachment(att wireAttachment) (session.Attachment, error) {
	payload := dataURIPattern.ReplaceAllString(att.Data, "")
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return session.Attachment{}, fmt.Errorf("attachment %s is not valid base64: %w", att.Name, err)
		}
	}

	return session.Attachment{
		Name:     att.Name,
		MIMEType: att.Type,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

func decodeAttachments(atts []wireAttachment) ([]session.Attachment, error) {
	if len(atts) == 0 {
		return nil, nil
	}
	out := make([]session.Attachment, 0, len(atts))
	for _, att := range atts {
		decoded, err := decodeAttachment(att)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

type chatRequest struct {
	Message     string           `json:"message"`
	SessionID   string           `json:"sessionId"`
	Attachments []wireAttachment `json:"attachments"`
}

type chatResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Message: "invalid request body", Success: false})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Message: "message is required", Success: false})
		return
	}
	if !a.sc.HasGoogleToken() {
		writeJSON(w, http.StatusUnauthorized, chatResponse{
			Message:   "Google authentication required. Run: deskmate auth <authorization-code>",
			Success:   false,
			SessionID: req.SessionID,
		})
		return
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Message: err.Error(), Success: false, SessionID: req.SessionID})
		return
	}

	sessionID := a.sc.Sessions().GetOrCreate(req.SessionID)

	reply, err := a.executor.Run(r.Context(), sessionID, req.Message, attachments)
	if err != nil && !errors.Is(err, agent.ErrIterationLimit) {
		a.sc.Logger().Error("chat turn failed",
			logging.Operation("chat"),
			logging.SessionHash(sessionID),
			logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Message:   reply.Message,
			Success:   false,
			SessionID: sessionID,
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message:   reply.Message,
		Success:   reply.Success,
		SessionID: sessionID,
	})
}

type mailRequest struct {
	To          string           `json:"to"`
	Cc          string           `json:"cc"`
	Bcc         string           `json:"bcc"`
	Subject     string           `json:"subject"`
	Body        string           `json:"body"`
	Attachments []wireAttachment `json:"attachments"`
}

type mailResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	DraftID string `json:"draftId,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a *API) handleMailSend(w http.ResponseWriter, r *http.Request) {
	a.handleMail(w, r, false)
}

func (a *API) handleMailDraft(w http.ResponseWriter, r *http.Request) {
	a.handleMail(w, r, true)
}

func (a *API) handleMail(w http.ResponseWriter, r *http.Request, draft bool) {
	var req mailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, mailResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.To) == "" {
		writeJSON(w, http.StatusBadRequest, mailResponse{Error: "to is required"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		writeJSON(w, http.StatusBadRequest, mailResponse{Error: "subject is required"})
		return
	}

	client := a.sc.GmailClient()
	if client == nil {
		writeJSON(w, http.StatusUnauthorized, mailResponse{Error: "Google authentication required"})
		return
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, mailResponse{Error: err.Error()})
		return
	}

	env := gmail.Envelope{
		To:          splitAddresses(req.To),
		Cc:          splitAddresses(req.Cc),
		Bcc:         splitAddresses(req.Bcc),
		Subject:     req.Subject,
		Body:        req.Body,
		Attachments: attachments,
	}

	if draft {
		draftID, err := client.CreateDraft(env)
		if err != nil {
			a.sc.Logger().Error("draft creation failed", logging.Service("gmail"), logging.Err(err))
			writeJSON(w, http.StatusInternalServerError, mailResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, mailResponse{Success: true, DraftID: draftID})
		return
	}

	id, err := client.Send(env)
	if err != nil {
		a.sc.Logger().Error("mail send failed", logging.Service("gmail"), logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, mailResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, mailResponse{Success: true, ID: id})
}

func splitAddresses(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type healthResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	ToolCount     int    `json:"toolCount"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	code := http.StatusOK
	if a.sc.IsShutdown() {
		status = "shutting down"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:        status,
		Authenticated: a.sc.HasGoogleToken(),
		ToolCount:     a.registry.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
