package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/deskmate/deskmate/internal/calendar"
	"github.com/deskmate/deskmate/internal/docs"
	"github.com/deskmate/deskmate/internal/gmail"
	"github.com/deskmate/deskmate/internal/google"
	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/logging"
	"github.com/deskmate/deskmate/internal/notion"
	"github.com/deskmate/deskmate/internal/session"
	"github.com/deskmate/deskmate/internal/sheets"
	"github.com/deskmate/deskmate/internal/tasks"
)

// ServerContext holds the shared state of a running server: the session
// store, metrics, and per-account service clients created lazily on
// first use.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	sessions *session.Store
	metrics  *instrumentation.Metrics

	mu              sync.Mutex
	gmailClients    map[string]*gmail.Client
	calendarClients map[string]*calendar.Client
	sheetsClients   map[string]*sheets.Client
	docsClients     map[string]*docs.Client
	tasksClients    map[string]*tasks.Client
	notionClient    *notion.Client
	shutdown        bool
}

// NewServerContext creates a server context. The session store and
// metrics may be nil in tests.
func NewServerContext(ctx context.Context, sessions *session.Store, metrics *instrumentation.Metrics, logger *slog.Logger) *ServerContext {
	if logger == nil {
		logger = slog.Default()
	}
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		logger:          logger,
		sessions:        sessions,
		metrics:         metrics,
		gmailClients:    make(map[string]*gmail.Client),
		calendarClients: make(map[string]*calendar.Client),
		sheetsClients:   make(map[string]*sheets.Client),
		docsClients:     make(map[string]*docs.Client),
		tasksClients:    make(map[string]*tasks.Client),
	}
}

// Context returns the server's shutdown-scoped context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Sessions returns the session store.
func (sc *ServerContext) Sessions() *session.Store {
	return sc.sessions
}

// Metrics returns the metrics recorder.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// HasGoogleToken reports whether the default account has a stored
// OAuth token.
func (sc *ServerContext) HasGoogleToken() bool {
	return google.HasToken()
}

// GmailClientForAccount returns the Gmail client for an account,
// creating and caching it on first use. Returns nil when the account
// has no stored token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client
	}
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Gmail client",
			logging.Service("gmail"), logging.Err(err))
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account.
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClient sets the Gmail client for the default account.
func (sc *ServerContext) SetGmailClient(client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients["default"] = client
}

// CalendarClientForAccount returns the Calendar client for an account,
// creating and caching it on first use. Returns nil when the account
// has no stored token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client
	}
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Calendar client",
			logging.Service("calendar"), logging.Err(err))
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClient sets the Calendar client for the default account.
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients["default"] = client
}

// SheetsClientForAccount returns the Sheets client for an account,
// creating and caching it on first use. Returns nil when the account
// has no stored token.
func (sc *ServerContext) SheetsClientForAccount(account string) *sheets.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.sheetsClients[account]; ok {
		return client
	}
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := sheets.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Sheets client",
			logging.Service("sheets"), logging.Err(err))
		return nil
	}

	sc.sheetsClients[account] = client
	return client
}

// SheetsClient returns the Sheets client for the default account.
func (sc *ServerContext) SheetsClient() *sheets.Client {
	return sc.SheetsClientForAccount("default")
}

// SetSheetsClient sets the Sheets client for the default account.
func (sc *ServerContext) SetSheetsClient(client *sheets.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sheetsClients["default"] = client
}

// DocsClientForAccount returns the Docs client for an account, creating
// and caching it on first use. Returns nil when the account has no
// stored token.
func (sc *ServerContext) DocsClientForAccount(account string) *docs.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.docsClients[account]; ok {
		return client
	}
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := docs.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Docs client",
			logging.Service("docs"), logging.Err(err))
		return nil
	}

	sc.docsClients[account] = client
	return client
}

// DocsClient returns the Docs client for the default account.
func (sc *ServerContext) DocsClient() *docs.Client {
	return sc.DocsClientForAccount("default")
}

// SetDocsClient sets the Docs client for the default account.
func (sc *ServerContext) SetDocsClient(client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients["default"] = client
}

// TasksClientForAccount returns the Tasks client for an account,
// creating and caching it on first use. Returns nil when the account
// has no stored token.
func (sc *ServerContext) TasksClientForAccount(account string) *tasks.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.tasksClients[account]; ok {
		return client
	}
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := tasks.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Tasks client",
			logging.Service("tasks"), logging.Err(err))
		return nil
	}

	sc.tasksClients[account] = client
	return client
}

// TasksClient returns the Tasks client for the default account.
func (sc *ServerContext) TasksClient() *tasks.Client {
	return sc.TasksClientForAccount("default")
}

// SetTasksClient sets the Tasks client for the default account.
func (sc *ServerContext) SetTasksClient(client *tasks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tasksClients["default"] = client
}

// NotionClient returns the Notion client, creating it on first use.
// Returns nil when no integration token is configured.
func (sc *ServerContext) NotionClient() *notion.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.notionClient != nil {
		return sc.notionClient
	}

	client, err := notion.NewClient("")
	if err != nil {
		sc.logger.Warn("failed to create Notion client",
			logging.Service("notion"), logging.Err(err))
		return nil
	}

	sc.notionClient = client
	return client
}

// SetNotionClient sets the Notion client.
func (sc *ServerContext) SetNotionClient(client *notion.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.notionClient = client
}

// Shutdown cancels the server context and releases cached clients.
// Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()

	sc.gmailClients = make(map[string]*gmail.Client)
	sc.calendarClients = make(map[string]*calendar.Client)
	sc.sheetsClients = make(map[string]*sheets.Client)
	sc.docsClients = make(map[string]*docs.Client)
	sc.tasksClients = make(map[string]*tasks.Client)
	sc.notionClient = nil
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}
