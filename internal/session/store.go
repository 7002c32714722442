package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskmate/deskmate/internal/instrumentation"
	"github.com/deskmate/deskmate/internal/logging"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session's history. Immutable once appended.
type Turn struct {
	Role    Role
	Content string
}

// Attachment is a file uploaded in a chat turn, held until the next tool
// invocation that accepts attachments consumes it.
type Attachment struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// session holds the mutable state for one session ID. All fields are
// guarded by the owning Store's mutex; runLock serializes agent runs.
type session struct {
	id         string
	history    []Turn
	staged     []Attachment
	runLock    chan struct{}
	lastAccess time.Time
}

// DefaultTTL is how long an idle session is kept before eviction.
const DefaultTTL = 24 * time.Hour

const sweepInterval = 10 * time.Minute

// Store manages all sessions. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	done     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store with the given idle TTL. A zero or
// negative TTL falls back to DefaultTTL.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// SetMetrics attaches a metrics recorder tracking the live session gauge.
// Must be called before the store is handed to concurrent users.
func (s *Store) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// GetOrCreate returns the session for id, creating it on first reference.
// An empty id is replaced with a generated UUID; the (possibly generated)
// id is returned so callers can hand it back to the client.
func (s *Store) GetOrCreate(id string) string {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(id)
	return id
}

func (s *Store) getOrCreateLocked(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{
			id:      id,
			runLock: make(chan struct{}, 1),
		}
		s.sessions[id] = sess
		s.metrics.AddActiveSessions(context.Background(), 1)
		s.logger.Debug("session created", logging.SessionHash(id))
	}
	sess.lastAccess = time.Now()
	return sess
}

// AppendTurn appends a turn to the session's history. Order of appends is
// the order of replay; turns are never reordered or mutated.
func (s *Store) AppendTurn(id string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.history = append(sess.history, Turn{Role: role, Content: content})
}

// History returns a copy of the session's ordered history.
func (s *Store) History(id string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	out := make([]Turn, len(sess.history))
	copy(out, sess.history)
	return out
}

// StageAttachments replaces any previously staged, unconsumed attachments
// for the session.
func (s *Store) StageAttachments(id string, atts []Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.staged = atts
}

// ConsumeAttachments returns and clears the session's staged attachments
// atomically. Consumption is scoped strictly to the given session ID: an
// attachment staged by one session is never visible to another.
func (s *Store) ConsumeAttachments(id string) []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	atts := sess.staged
	sess.staged = nil
	return atts
}

// Acquire takes the session's run lock, guaranteeing at most one in-flight
// agent run per session ID. It blocks until the lock is available or ctx is
// done, in which case it returns ctx.Err().
func (s *Store) Acquire(ctx context.Context, id string) error {
	s.mu.Lock()
	sess := s.getOrCreateLocked(id)
	s.mu.Unlock()

	select {
	case sess.runLock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases the session's run lock taken by Acquire.
func (s *Store) Release(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-sess.runLock:
	default:
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep periodically evicts sessions idle for longer than the TTL.
func (s *Store) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.done:
			return
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	now := time.Now()
	evicted := 0
	for id, sess := range s.sessions {
		// A held run lock means an agent run is still in flight for this
		// session. Evicting it would drop history mid-run and orphan the
		// run's Release, so the sweep leaves it for a later pass.
		if len(sess.runLock) > 0 {
			continue
		}
		if now.Sub(sess.lastAccess) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.metrics.AddActiveSessions(context.Background(), int64(-evicted))
		s.logger.Info("evicted idle sessions", "count", evicted)
	}
}

// Stop halts the eviction sweeper. Sessions remain readable after Stop.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

type ctxKey struct{}

// WithSessionID returns a context carrying the session ID for the current
// agent run. Tool handlers use SessionIDFromContext to scope attachment
// consumption to the invoking session.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SessionIDFromContext returns the session ID carried by ctx, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
