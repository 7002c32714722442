// Package session implements per-session conversation state: ordered turn
// history, staged attachments, and a per-session run lock.
//
// A Store owns all session state behind an explicit API; the underlying maps
// are never exposed. History is append-only and replayed verbatim to the
// reasoning backend. Staged attachments are consumed at most once, scoped
// strictly to the session that staged them.
//
// Idle sessions are evicted by a background sweeper after a configurable
// TTL so that long-running deployments do not grow without bound.
package session
