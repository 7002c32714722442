// Package mail_tools registers the Gmail tool family: sending mail,
// creating drafts, listing and deleting messages.
//
// Sending tools are attachment-aware: before reading explicit
// arguments they consume any attachments staged on the invoking
// session, so files uploaded with a chat turn ride along on the next
// outgoing mail exactly once.
package mail_tools
