// Package logging provides structured logging utilities for the deskmate
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (session ID anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Log with standard attributes:
//
//	logger.Info("email sent", logging.Operation("gmail.send"), logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("chat turn", logging.SessionHash(sessionID))
//
// # Security Considerations
//
//   - Session IDs are hashed to prevent PII leakage while still allowing
//     correlation across log entries
//   - Tokens are never logged directly
package logging
