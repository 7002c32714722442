// Package server provides the serving surfaces of the assistant: the
// shared ServerContext with lazily created service clients, the HTTP
// API (chat, mail, health), the MCP stdio bridge and the dedicated
// metrics listener.
package server
