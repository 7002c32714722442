// Package notion provides a Notion API adapter for searching pages,
// creating pages and querying databases.
//
// Notion publishes no Go SDK, so this is a thin REST client over the
// versioned HTTP API. The integration token comes from NOTION_TOKEN
// unless set explicitly.
package notion
