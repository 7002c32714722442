package common

import "strings"

// String extracts a string argument, returning "" when absent.
func String(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// Bool extracts a boolean argument, returning false when absent.
func Bool(args map[string]any, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

// Number extracts a numeric argument, returning 0 when absent.
func Number(args map[string]any, key string) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return 0
}

// SplitList splits a comma-separated list argument into trimmed,
// non-empty entries.
func SplitList(s string) []string {
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

// AccountFromArgs resolves the Google account a tool call targets:
// the explicit "account" argument when present, "default" otherwise.
func AccountFromArgs(args map[string]any) string {
	if account := String(args, "account"); account != "" {
		return account
	}
	return "default"
}
