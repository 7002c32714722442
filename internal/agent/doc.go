// Package agent runs the conversational loop: it feeds session history
// and the tool catalog to a reasoning backend, dispatches the tool
// calls the backend requests, and folds the results back in until the
// backend produces a final answer or the round-trip cap is hit.
package agent
