package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
)

// Status values for metrics labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	activeSessions metric.Int64UpDownCounter

	chatTurnsTotal     metric.Int64Counter
	chatTurnDuration   metric.Float64Histogram
	chatTurnIterations metric.Int64Histogram

	reasoningCallsTotal metric.Int64Counter
	reasoningDuration   metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	serviceOperationsTotal   metric.Int64Counter
	serviceOperationDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of live conversation sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.chatTurnsTotal, err = meter.Int64Counter(
		"chat_turns_total",
		metric.WithDescription("Total number of completed chat turns"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turns_total counter: %w", err)
	}

	m.chatTurnDuration, err = meter.Float64Histogram(
		"chat_turn_duration_seconds",
		metric.WithDescription("End-to-end chat turn duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turn_duration_seconds histogram: %w", err)
	}

	m.chatTurnIterations, err = meter.Int64Histogram(
		"chat_turn_iterations",
		metric.WithDescription("Reasoning round trips per chat turn"),
		metric.WithUnit("{iteration}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_turn_iterations histogram: %w", err)
	}

	m.reasoningCallsTotal, err = meter.Int64Counter(
		"reasoning_calls_total",
		metric.WithDescription("Total number of reasoning backend calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_calls_total counter: %w", err)
	}

	m.reasoningDuration, err = meter.Float64Histogram(
		"reasoning_call_duration_seconds",
		metric.WithDescription("Reasoning backend call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_call_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"tool_invocation_duration_seconds",
		metric.WithDescription("Tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocation_duration_seconds histogram: %w", err)
	}

	m.serviceOperationsTotal, err = meter.Int64Counter(
		"service_operations_total",
		metric.WithDescription("Total number of external service operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service_operations_total counter: %w", err)
	}

	m.serviceOperationDuration, err = meter.Float64Histogram(
		"service_operation_duration_seconds",
		metric.WithDescription("External service operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with its status and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.Int(attrStatus, status),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// AddActiveSessions adjusts the live-session gauge by delta.
func (m *Metrics) AddActiveSessions(ctx context.Context, delta int64) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, delta)
}

// RecordChatTurn records one completed chat turn.
func (m *Metrics) RecordChatTurn(ctx context.Context, status string, iterations int, duration time.Duration) {
	if m == nil || m.chatTurnsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.chatTurnsTotal.Add(ctx, 1, attrs)
	m.chatTurnDuration.Record(ctx, duration.Seconds(), attrs)
	m.chatTurnIterations.Record(ctx, int64(iterations), attrs)
}

// RecordReasoningCall records one reasoning backend call.
func (m *Metrics) RecordReasoningCall(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.reasoningCallsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.reasoningCallsTotal.Add(ctx, 1, attrs)
	m.reasoningDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records one tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordServiceOperation records one external service API operation.
func (m *Metrics) RecordServiceOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.serviceOperationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.serviceOperationsTotal.Add(ctx, 1, attrs)
	m.serviceOperationDuration.Record(ctx, duration.Seconds(), attrs)
}
