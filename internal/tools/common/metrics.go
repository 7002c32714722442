package common

import (
	"context"
	"time"

	"github.com/deskmate/deskmate/internal/instrumentation"
)

// RecordOperation records one outbound service call on the metrics
// recorder. Safe to call with a nil recorder.
func RecordOperation(ctx context.Context, m *instrumentation.Metrics, service, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	m.RecordServiceOperation(ctx, service, operation, status, time.Since(start))
}
