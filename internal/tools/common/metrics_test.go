package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/deskmate/deskmate/internal/instrumentation"
)

func TestRecordOperationStatus(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := instrumentation.NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}

	ctx := context.Background()
	RecordOperation(ctx, m, "gmail", "send", time.Now(), nil)
	RecordOperation(ctx, m, "gmail", "send", time.Now(), errors.New("boom"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name != "service_operations_total" {
				continue
			}
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("service_operations_total has unexpected data %T", metric.Data)
			}
			for _, dp := range sum.DataPoints {
				if status, ok := dp.Attributes.Value(attribute.Key("status")); ok {
					counts[status.AsString()] += dp.Value
				}
			}
		}
	}

	if counts[instrumentation.StatusSuccess] != 1 {
		t.Errorf("success count = %d, want 1", counts[instrumentation.StatusSuccess])
	}
	if counts[instrumentation.StatusError] != 1 {
		t.Errorf("error count = %d, want 1", counts[instrumentation.StatusError])
	}
}

func TestRecordOperationNilRecorder(t *testing.T) {
	// Tool handlers run with a nil recorder when metrics are disabled.
	RecordOperation(context.Background(), nil, "gmail", "send", time.Now(), nil)
}
