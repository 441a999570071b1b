package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const metricNamespace = "Reach/Backend"

const flushTimeout = 5 * time.Second

// Metrics publishes request metrics to CloudWatch. Datapoints are sent on
// a buffered channel and flushed by a background goroutine; when the
// buffer is full the datapoint is dropped rather than blocking a handler.
type Metrics struct {
	client  *cloudwatch.Client
	logger  *zap.Logger
	data    chan types.MetricDatum
	done    chan struct{}
	enabled bool
}

// NewMetrics creates a Metrics publisher. A nil client (metrics disabled)
// yields a no-op instance.
func NewMetrics(client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	m := &Metrics{
		client:  client,
		logger:  logger,
		data:    make(chan types.MetricDatum, 256),
		done:    make(chan struct{}),
		enabled: client != nil,
	}
	if m.enabled {
		go m.flushLoop()
	}
	return m
}

// RecordRequest records one handled HTTP request.
func (m *Metrics) RecordRequest(route string, status int, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	dims := []types.Dimension{
		{Name: aws.String("Route"), Value: aws.String(route)},
		{Name: aws.String("StatusClass"), Value: aws.String(statusClass(status))},
	}
	m.put(types.MetricDatum{
		MetricName: aws.String("RequestCount"),
		Dimensions: dims,
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(1),
	})
	m.put(types.MetricDatum{
		MetricName: aws.String("RequestLatency"),
		Dimensions: dims,
		Unit:       types.StandardUnitMilliseconds,
		Value:      aws.Float64(float64(elapsed.Milliseconds())),
	})
}

// Close stops the flush goroutine. Buffered datapoints are dropped.
func (m *Metrics) Close() {
	if m.enabled {
		close(m.done)
	}
}

func (m *Metrics) put(d types.MetricDatum) {
	select {
	case m.data <- d:
	default:
	}
}

func (m *Metrics) flushLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	batch := make([]types.MetricDatum, 0, 20)
	for {
		select {
		case d := <-m.data:
			batch = append(batch, d)
			if len(batch) == cap(batch) {
				batch = m.flush(batch)
			}
		case <-ticker.C:
			batch = m.flush(batch)
		case <-m.done:
			m.flush(batch)
			return
		}
	}
}

func (m *Metrics) flush(batch []types.MetricDatum) []types.MetricDatum {
	if len(batch) == 0 {
		return batch
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(metricNamespace),
		MetricData: batch,
	})
	if err != nil {
		m.logger.Warn("Failed to publish metrics", zap.Error(err))
	}
	return batch[:0]
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
