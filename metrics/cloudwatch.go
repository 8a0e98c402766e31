// File: metrics/cloudwatch.go
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go.uber.org/zap"

	"car-showcase/logger"
)

// PutMetricData accepts at most this many datums per call.
const maxDatumsPerCall = 20

var _ Recorder = (*CloudWatch)(nil)

// CloudWatch queues datums in memory and publishes them from Run, so request
// handlers never wait on AWS.
type CloudWatch struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	now       func() time.Time

	mu      sync.Mutex
	pending []*cloudwatch.MetricDatum
}

func NewCloudWatch(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace, now: time.Now}
}

// NewCloudWatchForRegion builds a client from the default AWS credential chain.
func NewCloudWatchForRegion(region, namespace string) (*CloudWatch, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return NewCloudWatch(cloudwatch.New(sess), namespace), nil
}

func (c *CloudWatch) LoginAttempt(outcome string) {
	c.queue("LoginAttempts", "Outcome", outcome)
}

func (c *CloudWatch) Registration() {
	c.queue("Registrations", "", "")
}

func (c *CloudWatch) CatalogChange(entity, action string) {
	c.queue("CatalogChanges", "Entity", entity, "Action", action)
}

// queue records a count of one; dims are name/value pairs.
func (c *CloudWatch) queue(name string, dims ...string) {
	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Timestamp:  aws.Time(c.now()),
		Value:      aws.Float64(1),
		Unit:       aws.String(cloudwatch.StandardUnitCount),
	}
	for i := 0; i+1 < len(dims); i += 2 {
		if dims[i] == "" {
			continue
		}
		datum.Dimensions = append(datum.Dimensions, &cloudwatch.Dimension{
			Name:  aws.String(dims[i]),
			Value: aws.String(dims[i+1]),
		})
	}

	c.mu.Lock()
	c.pending = append(c.pending, datum)
	c.mu.Unlock()
}

// Pending reports how many datums are waiting to be published.
func (c *CloudWatch) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush publishes everything queued. Datums from a failed call are dropped and logged.
func (c *CloudWatch) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	var firstErr error
	for start := 0; start < len(batch); start += maxDatumsPerCall {
		end := start + maxDatumsPerCall
		if end > len(batch) {
			end = len(batch)
		}
		_, err := c.client.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(c.namespace),
			MetricData: batch[start:end],
		})
		if err != nil {
			logger.Error("CloudWatch metric publish failed", zap.Int("datums", end-start), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Run flushes every interval until ctx is cancelled, then flushes once more.
func (c *CloudWatch) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("cloudwatch: flush interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Flush(final)
			cancel()
			return nil
		case <-ticker.C:
			_ = c.Flush(ctx)
		}
	}
}
