package metrics

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/golang/snappy"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/prometheus/prompb"
	"go.uber.org/zap"
)

var remoteWriteClient = &http.Client{Timeout: 30 * time.Second}

// StartRemoteWrite pushes the registry to Mimir every flush interval until
// ctx ends. Failed pushes are logged and retried on the next tick.
func (c *Collector) StartRemoteWrite(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.writeToMimir(ctx); err != nil {
				logger.Warn("Remote write failed", zap.Error(err))
			}
		}
	}
}

func (c *Collector) writeToMimir(ctx context.Context) error {
	mfs, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	samples := metricsToSamples(mfs, time.Now())
	if len(samples) == 0 {
		return nil
	}

	for i := 0; i < len(samples); i += c.config.BatchSize {
		end := min(i+c.config.BatchSize, len(samples))
		if err := c.sendBatch(ctx, samples[i:end]); err != nil {
			return fmt.Errorf("failed to send batch: %w", err)
		}
	}

	return nil
}

func metricsToSamples(mfs []*dto.MetricFamily, now time.Time) []prompb.TimeSeries {
	var series []prompb.TimeSeries
	ts := now.UnixMilli()

	add := func(name string, labels []prompb.Label, value float64, extra ...prompb.Label) {
		all := make([]prompb.Label, 0, len(labels)+len(extra)+1)
		all = append(all, prompb.Label{Name: "__name__", Value: name})
		all = append(all, labels...)
		all = append(all, extra...)
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		series = append(series, prompb.TimeSeries{
			Labels:  all,
			Samples: []prompb.Sample{{Value: value, Timestamp: ts}},
		})
	}

	for _, mf := range mfs {
		name := mf.GetName()
		for _, m := range mf.Metric {
			labels := make([]prompb.Label, 0, len(m.Label))
			for _, l := range m.Label {
				labels = append(labels, prompb.Label{Name: l.GetName(), Value: l.GetValue()})
			}

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				add(name, labels, m.Counter.GetValue())
			case dto.MetricType_GAUGE:
				add(name, labels, m.Gauge.GetValue())
			case dto.MetricType_HISTOGRAM:
				hist := m.Histogram
				for _, bucket := range hist.Bucket {
					add(name+"_bucket", labels, float64(bucket.GetCumulativeCount()),
						prompb.Label{Name: "le", Value: fmt.Sprintf("%g", bucket.GetUpperBound())})
				}
				add(name+"_bucket", labels, float64(hist.GetSampleCount()),
					prompb.Label{Name: "le", Value: fmt.Sprintf("%g", math.Inf(1))})
				add(name+"_sum", labels, hist.GetSampleSum())
				add(name+"_count", labels, float64(hist.GetSampleCount()))
			}
		}
	}

	return series
}

func (c *Collector) sendBatch(ctx context.Context, samples []prompb.TimeSeries) error {
	req := &prompb.WriteRequest{
		Timeseries: samples,
	}

	data, err := req.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/api/v1/push", bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	if c.config.TenantID != "" {
		httpReq.Header.Set(c.config.TenantHeader, c.config.TenantID)
	}
	if c.config.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}

	resp, err := remoteWriteClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remote write failed with status %d", resp.StatusCode)
	}

	return nil
}
