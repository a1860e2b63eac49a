package inventory

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// window is the CloudWatch query range shared by every metric of a run.
type window struct {
	start, end time.Time
}

func newWindow(now time.Time, daysBack int) window {
	end := now.UTC()
	return window{start: end.AddDate(0, 0, -daysBack), end: end}
}

// averageMetric returns the mean of the daily averages of a metric over w,
// or nil when CloudWatch fails or has no datapoints. nil is "not measured",
// which keeps utilization rules from firing on missing data.
func averageMetric(
	ctx context.Context,
	cw cwClient,
	namespace, metric string,
	dims []cwtypes.Dimension,
	w window,
) *float64 {
	out, err := cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metric),
		Dimensions: dims,
		StartTime:  aws.Time(w.start),
		EndTime:    aws.Time(w.end),
		Period:     aws.Int32(86400),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil || len(out.Datapoints) == 0 {
		return nil
	}

	var total float64
	var count int
	for _, dp := range out.Datapoints {
		if dp.Average != nil {
			total += *dp.Average
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := total / float64(count)
	return &avg
}

// percent clamps a utilization reading into [0, 100].
func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}

func dimension(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}
