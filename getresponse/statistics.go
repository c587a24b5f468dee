package getresponse

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-getresponse/internal/transport"
)

// Metric selects a campaign statistics report.
type Metric string

const (
	MetricListSize      Metric = "list-size"
	MetricLocations     Metric = "locations"
	MetricOrigins       Metric = "origins"
	MetricRemovals      Metric = "removals"
	MetricSubscriptions Metric = "subscriptions"
	MetricBalance       Metric = "balance"
	MetricSummary       Metric = "summary"
)

// IsValid reports whether m is a metric the API serves.
func (m Metric) IsValid() bool {
	switch m {
	case MetricListSize, MetricLocations, MetricOrigins, MetricRemovals,
		MetricSubscriptions, MetricBalance, MetricSummary:
		return true
	}
	return false
}

// GroupBy is the aggregation period of a statistics report.
type GroupBy string

const (
	GroupByHour  GroupBy = "hour"
	GroupByDay   GroupBy = "day"
	GroupByMonth GroupBy = "month"
	GroupByTotal GroupBy = "total"
)

// IsValid reports whether g is an aggregation the API accepts.
func (g GroupBy) IsValid() bool {
	switch g {
	case GroupByHour, GroupByDay, GroupByMonth, GroupByTotal:
		return true
	}
	return false
}

// StatisticsOptions narrows a statistics report. Zero values are omitted,
// except GroupBy which defaults to GroupByDay.
//
// From and To accept a time.Time, a Unix timestamp (int, int64) or a string
// holding a date (2006-01-02), an RFC3339 timestamp or a Unix timestamp. They
// are sent as UTC calendar dates.
type StatisticsOptions struct {
	GroupBy GroupBy
	From    any
	To      any
	// Fields is a comma separated list of response fields to return.
	Fields string
}

// GetCampaignStatistics returns the metric report for a campaign. The shape of
// the result depends on the metric and is returned as decoded JSON.
func (c *Client) GetCampaignStatistics(ctx context.Context, campaignID string, metric Metric, opts StatisticsOptions) (any, error) {
	const op = "get campaign statistics"
	if err := requireParam(op, "campaign id", campaignID); err != nil {
		return nil, err
	}
	if !metric.IsValid() {
		return nil, fmt.Errorf("[getresponse %s] %w: unknown metric %q", op, ErrMissingParameter, metric)
	}
	groupBy := opts.GroupBy
	if groupBy == "" {
		groupBy = GroupByDay
	}
	if !groupBy.IsValid() {
		return nil, fmt.Errorf("[getresponse %s] %w: unknown group by %q", op, ErrMissingParameter, groupBy)
	}

	payload := transport.Payload{
		"query[campaignId]": campaignID,
		"query[groupBy]":    string(groupBy),
	}
	from, err := normalizeDate(opts.From)
	if err != nil {
		return nil, fmt.Errorf("[getresponse %s] from: %w", op, err)
	}
	if from != "" {
		payload["query[createdOn][from]"] = from
	}
	to, err := normalizeDate(opts.To)
	if err != nil {
		return nil, fmt.Errorf("[getresponse %s] to: %w", op, err)
	}
	if to != "" {
		payload["query[createdOn][to]"] = to
	}
	if opts.Fields != "" {
		payload["fields"] = opts.Fields
	}

	return c.call(ctx, op, "/campaigns/statistics/"+url.PathEscape(string(metric)), payload)
}

const dateLayout = "2006-01-02"

var dateInputLayouts = []string{
	dateLayout,
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// normalizeDate renders v as a UTC calendar date. An empty string is returned
// for nil, zero times and blank strings.
func normalizeDate(v any) (string, error) {
	switch d := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		if d.IsZero() {
			return "", nil
		}
		return d.UTC().Format(dateLayout), nil
	case int:
		return fromUnix(int64(d)), nil
	case int64:
		return fromUnix(d), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return "", nil
		}
		for _, layout := range dateInputLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(dateLayout), nil
			}
		}
		if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromUnix(secs), nil
		}
		return "", fmt.Errorf("%w: unrecognised date %q", ErrMissingParameter, d)
	default:
		return "", fmt.Errorf("%w: unsupported date type %T", ErrMissingParameter, v)
	}
}

func fromUnix(secs int64) string {
	return time.Unix(secs, 0).UTC().Format(dateLayout)
}
