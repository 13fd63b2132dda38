package publish

import (
	"context"
	"fmt"
	"strings"
)

// Resolve selects a publisher from a target URL:
//
//	kafka://broker1:9092,broker2:9092/topic
//	s3://bucket/optional/prefix
//
// An empty target disables publishing and returns a nil Publisher.
func Resolve(ctx context.Context, target, region string) (Publisher, error) {
	if target == "" {
		return nil, nil
	}
	scheme, rest, ok := strings.Cut(target, "://")
	if !ok {
		return nil, fmt.Errorf("publish.Resolve: %q: missing scheme", target)
	}
	host, tail, _ := strings.Cut(rest, "/")
	tail = strings.Trim(tail, "/")

	switch strings.ToLower(scheme) {
	case "kafka":
		if host == "" || tail == "" {
			return nil, fmt.Errorf("publish.Resolve: %q: want kafka://brokers/topic", target)
		}
		k, err := NewKafka(strings.Split(host, ","), tail)
		if err != nil {
			return nil, err
		}
		return k, nil
	case "s3":
		if host == "" {
			return nil, fmt.Errorf("publish.Resolve: %q: want s3://bucket/prefix", target)
		}
		s, err := NewS3(ctx, region, host, tail)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("publish.Resolve: unsupported scheme %q", scheme)
	}
}
