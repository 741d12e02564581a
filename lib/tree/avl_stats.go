package tree

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	AVLTreeStatsName = "xavl/tree"
)

type avlTreeStats struct {
	heightSnapshot atomic.Int64
	rebalanceCount metric.Int64Counter
	rotationCount  metric.Int64Counter
	notFoundCount  metric.Int64Counter
	nodeCount      metric.Int64UpDownCounter
	height         metric.Int64ObservableGauge
}

func (stats *avlTreeStats) IncreaseRebalanceCount(shape AVLRebalanceShape) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("avl.rebalance.shape", shape.String()),
	)
	stats.rebalanceCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
	stats.rotationCount.Add(context.Background(), shape.Rotations())
}

func (stats *avlTreeStats) IncreaseNotFoundCount() {
	if stats == nil {
		return
	}
	stats.notFoundCount.Add(context.Background(), 1)
}

func (stats *avlTreeStats) RecordNodeCount(delta int64) {
	if stats == nil {
		return
	}
	stats.nodeCount.Add(context.Background(), delta)
}

// RecordHeight stores the height for the observable gauge.
// The gauge callback may run on the reader goroutine, so it never
// touches the tree itself.
func (stats *avlTreeStats) RecordHeight(height int) {
	if stats == nil {
		return
	}
	stats.heightSnapshot.Store(int64(height))
}

func newAVLTreeStats(name string) *avlTreeStats {
	meterName := fmt.Sprintf("%s/%s", AVLTreeStatsName, name)
	stats := &avlTreeStats{
		rebalanceCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"avl.rebalance.count",
				metric.WithDescription("The number of rebalances grouped by imbalance shape."),
			),
		),
		rotationCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"avl.rotation.count",
				metric.WithDescription("The number of single rotations."),
			),
		),
		notFoundCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"avl.remove.notfound.count",
				metric.WithDescription("The number of removals of absent values."),
			),
		),
		nodeCount: lo.Must[metric.Int64UpDownCounter](otel.Meter(meterName).
			Int64UpDownCounter(
				"avl.node.count",
				metric.WithDescription("The number of nodes in the tree."),
			),
		),
	}
	stats.height = lo.Must[metric.Int64ObservableGauge](otel.Meter(meterName).
		Int64ObservableGauge(
			"avl.tree.height",
			metric.WithDescription("The height of the tree after the latest mutation."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(stats.heightSnapshot.Load())
				return nil
			}),
		),
	)
	return stats
}
