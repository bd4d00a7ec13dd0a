package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validated-streams/witness-guard/module/metrics"
)

func TestWitnessCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewWitnessCollector(registry)

	collector.BlockDeferred()
	collector.BlockDeferred()
	collector.DeferredBlocks(2)
	collector.DeferredBlockResolved(1500 * time.Millisecond)
	collector.LookupResponseRejected(metrics.ReasonQuorumFailed)
	collector.BlockImportOutcome(metrics.OutcomeImported)
	collector.BlockImportOutcome(metrics.OutcomeDeferred)
	collector.BlockImportOutcome(metrics.OutcomeDeferred)

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make(map[string]struct{}, len(families))
	for _, family := range families {
		names[family.GetName()] = struct{}{}
	}
	assert.Contains(t, names, "witness_deferred_blocks_total")
	assert.Contains(t, names, "witness_deferred_pending")
	assert.Contains(t, names, "witness_deferred_resolve_duration_seconds")
	assert.Contains(t, names, "witness_lookup_responses_rejected_total")
	assert.Contains(t, names, "witness_import_blocks_total")

	assert.Equal(t, 2, mustGatherAndCount(t, registry, "witness_import_blocks_total"))
	assert.Equal(t, 1, mustGatherAndCount(t, registry, "witness_lookup_responses_rejected_total"))
}

// TestWitnessCollector_SeparateRegistries checks that collectors bound to
// distinct registries do not collide.
func TestWitnessCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewWitnessCollector(prometheus.NewRegistry())
		metrics.NewWitnessCollector(prometheus.NewRegistry())
	})
}

func mustGatherAndCount(t *testing.T, registry *prometheus.Registry, name string) int {
	count, err := testutil.GatherAndCount(registry, name)
	require.NoError(t, err)
	return count
}
