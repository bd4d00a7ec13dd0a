package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/validated-streams/witness-guard/module"
)

// WitnessCollector reports import guard metrics to prometheus.
type WitnessCollector struct {
	deferredTotal      prometheus.Counter
	deferralsDropped   prometheus.Counter
	resolvedTotal      prometheus.Counter
	resolveDuration    prometheus.Histogram
	evictedTotal       prometheus.Counter
	pending            prometheus.Gauge
	lookupsRequested   prometheus.Counter
	responsesRejected  *prometheus.CounterVec
	importOutcomes     *prometheus.CounterVec
	proofsPublished    prometheus.Counter
	publicationSkipped prometheus.Counter
}

var _ module.WitnessMetrics = (*WitnessCollector)(nil)

// NewWitnessCollector creates the collector and registers its metrics with registerer.
func NewWitnessCollector(registerer prometheus.Registerer) *WitnessCollector {
	factory := promauto.With(registerer)

	return &WitnessCollector{
		deferredTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "blocks_total",
			Help:      "number of blocks deferred while awaiting witness proofs",
		}),
		deferralsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "dropped_total",
			Help:      "number of blocks that could not be deferred because no lookup network was bound",
		}),
		resolvedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "resolved_total",
			Help:      "number of deferred blocks whose proofs were found and verified",
		}),
		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "resolve_duration_seconds",
			Help:      "time a block spent deferred before its proofs were verified",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
		}),
		evictedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "evicted_total",
			Help:      "number of deferred blocks dropped for capacity or expiry",
		}),
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemDeferred,
			Name:      "pending",
			Help:      "current number of deferred blocks",
		}),
		lookupsRequested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemLookup,
			Name:      "requests_total",
			Help:      "number of proof lookups issued to the network",
		}),
		responsesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemLookup,
			Name:      "responses_rejected_total",
			Help:      "number of lookup responses discarded, by reason",
		}, []string{LabelReason}),
		importOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemImport,
			Name:      "blocks_total",
			Help:      "number of intercepted block imports, by outcome",
		}, []string{LabelOutcome}),
		proofsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemProofs,
			Name:      "published_total",
			Help:      "number of proof bundles published after a block import",
		}),
		publicationSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWitness,
			Subsystem: subsystemProofs,
			Name:      "publication_skipped_total",
			Help:      "number of proof bundles not published",
		}),
	}
}

func (c *WitnessCollector) BlockDeferred() {
	c.deferredTotal.Inc()
}

func (c *WitnessCollector) DeferralDropped() {
	c.deferralsDropped.Inc()
}

func (c *WitnessCollector) DeferredBlockResolved(waited time.Duration) {
	c.resolvedTotal.Inc()
	c.resolveDuration.Observe(waited.Seconds())
}

func (c *WitnessCollector) DeferredBlockEvicted() {
	c.evictedTotal.Inc()
}

func (c *WitnessCollector) DeferredBlocks(count uint) {
	c.pending.Set(float64(count))
}

func (c *WitnessCollector) LookupRequested() {
	c.lookupsRequested.Inc()
}

func (c *WitnessCollector) LookupResponseRejected(reason string) {
	c.responsesRejected.WithLabelValues(reason).Inc()
}

func (c *WitnessCollector) BlockImportOutcome(outcome string) {
	c.importOutcomes.WithLabelValues(outcome).Inc()
}

func (c *WitnessCollector) ProofsPublished() {
	c.proofsPublished.Inc()
}

func (c *WitnessCollector) ProofPublicationSkipped() {
	c.publicationSkipped.Inc()
}
