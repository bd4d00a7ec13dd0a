package metrics

import (
	"time"

	"github.com/validated-streams/witness-guard/module"
)

type NoopCollector struct{}

var _ module.WitnessMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) BlockDeferred() {}
func (nc *NoopCollector) DeferralDropped() {}
func (nc *NoopCollector) DeferredBlockResolved(time.Duration) {}
func (nc *NoopCollector) DeferredBlockEvicted() {}
func (nc *NoopCollector) DeferredBlocks(uint) {}
func (nc *NoopCollector) LookupRequested() {}
func (nc *NoopCollector) LookupResponseRejected(string) {}
func (nc *NoopCollector) BlockImportOutcome(string) {}
func (nc *NoopCollector) ProofsPublished() {}
func (nc *NoopCollector) ProofPublicationSkipped() {}
