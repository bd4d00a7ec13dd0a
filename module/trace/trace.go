package trace

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName identifies spans created by this module.
const TracerName = "github.com/validated-streams/witness-guard"

// Span names
const (
	WITCheckBlock   = "witness.checkBlock"
	WITImportBlock  = "witness.importBlock"
	WITPublishProof = "witness.publishProofs"
)

// Span attribute keys
const (
	AttrBlockID     = "block_id"
	AttrHeight      = "height"
	AttrEvents      = "events"
	AttrOutstanding = "outstanding"
	AttrOutcome     = "outcome"
)

// NewTracer returns the module's tracer from provider.
func NewTracer(provider trace.TracerProvider) trace.Tracer {
	return provider.Tracer(TracerName)
}

// NewNoopTracer returns a tracer that records nothing.
func NewNoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(TracerName)
}
