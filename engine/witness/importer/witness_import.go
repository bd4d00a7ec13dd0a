package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/module/metrics"
	wtrace "github.com/validated-streams/witness-guard/module/trace"
	"github.com/validated-streams/witness-guard/network"
	"github.com/validated-streams/witness-guard/network/codec"
	"github.com/validated-streams/witness-guard/utils/logging"
)

// Registry accepts blocks whose events lack proofs and provides the late-bound
// lookup network used to publish proofs.
type Registry interface {
	Defer(blockHash witness.Identifier, outstanding []witness.Identifier) error
	LookupNetwork() (network.LookupNetwork, bool)
}

// WitnessBlockImport is a BlockImport stage that only lets a block through to
// the inner stage once every event referenced by its transactions is
// witnessed by a quorum of validators. Blocks with unwitnessed events are
// deferred until their proofs are found, and rejected for now. After a
// successful import, the proofs of the block's events are published so that
// other nodes can find them.
type WitnessBlockImport struct {
	log       zerolog.Logger
	metrics   module.WitnessMetrics
	tracer    trace.Tracer
	inner     BlockImport
	chain     module.ChainClient
	extractor module.EventExtractor
	store     module.ProofStore
	registry  Registry
	codec     codec.ProofCodec
}

var _ BlockImport = (*WitnessBlockImport)(nil)

func NewWitnessBlockImport(
	log zerolog.Logger,
	collector module.WitnessMetrics,
	tracer trace.Tracer,
	inner BlockImport,
	chain module.ChainClient,
	extractor module.EventExtractor,
	store module.ProofStore,
	registry Registry,
	proofCodec codec.ProofCodec,
) *WitnessBlockImport {
	return &WitnessBlockImport{
		log:       log.With().Str("component", "witness_import").Logger(),
		metrics:   collector,
		tracer:    tracer,
		inner:     inner,
		chain:     chain,
		extractor: extractor,
		store:     store,
		registry:  registry,
		codec:     proofCodec,
	}
}

// CheckBlock delegates to the inner stage.
func (w *WitnessBlockImport) CheckBlock(ctx context.Context, params BlockCheckParams) (ImportResult, error) {
	ctx, span := w.tracer.Start(ctx, wtrace.WITCheckBlock, trace.WithAttributes(
		attribute.String(wtrace.AttrBlockID, params.BlockID.String()),
		attribute.Int64(wtrace.AttrHeight, int64(params.Height)),
	))
	defer span.End()

	result, err := w.inner.CheckBlock(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, NewClientImportError(err)
	}
	return result, nil
}

// ImportBlock imports the block through the inner stage if all of its events
// are witnessed.
//
// Expected errors during normal operations:
//   - UnwitnessedEventsError if some events lack proofs; the block was deferred
//     unless no lookup network is bound yet
//   - ClientImportError if the inner stage or a runtime query failed
func (w *WitnessBlockImport) ImportBlock(ctx context.Context, params BlockImportParams, cache ImportCache) (ImportResult, error) {
	blockID := params.BlockID()
	ctx, span := w.tracer.Start(ctx, wtrace.WITImportBlock, trace.WithAttributes(
		attribute.String(wtrace.AttrBlockID, blockID.String()),
		attribute.Int64(wtrace.AttrHeight, int64(params.Header.Height)),
	))
	defer span.End()

	lg := w.log.With().
		Hex("block_id", logging.ID(params.Header)).
		Uint64("block_height", params.Header.Height).
		Logger()

	// header-only and empty blocks reference no events
	if len(params.Body) == 0 {
		return w.importInner(ctx, span, lg, params, cache, nil)
	}

	height := w.chain.BestHeight()
	eventIDs, err := w.extractor.ExtractEventIDs(height, params.Body)
	if err != nil {
		// an uninterpretable body is treated as referencing no events
		lg.Warn().Err(err).Uint64("best_height", height).Msg("could not extract event ids, importing without witness check")
		eventIDs = nil
	}
	span.SetAttributes(attribute.Int(wtrace.AttrEvents, len(eventIDs)))

	outstanding, err := w.extractor.FindUnwitnessed(height, w.store, eventIDs)
	if err != nil {
		w.fail(span, metrics.OutcomeClientError, err)
		return 0, NewClientImportErrorf("could not determine unwitnessed events of block %v: %s", blockID, err.Error())
	}
	span.SetAttributes(attribute.Int(wtrace.AttrOutstanding, len(outstanding)))

	if len(outstanding) == 0 {
		return w.importInner(ctx, span, lg, params, cache, eventIDs)
	}

	err = w.registry.Defer(blockID, outstanding)
	if err != nil {
		// the events are still unwitnessed, so the rejection stays transient
		// and the block can be deferred when it is imported again
		w.fail(span, metrics.OutcomeDeferFailed, err)
		lg.Error().Err(err).
			Strs("outstanding_ids", logging.IDs(outstanding)).
			Msg("could not defer block, its proofs are not looked up")
		return 0, NewUnwitnessedEventsError(blockID, outstanding)
	}

	w.metrics.BlockImportOutcome(metrics.OutcomeDeferred)
	span.SetAttributes(attribute.String(wtrace.AttrOutcome, metrics.OutcomeDeferred))
	lg.Info().
		Int("events", len(eventIDs)).
		Strs("outstanding_ids", logging.IDs(outstanding)).
		Msg("block deferred until its events are witnessed")
	return 0, NewUnwitnessedEventsError(blockID, outstanding)
}

func (w *WitnessBlockImport) importInner(
	ctx context.Context,
	span trace.Span,
	lg zerolog.Logger,
	params BlockImportParams,
	cache ImportCache,
	eventIDs []witness.Identifier,
) (ImportResult, error) {
	result, err := w.inner.ImportBlock(ctx, params, cache)
	if err != nil {
		w.fail(span, metrics.OutcomeInnerFailure, err)
		return 0, NewClientImportError(err)
	}

	w.metrics.BlockImportOutcome(metrics.OutcomeImported)
	span.SetAttributes(attribute.String(wtrace.AttrOutcome, metrics.OutcomeImported))
	lg.Info().Str("result", result.String()).Int("events", len(eventIDs)).Msg("block imported")

	if len(eventIDs) > 0 {
		w.publishProofs(ctx, lg, params.BlockID(), eventIDs)
	}
	return result, nil
}

// publishProofs makes the proofs of the block's events discoverable by other
// nodes. Failures are logged and never affect the import.
func (w *WitnessBlockImport) publishProofs(ctx context.Context, lg zerolog.Logger, blockID witness.Identifier, eventIDs []witness.Identifier) {
	_, span := w.tracer.Start(ctx, wtrace.WITPublishProof)
	defer span.End()

	net, ok := w.registry.LookupNetwork()
	if !ok {
		w.metrics.ProofPublicationSkipped()
		lg.Warn().Msg("lookup network unavailable, skipping proof publication")
		return
	}

	err := w.publish(net, blockID, eventIDs)
	if err != nil {
		w.metrics.ProofPublicationSkipped()
		span.SetStatus(codes.Error, err.Error())
		lg.Error().Err(err).Msg("could not publish proofs")
		return
	}
	w.metrics.ProofsPublished()
	lg.Debug().Int("events", len(eventIDs)).Msg("proofs published")
}

func (w *WitnessBlockImport) publish(net network.LookupNetwork, blockID witness.Identifier, eventIDs []witness.Identifier) error {
	bundle, err := w.store.Get(eventIDs)
	if err != nil {
		return fmt.Errorf("could not read proofs: %w", err)
	}
	value, err := w.codec.EncodeProofs(bundle)
	if err != nil {
		return fmt.Errorf("could not encode proofs: %w", err)
	}
	net.PutValue(witness.LookupKey(blockID), value)
	return nil
}

func (w *WitnessBlockImport) fail(span trace.Span, outcome string, err error) {
	w.metrics.BlockImportOutcome(outcome)
	span.SetAttributes(attribute.String(wtrace.AttrOutcome, outcome))
	span.SetStatus(codes.Error, err.Error())
}
