package importer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/validated-streams/witness-guard/engine/witness/deferred"
	"github.com/validated-streams/witness-guard/engine/witness/importer"
	mockimporter "github.com/validated-streams/witness-guard/engine/witness/importer/mock"
	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/module/metrics"
	mockmodule "github.com/validated-streams/witness-guard/module/mock"
	"github.com/validated-streams/witness-guard/module/trace"
	"github.com/validated-streams/witness-guard/network/codec/cbor"
	"github.com/validated-streams/witness-guard/network/stub"
	"github.com/validated-streams/witness-guard/utils/unittest"
)

const bestHeight = uint64(42)

func TestWitnessBlockImport(t *testing.T) {
	suite.Run(t, new(WitnessImportSuite))
}

type WitnessImportSuite struct {
	suite.Suite

	inner     *mockimporter.BlockImport
	chain     *mockmodule.ChainClient
	extractor *mockmodule.EventExtractor
	store     *mockmodule.ProofStore
	registry  *deferred.Registry
	codec     *cbor.Codec
	hub       *stub.LookupHub
	net       *stub.LookupNetwork
	spans     *tracetest.SpanRecorder

	importer *importer.WitnessBlockImport
	params   importer.BlockImportParams
	blockID  witness.Identifier
	cache    importer.ImportCache
}

func (s *WitnessImportSuite) SetupTest() {
	s.inner = mockimporter.NewBlockImport(s.T())
	s.chain = mockmodule.NewChainClient(s.T())
	s.chain.On("BestHeight").Return(bestHeight).Maybe()
	s.extractor = mockmodule.NewEventExtractor(s.T())
	s.store = mockmodule.NewProofStore(s.T())
	s.codec = cbor.NewCodec()
	s.hub = stub.NewLookupHub()
	s.net = s.hub.NewLookupNetwork(unittest.Logger())

	s.registry = deferred.NewRegistry(
		unittest.Logger(),
		metrics.NewNoopCollector(),
		deferred.Config{MaxBlocks: 10},
		s.store,
		mockmodule.NewAuthorityResolver(s.T()),
		s.chain,
		s.codec,
	)

	s.spans = tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans))

	s.importer = importer.NewWitnessBlockImport(
		unittest.Logger(),
		metrics.NewNoopCollector(),
		trace.NewTracer(provider),
		s.inner,
		s.chain,
		s.extractor,
		s.store,
		s.registry,
		s.codec,
	)

	s.params = importer.BlockImportParams{
		Header: unittest.HeaderFixture(),
		Body:   unittest.TransactionsFixture(3),
	}
	s.blockID = s.params.BlockID()
	s.cache = importer.ImportCache{}
}

// TestCheckBlock checks that block checks are delegated and inner failures
// are surfaced as client errors.
func (s *WitnessImportSuite) TestCheckBlock() {
	params := importer.BlockCheckParams{BlockID: s.blockID, ParentID: s.params.Header.ParentID, Height: s.params.Header.Height}

	s.inner.On("CheckBlock", mock.Anything, params).Return(importer.ImportResultImported, nil).Once()
	result, err := s.importer.CheckBlock(context.Background(), params)
	s.Require().NoError(err)
	s.Assert().Equal(importer.ImportResultImported, result)

	s.inner.On("CheckBlock", mock.Anything, params).Return(importer.ImportResult(0), errors.New("unknown parent")).Once()
	_, err = s.importer.CheckBlock(context.Background(), params)
	s.Require().Error(err)
	s.Assert().True(importer.IsClientImportError(err))
	s.Assert().Equal("unknown parent", err.Error())
}

// TestImport_UnwitnessedEvents checks that a block referencing an event
// without proofs is deferred and transiently rejected.
func (s *WitnessImportSuite) TestImport_UnwitnessedEvents() {
	s.registry.Bind(s.net)
	event := unittest.IdentifierFixture()
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier{event}, nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier{event}).Return([]witness.Identifier{event}, nil).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().Error(err)
	s.Assert().True(importer.IsUnwitnessedEventsError(err))
	var unwitnessed importer.UnwitnessedEventsError
	s.Require().ErrorAs(err, &unwitnessed)
	s.Assert().Equal(s.blockID, unwitnessed.BlockID)
	s.Assert().Equal(witness.IdentifierList{event}, unwitnessed.Events)

	outstanding, ok := s.registry.Pending(s.blockID)
	s.Require().True(ok)
	s.Assert().Equal(witness.IdentifierList{event}, outstanding)
	s.Assert().Equal([][]byte{witness.LookupKey(s.blockID)}, s.net.Requests())
	s.inner.AssertNotCalled(s.T(), "ImportBlock", mock.Anything, mock.Anything, mock.Anything)
}

// TestImport_DeferFails checks that a block arriving before the lookup
// network is bound is still rejected transiently, with the deferral failure
// recorded on the span.
func (s *WitnessImportSuite) TestImport_DeferFails() {
	event := unittest.IdentifierFixture()
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier{event}, nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier{event}).Return([]witness.Identifier{event}, nil).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().Error(err)
	s.Assert().True(importer.IsUnwitnessedEventsError(err))
	s.Assert().False(importer.IsClientImportError(err))
	var unwitnessed importer.UnwitnessedEventsError
	s.Require().ErrorAs(err, &unwitnessed)
	s.Assert().Equal(s.blockID, unwitnessed.BlockID)
	s.Assert().Equal(witness.IdentifierList{event}, unwitnessed.Events)

	s.Assert().Equal(uint(0), s.registry.Size())
	s.Assert().Empty(s.net.Requests())
	s.inner.AssertNotCalled(s.T(), "ImportBlock", mock.Anything, mock.Anything, mock.Anything)

	ended := s.spans.Ended()
	s.Require().Len(ended, 1)
	s.Assert().Contains(ended[0].Attributes(), attribute.String(trace.AttrOutcome, metrics.OutcomeDeferFailed))
}

// TestImport_EmptyBody checks that blocks without transactions skip event
// extraction and go straight to the inner stage.
func (s *WitnessImportSuite) TestImport_EmptyBody() {
	for _, body := range [][]witness.Transaction{nil, {}} {
		params := importer.BlockImportParams{Header: s.params.Header, Body: body}
		s.inner.On("ImportBlock", mock.Anything, params, s.cache).Return(importer.ImportResultImported, nil).Once()

		result, err := s.importer.ImportBlock(context.Background(), params, s.cache)
		s.Require().NoError(err)
		s.Assert().Equal(importer.ImportResultImported, result)
	}
	s.extractor.AssertNotCalled(s.T(), "ExtractEventIDs", mock.Anything, mock.Anything)
	s.extractor.AssertNotCalled(s.T(), "FindUnwitnessed", mock.Anything, mock.Anything, mock.Anything)
}

// TestImport_PublicationSkipped checks that a witnessed block is imported even
// if its proofs cannot be published for lack of a lookup network.
func (s *WitnessImportSuite) TestImport_PublicationSkipped() {
	events := unittest.IdentifierListFixture(2)
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier(events), nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(events)).Return(nil, nil).Once()
	s.inner.On("ImportBlock", mock.Anything, s.params, s.cache).Return(importer.ImportResultImported, nil).Once()

	result, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().NoError(err)
	s.Assert().Equal(importer.ImportResultImported, result)
	s.store.AssertNotCalled(s.T(), "Get", mock.Anything)
}

// TestImport_PublishesProofs checks that the proofs of an imported block are
// published under the block's lookup key.
func (s *WitnessImportSuite) TestImport_PublishesProofs() {
	s.registry.Bind(s.net)
	events := unittest.IdentifierListFixture(2)
	bundle := unittest.ProofBundleFixture(s.T(), events, unittest.ValidatorListFixture(s.T(), 3))

	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier(events), nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(events)).Return([]witness.Identifier{}, nil).Once()
	s.inner.On("ImportBlock", mock.Anything, s.params, s.cache).Return(importer.ImportResultImported, nil).Once()
	s.store.On("Get", []witness.Identifier(events)).Return(bundle, nil).Once()

	result, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().NoError(err)
	s.Assert().Equal(importer.ImportResultImported, result)

	key := witness.LookupKey(s.blockID)
	s.Assert().Equal([][]byte{key}, s.net.Puts())
	value, ok := s.hub.Value(key)
	s.Require().True(ok)
	published, err := s.codec.DecodeProofs(value)
	s.Require().NoError(err)
	s.Assert().Equal(bundle, published)
}

// TestImport_PublicationFailure checks that failing to read proofs for
// publication does not fail the import.
func (s *WitnessImportSuite) TestImport_PublicationFailure() {
	s.registry.Bind(s.net)
	events := unittest.IdentifierListFixture(1)
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier(events), nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(events)).Return(nil, nil).Once()
	s.inner.On("ImportBlock", mock.Anything, s.params, s.cache).Return(importer.ImportResultImported, nil).Once()
	s.store.On("Get", []witness.Identifier(events)).Return(nil, errors.New("db closed")).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().NoError(err)
	s.Assert().Empty(s.net.Puts())
}

// TestImport_InnerFailure checks that inner import failures are surfaced as
// client errors carrying the inner message.
func (s *WitnessImportSuite) TestImport_InnerFailure() {
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return(nil, nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(nil)).Return(nil, nil).Once()
	s.inner.On("ImportBlock", mock.Anything, s.params, s.cache).Return(importer.ImportResult(0), errors.New("state root mismatch")).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().Error(err)
	s.Assert().True(importer.IsClientImportError(err))
	s.Assert().Equal("state root mismatch", err.Error())
}

// TestImport_ExtractionFailure checks that a body whose events cannot be
// extracted is treated as referencing no events.
func (s *WitnessImportSuite) TestImport_ExtractionFailure() {
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return(nil, errors.New("undecodable extrinsic")).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(nil)).Return(nil, nil).Once()
	s.inner.On("ImportBlock", mock.Anything, s.params, s.cache).Return(importer.ImportResultImported, nil).Once()

	result, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().NoError(err)
	s.Assert().Equal(importer.ImportResultImported, result)
}

// TestImport_FindUnwitnessedFailure checks that runtime query failures are
// propagated as client errors without importing or deferring the block.
func (s *WitnessImportSuite) TestImport_FindUnwitnessedFailure() {
	s.registry.Bind(s.net)
	events := unittest.IdentifierListFixture(1)
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier(events), nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier(events)).Return(nil, errors.New("runtime api unavailable")).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().Error(err)
	s.Assert().True(importer.IsClientImportError(err))
	s.Assert().Equal(uint(0), s.registry.Size())
	s.inner.AssertNotCalled(s.T(), "ImportBlock", mock.Anything, mock.Anything, mock.Anything)
}

// TestImport_Span checks that each import records a span with its outcome.
func (s *WitnessImportSuite) TestImport_Span() {
	s.registry.Bind(s.net)
	event := unittest.IdentifierFixture()
	s.extractor.On("ExtractEventIDs", bestHeight, s.params.Body).Return([]witness.Identifier{event}, nil).Once()
	s.extractor.On("FindUnwitnessed", bestHeight, s.store, []witness.Identifier{event}).Return([]witness.Identifier{event}, nil).Once()

	_, err := s.importer.ImportBlock(context.Background(), s.params, s.cache)
	s.Require().Error(err)

	ended := s.spans.Ended()
	s.Require().Len(ended, 1)
	s.Assert().Equal(trace.WITImportBlock, ended[0].Name())
	s.Assert().Contains(ended[0].Attributes(), attribute.String(trace.AttrOutcome, metrics.OutcomeDeferred))
	s.Assert().Contains(ended[0].Attributes(), attribute.String(trace.AttrBlockID, s.blockID.String()))
}
