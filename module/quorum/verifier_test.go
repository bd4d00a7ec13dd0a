package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/validated-streams/witness-guard/model/witness"
	"github.com/validated-streams/witness-guard/utils/unittest"
)

func TestVerifier(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

type VerifierSuite struct {
	suite.Suite

	validators  []unittest.Validator
	authorities []witness.ValidatorKey
	event       witness.Identifier
	verifier    *Verifier
}

func (s *VerifierSuite) SetupTest() {
	// N = 4, threshold = 3
	s.validators = unittest.ValidatorListFixture(s.T(), 4)
	s.authorities = unittest.AuthoritiesFixture(s.validators)
	s.event = unittest.IdentifierFixture()
	s.verifier = NewVerifier(unittest.Logger())
}

func (s *VerifierSuite) verify(bundle witness.ProofBundle, outstanding ...witness.Identifier) (bool, error) {
	return s.verifier.Verify(bundle, outstanding, s.authorities)
}

// TestExactThreshold checks that exactly threshold signatures are required.
func (s *VerifierSuite) TestExactThreshold() {
	below := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators[:2])
	ok, err := s.verify(below, s.event)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)

	exact := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators[:3])
	ok, err = s.verify(exact, s.event)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)

	all := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	ok, err = s.verify(all, s.event)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

// TestAllEventsRequired checks that every outstanding event needs a quorum.
func (s *VerifierSuite) TestAllEventsRequired() {
	other := unittest.IdentifierFixture()
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	bundle.Merge(unittest.ProofBundleFixture(s.T(), []witness.Identifier{other}, s.validators[:1]))

	ok, err := s.verify(bundle, s.event, other)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)

	ok, err = s.verify(bundle, s.event)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

func (s *VerifierSuite) TestMissingEvent() {
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)

	ok, err := s.verify(bundle, unittest.IdentifierFixture())
	require.NoError(s.T(), err)
	require.False(s.T(), ok)
}

// TestUnauthorizedSigner checks that a valid signature from outside the
// authority set fails the event even when a quorum of members signed.
func (s *VerifierSuite) TestUnauthorizedSigner() {
	outsider := unittest.ValidatorFixture(s.T())
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	bundle.AddSignature(s.event, outsider.Key, outsider.Sign(s.T(), s.event))

	ok, err := s.verify(bundle, s.event)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)
}

func (s *VerifierSuite) TestInvalidSignature() {
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	// signature over another event
	bundle.AddSignature(s.event, s.validators[0].Key, s.validators[0].Sign(s.T(), unittest.IdentifierFixture()))

	ok, err := s.verify(bundle, s.event)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)
}

func (s *VerifierSuite) TestMalformedSignature() {
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	bundle.AddSignature(s.event, s.validators[1].Key, witness.Signature{0x01, 0x02})

	ok, err := s.verify(bundle, s.event)
	require.Error(s.T(), err)
	require.True(s.T(), IsInvalidProofEncodingError(err))
	require.False(s.T(), ok)
}

func (s *VerifierSuite) TestMalformedPublicKey() {
	bogus := unittest.ValidatorKeyFixture()
	s.authorities = append(s.authorities, bogus)

	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)
	bundle.AddSignature(s.event, bogus, unittest.SignatureFixture())

	ok, err := s.verify(bundle, s.event)
	require.Error(s.T(), err)
	require.True(s.T(), IsInvalidProofEncodingError(err))
	require.False(s.T(), ok)
}

func (s *VerifierSuite) TestEmptyAuthoritySet() {
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators)

	ok, err := s.verifier.Verify(bundle, []witness.Identifier{s.event}, nil)
	require.NoError(s.T(), err)
	require.False(s.T(), ok)
}

// TestDuplicateAuthorities checks that repeated keys do not inflate the authority set.
func (s *VerifierSuite) TestDuplicateAuthorities() {
	authorities := append(unittest.AuthoritiesFixture(s.validators[:3]), s.validators[0].Key, s.validators[0].Key)
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators[:2])

	// N = 3 distinct, threshold = 2
	ok, err := s.verifier.Verify(bundle, []witness.Identifier{s.event}, authorities)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
}

func (s *VerifierSuite) TestDeterministic() {
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event}, s.validators[:3])
	bundle.AddSignature(s.event, s.validators[3].Key, witness.Signature{0xff})

	first, firstErr := s.verify(bundle, s.event)
	for i := 0; i < 10; i++ {
		ok, err := s.verify(bundle, s.event)
		require.Equal(s.T(), first, ok)
		require.Equal(s.T(), firstErr, err)
	}
}

// TestWeigh checks that only valid signatures by authorities count towards
// the weight of a bundle.
func (s *VerifierSuite) TestWeigh() {
	other := unittest.IdentifierFixture()
	bundle := unittest.ProofBundleFixture(s.T(), []witness.Identifier{s.event, other}, s.validators[:3])
	require.Equal(s.T(), 6, s.verifier.Weigh(bundle, s.authorities))

	for _, outsider := range unittest.ValidatorListFixture(s.T(), 5) {
		bundle.AddSignature(s.event, outsider.Key, outsider.Sign(s.T(), s.event))
	}
	bundle.AddSignature(other, s.validators[3].Key, witness.Signature{0x01})
	require.Equal(s.T(), 6, s.verifier.Weigh(bundle, s.authorities))

	// signature over another event
	bundle.AddSignature(s.event, s.validators[3].Key, s.validators[3].Sign(s.T(), other))
	require.Equal(s.T(), 6, s.verifier.Weigh(bundle, s.authorities))

	require.Equal(s.T(), 0, s.verifier.Weigh(bundle, nil))
}
