package importer

import (
	"context"
	"fmt"

	"github.com/validated-streams/witness-guard/model/witness"
)

// ImportResult is the outcome of a successful check or import.
type ImportResult int

const (
	// ImportResultImported means the block was imported.
	ImportResultImported ImportResult = iota + 1
	// ImportResultAlreadyInChain means the block is already known.
	ImportResultAlreadyInChain
	// ImportResultKnownBad means the block is known to be invalid.
	ImportResultKnownBad
	// ImportResultUnknownParent means the parent of the block is not known.
	ImportResultUnknownParent
	// ImportResultMissingState means the state of the parent block is not available.
	ImportResultMissingState
)

func (r ImportResult) String() string {
	switch r {
	case ImportResultImported:
		return "imported"
	case ImportResultAlreadyInChain:
		return "already_in_chain"
	case ImportResultKnownBad:
		return "known_bad"
	case ImportResultUnknownParent:
		return "unknown_parent"
	case ImportResultMissingState:
		return "missing_state"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// BlockCheckParams are the parameters of a pre-import block check.
type BlockCheckParams struct {
	BlockID  witness.Identifier
	ParentID witness.Identifier
	Height   uint64
}

// BlockImportParams carry a candidate block into an import stage.
type BlockImportParams struct {
	Header witness.Header
	// Body is nil for header-only imports.
	Body []witness.Transaction
}

// BlockID returns the hash of the candidate block.
func (p BlockImportParams) BlockID() witness.Identifier {
	return p.Header.ID()
}

// ImportCache holds intermediate values shared between import stages.
type ImportCache map[string][]byte

// BlockImport is a stage of the block import pipeline.
type BlockImport interface {
	// CheckBlock performs the cheap pre-import checks.
	CheckBlock(ctx context.Context, params BlockCheckParams) (ImportResult, error)

	// ImportBlock imports the block.
	ImportBlock(ctx context.Context, params BlockImportParams, cache ImportCache) (ImportResult, error)
}
