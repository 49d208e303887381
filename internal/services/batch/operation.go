// Package batch coalesces independent read-only contract calls into single
// transport round-trips and demultiplexes the combined response back into
// each operation, preserving submission order.
package batch

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrBatchFetchFailed means the combined transport call itself failed. No
// partial results exist; callers needing isolation split into separate
// batches.
var ErrBatchFetchFailed = errors.New("batch fetch failed")

// Call is one encoded read request against the fetch transport.
type Call struct {
	To   common.Address
	Data []byte
}

// CallResult is the raw outcome of one Call. Success=false marks a per-item
// revert; the transport never reports per-item failures as call errors.
type CallResult struct {
	Success    bool
	ReturnData []byte
}

// CallTransport is the external data-fetching collaborator. One invocation
// performs every call in a single round-trip and returns results in matching
// order, or fails as a whole.
type CallTransport interface {
	BatchCall(ctx context.Context, calls []Call) ([]CallResult, error)
}

// Operation is a self-describing unit of read work. Construction and
// CallData are side-effect-free; HandleResult is invoked at most once, after
// which the operation holds its typed result. An operation whose slot
// reverted or failed to decode is simply never given a result: it stays in
// its no-data state and siblings are unaffected.
type Operation interface {
	Target() common.Address
	CallData() ([]byte, error)
	HandleResult(data []byte) error
}
