package sampler

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// quoteRequest is the per-call context handlers build rows from.
type quoteRequest struct {
	makerToken common.Address
	takerToken common.Address
	// amounts are taker-denominated for sells, maker-denominated for buys.
	amounts []*big.Int
	orders  []domain.SignedOrder
}

// sampledOperation is a batch operation whose decoded result is an amount
// sequence; a nil Samples() after execution is the no-data sentinel.
type sampledOperation interface {
	Target() common.Address
	CallData() ([]byte, error)
	HandleResult(data []byte) error
	Samples() []*big.Int
}

// pendingRow is one quote row awaiting its outputs: either an operation to
// be decoded by the collector, a locally priced output set, or an order-book
// fillable query. Exactly one of op/local/orderOp is set.
type pendingRow struct {
	source domain.Source
	fill   domain.FillData

	op      sampledOperation
	local   []*big.Int
	orderOp *fillableOp
}

// sourceHandler builds the pending rows for one liquidity source. Handlers
// never perform transport I/O themselves; only the Balancer handler blocks,
// on the pool cache, which is why the engine fans handlers out concurrently.
// A nil return from buy means the source does not support buy-side quoting.
type sourceHandler interface {
	kind() domain.Source
	sell(ctx context.Context, req *quoteRequest) []*pendingRow
	buy(ctx context.Context, req *quoteRequest) []*pendingRow
}
