package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/metrics"
)

// Collector executes operation batches against a CallTransport.
type Collector struct {
	transport CallTransport
}

func NewCollector(transport CallTransport) *Collector {
	return &Collector{transport: transport}
}

// Execute encodes every operation, performs one combined transport call and
// decodes each slot with its own operation, in submission order.
//
// A transport-level failure aborts the whole batch with ErrBatchFetchFailed.
// A per-slot revert or decode failure leaves only that operation in the
// no-data state; Execute still returns nil so sibling results stay usable.
func (c *Collector) Execute(ctx context.Context, ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}

	calls := make([]Call, len(ops))
	for i, op := range ops {
		data, err := op.CallData()
		if err != nil {
			return fmt.Errorf("%w: encoding operation %d: %v", ErrBatchFetchFailed, i, err)
		}
		calls[i] = Call{To: op.Target(), Data: data}
	}

	start := time.Now()
	results, err := c.transport.BatchCall(ctx, calls)
	metrics.BatchSize.Observe(float64(len(ops)))
	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BatchCalls.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %v", ErrBatchFetchFailed, err)
	}
	if len(results) != len(ops) {
		metrics.BatchCalls.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: got %d results for %d operations", ErrBatchFetchFailed, len(results), len(ops))
	}
	metrics.BatchCalls.WithLabelValues("ok").Inc()

	for i, op := range ops {
		res := results[i]
		if !res.Success || len(res.ReturnData) == 0 {
			metrics.OperationNoData.Inc()
			log.Debug().Int("slot", i).Msg("[collector] operation reverted, leaving no-data")
			continue
		}
		if err := op.HandleResult(res.ReturnData); err != nil {
			metrics.OperationNoData.Inc()
			log.Debug().Int("slot", i).Err(err).Msg("[collector] operation decode failed, leaving no-data")
		}
	}
	return nil
}
