package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"

	"github.com/hexroute/sampler-engine/internal/services/batch"
)

// Transport ships call batches over a single JSON-RPC round trip. Reverted
// or otherwise failed calls come back as unsuccessful results; only a failure
// of the batch itself is an error.
type Transport struct {
	client *rpc.Client
}

func NewTransport(rpcURL string) (*Transport, error) {
	client, err := rpc.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc at %s: %w", rpcURL, err)
	}
	log.Info().Str("url", rpcURL).Msg("[evmTransport] connected")
	return &Transport{client: client}, nil
}

func (t *Transport) Close() {
	if t.client != nil {
		t.client.Close()
	}
}

type callArgs struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

func (t *Transport) BatchCall(ctx context.Context, calls []batch.Call) ([]batch.CallResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	returns := make([]hexutil.Bytes, len(calls))
	elems := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		elems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{
				callArgs{To: call.To.Hex(), Data: hexutil.Encode(call.Data)},
				"latest",
			},
			Result: &returns[i],
		}
	}

	if err := t.client.BatchCallContext(ctx, elems); err != nil {
		return nil, fmt.Errorf("batch rpc call failed: %w", err)
	}

	results := make([]batch.CallResult, len(calls))
	for i := range elems {
		if elems[i].Error != nil {
			log.Debug().Err(elems[i].Error).Str("to", calls[i].To.Hex()).Msg("[evmTransport] call failed")
			results[i] = batch.CallResult{Success: false}
			continue
		}
		results[i] = batch.CallResult{Success: true, ReturnData: returns[i]}
	}
	return results, nil
}
