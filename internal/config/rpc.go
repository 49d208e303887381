package config

import (
	"errors"
	"os"
)

type RPCConfig struct {
	// RPCUrl is the Ethereum JSON-RPC endpoint used for batched eth_call reads.
	RPCUrl string
	// SubgraphUrl is the Balancer pool-index endpoint.
	SubgraphUrl string
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = os.Getenv("ETH_RPC_URL")
	r.SubgraphUrl = os.Getenv("BALANCER_SUBGRAPH_URL")
	return nil
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config")
	}
	return nil
}
