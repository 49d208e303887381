package sampler

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/hexroute/sampler-engine/internal/domain"
)

// ABI of the read-only on-chain sampler contract every batch operation
// targets. Each sampleSells*/sampleBuys* method probes one source with the
// full amount sequence in a single call.
const samplerABIJSON = `[
  {"type":"function","name":"sampleSellsFromUniswap","stateMutability":"view","inputs":[{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"takerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"makerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleBuysFromUniswap","stateMutability":"view","inputs":[{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"makerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"takerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleSellsFromUniswapV2","stateMutability":"view","inputs":[{"name":"path","type":"address[]"},{"name":"takerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"makerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleBuysFromUniswapV2","stateMutability":"view","inputs":[{"name":"path","type":"address[]"},{"name":"makerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"takerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleSellsFromEth2Dai","stateMutability":"view","inputs":[{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"takerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"makerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleBuysFromEth2Dai","stateMutability":"view","inputs":[{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"makerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"takerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleSellsFromKyberNetwork","stateMutability":"view","inputs":[{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"takerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"makerTokenAmounts","type":"uint256[]"}]},
  {"type":"function","name":"sampleSellsFromLiquidityProviderRegistry","stateMutability":"view","inputs":[{"name":"registryAddress","type":"address"},{"name":"takerToken","type":"address"},{"name":"makerToken","type":"address"},{"name":"takerTokenAmounts","type":"uint256[]"}],"outputs":[{"name":"makerTokenAmounts","type":"uint256[]"},{"name":"providerAddress","type":"address"}]},
  {"type":"function","name":"getOrderFillableTakerAssetAmounts","stateMutability":"view","inputs":[{"name":"orders","type":"tuple[]","components":[{"name":"makerAddress","type":"address"},{"name":"takerAddress","type":"address"},{"name":"makerToken","type":"address"},{"name":"takerToken","type":"address"},{"name":"makerAmount","type":"uint256"},{"name":"takerAmount","type":"uint256"},{"name":"expiry","type":"uint256"},{"name":"salt","type":"uint256"}]},{"name":"signatures","type":"bytes[]"}],"outputs":[{"name":"fillableTakerAssetAmounts","type":"uint256[]"}]}
]`

var samplerABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(samplerABIJSON))
	if err != nil {
		panic(fmt.Sprintf("sampler: invalid embedded ABI: %v", err))
	}
	samplerABI = parsed
}

var errBadReturnShape = errors.New("unexpected return shape")

// abiOrder is the wire layout of a signed order for the fillable-amount
// query. Field order and names must track the tuple components above.
type abiOrder struct {
	MakerAddress common.Address
	TakerAddress common.Address
	MakerToken   common.Address
	TakerToken   common.Address
	MakerAmount  *big.Int
	TakerAmount  *big.Int
	Expiry       *big.Int
	Salt         *big.Int
}

func toABIOrders(orders []domain.SignedOrder) ([]abiOrder, [][]byte) {
	wire := make([]abiOrder, len(orders))
	sigs := make([][]byte, len(orders))
	for i, o := range orders {
		wire[i] = abiOrder{
			MakerAddress: o.MakerAddress,
			TakerAddress: o.TakerAddress,
			MakerToken:   o.MakerToken,
			TakerToken:   o.TakerToken,
			MakerAmount:  o.MakerAmount,
			TakerAmount:  o.TakerAmount,
			Expiry:       o.Expiry,
			Salt:         o.Salt,
		}
		sigs[i] = o.Signature
	}
	return wire, sigs
}

// sampleOp is the common operation shape: one sampler method returning a
// uint256[] aligned to the submitted amounts. Samples() stays nil until a
// successful decode, which is the no-data sentinel the engine checks for.
type sampleOp struct {
	target  common.Address
	method  string
	args    []interface{}
	samples []*big.Int
}

func newSampleOp(target common.Address, method string, args ...interface{}) *sampleOp {
	return &sampleOp{target: target, method: method, args: args}
}

func (o *sampleOp) Target() common.Address { return o.target }

func (o *sampleOp) CallData() ([]byte, error) {
	return samplerABI.Pack(o.method, o.args...)
}

func (o *sampleOp) HandleResult(data []byte) error {
	vals, err := samplerABI.Unpack(o.method, data)
	if err != nil {
		return err
	}
	if len(vals) < 1 {
		return errBadReturnShape
	}
	samples, ok := vals[0].([]*big.Int)
	if !ok {
		return errBadReturnShape
	}
	o.samples = samples
	return nil
}

func (o *sampleOp) Samples() []*big.Int { return o.samples }

// registryOp samples through a liquidity-provider registry and additionally
// resolves the provider address the registry routed to.
type registryOp struct {
	sampleOp
	provider common.Address
}

func newRegistryOp(target, registry, takerToken, makerToken common.Address, amounts []*big.Int) *registryOp {
	return &registryOp{
		sampleOp: sampleOp{
			target: target,
			method: "sampleSellsFromLiquidityProviderRegistry",
			args:   []interface{}{registry, takerToken, makerToken, amounts},
		},
	}
}

func (o *registryOp) HandleResult(data []byte) error {
	vals, err := samplerABI.Unpack(o.method, data)
	if err != nil {
		return err
	}
	if len(vals) != 2 {
		return errBadReturnShape
	}
	samples, ok := vals[0].([]*big.Int)
	if !ok {
		return errBadReturnShape
	}
	provider, ok := vals[1].(common.Address)
	if !ok {
		return errBadReturnShape
	}
	o.samples = samples
	o.provider = provider
	return nil
}

func (o *registryOp) Provider() common.Address { return o.provider }

// fillableOp queries fillable taker amounts for a list of signed orders.
// Result is aligned to the order list, not to a sample sequence.
type fillableOp struct {
	target  common.Address
	orders  []domain.SignedOrder
	amounts []*big.Int
}

func newFillableOp(target common.Address, orders []domain.SignedOrder) *fillableOp {
	return &fillableOp{target: target, orders: orders}
}

func (o *fillableOp) Target() common.Address { return o.target }

func (o *fillableOp) CallData() ([]byte, error) {
	wire, sigs := toABIOrders(o.orders)
	return samplerABI.Pack("getOrderFillableTakerAssetAmounts", wire, sigs)
}

func (o *fillableOp) HandleResult(data []byte) error {
	vals, err := samplerABI.Unpack("getOrderFillableTakerAssetAmounts", data)
	if err != nil {
		return err
	}
	if len(vals) < 1 {
		return errBadReturnShape
	}
	amounts, ok := vals[0].([]*big.Int)
	if !ok {
		return errBadReturnShape
	}
	if len(amounts) != len(o.orders) {
		return errBadReturnShape
	}
	o.amounts = amounts
	return nil
}

func (o *fillableOp) FillableAmounts() []*big.Int { return o.amounts }
