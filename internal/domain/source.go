package domain

// Source identifies a liquidity source the sampler knows how to quote against.
type Source uint8

const (
	SourceNative Source = iota
	SourceUniswap
	SourceUniswapV2
	SourceEth2Dai
	SourceKyber
	SourceBalancer
	SourceLiquidityProvider
)

func (s Source) String() string {
	switch s {
	case SourceNative:
		return "Native"
	case SourceUniswap:
		return "Uniswap"
	case SourceUniswapV2:
		return "UniswapV2"
	case SourceEth2Dai:
		return "Eth2Dai"
	case SourceKyber:
		return "Kyber"
	case SourceBalancer:
		return "Balancer"
	case SourceLiquidityProvider:
		return "LiquidityProvider"
	default:
		return "UNKNOWN"
	}
}

// ParseSource maps the wire name back to a Source. The second return is false
// for names the engine has no handler for.
func ParseSource(name string) (Source, bool) {
	switch name {
	case "Native":
		return SourceNative, true
	case "Uniswap":
		return SourceUniswap, true
	case "UniswapV2":
		return SourceUniswapV2, true
	case "Eth2Dai":
		return SourceEth2Dai, true
	case "Kyber":
		return SourceKyber, true
	case "Balancer":
		return SourceBalancer, true
	case "LiquidityProvider":
		return SourceLiquidityProvider, true
	default:
		return 0, false
	}
}
