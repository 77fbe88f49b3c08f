package onchain

import "github.com/ethereum/go-ethereum/common"

// Base mainnet defaults.
const (
	DefaultRPCURL  = "https://mainnet.base.org"
	DefaultChainID = 8453

	// Decimals is the precision of WETH and every Clawnch token.
	Decimals = 18
)

// Contract addresses on Base mainnet.
var (
	ClawnchToken = common.HexToAddress("0xa1F72459dfA10BAD200Ac160eCd78C6b77a747be")
	WETH         = common.HexToAddress("0x4200000000000000000000000000000000000006")
	FeeLocker    = common.HexToAddress("0xF3622742b1E446D92e45E22923Ef11C2fcD55D68")
	BurnAddress  = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
)

// Addresses groups the contracts a [Client] talks to. Tests and forks may
// point a client elsewhere with [WithAddresses].
type Addresses struct {
	FeeLocker common.Address
	WETH      common.Address
	Clawnch   common.Address
	Burn      common.Address
}

// BaseMainnet returns the production contract set.
func BaseMainnet() Addresses {
	return Addresses{
		FeeLocker: FeeLocker,
		WETH:      WETH,
		Clawnch:   ClawnchToken,
		Burn:      BurnAddress,
	}
}
