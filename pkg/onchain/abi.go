package onchain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const feeLockerJSON = `[
  {"type":"function","name":"feesToClaim","stateMutability":"view",
   "inputs":[{"name":"feeOwner","type":"address"},{"name":"token","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"claim","stateMutability":"nonpayable",
   "inputs":[{"name":"feeOwner","type":"address"},{"name":"token","type":"address"}],
   "outputs":[]}
]`

const erc20JSON = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]}
]`

// Parsed ABIs for the fee locker and the ERC-20 transfer method.
var (
	FeeLockerABI = mustParseABI(feeLockerJSON)
	ERC20ABI     = mustParseABI(erc20JSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("onchain: bad ABI: " + err.Error())
	}
	return parsed
}
