// Package onchain reads and claims Clawnch trading fees on Base and burns
// $CLAWNCH for dev allocations.
//
// A [Client] talks to any [Backend]; *ethclient.Client satisfies it:
//
//	rpc, err := ethclient.DialContext(ctx, onchain.DefaultRPCURL)
//	if err != nil {
//	    return err
//	}
//	c, err := onchain.New(rpc, onchain.WithPrivateKey(os.Getenv("PRIVATE_KEY")))
//	if err != nil {
//	    return err
//	}
//	fees, err := c.CheckFees(ctx, wallet, token)
//
// Reads need no key. Writes sign EIP-1559 transactions with the configured
// key, send them once and wait for the receipt. A write that fails after
// the key check is reported in the result rather than as an error.
package onchain
