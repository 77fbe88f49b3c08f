// Package clawnch is the single entry point to the Clawnch platform: the
// REST API, the Molten agent network and the on-chain fee and burn calls.
//
//	c, err := clawnch.New(ctx, clawnch.Config{PrivateKey: os.Getenv("PRIVATE_KEY")})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	page, err := c.ListTokens(ctx, platform.TokenListOptions{Limit: 10}, false)
//	fees, err := c.CheckFees(ctx, "", tokenAddress)
//
// The RPC connection is opened on the first chain call, so read-only API
// use never touches the chain. Writes are appended to the configured
// [history.Store].
package clawnch
