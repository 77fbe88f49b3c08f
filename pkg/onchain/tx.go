package onchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/clawnch/clawctl/pkg/observability"
)

// ErrReverted is returned when a mined transaction has a failed status.
var ErrReverted = errors.New("transaction reverted")

// execute signs and sends a call to `to` and waits for it to be mined.
// The returned hash is set once the transaction was accepted by the node,
// even when waiting fails afterwards.
func (c *Client) execute(ctx context.Context, kind string, to common.Address, data []byte) (common.Hash, error) {
	start := time.Now()
	tx, err := c.buildTx(ctx, to, data)
	if err != nil {
		return common.Hash{}, err
	}
	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}
	hash := tx.Hash()
	observability.Chain().OnTxSent(ctx, kind, hash.Hex())
	c.logger.Info("transaction sent", "kind", kind, "hash", hash.Hex())

	receipt, err := c.waitMined(ctx, hash)
	if err != nil {
		return hash, err
	}
	ok := receipt.Status == types.ReceiptStatusSuccessful
	observability.Chain().OnTxMined(ctx, kind, ok, time.Since(start))
	if !ok {
		return hash, ErrReverted
	}
	c.logger.Debug("transaction mined", "kind", kind, "block", receipt.BlockNumber, "gas", receipt.GasUsed)
	return hash, nil
}

// buildTx assembles and signs an EIP-1559 transaction. The fee cap leaves
// room for the base fee to double before inclusion.
func (c *Client) buildTx(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	chainID := c.chainID
	if chainID == nil {
		id, err := c.backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
		chainID = id
	}
	nonce, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	tip, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas tip: %w", err)
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", err)
	}
	baseFee := new(big.Int)
	if head.BaseFee != nil {
		baseFee.Set(head.BaseFee)
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:      c.address,
		To:        &to,
		GasFeeCap: feeCap,
		GasTipCap: tip,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}

// waitMined polls for the receipt of hash until it appears or ctx ends.
func (c *Client) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
