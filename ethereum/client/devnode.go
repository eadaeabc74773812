package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// ImpersonateAccount lets the node sign transactions from addr without its key
func (c *Client) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	return errors.WithStack(c.rpc.CallContext(ctx, nil, "hardhat_impersonateAccount", addr))
}

// StopImpersonatingAccount reverts ImpersonateAccount
func (c *Client) StopImpersonatingAccount(ctx context.Context, addr common.Address) error {
	return errors.WithStack(c.rpc.CallContext(ctx, nil, "hardhat_stopImpersonatingAccount", addr))
}

// SetBalance overwrites the ether balance of addr
func (c *Client) SetBalance(ctx context.Context, addr common.Address, balance *big.Int) error {
	return errors.WithStack(c.rpc.CallContext(ctx, nil, "hardhat_setBalance", addr, hexutil.EncodeBig(balance)))
}

// Snapshot saves the chain state and returns the snapshot id
func (c *Client) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := c.rpc.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", errors.WithStack(err)
	}
	if id == "" {
		return "", errors.WithStack(ErrSnapshotID)
	}
	return id, nil
}

// Revert restores the chain state of the snapshot. The snapshot is consumed by a successful revert.
func (c *Client) Revert(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := c.rpc.CallContext(ctx, &ok, "evm_revert", id); err != nil {
		return false, errors.WithStack(err)
	}
	return ok, nil
}

// LatestTime returns the timestamp of the latest block
func (c *Client) LatestTime(ctx context.Context) (uint64, error) {
	var head struct {
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}
	if err := c.rpc.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return 0, errors.WithStack(err)
	}
	return uint64(head.Timestamp), nil
}

// IncreaseTime moves the clock forward and mines a block with the new time
func (c *Client) IncreaseTime(ctx context.Context, seconds uint64) error {
	if err := c.rpc.CallContext(ctx, nil, "evm_increaseTime", seconds); err != nil {
		return errors.WithStack(err)
	}
	return c.Mine(ctx)
}

// Mine mines a single block
func (c *Client) Mine(ctx context.Context) error {
	return errors.WithStack(c.rpc.CallContext(ctx, nil, "evm_mine"))
}
