// Package client talks to a forking development node (Hardhat network or anvil) over JSON-RPC.
package client

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/rlog"
)

// DefaultPollInterval is the receipt polling period
const DefaultPollInterval = 100 * time.Millisecond

// errors
var (
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrSnapshotID          = errors.New("invalid snapshot id")
)

// TxArgs are the arguments of eth_sendTransaction.
// The node signs on behalf of From, so From must be unlocked or impersonated.
type TxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// Client is a json-rpc client of the forked network
type Client struct {
	rpc          *rpc.Client
	eth          *ethclient.Client
	pollInterval time.Duration
}

// Dial connects to the node at url
func Dial(ctx context.Context, url string) (*Client, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return NewClient(rc), nil
}

// NewClient wraps a connected rpc client
func NewClient(rc *rpc.Client) *Client {
	return &Client{
		rpc:          rc,
		eth:          ethclient.NewClient(rc),
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval changes the receipt polling period
func (c *Client) SetPollInterval(d time.Duration) {
	c.pollInterval = d
}

// Close closes the connection
func (c *Client) Close() {
	c.rpc.Close()
}

// Eth returns the underlying ethclient
func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

// ChainID returns the chain id of the node
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	return id, errors.WithStack(err)
}

// Accounts returns the unlocked signers of the node
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, errors.WithStack(err)
	}
	return accounts, nil
}

// BalanceAt returns the ether balance of the account at the latest block
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, account, nil)
	return bal, errors.WithStack(err)
}

// CallContract executes a read-only call
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, blockNumber)
	return out, errors.WithStack(err)
}

// SendTransaction executes an eth_sendTransaction json-rpc
func (c *Client) SendTransaction(ctx context.Context, args *TxArgs) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, errors.Wrapf(err, "send transaction from %s", args.From.Hex())
	}
	return hash, nil
}

// WaitReceipt waits until the transaction is mined and returns its receipt
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, errors.WithStack(err)
		}
		rlog.Debugw("receipt not yet available", "tx", hash.Hex())

		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-ticker.C:
		}
	}
}

// Transact sends the transaction and waits for a successful receipt
func (c *Client) Transact(ctx context.Context, args *TxArgs) (*types.Receipt, error) {
	hash, err := c.SendTransaction(ctx, args)
	if err != nil {
		return nil, err
	}
	receipt, err := c.WaitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errors.Wrapf(ErrTransactionReverted, "tx %s", hash.Hex())
	}
	return receipt, nil
}
