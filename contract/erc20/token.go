package erc20

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/contract/evm"
)

var tokenABI = evm.MustParseABI(ABI)

// Token is an ERC20 token contract
type Token struct {
	evm.EvmContract
}

// NewToken binds the ERC20 abi to addr
func NewToken(backend evm.Backend, addr common.Address) *Token {
	return &Token{EvmContract: *evm.NewEvmContract(tokenABI, backend, addr)}
}

// FromContract keeps the deployed contract abi (a superset of ERC20) and address
func FromContract(c *evm.EvmContract) *Token {
	return &Token{EvmContract: *c}
}

// Name returns the token name
func (t *Token) Name(ctx context.Context) (string, error) {
	return t.callString(ctx, "name")
}

// Symbol returns the token symbol
func (t *Token) Symbol(ctx context.Context) (string, error) {
	return t.callString(ctx, "symbol")
}

// Decimals returns the token decimals
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	res, err := t.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, errors.WithStack(evm.ErrUnexpectedOutput)
	}
	d, ok := res[0].(uint8)
	if !ok {
		return 0, errors.Wrapf(evm.ErrUnexpectedOutput, "decimals returned %T", res[0])
	}
	return d, nil
}

// TotalSupply returns the total supply
func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	return t.CallBigInt(ctx, "totalSupply")
}

// BalanceOf returns the balance of the account
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return t.CallBigInt(ctx, "balanceOf", account)
}

// Allowance returns the amount spender may move on behalf of owner
func (t *Token) Allowance(ctx context.Context, owner common.Address, spender common.Address) (*big.Int, error) {
	return t.CallBigInt(ctx, "allowance", owner, spender)
}

// Transfer moves amount from the signer to the receiver
func (t *Token) Transfer(ctx context.Context, from common.Address, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "transfer", to, amount)
}

// Approve allows spender to move amount of the signer's tokens
func (t *Token) Approve(ctx context.Context, from common.Address, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "approve", spender, amount)
}

// TransferFrom moves amount from owner to the receiver using the signer's allowance
func (t *Token) TransferFrom(ctx context.Context, from common.Address, owner common.Address, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "transferFrom", owner, to, amount)
}

func (t *Token) callString(ctx context.Context, method string) (string, error) {
	res, err := t.Call(ctx, method)
	if err != nil {
		return "", err
	}
	if len(res) != 1 {
		return "", errors.WithStack(evm.ErrUnexpectedOutput)
	}
	s, ok := res[0].(string)
	if !ok {
		return "", errors.Wrapf(evm.ErrUnexpectedOutput, "%s returned %T", method, res[0])
	}
	return s, nil
}
