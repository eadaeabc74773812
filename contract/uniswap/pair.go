package uniswap

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/contract/evm"
)

// errors
var (
	ErrPairNotFound = errors.New("pair not found")
	ErrInvalidPath  = errors.New("swap path needs at least two tokens")
	ErrNotPairToken = errors.New("token is not in the pair")
)

// Reserves are the pair reserves ordered by token0, token1
type Reserves struct {
	Reserve0           *big.Int `json:"reserve0"`
	Reserve1           *big.Int `json:"reserve1"`
	BlockTimestampLast uint32   `json:"blockTimestampLast"`
}

// Pair is a UniswapV2Pair contract
type Pair struct {
	evm.EvmContract
}

// NewPair binds the pair abi to addr
func NewPair(backend evm.Backend, addr common.Address) *Pair {
	return &Pair{EvmContract: *evm.NewEvmContract(pairABI, backend, addr)}
}

// GetReserves returns the current reserves
func (p *Pair) GetReserves(ctx context.Context) (*Reserves, error) {
	res, err := p.Call(ctx, "getReserves")
	if err != nil {
		return nil, err
	}
	if len(res) != 3 {
		return nil, errors.Wrapf(evm.ErrUnexpectedOutput, "getReserves returned %d values", len(res))
	}
	r0, ok0 := res[0].(*big.Int)
	r1, ok1 := res[1].(*big.Int)
	ts, ok2 := res[2].(uint32)
	if !ok0 || !ok1 || !ok2 {
		return nil, errors.WithStack(evm.ErrUnexpectedOutput)
	}
	return &Reserves{Reserve0: r0, Reserve1: r1, BlockTimestampLast: ts}, nil
}

// Token0 returns the lower sorted token of the pair
func (p *Pair) Token0(ctx context.Context) (common.Address, error) {
	return p.CallAddress(ctx, "token0")
}

// Token1 returns the higher sorted token of the pair
func (p *Pair) Token1(ctx context.Context) (common.Address, error) {
	return p.CallAddress(ctx, "token1")
}

// TotalSupply returns the liquidity token supply
func (p *Pair) TotalSupply(ctx context.Context) (*big.Int, error) {
	return p.CallBigInt(ctx, "totalSupply")
}

// BalanceOf returns the liquidity token balance of the account
func (p *Pair) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return p.CallBigInt(ctx, "balanceOf", account)
}

// ReserveOf returns the reserve held for token
func (p *Pair) ReserveOf(ctx context.Context, token common.Address) (*big.Int, error) {
	rs, err := p.GetReserves(ctx)
	if err != nil {
		return nil, err
	}
	t0, err := p.Token0(ctx)
	if err != nil {
		return nil, err
	}
	if token == t0 {
		return rs.Reserve0, nil
	}
	t1, err := p.Token1(ctx)
	if err != nil {
		return nil, err
	}
	if token == t1 {
		return rs.Reserve1, nil
	}
	return nil, errors.Wrap(ErrNotPairToken, token.Hex())
}

// SortTokens orders two token addresses the way the factory does
func SortTokens(a common.Address, b common.Address) (common.Address, common.Address) {
	if bytesLess(b, a) {
		return b, a
	}
	return a, b
}

func bytesLess(a common.Address, b common.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
