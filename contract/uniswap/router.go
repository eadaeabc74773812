package uniswap

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/contract/evm"
)

var (
	routerABI  = evm.MustParseABI(RouterABI)
	factoryABI = evm.MustParseABI(FactoryABI)
	pairABI    = evm.MustParseABI(PairABI)
)

// Router is the UniswapV2Router02 contract
type Router struct {
	evm.EvmContract
}

// AddLiquidityParams are the arguments of addLiquidity
type AddLiquidityParams struct {
	TokenA         common.Address
	TokenB         common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       *big.Int
}

// NewRouter binds the router abi to addr
func NewRouter(backend evm.Backend, addr common.Address) *Router {
	return &Router{EvmContract: *evm.NewEvmContract(routerABI, backend, addr)}
}

// Factory returns the factory address the router was deployed with
func (r *Router) Factory(ctx context.Context) (common.Address, error) {
	return r.CallAddress(ctx, "factory")
}

// WETH returns the wrapped ether address of the router
func (r *Router) WETH(ctx context.Context) (common.Address, error) {
	return r.CallAddress(ctx, "WETH")
}

// AddLiquidity deposits both tokens into their pair, creating it if needed
func (r *Router) AddLiquidity(ctx context.Context, from common.Address, p *AddLiquidityParams) (*types.Receipt, error) {
	return r.Transact(ctx, from, "addLiquidity",
		p.TokenA, p.TokenB,
		p.AmountADesired, p.AmountBDesired,
		orZero(p.AmountAMin), orZero(p.AmountBMin),
		p.To, p.Deadline,
	)
}

// RemoveLiquidity burns liquidity pair tokens and returns both tokens to the receiver
func (r *Router) RemoveLiquidity(ctx context.Context, from common.Address, tokenA common.Address, tokenB common.Address, liquidity *big.Int, to common.Address, deadline *big.Int) (*types.Receipt, error) {
	return r.Transact(ctx, from, "removeLiquidity", tokenA, tokenB, liquidity, big.NewInt(0), big.NewInt(0), to, deadline)
}

// SwapExactTokensForTokens swaps amountIn of path[0] for at least amountOutMin of path[len-1]
func (r *Router) SwapExactTokensForTokens(ctx context.Context, from common.Address, amountIn *big.Int, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (*types.Receipt, error) {
	if len(path) < 2 {
		return nil, errors.WithStack(ErrInvalidPath)
	}
	return r.Transact(ctx, from, "swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
}

// GetAmountsOut quotes the amounts of each hop for amountIn along path
func (r *Router) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if len(path) < 2 {
		return nil, errors.WithStack(ErrInvalidPath)
	}
	res, err := r.Call(ctx, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, errors.WithStack(evm.ErrUnexpectedOutput)
	}
	amounts, ok := res[0].([]*big.Int)
	if !ok {
		return nil, errors.Wrapf(evm.ErrUnexpectedOutput, "getAmountsOut returned %T", res[0])
	}
	return amounts, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
