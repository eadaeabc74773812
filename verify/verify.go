// Package verify checks the supply, reserve and swap properties of a loaded fixture.
package verify

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/amount"
	"github.com/meverselabs/kekfork/common/rlog"
	"github.com/meverselabs/kekfork/fixture"
)

// errors
var (
	ErrSupplyMismatch    = errors.New("total supply is not owner balance plus liquidity")
	ErrReserveMismatch   = errors.New("pair reserve differs from the liquidity supply")
	ErrUnexpectedBalance = errors.New("unexpected balance")
	ErrSwapDelta         = errors.New("unexpected swap balance change")
)

// CheckSupply reports whether total == owner + liquidity
func CheckSupply(total *big.Int, owner *big.Int, liquidity *big.Int) error {
	expected := new(big.Int).Add(owner, liquidity)
	if total.Cmp(expected) != 0 {
		return errors.Wrapf(ErrSupplyMismatch, "totalSupply %s, owner %s + liquidity %s = %s",
			amount.NewAmountFromBig(total), amount.NewAmountFromBig(owner), amount.NewAmountFromBig(liquidity), amount.NewAmountFromBig(expected))
	}
	return nil
}

// CheckReserves reports whether both reserves equal liquidity
func CheckReserves(reserve0 *big.Int, reserve1 *big.Int, liquidity *big.Int) error {
	if reserve0.Cmp(liquidity) != 0 || reserve1.Cmp(liquidity) != 0 {
		return errors.Wrapf(ErrReserveMismatch, "reserves (%s, %s), liquidity %s",
			amount.NewAmountFromBig(reserve0), amount.NewAmountFromBig(reserve1), amount.NewAmountFromBig(liquidity))
	}
	return nil
}

// CheckZero reports whether balance is zero
func CheckZero(balance *big.Int) error {
	if balance.Sign() != 0 {
		return errors.Wrapf(ErrUnexpectedBalance, "expected 0, got %s", amount.NewAmountFromBig(balance))
	}
	return nil
}

// Supply checks totalSupply == balanceOf(owner) + liquidity
func Supply(ctx context.Context, fx *fixture.Fixture) error {
	total, err := fx.Token.TotalSupply(ctx)
	if err != nil {
		return err
	}
	owner, err := fx.Token.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return err
	}
	return CheckSupply(total, owner, fx.Liquidity.Int)
}

// Reserves checks both pair reserves equal the liquidity supply
func Reserves(ctx context.Context, fx *fixture.Fixture) error {
	rs, err := fx.Pair.GetReserves(ctx)
	if err != nil {
		return err
	}
	return CheckReserves(rs.Reserve0, rs.Reserve1, fx.Liquidity.Int)
}

// NoAave checks the owner holds no Aave before any swap
func NoAave(ctx context.Context, fx *fixture.Fixture) error {
	bal, err := fx.Aave.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return err
	}
	return CheckZero(bal)
}

// SwapResult are the owner balances around a swap
type SwapResult struct {
	AmountIn     *amount.Amount `json:"amountIn"`
	AmountOutMin *amount.Amount `json:"amountOutMin"`
	Quoted       *amount.Amount `json:"quoted"`
	KekBefore    *amount.Amount `json:"kekBefore"`
	KekAfter     *amount.Amount `json:"kekAfter"`
	AaveBefore   *amount.Amount `json:"aaveBefore"`
	AaveAfter    *amount.Amount `json:"aaveAfter"`
}

// Swap makes the owner swap amountIn KekToken for at least half as much Aave
func Swap(ctx context.Context, clock fixture.Clock, fx *fixture.Fixture, amountIn *amount.Amount) (*SwapResult, error) {
	path := []common.Address{fx.Token.Address, fx.Aave.Address}
	res := &SwapResult{
		AmountIn:     amountIn.Clone(),
		AmountOutMin: amountIn.DivC(2),
	}

	kekBefore, err := fx.Token.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return nil, err
	}
	aaveBefore, err := fx.Aave.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return nil, err
	}
	quote, err := fx.Router.GetAmountsOut(ctx, amountIn.Int, path)
	if err != nil {
		return nil, err
	}
	res.Quoted = amount.NewAmountFromBig(quote[len(quote)-1])

	if _, err := fx.Token.Approve(ctx, fx.Owner, fx.Router.Address, amountIn.Int); err != nil {
		return nil, err
	}
	deadline, err := fixture.Deadline(ctx, clock)
	if err != nil {
		return nil, err
	}
	if _, err := fx.Router.SwapExactTokensForTokens(ctx, fx.Owner, amountIn.Int, res.AmountOutMin.Int, path, fx.Owner, deadline); err != nil {
		return nil, err
	}

	kekAfter, err := fx.Token.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return nil, err
	}
	aaveAfter, err := fx.Aave.BalanceOf(ctx, fx.Owner)
	if err != nil {
		return nil, err
	}
	res.KekBefore = amount.NewAmountFromBig(kekBefore)
	res.KekAfter = amount.NewAmountFromBig(kekAfter)
	res.AaveBefore = amount.NewAmountFromBig(aaveBefore)
	res.AaveAfter = amount.NewAmountFromBig(aaveAfter)

	rlog.Infow("swapped", "in", res.AmountIn.String(), "quoted", res.Quoted.String(), "received", res.AaveAfter.Sub(res.AaveBefore).String())
	return res, nil
}

// SwapDelta checks the owner paid exactly AmountIn KekToken and received some Aave
func SwapDelta(res *SwapResult) error {
	paid := res.KekBefore.Sub(res.KekAfter)
	if !paid.Equal(res.AmountIn) {
		return errors.Wrapf(ErrSwapDelta, "KekToken decreased by %s, expected %s", paid, res.AmountIn)
	}
	received := res.AaveAfter.Sub(res.AaveBefore)
	if received.Int.Sign() <= 0 {
		return errors.Wrapf(ErrSwapDelta, "Aave changed by %s, expected an increase", received)
	}
	return nil
}
