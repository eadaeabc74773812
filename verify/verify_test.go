package verify

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/kekfork/common/amount"
	"github.com/meverselabs/kekfork/fixture"
	. "github.com/meverselabs/kekfork/tests/lib"
)

func ether(i uint64) *big.Int {
	return amount.NewAmount(i, 0).Int
}

func loadFixture(t *testing.T) (*MockChain, *fixture.Fixture) {
	mc := NewForkedMockChain()
	fx, err := fixture.DeployToken(context.Background(), mc, &fixture.Options{
		Addresses: ForkAddresses(),
		Artifact:  KekArtifact(),
	})
	require.NoError(t, err)
	return mc, fx
}

func TestCheckSupply(t *testing.T) {
	assert.NoError(t, CheckSupply(ether(1000000), ether(999990), ether(10)))
	err := CheckSupply(ether(100), ether(95), ether(10))
	assert.ErrorIs(t, err, ErrSupplyMismatch)
	assert.Contains(t, err.Error(), "totalSupply 100, owner 95 + liquidity 10 = 105")
}

func TestCheckReserves(t *testing.T) {
	assert.NoError(t, CheckReserves(ether(10), ether(10), ether(10)))
	assert.ErrorIs(t, CheckReserves(ether(10), ether(9), ether(10)), ErrReserveMismatch)
	assert.ErrorIs(t, CheckReserves(ether(11), ether(10), ether(10)), ErrReserveMismatch)
}

func TestCheckZero(t *testing.T) {
	assert.NoError(t, CheckZero(big.NewInt(0)))
	err := CheckZero(big.NewInt(1))
	assert.ErrorIs(t, err, ErrUnexpectedBalance)
	assert.Contains(t, err.Error(), "0.000000000000000001")
}

func TestSwapDelta(t *testing.T) {
	res := &SwapResult{
		AmountIn:   amount.NewAmount(1, 0),
		KekBefore:  amount.NewAmount(5, 0),
		KekAfter:   amount.NewAmount(4, 0),
		AaveBefore: amount.NewAmount(0, 0),
		AaveAfter:  amount.MustParseAmount("0.9"),
	}
	assert.NoError(t, SwapDelta(res))

	res.AaveAfter = amount.NewAmount(0, 0)
	assert.ErrorIs(t, SwapDelta(res), ErrSwapDelta)

	res.AaveAfter = amount.NewAmount(1, 0)
	res.KekAfter = amount.MustParseAmount("4.5")
	err := SwapDelta(res)
	assert.ErrorIs(t, err, ErrSwapDelta)
	assert.Contains(t, err.Error(), "KekToken decreased by 0.5, expected 1")
}

func TestChecksOnFixture(t *testing.T) {
	ctx := context.Background()
	_, fx := loadFixture(t)

	assert.NoError(t, Supply(ctx, fx))
	assert.NoError(t, Reserves(ctx, fx))
	assert.NoError(t, NoAave(ctx, fx))
}

func TestSwap(t *testing.T) {
	ctx := context.Background()
	mc, fx := loadFixture(t)

	res, err := Swap(ctx, mc, fx, fixture.Exchanged)
	require.NoError(t, err)
	require.NoError(t, SwapDelta(res))

	assert.True(t, res.AmountOutMin.Equal(amount.MustParseAmount("0.5")))
	assert.True(t, res.AaveBefore.IsZero())
	// 1 in against 10/10 reserves with the 0.3% fee
	assert.True(t, res.AaveAfter.Equal(res.Quoted))
	assert.True(t, res.Quoted.Less(amount.NewAmount(1, 0)))
	assert.False(t, res.Quoted.Less(res.AmountOutMin))
	assert.Equal(t, "swapExactTokensForTokens", mc.Methods()[len(mc.Methods())-1])
}

func TestRun(t *testing.T) {
	mc, fx := loadFixture(t)

	r := Run(context.Background(), mc, fx)
	require.Len(t, r.Results, 4)
	assert.True(t, r.Passed())
	assert.Equal(t, CheckMintInitialSupply, r.Results[0].Name)
	assert.Equal(t, CheckSwap, r.Results[3].Name)
	assert.NotNil(t, r.Swap)
	assert.Equal(t, fx.Pair.Address, r.Fixture.Pair)
}

func TestRunReportsFailures(t *testing.T) {
	mc, fx := loadFixture(t)
	mc.SetReserves(fx.Pair.Address, ether(10), ether(7))

	r := Run(context.Background(), mc, fx)
	assert.False(t, r.Passed())
	assert.True(t, r.Results[0].Passed)
	assert.False(t, r.Results[1].Passed)
	assert.Contains(t, r.Results[1].Error, ErrReserveMismatch.Error())
	assert.True(t, r.Results[2].Passed)
}

func TestRunSwapReverted(t *testing.T) {
	mc, fx := loadFixture(t)
	mc.FailOn("swapExactTokensForTokens")

	r := Run(context.Background(), mc, fx)
	assert.False(t, r.Passed())
	assert.Nil(t, r.Swap)
	assert.False(t, r.Results[3].Passed)
}
