package uniswap_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/kekfork/contract/erc20"
	"github.com/meverselabs/kekfork/contract/evm"
	"github.com/meverselabs/kekfork/contract/uniswap"
	. "github.com/meverselabs/kekfork/tests/lib"
)

func TestSelectors(t *testing.T) {
	router := evm.MustParseABI(uniswap.RouterABI)
	factory := evm.MustParseABI(uniswap.FactoryABI)
	pair := evm.MustParseABI(uniswap.PairABI)

	assert.Equal(t, "c45a0155", hex.EncodeToString(router.Methods["factory"].ID))
	assert.Equal(t, "e8e33700", hex.EncodeToString(router.Methods["addLiquidity"].ID))
	assert.Equal(t, "38ed1739", hex.EncodeToString(router.Methods["swapExactTokensForTokens"].ID))
	assert.Equal(t, "d06ca61f", hex.EncodeToString(router.Methods["getAmountsOut"].ID))
	assert.Equal(t, "e6a43905", hex.EncodeToString(factory.Methods["getPair"].ID))
	assert.Equal(t, "c9c65396", hex.EncodeToString(factory.Methods["createPair"].ID))
	assert.Equal(t, "0902f1ac", hex.EncodeToString(pair.Methods["getReserves"].ID))
	assert.Equal(t, "0dfe1681", hex.EncodeToString(pair.Methods["token0"].ID))
	assert.Equal(t, "d21220a7", hex.EncodeToString(pair.Methods["token1"].ID))
}

func TestSortTokens(t *testing.T) {
	a := common.HexToAddress("0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9")
	b := common.HexToAddress("0x1000000000000000000000000000000000000000")
	t0, t1 := uniswap.SortTokens(a, b)
	assert.Equal(t, b, t0)
	assert.Equal(t, a, t1)
	t0, t1 = uniswap.SortTokens(b, a)
	assert.Equal(t, b, t0)
	assert.Equal(t, a, t1)
}

func TestCreatePairAddLiquidityAndSwap(t *testing.T) {
	ctx := context.Background()
	mc := NewForkedMockChain()
	require.NoError(t, mc.ImpersonateAccount(ctx, AaveGiant))

	kekC, _, err := evm.Deploy(ctx, mc, Owner, &evm.Artifact{
		ContractName: "KekToken",
		Abi:          evm.MustParseABI(erc20.ABI),
		Bytecode:     []byte{0x60, 0x80},
	})
	require.NoError(t, err)
	kek := erc20.FromContract(kekC)
	aave := erc20.NewToken(mc, AaveToken)

	router := uniswap.NewRouter(mc, UniswapRouter)
	factoryAddr, err := router.Factory(ctx)
	require.NoError(t, err)
	assert.Equal(t, UniswapFactory, factoryAddr)
	weth, err := router.WETH(ctx)
	require.NoError(t, err)
	assert.Equal(t, WETH, weth)
	factory := uniswap.NewFactory(mc, factoryAddr)

	pairAddr, receipt, err := factory.CreatePair(ctx, Owner, kek.Address, aave.Address)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)
	got, err := factory.GetPair(ctx, aave.Address, kek.Address)
	require.NoError(t, err)
	assert.Equal(t, pairAddr, got)
	n, err := factory.AllPairsLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Int64())

	_, _, err = factory.CreatePair(ctx, Owner, kek.Address, aave.Address)
	assert.Error(t, err)

	liq := new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18))
	_, err = aave.Transfer(ctx, AaveGiant, Owner, liq)
	require.NoError(t, err)
	_, err = kek.Approve(ctx, Owner, router.Address, liq)
	require.NoError(t, err)
	_, err = aave.Approve(ctx, Owner, router.Address, liq)
	require.NoError(t, err)

	deadline := new(big.Int).SetUint64(GenesisTime + 1000)
	_, err = router.AddLiquidity(ctx, Owner, &uniswap.AddLiquidityParams{
		TokenA:         kek.Address,
		TokenB:         aave.Address,
		AmountADesired: liq,
		AmountBDesired: liq,
		To:             Owner,
		Deadline:       deadline,
	})
	require.NoError(t, err)

	pair := uniswap.NewPair(mc, pairAddr)
	rs, err := pair.GetReserves(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Reserve0.Cmp(liq))
	assert.Equal(t, 0, rs.Reserve1.Cmp(liq))
	r, err := pair.ReserveOf(ctx, kek.Address)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(liq))
	_, err = pair.ReserveOf(ctx, WETH)
	assert.ErrorIs(t, err, uniswap.ErrNotPairToken)
	lp, err := pair.BalanceOf(ctx, Owner)
	require.NoError(t, err)
	assert.Equal(t, 0, lp.Cmp(liq))

	one := big.NewInt(1e18)
	path := []common.Address{kek.Address, aave.Address}
	quote, err := router.GetAmountsOut(ctx, one, path)
	require.NoError(t, err)
	require.Len(t, quote, 2)
	assert.True(t, quote[1].Sign() > 0)

	_, err = kek.Approve(ctx, Owner, router.Address, one)
	require.NoError(t, err)
	before, _ := aave.BalanceOf(ctx, Owner)
	_, err = router.SwapExactTokensForTokens(ctx, Owner, one, new(big.Int).Div(one, big.NewInt(2)), path, Owner, deadline)
	require.NoError(t, err)
	after, _ := aave.BalanceOf(ctx, Owner)
	assert.Equal(t, 0, new(big.Int).Sub(after, before).Cmp(quote[1]))

	_, err = router.SwapExactTokensForTokens(ctx, Owner, one, big.NewInt(0), path[:1], Owner, deadline)
	assert.ErrorIs(t, err, uniswap.ErrInvalidPath)
	_, err = router.GetAmountsOut(ctx, one, nil)
	assert.ErrorIs(t, err, uniswap.ErrInvalidPath)
}

func TestPairCreatedIgnoresForeignLogs(t *testing.T) {
	factory := uniswap.NewFactory(NewForkedMockChain(), UniswapFactory)
	_, err := factory.PairCreated(&types.Receipt{Logs: []*types.Log{{Address: WETH}}})
	assert.ErrorIs(t, err, uniswap.ErrPairNotFound)
}
