// Package fixture builds the KekToken/Aave Uniswap pair on a forked mainnet.
package fixture

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/amount"
	"github.com/meverselabs/kekfork/common/rlog"
	"github.com/meverselabs/kekfork/contract/erc20"
	"github.com/meverselabs/kekfork/contract/evm"
	"github.com/meverselabs/kekfork/contract/kektoken"
	"github.com/meverselabs/kekfork/contract/uniswap"
	"github.com/meverselabs/kekfork/ethereum/client"
	"github.com/meverselabs/kekfork/network"
)

var (
	// LiquiditySupply is the amount of each token seeded into the pair
	LiquiditySupply = amount.NewAmount(10, 0)
	// Exchanged is the KekToken amount swapped for Aave
	Exchanged = amount.NewAmount(1, 0)
	// GasTopUp is the ether sent to the impersonated Aave holder
	GasTopUp = amount.NewAmount(1, 0)
)

// GasTopUpLimit is the gas limit of the top-up transfer
const GasTopUpLimit uint64 = 2100000

// DeadlineWindow is added to the latest block time for router deadlines
const DeadlineWindow uint64 = 60

// errors
var (
	ErrNotEnoughSigners = errors.New("node has fewer than three unlocked signers")
	ErrPairNotFound     = errors.New("factory has no pair for the tokens")
)

// Clock reads the forked chain time
type Clock interface {
	LatestTime(ctx context.Context) (uint64, error)
}

// Chain is the forking node as the fixture uses it
type Chain interface {
	evm.Backend
	Clock
	Accounts(ctx context.Context) ([]common.Address, error)
	ImpersonateAccount(ctx context.Context, addr common.Address) error
}

// Options configure DeployToken
type Options struct {
	Addresses network.Addresses
	Artifact  *evm.Artifact
	Liquidity *amount.Amount
}

// Fixture is the deployed state the checks run against
type Fixture struct {
	Token             *erc20.Token
	Aave              *erc20.Token
	Owner             common.Address
	GasProvider       common.Address
	LiquidityProvider common.Address
	AaveGiant         common.Address
	Router            *uniswap.Router
	Factory           *uniswap.Factory
	Pair              *uniswap.Pair
	Liquidity         *amount.Amount
}

// Deadline returns the latest block time plus DeadlineWindow
func Deadline(ctx context.Context, clock Clock) (*big.Int, error) {
	now, err := clock.LatestTime(ctx)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(now + DeadlineWindow), nil
}

// DeployToken deploys KekToken, funds the liquidity provider with both tokens and
// adds them as liquidity to a new KekToken/Aave pair.
func DeployToken(ctx context.Context, ch Chain, opts *Options) (*Fixture, error) {
	liquidity := opts.Liquidity
	if liquidity == nil {
		liquidity = LiquiditySupply
	}

	signers, err := ch.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(signers) < 3 {
		return nil, errors.Wrapf(ErrNotEnoughSigners, "got %d", len(signers))
	}
	fx := &Fixture{
		Owner:             signers[0],
		GasProvider:       signers[1],
		LiquidityProvider: signers[2],
		AaveGiant:         opts.Addresses.AaveGiant,
		Liquidity:         liquidity.Clone(),
	}

	// Deploy our own token
	if fx.Token, err = kektoken.Deploy(ctx, ch, fx.Owner, opts.Artifact); err != nil {
		return nil, err
	}

	// Get Aave token
	fx.Aave = erc20.NewToken(ch, opts.Addresses.AaveToken)
	if err := ch.ImpersonateAccount(ctx, fx.AaveGiant); err != nil {
		return nil, errors.Wrap(err, "impersonate aave holder")
	}

	// Issue liquidity supply
	if _, err := fx.Token.Transfer(ctx, fx.Owner, fx.LiquidityProvider, liquidity.Int); err != nil {
		return nil, err
	}
	gas := hexutil.Uint64(GasTopUpLimit)
	giant := fx.AaveGiant
	if _, err := ch.Transact(ctx, &client.TxArgs{
		From:  fx.GasProvider,
		To:    &giant,
		Gas:   &gas,
		Value: (*hexutil.Big)(GasTopUp.Int),
	}); err != nil {
		return nil, errors.Wrap(err, "top up aave holder")
	}
	if _, err := fx.Aave.Transfer(ctx, fx.AaveGiant, fx.LiquidityProvider, liquidity.Int); err != nil {
		return nil, err
	}
	rlog.Infow("liquidity supply issued", "provider", fx.LiquidityProvider.Hex(), "amount", liquidity.String())

	// Get Uniswap components
	fx.Router = uniswap.NewRouter(ch, opts.Addresses.UniswapRouter)
	factoryAddr, err := fx.Router.Factory(ctx)
	if err != nil {
		return nil, err
	}
	fx.Factory = uniswap.NewFactory(ch, factoryAddr)

	// Allow the router to coordinate token transfers
	if _, err := fx.Token.Approve(ctx, fx.LiquidityProvider, fx.Router.Address, liquidity.Int); err != nil {
		return nil, err
	}
	if _, err := fx.Aave.Approve(ctx, fx.LiquidityProvider, fx.Router.Address, liquidity.Int); err != nil {
		return nil, err
	}

	// Create Uniswap pair
	if _, _, err := fx.Factory.CreatePair(ctx, fx.Owner, fx.Token.Address, fx.Aave.Address); err != nil {
		return nil, err
	}

	deadline, err := Deadline(ctx, ch)
	if err != nil {
		return nil, err
	}
	if _, err := fx.Router.AddLiquidity(ctx, fx.LiquidityProvider, &uniswap.AddLiquidityParams{
		TokenA:         fx.Token.Address,
		TokenB:         fx.Aave.Address,
		AmountADesired: liquidity.Int,
		AmountBDesired: liquidity.Int,
		AmountAMin:     big.NewInt(0),
		AmountBMin:     big.NewInt(0),
		To:             fx.LiquidityProvider,
		Deadline:       deadline,
	}); err != nil {
		return nil, err
	}

	pairAddr, err := fx.Factory.GetPair(ctx, fx.Token.Address, fx.Aave.Address)
	if err != nil {
		return nil, err
	}
	if pairAddr == (common.Address{}) {
		return nil, errors.WithStack(ErrPairNotFound)
	}
	fx.Pair = uniswap.NewPair(ch, pairAddr)
	rlog.Infow("pair created", "pair", pairAddr.Hex(), "token", fx.Token.Address.Hex(), "aave", fx.Aave.Address.Hex())

	return fx, nil
}

// Summary is the json view of the fixture addresses
type Summary struct {
	Token             common.Address `json:"token"`
	Aave              common.Address `json:"aave"`
	Owner             common.Address `json:"owner"`
	GasProvider       common.Address `json:"gasProvider"`
	LiquidityProvider common.Address `json:"liquidityProvider"`
	AaveGiant         common.Address `json:"aaveGiant"`
	Router            common.Address `json:"router"`
	Factory           common.Address `json:"factory"`
	Pair              common.Address `json:"pair"`
	Liquidity         *amount.Amount `json:"liquidity"`
}

// Summary returns the addresses of the fixture
func (fx *Fixture) Summary() *Summary {
	return &Summary{
		Token:             fx.Token.Address,
		Aave:              fx.Aave.Address,
		Owner:             fx.Owner,
		GasProvider:       fx.GasProvider,
		LiquidityProvider: fx.LiquidityProvider,
		AaveGiant:         fx.AaveGiant,
		Router:            fx.Router.Address,
		Factory:           fx.Factory.Address,
		Pair:              fx.Pair.Address,
		Liquidity:         fx.Liquidity,
	}
}
