package reportserver

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meverselabs/kekfork/common/amount"
	"github.com/meverselabs/kekfork/contract/uniswap"
	"github.com/meverselabs/kekfork/fixture"
	"github.com/meverselabs/kekfork/verify"
)

// FixtureName is the loader key of the served fixture
const FixtureName = "deployTokenFixture"

// Balances are the holdings of one account
type Balances struct {
	Account  common.Address `json:"account"`
	Ether    *amount.Amount `json:"ether"`
	KekToken *amount.Amount `json:"kekToken"`
	Aave     *amount.Amount `json:"aave"`
	LPToken  *amount.Amount `json:"lpToken"`
}

// Source provides the data the server exposes
type Source interface {
	Fixture(ctx context.Context) (*fixture.Summary, error)
	Report(ctx context.Context) (*verify.Report, error)
	Reserves(ctx context.Context) (*uniswap.Reserves, error)
	Balances(ctx context.Context, account common.Address) (*Balances, error)
}

// EtherReader reads ether balances
type EtherReader interface {
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
}

// Chain is the node a FixtureSource runs against
type Chain interface {
	fixture.Chain
	EtherReader
}

// FixtureSource serves a fixture kept by a loader. Every report starts from the
// freshly loaded fixture so repeated reports see the same state.
type FixtureSource struct {
	sync.Mutex
	ch     Chain
	loader *fixture.Loader
	fn     fixture.Func
}

// NewFixtureSource returns a FixtureSource
func NewFixtureSource(ch Chain, loader *fixture.Loader, fn fixture.Func) *FixtureSource {
	return &FixtureSource{
		ch:     ch,
		loader: loader,
		fn:     fn,
	}
}

func (s *FixtureSource) load(ctx context.Context) (*fixture.Fixture, error) {
	return s.loader.Load(ctx, FixtureName, s.fn)
}

// Fixture returns the fixture addresses
func (s *FixtureSource) Fixture(ctx context.Context) (*fixture.Summary, error) {
	s.Lock()
	defer s.Unlock()

	fx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return fx.Summary(), nil
}

// Report runs every check on a fresh fixture
func (s *FixtureSource) Report(ctx context.Context) (*verify.Report, error) {
	s.Lock()
	defer s.Unlock()

	fx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return verify.Run(ctx, s.ch, fx), nil
}

// Reserves returns the pair reserves of a fresh fixture
func (s *FixtureSource) Reserves(ctx context.Context) (*uniswap.Reserves, error) {
	s.Lock()
	defer s.Unlock()

	fx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return fx.Pair.GetReserves(ctx)
}

// Balances returns the holdings of account on a fresh fixture
func (s *FixtureSource) Balances(ctx context.Context, account common.Address) (*Balances, error) {
	s.Lock()
	defer s.Unlock()

	fx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	eth, err := s.ch.BalanceAt(ctx, account)
	if err != nil {
		return nil, err
	}
	kek, err := fx.Token.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	aave, err := fx.Aave.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	lp, err := fx.Pair.BalanceOf(ctx, account)
	if err != nil {
		return nil, err
	}
	return &Balances{
		Account:  account,
		Ether:    amount.NewAmountFromBig(eth),
		KekToken: amount.NewAmountFromBig(kek),
		Aave:     amount.NewAmountFromBig(aave),
		LPToken:  amount.NewAmountFromBig(lp),
	}, nil
}
