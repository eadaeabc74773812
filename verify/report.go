package verify

import (
	"context"

	"github.com/meverselabs/kekfork/fixture"
)

// check names
const (
	CheckMintInitialSupply = "KekToken: mints initial supply to owner"
	CheckMoveLiquidity     = "KekToken: moves liquidity supply to pair"
	CheckNoAavePriorSwap   = "Aave: owner has no Aave prior to swap"
	CheckSwap              = "Swap: swaps KekToken for Aave"
)

// Result is the outcome of one check
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// Report is the outcome of every check
type Report struct {
	Fixture *fixture.Summary `json:"fixture"`
	Results []*Result        `json:"results"`
	Swap    *SwapResult      `json:"swap,omitempty"`
}

// Passed is true when every check passed
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, err error) {
	res := &Result{Name: name, Passed: err == nil}
	if err != nil {
		res.Error = err.Error()
	}
	r.Results = append(r.Results, res)
}

// Run runs the checks in order. The swap runs last since it changes the balances the
// other checks read.
func Run(ctx context.Context, clock fixture.Clock, fx *fixture.Fixture) *Report {
	r := &Report{Fixture: fx.Summary()}
	r.add(CheckMintInitialSupply, Supply(ctx, fx))
	r.add(CheckMoveLiquidity, Reserves(ctx, fx))
	r.add(CheckNoAavePriorSwap, NoAave(ctx, fx))

	swap, err := Swap(ctx, clock, fx, fixture.Exchanged)
	if err == nil {
		r.Swap = swap
		err = SwapDelta(swap)
	}
	r.add(CheckSwap, err)
	return r
}
