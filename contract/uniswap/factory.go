package uniswap

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/contract/evm"
)

// Factory is the UniswapV2Factory contract
type Factory struct {
	evm.EvmContract
}

// NewFactory binds the factory abi to addr
func NewFactory(backend evm.Backend, addr common.Address) *Factory {
	return &Factory{EvmContract: *evm.NewEvmContract(factoryABI, backend, addr)}
}

// GetPair returns the pair of the two tokens, the zero address if none
func (f *Factory) GetPair(ctx context.Context, tokenA common.Address, tokenB common.Address) (common.Address, error) {
	return f.CallAddress(ctx, "getPair", tokenA, tokenB)
}

// AllPairsLength returns the number of pairs created by the factory
func (f *Factory) AllPairsLength(ctx context.Context) (*big.Int, error) {
	return f.CallBigInt(ctx, "allPairsLength")
}

// CreatePair creates the pair of the two tokens and returns its address from the PairCreated event
func (f *Factory) CreatePair(ctx context.Context, from common.Address, tokenA common.Address, tokenB common.Address) (common.Address, *types.Receipt, error) {
	receipt, err := f.Transact(ctx, from, "createPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, receipt, err
	}
	pair, err := f.PairCreated(receipt)
	if err != nil {
		return common.Address{}, receipt, err
	}
	return pair, receipt, nil
}

// PairCreated finds the pair address in the PairCreated log of the receipt
func (f *Factory) PairCreated(receipt *types.Receipt) (common.Address, error) {
	ev := f.Abi.Events["PairCreated"]
	for _, l := range receipt.Logs {
		if l.Address != f.Address || len(l.Topics) == 0 || l.Topics[0] != ev.ID {
			continue
		}
		res, err := f.Abi.Unpack("PairCreated", l.Data)
		if err != nil {
			return common.Address{}, errors.Wrap(err, "unpack PairCreated")
		}
		if len(res) < 1 {
			return common.Address{}, errors.WithStack(evm.ErrUnexpectedOutput)
		}
		if pair, ok := res[0].(common.Address); ok {
			return pair, nil
		}
	}
	return common.Address{}, errors.WithStack(ErrPairNotFound)
}
