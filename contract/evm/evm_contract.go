package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/ethereum/client"
)

// Caller executes read-only calls
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Transactor sends a transaction and waits for its successful receipt
type Transactor interface {
	Transact(ctx context.Context, args *client.TxArgs) (*types.Receipt, error)
}

// Backend is the part of the client the contracts need
type Backend interface {
	Caller
	Transactor
}

// EvmContract binds an abi to a deployed address
type EvmContract struct {
	Abi     *abi.ABI
	Backend Backend
	Address common.Address
}

// NewEvmContract makes an EvmContract
func NewEvmContract(a *abi.ABI, backend Backend, addr common.Address) *EvmContract {
	return &EvmContract{
		Abi:     a,
		Backend: backend,
		Address: addr,
	}
}

// Call executes the view method and returns the unpacked outputs
func (c *EvmContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.Abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	to := c.Address
	out, err := c.Backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s on %s", method, c.Address.Hex())
	}
	res, err := c.Abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return res, nil
}

// Transact sends the method as a transaction from the signer
func (c *EvmContract) Transact(ctx context.Context, from common.Address, method string, args ...interface{}) (*types.Receipt, error) {
	data, err := c.Abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	to := c.Address
	receipt, err := c.Backend.Transact(ctx, &client.TxArgs{
		From: from,
		To:   &to,
		Data: data,
	})
	if err != nil {
		return receipt, errors.Wrapf(err, "%s on %s", method, c.Address.Hex())
	}
	return receipt, nil
}

// CallBigInt calls a method returning a single uint
func (c *EvmContract) CallBigInt(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	res, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "%s returned %d values", method, len(res))
	}
	v, ok := res[0].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "%s returned %T", method, res[0])
	}
	return v, nil
}

// CallAddress calls a method returning a single address
func (c *EvmContract) CallAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	res, err := c.Call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	if len(res) != 1 {
		return common.Address{}, errors.Wrapf(ErrUnexpectedOutput, "%s returned %d values", method, len(res))
	}
	v, ok := res[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Wrapf(ErrUnexpectedOutput, "%s returned %T", method, res[0])
	}
	return v, nil
}

// Deploy deploys the artifact bytecode with the packed constructor arguments
func Deploy(ctx context.Context, backend Backend, from common.Address, art *Artifact, args ...interface{}) (*EvmContract, *types.Receipt, error) {
	if len(art.Bytecode) == 0 {
		return nil, nil, errors.Wrap(ErrNoBytecode, art.ContractName)
	}
	input, err := art.Abi.Pack("", args...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "pack %s constructor", art.ContractName)
	}
	data := make([]byte, 0, len(art.Bytecode)+len(input))
	data = append(data, art.Bytecode...)
	data = append(data, input...)

	receipt, err := backend.Transact(ctx, &client.TxArgs{
		From: from,
		Data: data,
	})
	if err != nil {
		return nil, receipt, errors.Wrapf(err, "deploy %s", art.ContractName)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, receipt, errors.Wrap(ErrNoContractAddress, art.ContractName)
	}
	return NewEvmContract(art.Abi, backend, receipt.ContractAddress), receipt, nil
}
