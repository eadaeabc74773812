// Package kektoken deploys KekToken from its compiled Hardhat artifact.
//
// The token is expected to be a plain ERC20 whose constructor takes no
// arguments and mints the whole supply to the deployer (see KekToken.sol).
package kektoken

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/rlog"
	"github.com/meverselabs/kekfork/contract/erc20"
	"github.com/meverselabs/kekfork/contract/evm"
)

// DefaultArtifactPath is where `npx hardhat compile` writes the artifact
const DefaultArtifactPath = "artifacts/contracts/KekToken.sol/KekToken.json"

// ErrNotERC20 is returned when the artifact abi misses an ERC20 method
var ErrNotERC20 = errors.New("artifact is not an ERC20 token")

var requiredMethods = []string{"totalSupply", "balanceOf", "transfer", "approve", "allowance", "transferFrom"}

// LoadArtifact loads and checks the KekToken artifact
func LoadArtifact(path string) (*evm.Artifact, error) {
	art, err := evm.LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	if err := CheckArtifact(art); err != nil {
		return nil, err
	}
	return art, nil
}

// CheckArtifact reports whether the artifact can be driven as an ERC20 token
func CheckArtifact(art *evm.Artifact) error {
	if art == nil || art.Abi == nil {
		return errors.WithStack(evm.ErrInvalidArtifact)
	}
	for _, m := range requiredMethods {
		if _, has := art.Abi.Methods[m]; !has {
			return errors.Wrap(ErrNotERC20, m)
		}
	}
	if len(art.Bytecode) == 0 {
		return errors.WithStack(evm.ErrNoBytecode)
	}
	return nil
}

// Deploy deploys KekToken from the owner
func Deploy(ctx context.Context, backend evm.Backend, owner common.Address, art *evm.Artifact) (*erc20.Token, error) {
	if err := CheckArtifact(art); err != nil {
		return nil, err
	}
	c, receipt, err := evm.Deploy(ctx, backend, owner, art)
	if err != nil {
		return nil, err
	}
	rlog.Infow("KekToken deployed", "address", c.Address.Hex(), "tx", receipt.TxHash.Hex(), "gasUsed", receipt.GasUsed)
	return erc20.FromContract(c), nil
}
