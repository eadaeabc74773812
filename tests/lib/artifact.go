package testlib

import (
	"github.com/meverselabs/kekfork/contract/erc20"
	"github.com/meverselabs/kekfork/contract/evm"
	"github.com/meverselabs/kekfork/network"
)

// KekArtifact is a stand-in KekToken artifact; MockChain deploys any bytecode as a token
func KekArtifact() *evm.Artifact {
	return &evm.Artifact{
		ContractName: "KekToken",
		Abi:          evm.MustParseABI(erc20.ABI),
		Bytecode:     []byte{0x60, 0x80, 0x60, 0x40, 0x52},
	}
}

// ForkAddresses are the mainnet addresses MockChain serves
func ForkAddresses() network.Addresses {
	return network.Addresses{
		AaveToken:     AaveToken,
		AaveGiant:     AaveGiant,
		UniswapRouter: UniswapRouter,
	}
}
