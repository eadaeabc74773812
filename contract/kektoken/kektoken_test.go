package kektoken_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/kekfork/contract/evm"
	"github.com/meverselabs/kekfork/contract/kektoken"
	. "github.com/meverselabs/kekfork/tests/lib"
)

func TestLoadArtifact(t *testing.T) {
	art, err := kektoken.LoadArtifact("../evm/testdata/KekToken.json")
	require.NoError(t, err)
	assert.Equal(t, "KekToken", art.ContractName)

	_, err = kektoken.LoadArtifact("../evm/testdata/missing.json")
	assert.Error(t, err)
}

func TestCheckArtifact(t *testing.T) {
	assert.NoError(t, kektoken.CheckArtifact(KekArtifact()))
	assert.ErrorIs(t, kektoken.CheckArtifact(nil), evm.ErrInvalidArtifact)

	noCode := KekArtifact()
	noCode.Bytecode = nil
	assert.ErrorIs(t, kektoken.CheckArtifact(noCode), evm.ErrNoBytecode)

	notToken := KekArtifact()
	notToken.Abi = evm.MustParseABI(`[{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"type":"uint256"}],"stateMutability":"view"}]`)
	assert.ErrorIs(t, kektoken.CheckArtifact(notToken), kektoken.ErrNotERC20)
}

func TestDeployMintsToOwner(t *testing.T) {
	ctx := context.Background()
	mc := NewForkedMockChain()

	token, err := kektoken.Deploy(ctx, mc, Owner, KekArtifact())
	require.NoError(t, err)

	total, err := token.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(DeploySupply))
	bal, err := token.BalanceOf(ctx, Owner)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Cmp(DeploySupply))
	assert.Equal(t, []string{"deploy"}, mc.Methods())
}

func TestDeployFromLockedAccount(t *testing.T) {
	mc := NewForkedMockChain()
	_, err := kektoken.Deploy(context.Background(), mc, AaveGiant, KekArtifact())
	assert.ErrorIs(t, err, ErrUnknownAccount)
}
