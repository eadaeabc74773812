package testlib

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/meverselabs/kekfork/common/amount"
)

// hardhat default signers and the mainnet addresses the fixture uses
var (
	Owner             = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	GasProvider       = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	LiquidityProvider = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	AaveToken      = common.HexToAddress("0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9")
	AaveGiant      = common.HexToAddress("0x3744DA57184575064838BBc87A0FC791F5E39eA2")
	UniswapRouter  = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	UniswapFactory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	WETH           = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	ZeroAddress = common.Address{}
)

// GenesisTime is the latest block time of a fresh MockChain
const GenesisTime uint64 = 1670000000

var (
	SignerEther      = amount.NewAmount(10000, 0).Int
	AaveGiantBalance = amount.NewAmount(500000, 0).Int
	DeploySupply     = amount.NewAmount(1000000, 0).Int

	Zero = big.NewInt(0)
)
