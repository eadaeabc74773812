package network

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/cmd/config"
	"github.com/meverselabs/kekfork/common/rlog"
)

// defaults of the forked mainnet network
const (
	DefaultForkURL      = "https://eth-mainnet.alchemyapi.io/v2/{apiKey}"
	DefaultAPIKeyEnv    = "ALCHEMY_API_KEY"
	DefaultAPIKey       = "demo"
	DefaultRPCURL       = "http://127.0.0.1:8545"
	DefaultPort         = 8545
	DefaultChainID      = 31337
	DefaultArtifactPath = "artifacts/contracts/KekToken.sol/KekToken.json"

	MainNetAaveToken     = "0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9"
	MainNetAaveGiant     = "0x3744DA57184575064838BBc87A0FC791F5E39eA2"
	MainNetUniswapRouter = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"

	// RPCURLEnv overrides Node.RPCURL
	RPCURLEnv = "KEKFORK_RPC_URL"

	apiKeyPlaceholder = "{apiKey}"
)

// node kinds
const (
	NodeAnvil   = "anvil"
	NodeHardhat = "hardhat"
)

// errors
var (
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrUnknownNodeKind = errors.New("unknown node kind")
	ErrEmptyURL        = errors.New("empty url")
)

// ForkConfig selects the remote node the network forks from
type ForkConfig struct {
	URL         string `toml:"url"`
	APIKeyEnv   string `toml:"api_key_env"`
	BlockNumber uint64 `toml:"block_number"`
}

// NodeConfig describes the local forking node
type NodeConfig struct {
	RPCURL  string `toml:"rpc_url"`
	Kind    string `toml:"kind"`
	Binary  string `toml:"binary"`
	Port    int    `toml:"port"`
	ChainID uint64 `toml:"chain_id"`
}

// ContractsConfig holds the pre-deployed contracts and the KekToken artifact
type ContractsConfig struct {
	AaveToken     string `toml:"aave_token"`
	AaveGiant     string `toml:"aave_giant"`
	UniswapRouter string `toml:"uniswap_router"`
	KekArtifact   string `toml:"kek_artifact"`
}

// Config is the network configuration
type Config struct {
	Fork      ForkConfig      `toml:"fork"`
	Node      NodeConfig      `toml:"node"`
	Contracts ContractsConfig `toml:"contracts"`
}

// Addresses are the parsed contract addresses
type Addresses struct {
	AaveToken     common.Address
	AaveGiant     common.Address
	UniswapRouter common.Address
}

// DefaultConfig returns the mainnet fork configuration
func DefaultConfig() *Config {
	return &Config{
		Fork: ForkConfig{
			URL:       DefaultForkURL,
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Node: NodeConfig{
			RPCURL:  DefaultRPCURL,
			Kind:    NodeAnvil,
			Port:    DefaultPort,
			ChainID: DefaultChainID,
		},
		Contracts: ContractsConfig{
			AaveToken:     MainNetAaveToken,
			AaveGiant:     MainNetAaveGiant,
			UniswapRouter: MainNetUniswapRouter,
			KekArtifact:   DefaultArtifactPath,
		},
	}
}

// LoadConfig loads .env when present, then overlays the TOML file at path (if any) on the defaults
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		rlog.Warnw("ignoring unreadable .env", "err", err)
	}
	cfg := DefaultConfig()
	if path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if url := os.Getenv(RPCURLEnv); url != "" {
		cfg.Node.RPCURL = url
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (cfg *Config) Validate() error {
	if cfg.Fork.URL == "" {
		return errors.Wrap(ErrEmptyURL, "fork.url")
	}
	if cfg.Node.RPCURL == "" {
		return errors.Wrap(ErrEmptyURL, "node.rpc_url")
	}
	switch cfg.Node.Kind {
	case NodeAnvil, NodeHardhat:
	default:
		return errors.Wrap(ErrUnknownNodeKind, cfg.Node.Kind)
	}
	for name, v := range map[string]string{
		"contracts.aave_token":     cfg.Contracts.AaveToken,
		"contracts.aave_giant":     cfg.Contracts.AaveGiant,
		"contracts.uniswap_router": cfg.Contracts.UniswapRouter,
	} {
		if !common.IsHexAddress(v) {
			return errors.Wrapf(ErrInvalidAddress, "%s = %q", name, v)
		}
	}
	return nil
}

// APIKey returns the key from the environment, the placeholder when unset
func (cfg *Config) APIKey() string {
	env := cfg.Fork.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	if key := os.Getenv(env); key != "" {
		return key
	}
	return DefaultAPIKey
}

// ForkURL returns the remote endpoint with the api key filled in
func (cfg *Config) ForkURL() string {
	return strings.ReplaceAll(cfg.Fork.URL, apiKeyPlaceholder, cfg.APIKey())
}

// Addresses returns the parsed contract addresses
func (cfg *Config) Addresses() Addresses {
	return Addresses{
		AaveToken:     common.HexToAddress(cfg.Contracts.AaveToken),
		AaveGiant:     common.HexToAddress(cfg.Contracts.AaveGiant),
		UniswapRouter: common.HexToAddress(cfg.Contracts.UniswapRouter),
	}
}
