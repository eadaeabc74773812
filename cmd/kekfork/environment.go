package main

import (
	"context"
	"time"

	"github.com/meverselabs/kekfork/cmd/closer"
	"github.com/meverselabs/kekfork/contract/kektoken"
	"github.com/meverselabs/kekfork/ethereum/client"
	"github.com/meverselabs/kekfork/fixture"
	"github.com/meverselabs/kekfork/network"
)

// readyTimeout bounds the wait for a launched node to fork mainnet
const readyTimeout = 2 * time.Minute

type environment struct {
	configPath string
	rpcURL     string
	cfg        *network.Config
}

func (env *environment) load() error {
	cfg, err := network.LoadConfig(env.configPath)
	if err != nil {
		return err
	}
	if env.rpcURL != "" {
		cfg.Node.RPCURL = env.rpcURL
	}
	env.cfg = cfg
	return nil
}

// launch starts the forking node and waits until it answers
func (env *environment) launch(ctx context.Context, cm *closer.Manager) (*network.Node, error) {
	n, err := network.StartNode(ctx, env.cfg)
	if err != nil {
		return nil, err
	}
	cm.Add("node", closer.Func(func() {
		_ = n.Stop()
	}))

	rctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	if err := n.WaitReady(rctx); err != nil {
		return nil, err
	}
	env.cfg.Node.RPCURL = n.URL
	return n, nil
}

func (env *environment) dial(ctx context.Context, cm *closer.Manager) (*client.Client, error) {
	c, err := client.Dial(ctx, env.cfg.Node.RPCURL)
	if err != nil {
		return nil, err
	}
	cm.Add("client", c)
	return c, nil
}

// deployFunc deploys the fixture on c with the configured artifact and addresses
func (env *environment) deployFunc(c *client.Client) (fixture.Func, error) {
	art, err := kektoken.LoadArtifact(env.cfg.Contracts.KekArtifact)
	if err != nil {
		return nil, err
	}
	opts := &fixture.Options{
		Addresses: env.cfg.Addresses(),
		Artifact:  art,
	}
	return func(ctx context.Context) (*fixture.Fixture, error) {
		return fixture.DeployToken(ctx, c, opts)
	}, nil
}
