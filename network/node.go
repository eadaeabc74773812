package network

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/rlog"
	"github.com/meverselabs/kekfork/ethereum/client"
)

// ReadyPollInterval is the period of the readiness probe
const ReadyPollInterval = 250 * time.Millisecond

// ErrNodeExited is returned when the node process ends before it is ready
var ErrNodeExited = errors.New("node exited")

// Node is a running forking node process
type Node struct {
	cfg  *Config
	cmd  *exec.Cmd
	done chan error
	URL  string
}

// NodeCommand returns the binary and the arguments that start the forking node
func NodeCommand(cfg *Config) (string, []string) {
	port := strconv.Itoa(cfg.Node.Port)
	switch cfg.Node.Kind {
	case NodeHardhat:
		bin := cfg.Node.Binary
		args := []string{}
		if bin == "" {
			bin = "npx"
			args = append(args, "hardhat")
		}
		args = append(args, "node", "--fork", cfg.ForkURL(), "--port", port)
		if cfg.Fork.BlockNumber > 0 {
			args = append(args, "--fork-block-number", strconv.FormatUint(cfg.Fork.BlockNumber, 10))
		}
		return bin, args
	default:
		bin := cfg.Node.Binary
		if bin == "" {
			bin = NodeAnvil
		}
		args := []string{
			"--fork-url", cfg.ForkURL(),
			"--port", port,
			"--chain-id", strconv.FormatUint(cfg.Node.ChainID, 10),
		}
		if cfg.Fork.BlockNumber > 0 {
			args = append(args, "--fork-block-number", strconv.FormatUint(cfg.Fork.BlockNumber, 10))
		}
		return bin, args
	}
}

// StartNode spawns the forking node; call WaitReady before using it
func StartNode(ctx context.Context, cfg *Config) (*Node, error) {
	bin, args := NodeCommand(cfg)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", bin)
	}
	n := &Node{
		cfg:  cfg,
		cmd:  cmd,
		done: make(chan error, 1),
		URL:  fmt.Sprintf("http://127.0.0.1:%d", cfg.Node.Port),
	}
	go func() {
		n.done <- cmd.Wait()
		close(n.done)
	}()
	rlog.Infow("forking node started", "kind", cfg.Node.Kind, "pid", cmd.Process.Pid, "url", n.URL, "forkBlock", cfg.Fork.BlockNumber)
	return n, nil
}

// WaitReady polls eth_chainId until the node answers
func (n *Node) WaitReady(ctx context.Context) error {
	return waitReady(ctx, n.URL, n.done)
}

// Done is closed when the process ends
func (n *Node) Done() <-chan error {
	return n.done
}

// Stop terminates the node process
func (n *Node) Stop() error {
	if n.cmd.Process == nil {
		return nil
	}
	if err := n.cmd.Process.Signal(os.Interrupt); err != nil {
		return errors.WithStack(n.cmd.Process.Kill())
	}
	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
		return errors.WithStack(n.cmd.Process.Kill())
	}
	return nil
}

// WaitReady polls eth_chainId at url until a node answers
func WaitReady(ctx context.Context, url string) error {
	return waitReady(ctx, url, nil)
}

func waitReady(ctx context.Context, url string, exited <-chan error) error {
	ticker := time.NewTicker(ReadyPollInterval)
	defer ticker.Stop()

	for {
		if c, err := client.Dial(ctx, url); err == nil {
			id, err := c.ChainID(ctx)
			c.Close()
			if err == nil {
				rlog.Infow("node ready", "url", url, "chainId", id)
				return nil
			}
			rlog.Debugw("node not ready", "url", url, "err", err)
		}

		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case err := <-exited:
			if err != nil {
				return errors.Wrap(ErrNodeExited, err.Error())
			}
			return errors.WithStack(ErrNodeExited)
		case <-ticker.C:
		}
	}
}
