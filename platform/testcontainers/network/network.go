package network

import (
	"context"
	"fmt"
	"maps"

	"github.com/testcontainers/testcontainers-go"
	tcnetwork "github.com/testcontainers/testcontainers-go/network"
)

const serviceLabel = "btp-quote"

type Option func(labels map[string]string)

// WithLabel adds a docker label to the network.
func WithLabel(key, value string) Option {
	return func(labels map[string]string) { labels[key] = value }
}

// Network is a bridge network that the integration containers of one suite
// join so they can reach each other by alias.
type Network struct {
	network *testcontainers.DockerNetwork
	labels  map[string]string
}

func NewNetwork(ctx context.Context, projectName string, opts ...Option) (*Network, error) {
	labels := map[string]string{
		"project": projectName,
		"service": serviceLabel,
	}
	for _, opt := range opts {
		opt(labels)
	}

	net, err := tcnetwork.New(ctx,
		tcnetwork.WithDriver(testcontainers.Bridge),
		tcnetwork.WithAttachable(),
		tcnetwork.WithLabels(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("create docker network for %s: %w", projectName, err)
	}

	return &Network{network: net, labels: labels}, nil
}

func (n *Network) Name() string {
	return n.network.Name
}

func (n *Network) Labels() map[string]string {
	return maps.Clone(n.labels)
}

// Remove is a no-op on a nil network so suites can defer it unconditionally.
func (n *Network) Remove(ctx context.Context) error {
	if n == nil || n.network == nil {
		return nil
	}
	return n.network.Remove(ctx)
}
