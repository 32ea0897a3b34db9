package app

import (
	"fmt"

	"relayctl/internal/inventory"
	"relayctl/internal/orchestrator"
	"relayctl/pkg/logging"
)

// Services holds the host inventories every mode works on.
type Services struct {
	Relays *inventory.Inventory
	Nodes  *inventory.Inventory
}

// InitializeServices reads the relay and node host lists. Each list is
// consumed up to the matching process count.
func InitializeServices(cfg *Config) (*Services, error) {
	exp := cfg.Experiment

	relays, err := inventory.Build(exp.RelayList, exp.Relays)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay list: %w", err)
	}
	if relays.Len() < exp.Relays {
		logging.Warn("Bootstrap", "Relay list %s has %d usable line(s) for %d relay(s)", exp.RelayList, relays.Len(), exp.Relays)
	}

	nodes, err := inventory.Build(exp.NodeList, exp.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to read node list: %w", err)
	}
	if nodes.Len() < exp.Nodes {
		logging.Warn("Bootstrap", "Node list %s has %d usable line(s) for %d node(s)", exp.NodeList, nodes.Len(), exp.Nodes)
	}

	logging.Debug("Bootstrap", "%d relay(s) on %d host(s), %d node(s) on %d host(s)",
		relays.Len(), len(relays.Groups()), nodes.Len(), len(nodes.Groups()))

	return &Services{Relays: relays, Nodes: nodes}, nil
}

// orchestratorConfig is the part of the orchestrator wiring shared by every
// mode.
func (s *Services) orchestratorConfig(cfg *Config) orchestrator.Config {
	return orchestrator.Config{
		Experiment: cfg.Experiment,
		Relays:     s.Relays,
		Nodes:      s.Nodes,
	}
}
