package command

import (
	"relayctl/internal/config"
	"relayctl/internal/extraargs"
	"relayctl/internal/inventory"
	"relayctl/internal/partition"
)

// RelayScripts builds one session script per relay host. Relay indexes run
// across hosts in inventory order.
func RelayScripts(relays *inventory.Inventory, cfg config.Experiment) []Script {
	scripts := make([]Script, 0, len(relays.Groups()))
	index := 0
	for _, g := range relays.Groups() {
		s := newScript(g.Address, cfg)
		for _, port := range g.Ports {
			s.Steps = append(s.Steps, Relay(inventory.HostEntry{Address: g.Address, Port: port}, index, cfg))
			index++
		}
		scripts = append(scripts, s)
	}
	return scripts
}

// NodeScripts builds one session script per node host. Every node command is
// built before anything is returned, so a coverage error leaves no partial
// plan behind.
func NodeScripts(nodes *inventory.Inventory, cfg config.Experiment, table *partition.Table, extras *extraargs.Table) ([]Script, error) {
	scripts := make([]Script, 0, len(nodes.Groups()))
	index := 0
	for _, g := range nodes.Groups() {
		s := newScript(g.Address, cfg)
		for i, port := range g.Ports {
			if i > 0 && cfg.Timing.Stagger > 0 {
				s.Steps = append(s.Steps, Sleep(cfg.Timing.Stagger))
			}
			cmd, err := Node(inventory.HostEntry{Address: g.Address, Port: port}, index, cfg, table, extras)
			if err != nil {
				return nil, err
			}
			s.Steps = append(s.Steps, cmd)
			index++
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func newScript(address string, cfg config.Experiment) Script {
	s := Script{Address: address}
	if cfg.WorkDir != "" {
		s.Steps = append(s.Steps, ChangeDir(cfg.WorkDir))
	}
	return s
}
