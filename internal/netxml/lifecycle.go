package netxml

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kmahoney/netforge/internal/xmlmap"
)

// ErrInvalidState indicates a lifecycle command whose precondition on
// the tool-side state does not hold (e.g. undefining a network the
// tool does not know).
var ErrInvalidState = errors.New("invalid network state")

// NetState is one row of the tool's network listing.
type NetState struct {
	Active     bool
	Autostart  bool
	Persistent bool
}

// Tool is the management-tool surface the lifecycle needs. It is
// satisfied by the virsh exec client and by the libvirt socket client,
// and by mocks in tests.
type Tool interface {
	// NetDefine registers a persistent network from its XML document.
	NetDefine(ctx context.Context, xmlDesc string) error

	// NetUndefine removes a network from the persistent store.
	NetUndefine(ctx context.Context, name string) error

	// NetCreate starts a transient network from its XML document.
	NetCreate(ctx context.Context, xmlDesc string) error

	// NetStart activates a defined network.
	NetStart(ctx context.Context, name string) error

	// NetDestroy deactivates a running network.
	NetDestroy(ctx context.Context, name string) error

	// NetAutostart enables or disables autostart for a network.
	NetAutostart(ctx context.Context, name string, enable bool) error

	// NetDumpXML returns the live XML document of a network.
	NetDumpXML(ctx context.Context, name string) (string, error)

	// NetExists probes whether the tool knows the network at all.
	NetExists(ctx context.Context, name string) (bool, error)

	// NetStateDict lists all known networks with their state flags.
	NetStateDict(ctx context.Context) (map[string]NetState, error)
}

// DesiredState is the target passed to Sync.
type DesiredState struct {
	Active     bool `yaml:"active"`
	Persistent bool `yaml:"persistent"`
	Autostart  bool `yaml:"autostart"`
}

// Defined reports whether the network's name is known to the tool,
// persistently or as a transient network.
func (n *Network) Defined(ctx context.Context) (bool, error) {
	name, err := n.Name()
	if err != nil {
		return false, err
	}
	states, err := n.tool.NetStateDict(ctx)
	if err != nil {
		return false, err
	}
	_, ok := states[name]
	return ok, nil
}

// Define registers the current document with the tool's persistent
// store.
func (n *Network) Define(ctx context.Context) error {
	xmlDesc, err := n.XML()
	if err != nil {
		return err
	}
	return n.tool.NetDefine(ctx, xmlDesc)
}

// Undefine removes the network from the persistent store. Fails with
// ErrInvalidState when the network is not currently defined.
func (n *Network) Undefine(ctx context.Context) error {
	defined, err := n.Defined(ctx)
	if err != nil {
		return err
	}
	if !defined {
		return fmt.Errorf("%w: cannot undefine nonexistent network", ErrInvalidState)
	}
	name, err := n.Name()
	if err != nil {
		return err
	}
	return n.tool.NetUndefine(ctx, name)
}

// Active reports whether the network is currently running. An unknown
// network is simply inactive.
func (n *Network) Active(ctx context.Context) (bool, error) {
	name, err := n.Name()
	if err != nil {
		return false, err
	}
	states, err := n.tool.NetStateDict(ctx)
	if err != nil {
		return false, err
	}
	st, ok := states[name]
	if !ok {
		return false, nil
	}
	return st.Active, nil
}

// Start activates the network. A no-op when already active; fails
// with ErrInvalidState when the network is not defined.
func (n *Network) Start(ctx context.Context) error {
	defined, err := n.Defined(ctx)
	if err != nil {
		return err
	}
	if !defined {
		return fmt.Errorf("%w: cannot activate undefined network", ErrInvalidState)
	}
	active, err := n.Active(ctx)
	if err != nil {
		return err
	}
	if active {
		return nil
	}
	name, err := n.Name()
	if err != nil {
		return err
	}
	return n.tool.NetStart(ctx, name)
}

// Stop deactivates the network. A no-op when already inactive.
func (n *Network) Stop(ctx context.Context) error {
	active, err := n.Active(ctx)
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	name, err := n.Name()
	if err != nil {
		return err
	}
	return n.tool.NetDestroy(ctx, name)
}

// Autostart reports whether the tool autostarts the network. Fails
// with ErrInvalidState when the network is not defined.
func (n *Network) Autostart(ctx context.Context) (bool, error) {
	name, err := n.Name()
	if err != nil {
		return false, err
	}
	states, err := n.tool.NetStateDict(ctx)
	if err != nil {
		return false, err
	}
	st, ok := states[name]
	if !ok {
		return false, fmt.Errorf("%w: cannot determine autostart for undefined network", ErrInvalidState)
	}
	return st.Autostart, nil
}

// SetAutostart enables or disables autostart. A no-op when the flag
// already matches; fails with ErrInvalidState when the network is not
// defined.
func (n *Network) SetAutostart(ctx context.Context, enable bool) error {
	current, err := n.Autostart(ctx)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			return fmt.Errorf("%w: cannot set autostart for undefined network", ErrInvalidState)
		}
		return err
	}
	if current == enable {
		return nil
	}
	name, err := n.Name()
	if err != nil {
		return err
	}
	return n.tool.NetAutostart(ctx, name, enable)
}

// Persistent reports the tool's persistence flag for the network:
// true when defined, false when only created transiently. Fails with
// ErrNotFound when the tool does not know the network.
func (n *Network) Persistent(ctx context.Context) (bool, error) {
	name, err := n.Name()
	if err != nil {
		return false, err
	}
	states, err := n.tool.NetStateDict(ctx)
	if err != nil {
		return false, err
	}
	st, ok := states[name]
	if !ok {
		return false, fmt.Errorf("network %s: %w", name, xmlmap.ErrNotFound)
	}
	return st.Persistent, nil
}

// Exists probes the tool for the network name.
func (n *Network) Exists(ctx context.Context) (bool, error) {
	name, err := n.Name()
	if err != nil {
		return false, err
	}
	return n.tool.NetExists(ctx, name)
}

// State returns the network's state flags, or nil when the tool does
// not know the network.
func (n *Network) State(ctx context.Context) (*NetState, error) {
	name, err := n.Name()
	if err != nil {
		return nil, err
	}
	states, err := n.tool.NetStateDict(ctx)
	if err != nil {
		return nil, err
	}
	st, ok := states[name]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// Create adds the network as transient (running but not persistent)
// from the current document.
func (n *Network) Create(ctx context.Context) error {
	xmlDesc, err := n.XML()
	if err != nil {
		return err
	}
	return n.tool.NetCreate(ctx, xmlDesc)
}

// Sync drives the tool to match the current document: any existing
// network of this name is deactivated and undefined first, the
// document is defined fresh, and the desired state (default: active
// with autostart) is applied. The teardown-first ordering is load
// bearing — redefining over a running network would not take effect
// until its next restart.
//
// Sync is not transactional; a failure partway leaves the tool in
// whatever state the last successful command produced.
func (n *Network) Sync(ctx context.Context, desired *DesiredState) error {
	defined, err := n.Defined(ctx)
	if err != nil {
		return err
	}
	if defined {
		if err := n.Stop(ctx); err != nil {
			return err
		}
		// Destroying a transient network removes it entirely, so
		// re-check before undefining.
		stillDefined, err := n.Defined(ctx)
		if err != nil {
			return err
		}
		if stillDefined {
			if err := n.Undefine(ctx); err != nil {
				return err
			}
		}
	}

	if err := n.Define(ctx); err != nil {
		return err
	}

	if desired == nil {
		if err := n.Start(ctx); err != nil {
			return err
		}
		return n.SetAutostart(ctx, true)
	}

	if desired.Active {
		if err := n.Start(ctx); err != nil {
			return err
		}
	} else {
		if err := n.Stop(ctx); err != nil {
			return err
		}
	}
	if !desired.Persistent {
		if err := n.Undefine(ctx); err != nil {
			return err
		}
	}
	defined, err = n.Defined(ctx)
	if err != nil {
		return err
	}
	if defined {
		return n.SetAutostart(ctx, desired.Autostart)
	}
	return nil
}

// OrbitalNuclearStrike removes all tool-side state for the network,
// best effort: deactivate then undefine, logging and swallowing every
// failure. It's the only way to be sure, and it never fails.
func (n *Network) OrbitalNuclearStrike(ctx context.Context) {
	if err := n.Stop(ctx); err != nil {
		// Inconsequential, the network is about to be removed.
		log.Printf("Warning: %v", err)
	}
	if err := n.Undefine(ctx); err != nil {
		// Network already gone.
		log.Printf("Warning: %v", err)
	}
}

// NewFromDumpXML builds a Network from the tool's live document for
// name.
func NewFromDumpXML(ctx context.Context, tool Tool, name string) (*Network, error) {
	xmlDesc, err := tool.NetDumpXML(ctx, name)
	if err != nil {
		return nil, err
	}
	n := NewNetwork(name, tool)
	if err := n.SetXML(xmlDesc); err != nil {
		return nil, err
	}
	return n, nil
}

// AllNetworks returns a name-to-instance map for every network the
// tool knows.
func AllNetworks(ctx context.Context, tool Tool) (map[string]*Network, error) {
	states, err := tool.NetStateDict(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*Network, len(states))
	for name := range states {
		n, err := NewFromDumpXML(ctx, tool, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load network %s: %w", name, err)
		}
		result[name] = n
	}
	return result, nil
}

// GetUUIDByName returns a network's UUID via the tool's live document.
func GetUUIDByName(ctx context.Context, tool Tool, name string) (string, error) {
	n, err := NewFromDumpXML(ctx, tool, name)
	if err != nil {
		return "", err
	}
	return n.UUID()
}
