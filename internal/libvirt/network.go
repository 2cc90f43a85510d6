package libvirt

import (
	"context"
	"errors"
	"fmt"

	"github.com/digitalocean/go-libvirt"

	"github.com/kmahoney/netforge/internal/netxml"
)

// The go-libvirt RPC surface is synchronous and has no context
// plumbing, so the ctx parameters below only gate entry.

// NetDefine registers a persistent network from its XML document.
func (c *Client) NetDefine(ctx context.Context, xmlDesc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.libvirt.NetworkDefineXML(xmlDesc); err != nil {
		return fmt.Errorf("failed to define network: %w", err)
	}
	return nil
}

// NetUndefine removes a network from the persistent store.
func (c *Client) NetUndefine(ctx context.Context, name string) error {
	net, err := c.lookup(ctx, name)
	if err != nil {
		return err
	}
	if err := c.libvirt.NetworkUndefine(net); err != nil {
		return fmt.Errorf("failed to undefine network %s: %w", name, err)
	}
	return nil
}

// NetCreate starts a transient network from its XML document.
func (c *Client) NetCreate(ctx context.Context, xmlDesc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.libvirt.NetworkCreateXML(xmlDesc); err != nil {
		return fmt.Errorf("failed to create network: %w", err)
	}
	return nil
}

// NetStart activates a defined network.
func (c *Client) NetStart(ctx context.Context, name string) error {
	net, err := c.lookup(ctx, name)
	if err != nil {
		return err
	}
	if err := c.libvirt.NetworkCreate(net); err != nil {
		return fmt.Errorf("failed to start network %s: %w", name, err)
	}
	return nil
}

// NetDestroy deactivates a running network.
func (c *Client) NetDestroy(ctx context.Context, name string) error {
	net, err := c.lookup(ctx, name)
	if err != nil {
		return err
	}
	if err := c.libvirt.NetworkDestroy(net); err != nil {
		return fmt.Errorf("failed to destroy network %s: %w", name, err)
	}
	return nil
}

// NetAutostart enables or disables autostart for a network.
func (c *Client) NetAutostart(ctx context.Context, name string, enable bool) error {
	net, err := c.lookup(ctx, name)
	if err != nil {
		return err
	}
	var flag int32
	if enable {
		flag = 1
	}
	if err := c.libvirt.NetworkSetAutostart(net, flag); err != nil {
		return fmt.Errorf("failed to set autostart for network %s: %w", name, err)
	}
	return nil
}

// NetDumpXML returns the live XML document of a network.
func (c *Client) NetDumpXML(ctx context.Context, name string) (string, error) {
	net, err := c.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	xmlDesc, err := c.libvirt.NetworkGetXMLDesc(net, 0)
	if err != nil {
		return "", fmt.Errorf("failed to get XML for network %s: %w", name, err)
	}
	return xmlDesc, nil
}

// NetExists probes whether libvirt knows the network at all.
func (c *Client) NetExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := c.libvirt.NetworkLookupByName(name)
	if err != nil {
		if isNoNetwork(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up network %s: %w", name, err)
	}
	return true, nil
}

// NetStateDict lists all known networks with their state flags.
func (c *Client) NetStateDict(ctx context.Context) (map[string]netxml.NetState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nets, _, err := c.libvirt.ConnectListAllNetworks(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	states := make(map[string]netxml.NetState, len(nets))
	for _, net := range nets {
		active, err := c.libvirt.NetworkIsActive(net)
		if err != nil {
			return nil, fmt.Errorf("failed to get active state for network %s: %w", net.Name, err)
		}
		autostart, err := c.libvirt.NetworkGetAutostart(net)
		if err != nil {
			return nil, fmt.Errorf("failed to get autostart for network %s: %w", net.Name, err)
		}
		persistent, err := c.libvirt.NetworkIsPersistent(net)
		if err != nil {
			return nil, fmt.Errorf("failed to get persistence for network %s: %w", net.Name, err)
		}
		states[net.Name] = netxml.NetState{
			Active:     active == 1,
			Autostart:  autostart == 1,
			Persistent: persistent == 1,
		}
	}
	return states, nil
}

func (c *Client) lookup(ctx context.Context, name string) (libvirt.Network, error) {
	if err := ctx.Err(); err != nil {
		return libvirt.Network{}, err
	}
	net, err := c.libvirt.NetworkLookupByName(name)
	if err != nil {
		return libvirt.Network{}, fmt.Errorf("failed to look up network %s: %w", name, err)
	}
	return net, nil
}

func isNoNetwork(err error) bool {
	var lvErr libvirt.Error
	return errors.As(err, &lvErr) && lvErr.Code == uint32(libvirt.ErrNoNetwork)
}
