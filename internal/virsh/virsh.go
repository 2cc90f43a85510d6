// Package virsh drives libvirt networks through the virsh command
// line tool. It is one of two backends behind the netxml.Tool
// interface; the other talks to the libvirt socket directly.
package virsh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kmahoney/netforge/internal/netxml"
)

// ToolError is a virsh invocation that ran but exited nonzero.
type ToolError struct {
	Command    string
	ExitStatus int
	Stderr     string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("virsh %s failed with status %d: %s",
		e.Command, e.ExitStatus, strings.TrimSpace(e.Stderr))
}

// Client implements netxml.Tool on top of a Runner.
type Client struct {
	runner Runner
}

// NewClient returns a Client shelling out to the given virsh binary,
// optionally with a --connect URI. Both may be empty.
func NewClient(binary, connect string) *Client {
	return &Client{runner: &ExecRunner{Binary: binary, Connect: connect}}
}

// NewClientWithRunner wires an arbitrary Runner, mostly for tests.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

func (c *Client) run(ctx context.Context, args ...string) (Result, error) {
	result, err := c.runner.Run(ctx, args...)
	if err != nil {
		return result, fmt.Errorf("failed to run virsh %s: %w", strings.Join(args, " "), err)
	}
	if result.ExitStatus != 0 {
		return result, &ToolError{
			Command:    strings.Join(args, " "),
			ExitStatus: result.ExitStatus,
			Stderr:     result.Stderr,
		}
	}
	return result, nil
}

// runWithXMLFile writes xmlDesc to a temp file and runs the
// subcommand against it. virsh takes network definitions by path.
func (c *Client) runWithXMLFile(ctx context.Context, subcommand, xmlDesc string) error {
	f, err := os.CreateTemp("", "netforge-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create xml file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(xmlDesc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write xml file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close xml file: %w", err)
	}

	_, err = c.run(ctx, subcommand, f.Name())
	return err
}

func (c *Client) NetDefine(ctx context.Context, xmlDesc string) error {
	return c.runWithXMLFile(ctx, "net-define", xmlDesc)
}

func (c *Client) NetCreate(ctx context.Context, xmlDesc string) error {
	return c.runWithXMLFile(ctx, "net-create", xmlDesc)
}

func (c *Client) NetUndefine(ctx context.Context, name string) error {
	_, err := c.run(ctx, "net-undefine", name)
	return err
}

func (c *Client) NetStart(ctx context.Context, name string) error {
	_, err := c.run(ctx, "net-start", name)
	return err
}

func (c *Client) NetDestroy(ctx context.Context, name string) error {
	_, err := c.run(ctx, "net-destroy", name)
	return err
}

func (c *Client) NetAutostart(ctx context.Context, name string, enable bool) error {
	args := []string{"net-autostart", name}
	if !enable {
		args = append(args, "--disable")
	}
	_, err := c.run(ctx, args...)
	return err
}

func (c *Client) NetDumpXML(ctx context.Context, name string) (string, error) {
	result, err := c.run(ctx, "net-dumpxml", name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// NetUUID returns the UUID string virsh reports for the network.
func (c *Client) NetUUID(ctx context.Context, name string) (string, error) {
	result, err := c.run(ctx, "net-uuid", name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// NetExists probes for the network by name. A nonzero exit means
// virsh does not know it.
func (c *Client) NetExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "net-uuid", name)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NetStateDict parses `virsh net-list --all` into per-network state
// flags. The listing has a two-line header and columns
// Name/State/Autostart/Persistent; old releases omit the last column,
// in which case persistence is probed per network.
func (c *Client) NetStateDict(ctx context.Context) (map[string]netxml.NetState, error) {
	result, err := c.run(ctx, "net-list", "--all")
	if err != nil {
		return nil, err
	}

	states := make(map[string]netxml.NetState)
	lines := strings.Split(result.Stdout, "\n")
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if fields[0] == "Name" || strings.HasPrefix(fields[0], "-") {
			continue
		}
		st := netxml.NetState{
			Active:    fields[1] == "active",
			Autostart: fields[2] == "yes",
		}
		if len(fields) >= 4 {
			st.Persistent = fields[3] == "yes"
		} else {
			persistent, err := c.netPersistent(ctx, fields[0])
			if err != nil {
				return nil, err
			}
			st.Persistent = persistent
		}
		states[fields[0]] = st
	}
	return states, nil
}

// netPersistent probes persistence through net-info for listings
// without a Persistent column.
func (c *Client) netPersistent(ctx context.Context, name string) (bool, error) {
	result, err := c.run(ctx, "net-info", name)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "Persistent:" {
			return fields[1] == "yes", nil
		}
	}
	return false, fmt.Errorf("no persistence flag in net-info output for %s", name)
}

// ValidateXML checks a network document against the libvirt schema
// using virt-xml-validate.
func ValidateXML(ctx context.Context, runner Runner, xmlDesc string) error {
	f, err := os.CreateTemp("", "netforge-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create xml file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(xmlDesc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write xml file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close xml file: %w", err)
	}

	result, err := runner.Run(ctx, f.Name(), "network")
	if err != nil {
		return fmt.Errorf("failed to run virt-xml-validate: %w", err)
	}
	if result.ExitStatus != 0 {
		return &ToolError{
			Command:    "xml-validate",
			ExitStatus: result.ExitStatus,
			Stderr:     result.Stderr,
		}
	}
	return nil
}
