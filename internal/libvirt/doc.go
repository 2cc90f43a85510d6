// Package libvirt provides a client wrapper for interacting with the
// libvirt daemon over its local socket.
//
// This package wraps github.com/digitalocean/go-libvirt to provide:
//   - Connection management (connect, disconnect, ping)
//   - The network lifecycle operations behind netxml.Tool
//
// Connection Management:
//
// The package establishes connections to the local libvirt daemon via
// Unix socket:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	// Check connection
//	if err := client.Ping(); err != nil {
//	    return err
//	}
//
// Network Operations:
//
// Client implements netxml.Tool, so a Network bound to it drives the
// daemon directly:
//
//	n := netxml.NewNetwork("mynet", client)
//	if err := n.Sync(ctx, nil); err != nil {
//	    return err
//	}
//
// The interface lives with its consumer in internal/netxml; this
// package only satisfies it. The *libvirt.Libvirt accessor remains
// available for callers needing the raw API.
package libvirt
