// Package netxml models libvirt virtual network XML documents
// (http://libvirt.org/formatnetwork.html) as document-backed objects.
// Every entity wraps an XML fragment through the xmlmap bindings, so
// getters and setters operate directly on the document; nothing is
// cached outside it. Network additionally carries lifecycle queries
// and commands that call out to a management Tool (virsh or the
// libvirt socket API).
package netxml
