// Package component implements the client side of the XMPP external
// component protocol (XEP-0114).
//
// A component connects to its host server over TCP, opens an XML stream for
// its serving domain, and authenticates with a SHA-1 digest of the stream ID
// and a shared secret. After the handshake the server routes every stanza
// addressed to the component's domain over this connection.
//
// The connection separates the read loop (Serve) from writes (Send). Writes
// are serialized; Serve must run in exactly one goroutine. Whitespace
// keepalives are sent between stanzas to hold intermediate NATs open.
package component
