// Package stanza implements the XML stanza layer shared by the component
// transport and the browse service.
//
// The package models IQ stanzas with typed payloads for the namespaces this
// gateway speaks:
//
//   - jabber:iq:browse (XEP-0011, the reply format this gateway produces)
//   - http://jabber.org/protocol/disco#info (XEP-0030)
//   - http://jabber.org/protocol/disco#items (XEP-0030)
//   - jabber:iq:version (XEP-0092)
//
// Marshalling rules follow XEP-0011: an attribute is present on a browse
// query or item if and only if the corresponding field resolved to a value.
// Pointer fields distinguish "absent" from "present but empty".
//
// StreamDecoder reads one top-level element at a time from an XMPP stream
// (XEP-0114 component framing): the stream open is reported as a header,
// handshake acknowledgements and stream errors as control elements, and
// unknown stanza kinds are skipped without failing the stream.
package stanza
