// Package service answers the IQ traffic addressed to the gateway.
//
// BrowseService is the stanza-facing layer: it turns jabber:iq:browse
// requests into browse pipeline runs and answers the gateway's own
// disco#info and jabber:iq:version queries. It is transport-agnostic; the
// connection owner feeds it inbound requests and writes back whatever reply
// it returns.
package service
