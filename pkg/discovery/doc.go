// Package discovery advertises and finds browse gateways on the local
// network via mDNS/DNS-SD.
//
// A running gateway registers one `_xmpp-browse._tcp` service instance whose
// TXT record carries its serving domain, software version and role. Other
// tools on the link can enumerate gateways with the Browser without asking
// the XMPP server. mDNS presence is optional; the gateway works without it.
package discovery
