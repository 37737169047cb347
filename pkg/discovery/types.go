package discovery

import "errors"

// DNS-SD constants.
const (
	// ServiceTypeGateway is the service type a running gateway registers.
	ServiceTypeGateway = "_xmpp-browse._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the conventional XMPP component port, advertised when
	// the gateway's listener port is unknown.
	DefaultPort = 5347

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	// TXTKeyDomain carries the gateway's serving domain.
	TXTKeyDomain = "dom"

	// TXTKeyVersion carries the gateway software version.
	TXTKeyVersion = "ver"

	// TXTKeyRole distinguishes gateway instances from other users of the
	// service type.
	TXTKeyRole = "role"
)

// RoleGateway is the role value a browse gateway advertises.
const RoleGateway = "gateway"

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required TXT field")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record")
	ErrInstanceNameTooLong = errors.New("instance name exceeds DNS label limit")
)

// GatewayInfo describes one gateway instance for advertising.
type GatewayInfo struct {
	// Domain is the gateway's serving domain. Required; it also seeds the
	// instance name.
	Domain string

	// Version is the gateway software version. Optional.
	Version string

	// Port is the advertised port. Zero selects DefaultPort.
	Port uint16
}

// GatewayService is one gateway found on the local network.
type GatewayService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	Domain  string
	Version string
}
