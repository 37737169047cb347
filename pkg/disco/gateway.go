// Package disco defines the discovery gateway the browse pipeline queries,
// and an implementation that performs the queries as IQ round trips.
package disco

import (
	"context"

	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// Identity is one category/type/name classification tuple from a disco#info
// result.
type Identity struct {
	Category string
	Type     string
	Name     string
}

// Feature is one supported namespace from a disco#info result.
type Feature struct {
	Var string
}

// Info is the payload of a successful disco#info query.
type Info struct {
	Identities []Identity
	Features   []Feature
}

// Item is one child entity from a disco#items result. The JID is the raw
// attribute value; callers validate it before use.
type Item struct {
	JID  string
	Name string
}

// Gateway performs discovery and version queries against a target address on
// behalf of a requester. The requester address lets the remote side authorize
// the query where applicable.
//
// Every method attempts the query exactly once. A context timeout or
// cancellation surfaces as an error like any other failure; callers decide
// how failures degrade.
type Gateway interface {
	// Info performs a disco#info query.
	Info(ctx context.Context, target, requester xmpp.JID) (*Info, error)

	// Items performs a disco#items query.
	Items(ctx context.Context, target, requester xmpp.JID) ([]Item, error)

	// Version performs a jabber:iq:version query. An empty string means the
	// target answered without a usable version.
	Version(ctx context.Context, target, requester xmpp.JID) (string, error)
}
