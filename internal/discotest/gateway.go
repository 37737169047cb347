// Package discotest provides a scriptable discovery gateway for tests.
package discotest

import (
	"context"
	"sync"

	"github.com/browse-protocol/browse-go/pkg/disco"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// Entity scripts the answers the gateway gives for one address.
type Entity struct {
	// Info is returned from disco#info queries. Nil with InfoErr nil means
	// an empty payload.
	Info *disco.Info

	// InfoErr fails the disco#info query.
	InfoErr error

	// Items is returned from disco#items queries.
	Items []disco.Item

	// ItemsErr fails the disco#items query.
	ItemsErr error

	// Version is returned from version queries.
	Version string

	// VersionErr fails the version query.
	VersionErr error
}

// Gateway is an in-memory disco.Gateway keyed by target address. Unknown
// targets answer with empty payloads. All queries are recorded.
type Gateway struct {
	mu       sync.Mutex
	entities map[string]Entity

	// Calls records every query as "<kind> <target> <requester>".
	Calls []string
}

// NewGateway creates an empty gateway.
func NewGateway() *Gateway {
	return &Gateway{entities: make(map[string]Entity)}
}

// Compile-time check.
var _ disco.Gateway = (*Gateway)(nil)

// Script sets the answers for an address.
func (g *Gateway) Script(address string, entity Entity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entities[address] = entity
}

// CallCount returns how many queries of the given kind were made.
func (g *Gateway) CallCount(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, call := range g.Calls {
		if len(call) >= len(kind) && call[:len(kind)] == kind {
			n++
		}
	}
	return n
}

func (g *Gateway) record(kind string, target, requester xmpp.JID) Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, kind+" "+target.String()+" "+requester.String())
	return g.entities[target.String()]
}

// Info implements disco.Gateway.
func (g *Gateway) Info(_ context.Context, target, requester xmpp.JID) (*disco.Info, error) {
	entity := g.record("info", target, requester)
	if entity.InfoErr != nil {
		return nil, entity.InfoErr
	}
	if entity.Info == nil {
		return &disco.Info{}, nil
	}
	return entity.Info, nil
}

// Items implements disco.Gateway.
func (g *Gateway) Items(_ context.Context, target, requester xmpp.JID) ([]disco.Item, error) {
	entity := g.record("items", target, requester)
	if entity.ItemsErr != nil {
		return nil, entity.ItemsErr
	}
	return entity.Items, nil
}

// Version implements disco.Gateway.
func (g *Gateway) Version(_ context.Context, target, requester xmpp.JID) (string, error) {
	entity := g.record("version", target, requester)
	if entity.VersionErr != nil {
		return "", entity.VersionErr
	}
	return entity.Version, nil
}
