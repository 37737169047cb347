package disco

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/browse-protocol/browse-go/pkg/stanza"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// Gateway errors.
var (
	ErrQueryTimeout   = errors.New("query timed out")
	ErrGatewayClosed  = errors.New("gateway is closed")
	ErrQueryRefused   = errors.New("query returned an error")
	ErrMissingPayload = errors.New("reply carries no usable payload")
)

// DefaultQueryTimeout bounds a single discovery round trip.
const DefaultQueryTimeout = 10 * time.Second

// IQSender sends an IQ stanza over an established connection.
// *component.Conn satisfies it.
type IQSender interface {
	Send(ctx context.Context, iq *stanza.IQ) error
}

// IQGateway implements Gateway by sending disco and version IQs through an
// IQSender and correlating replies by stanza ID. The owner of the connection
// read loop must route inbound result and error IQs to HandleReply.
type IQGateway struct {
	sender  IQSender
	timeout time.Duration

	pendingMu sync.Mutex
	pending   map[string]chan *stanza.IQ
	closed    bool
}

// NewIQGateway creates a gateway sending queries through sender. A zero
// timeout selects DefaultQueryTimeout.
func NewIQGateway(sender IQSender, timeout time.Duration) *IQGateway {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &IQGateway{
		sender:  sender,
		timeout: timeout,
		pending: make(map[string]chan *stanza.IQ),
	}
}

// Compile-time check.
var _ Gateway = (*IQGateway)(nil)

// HandleReply routes an inbound response stanza to the query waiting for it.
// It reports whether the stanza was consumed; unconsumed responses belong to
// nobody and should be dropped by the caller.
func (g *IQGateway) HandleReply(iq *stanza.IQ) bool {
	if !iq.IsResponse() || iq.ID == "" {
		return false
	}

	g.pendingMu.Lock()
	ch, ok := g.pending[iq.ID]
	if ok {
		delete(g.pending, iq.ID)
	}
	g.pendingMu.Unlock()

	if !ok {
		return false
	}
	ch <- iq
	return true
}

// Close fails all in-flight queries and rejects new ones.
func (g *IQGateway) Close() {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()

	g.closed = true
	for id, ch := range g.pending {
		close(ch)
		delete(g.pending, id)
	}
}

// Info implements Gateway.
func (g *IQGateway) Info(ctx context.Context, target, requester xmpp.JID) (*Info, error) {
	req := &stanza.IQ{
		To:        target.String(),
		From:      requester.String(),
		Type:      stanza.IQGet,
		DiscoInfo: &stanza.DiscoInfoQuery{},
	}

	reply, err := g.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	if reply.DiscoInfo == nil {
		return nil, fmt.Errorf("disco#info on %s: %w", target, ErrMissingPayload)
	}

	info := &Info{}
	for _, id := range reply.DiscoInfo.Identities {
		info.Identities = append(info.Identities, Identity{
			Category: id.Category,
			Type:     id.Type,
			Name:     id.Name,
		})
	}
	for _, f := range reply.DiscoInfo.Features {
		info.Features = append(info.Features, Feature{Var: f.Var})
	}
	return info, nil
}

// Items implements Gateway.
func (g *IQGateway) Items(ctx context.Context, target, requester xmpp.JID) ([]Item, error) {
	req := &stanza.IQ{
		To:         target.String(),
		From:       requester.String(),
		Type:       stanza.IQGet,
		DiscoItems: &stanza.DiscoItemsQuery{},
	}

	reply, err := g.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	if reply.DiscoItems == nil {
		return nil, fmt.Errorf("disco#items on %s: %w", target, ErrMissingPayload)
	}

	items := make([]Item, 0, len(reply.DiscoItems.Items))
	for _, it := range reply.DiscoItems.Items {
		items = append(items, Item{JID: it.JID, Name: it.Name})
	}
	return items, nil
}

// Version implements Gateway.
func (g *IQGateway) Version(ctx context.Context, target, requester xmpp.JID) (string, error) {
	req := &stanza.IQ{
		To:      target.String(),
		From:    requester.String(),
		Type:    stanza.IQGet,
		Version: &stanza.VersionQuery{},
	}

	reply, err := g.roundTrip(ctx, req)
	if err != nil {
		return "", err
	}
	if reply.Version == nil {
		return "", fmt.Errorf("version on %s: %w", target, ErrMissingPayload)
	}
	return strings.TrimSpace(reply.Version.Version), nil
}

func (g *IQGateway) roundTrip(ctx context.Context, req *stanza.IQ) (*stanza.IQ, error) {
	req.ID = uuid.NewString()

	ch := make(chan *stanza.IQ, 1)
	g.pendingMu.Lock()
	if g.closed {
		g.pendingMu.Unlock()
		return nil, ErrGatewayClosed
	}
	g.pending[req.ID] = ch
	g.pendingMu.Unlock()

	defer func() {
		g.pendingMu.Lock()
		delete(g.pending, req.ID)
		g.pendingMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.sender.Send(ctx, req); err != nil {
		return nil, fmt.Errorf("sending query: %w", err)
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrGatewayClosed
		}
		if reply.Type == stanza.IQError {
			condition := "unknown"
			if reply.Error != nil {
				condition = string(reply.Error.Condition)
			}
			return nil, fmt.Errorf("%w: %s", ErrQueryRefused, condition)
		}
		return reply, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrQueryTimeout
		}
		return nil, ctx.Err()
	}
}
