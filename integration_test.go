package browsego_test

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browse-protocol/browse-go/pkg/browse"
	"github.com/browse-protocol/browse-go/pkg/component"
	"github.com/browse-protocol/browse-go/pkg/disco"
	"github.com/browse-protocol/browse-go/pkg/service"
	"github.com/browse-protocol/browse-go/pkg/stanza"
)

const (
	e2eDomain = "browse.example.org"
	e2eSecret = "secret"
	e2eTarget = "conference.example.org"
	e2eChild  = "rooms.conference.example.org"
)

// xmppServer scripts the server side of a component session: it performs the
// XEP-0114 handshake, answers the gateway's discovery queries for a small
// fixed topology, and records result stanzas.
type xmppServer struct {
	t  *testing.T
	ln net.Listener

	results chan *stanza.IQ
	ready   chan struct{}

	mu   sync.Mutex
	conn net.Conn
}

func startXMPPServer(t *testing.T) *xmppServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &xmppServer{
		t:       t,
		ln:      ln,
		results: make(chan *stanza.IQ, 8),
		ready:   make(chan struct{}),
	}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *xmppServer) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	dec := stanza.NewStreamDecoder(bufio.NewReader(conn))
	if _, err := dec.ReadStreamOpen(); err != nil {
		return
	}
	streamID := "e2e-stream-1"
	if _, err := conn.Write([]byte(`<?xml version='1.0'?><stream:stream xmlns='` +
		stanza.NSComponentAccept + `' xmlns:stream='` + stanza.NSStream +
		`' from='example.org' id='` + streamID + `'>`)); err != nil {
		return
	}

	el, err := dec.Next()
	if err != nil || el.Handshake == nil {
		return
	}
	if *el.Handshake != component.Digest(streamID, e2eSecret) {
		return
	}
	if _, err := conn.Write([]byte(`<handshake/>`)); err != nil {
		return
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	close(s.ready)

	for {
		el, err := dec.Next()
		if err != nil {
			return
		}
		if el.IQ == nil {
			continue
		}
		iq := el.IQ

		if iq.IsResponse() {
			s.results <- iq
			continue
		}

		if err := s.send(s.answer(iq)); err != nil {
			return
		}
	}
}

// send writes one stanza toward the component. Reply writes and injected
// requests share the connection.
func (s *xmppServer) send(iq *stanza.IQ) error {
	data, err := stanza.Marshal(iq)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Write(data)
	return err
}

// answer builds the scripted discovery reply for one upstream query.
func (s *xmppServer) answer(iq *stanza.IQ) *stanza.IQ {
	reply := iq.Result()

	switch {
	case iq.DiscoInfo != nil:
		switch iq.To {
		case e2eTarget:
			reply.DiscoInfo = &stanza.DiscoInfoQuery{
				Identities: []stanza.Identity{
					{Category: "conference", Type: "text", Name: "Chatrooms"},
				},
				Features: []stanza.Feature{
					{Var: stanza.NSDiscoInfo},
					{Var: "http://jabber.org/protocol/muc"},
				},
			}
		case e2eChild:
			reply.DiscoInfo = &stanza.DiscoInfoQuery{
				Identities: []stanza.Identity{
					{Category: "gateway", Type: "irc", Name: "IRC rooms"},
				},
			}
		default:
			return iq.ErrorReply(stanza.ErrorCancel, stanza.ItemNotFound)
		}

	case iq.DiscoItems != nil:
		if iq.To == e2eTarget {
			reply.DiscoItems = &stanza.DiscoItemsQuery{
				Items: []stanza.DiscoItem{{JID: e2eChild}},
			}
		} else {
			reply.DiscoItems = &stanza.DiscoItemsQuery{}
		}

	case iq.Version != nil:
		if iq.To == e2eTarget {
			reply.Version = &stanza.VersionQuery{Name: "muc", Version: "1.0"}
		} else {
			return iq.ErrorReply(stanza.ErrorCancel, stanza.ServiceUnavailable)
		}

	default:
		return iq.ErrorReply(stanza.ErrorCancel, stanza.ServiceUnavailable)
	}

	return reply
}

// TestE2E_Browse runs a full browse round trip: a browse request enters over
// a component stream, the gateway fans out discovery queries through the
// same stream, and the synthesized tree comes back as the reply.
func TestE2E_Browse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := startXMPPServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, err := component.Dial(ctx, component.Config{
		Domain:            e2eDomain,
		Address:           srv.ln.Addr().String(),
		Secret:            e2eSecret,
		KeepaliveInterval: -1,
	})
	require.NoError(t, err)
	defer conn.Close()

	gateway := disco.NewIQGateway(conn, 5*time.Second)
	defer gateway.Close()

	builder := browse.NewTreeBuilder(gateway, browse.NewResolver(nil), nil)
	svc, err := service.New(service.Config{Domain: e2eDomain}, builder, nil)
	require.NoError(t, err)

	go func() {
		_ = conn.Serve(ctx, func(iq *stanza.IQ) {
			if iq.IsResponse() {
				gateway.HandleReply(iq)
				return
			}
			go func() {
				if reply := svc.HandleIQ(ctx, iq); reply != nil {
					_ = conn.Send(ctx, reply)
				}
			}()
		})
	}()

	select {
	case <-srv.ready:
	case <-ctx.Done():
		t.Fatal("server never completed the handshake")
	}

	require.NoError(t, srv.send(&stanza.IQ{
		From:   "romeo@montague.net/orchard",
		To:     e2eTarget,
		ID:     "req-1",
		Type:   stanza.IQGet,
		Browse: &stanza.BrowseQuery{},
	}))

	var result *stanza.IQ
	select {
	case result = <-srv.results:
	case <-ctx.Done():
		t.Fatal("timed out waiting for browse result")
	}

	require.Equal(t, stanza.IQResult, result.Type)
	assert.Equal(t, "req-1", result.ID)
	assert.Equal(t, "romeo@montague.net/orchard", result.To)
	require.NotNil(t, result.Browse)

	q := result.Browse
	assert.Equal(t, e2eTarget, q.JID)
	require.NotNil(t, q.Category)
	assert.Equal(t, "conference", *q.Category)
	require.NotNil(t, q.Type)
	assert.Equal(t, "text", *q.Type)
	require.NotNil(t, q.Name)
	assert.Equal(t, "Chatrooms", *q.Name)
	require.NotNil(t, q.Version)
	assert.Equal(t, "1.0", *q.Version)
	assert.Contains(t, q.NS, "http://jabber.org/protocol/muc")

	require.Len(t, q.Items, 1)
	child := q.Items[0]
	assert.Equal(t, e2eChild, child.JID)
	require.NotNil(t, child.Category)
	assert.Equal(t, "service", *child.Category)
	require.NotNil(t, child.Type)
	assert.Equal(t, "irc", *child.Type)
	assert.Nil(t, child.Version)
}
