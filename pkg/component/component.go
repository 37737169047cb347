package component

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/browse-protocol/browse-go/pkg/log"
	"github.com/browse-protocol/browse-go/pkg/stanza"
)

// Connection constants.
const (
	// DefaultConnectTimeout bounds dial plus handshake.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultKeepaliveInterval is the interval between whitespace pings.
	DefaultKeepaliveInterval = 30 * time.Second
)

// Connection errors.
var (
	ErrConnClosed         = errors.New("connection is closed")
	ErrHandshakeRejected  = errors.New("server rejected the handshake")
	ErrMissingStreamID    = errors.New("server stream open carries no stream ID")
)

// Config configures a component connection.
type Config struct {
	// Domain is the component's serving domain (the stream 'to' address).
	Domain string

	// Address is the host:port of the server's component listener.
	Address string

	// Secret is the shared handshake secret.
	Secret string

	// ConnectTimeout bounds Dial. Default: 30s.
	ConnectTimeout time.Duration

	// KeepaliveInterval is the whitespace ping interval. Zero selects the
	// default; negative disables keepalives.
	KeepaliveInterval time.Duration

	// Logger receives protocol events. Nil disables capture.
	Logger log.Logger

	// Slog receives operational logging. Nil discards.
	Slog *slog.Logger
}

// Conn is an authenticated component connection. Serve must run in exactly
// one goroutine; Send may be called from any.
type Conn struct {
	cfg    Config
	id     string
	conn   net.Conn
	dec    *stanza.StreamDecoder
	events log.Logger
	logger *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects and authenticates a component connection.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	if cfg.Domain == "" || cfg.Address == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("component config requires domain, address and secret")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.KeepaliveInterval == 0 {
		cfg.KeepaliveInterval = DefaultKeepaliveInterval
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	netConn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", cfg.Address, err)
	}

	c := &Conn{
		cfg:    cfg,
		id:     uuid.NewString(),
		conn:   netConn,
		dec:    stanza.NewStreamDecoder(bufio.NewReader(netConn)),
		events: cfg.Logger,
		logger: cfg.Slog,
		closed: make(chan struct{}),
	}
	if c.events == nil {
		c.events = log.NoopLogger{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = netConn.SetDeadline(deadline)
	}

	if err := c.handshake(); err != nil {
		netConn.Close()
		return nil, err
	}

	// Handshake deadlines do not apply to the open stream.
	_ = netConn.SetDeadline(time.Time{})

	c.state("connecting", "authenticated", "")
	c.logger.Info("component stream established",
		"domain", cfg.Domain, "address", cfg.Address, "conn_id", c.id)
	return c, nil
}

func (c *Conn) handshake() error {
	if _, err := c.conn.Write(stanza.StreamOpen(c.cfg.Domain)); err != nil {
		return fmt.Errorf("writing stream open: %w", err)
	}

	header, err := c.dec.ReadStreamOpen()
	if err != nil {
		return err
	}
	if header.ID == "" {
		return ErrMissingStreamID
	}

	if _, err := c.conn.Write(stanza.HandshakeElement(Digest(header.ID, c.cfg.Secret))); err != nil {
		return fmt.Errorf("writing handshake: %w", err)
	}

	el, err := c.dec.Next()
	if err != nil {
		return fmt.Errorf("reading handshake reply: %w", err)
	}
	switch {
	case el.Handshake != nil:
		return nil
	case el.Err != nil:
		return fmt.Errorf("%w: %s", ErrHandshakeRejected, el.Err.Condition)
	default:
		return ErrHandshakeRejected
	}
}

// ID returns the connection's identifier, used to correlate protocol events.
func (c *Conn) ID() string {
	return c.id
}

// Send marshals and writes one IQ stanza. Safe for concurrent use.
func (c *Conn) Send(ctx context.Context, iq *stanza.IQ) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}

	data, err := stanza.Marshal(iq)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("writing stanza: %w", err)
	}

	c.stanzaEvent(log.DirectionOut, iq)
	return nil
}

// Serve reads stanzas and passes each inbound IQ to handler, until the
// context is canceled, Close is called, or the stream fails. Non-IQ stanzas
// are skipped. Serve returns nil on clean shutdown.
func (c *Conn) Serve(ctx context.Context, handler func(*stanza.IQ)) error {
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.closed:
		}
	}()

	if c.cfg.KeepaliveInterval > 0 {
		go c.keepalive()
	}

	for {
		el, err := c.dec.Next()
		if err != nil {
			select {
			case <-c.closed:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				c.state("authenticated", "closed", "stream closed by server")
				c.Close()
				return nil
			}
			c.errorEvent(err, "read loop")
			c.Close()
			return fmt.Errorf("reading stream: %w", err)
		}

		switch {
		case el.IQ != nil:
			c.stanzaEvent(log.DirectionIn, el.IQ)
			handler(el.IQ)
		case el.Err != nil:
			err := fmt.Errorf("stream error: %s", el.Err.Condition)
			c.errorEvent(err, "read loop")
			c.Close()
			return err
		case el.Skipped.Local != "":
			c.logger.Debug("skipping unsupported stanza", "name", el.Skipped.Local)
		}
	}
}

// keepalive writes a whitespace byte between stanzas at the configured
// interval. XML parsers ignore inter-stanza whitespace.
func (c *Conn) keepalive() {
	ticker := time.NewTicker(c.cfg.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			_, err := c.conn.Write([]byte(" "))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Close closes the stream and the underlying connection. Safe to call more
// than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_, _ = c.conn.Write(stanza.StreamClose())
		c.writeMu.Unlock()
		_ = c.conn.Close()
		c.state("authenticated", "closed", "local close")
	})
	return nil
}

func (c *Conn) stanzaEvent(direction log.Direction, iq *stanza.IQ) {
	c.events.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    direction,
		Layer:        log.LayerStream,
		Category:     log.CategoryStanza,
		RemoteAddr:   c.conn.RemoteAddr().String(),
		Domain:       c.cfg.Domain,
		Stanza: &log.StanzaEvent{
			ID:        iq.ID,
			Type:      string(iq.Type),
			From:      iq.From,
			To:        iq.To,
			Namespace: payloadNamespace(iq),
		},
	})
}

func (c *Conn) state(from, to, reason string) {
	c.events.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    log.DirectionOut,
		Layer:        log.LayerService,
		Category:     log.CategoryState,
		Domain:       c.cfg.Domain,
		StateChange:  &log.StateChangeEvent{From: from, To: to, Reason: reason},
	})
}

func (c *Conn) errorEvent(err error, context string) {
	c.events.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    log.DirectionIn,
		Layer:        log.LayerStream,
		Category:     log.CategoryError,
		Domain:       c.cfg.Domain,
		Error:        &log.ErrorEventData{Message: err.Error(), Context: context},
	})
}

func payloadNamespace(iq *stanza.IQ) string {
	switch {
	case iq.Browse != nil:
		return stanza.NSBrowse
	case iq.DiscoInfo != nil:
		return stanza.NSDiscoInfo
	case iq.DiscoItems != nil:
		return stanza.NSDiscoItems
	case iq.Version != nil:
		return stanza.NSVersion
	case len(iq.Other) > 0:
		return iq.Other[0].XMLName.Space
	default:
		return ""
	}
}
