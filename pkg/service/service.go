package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/browse-protocol/browse-go/pkg/browse"
	"github.com/browse-protocol/browse-go/pkg/stanza"
	"github.com/browse-protocol/browse-go/pkg/version"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// DefaultBrowseTimeout bounds one full browse pipeline run, covering the
// root queries and all child fan-out queries.
const DefaultBrowseTimeout = 60 * time.Second

// Config configures a BrowseService.
type Config struct {
	// Domain is the gateway's own address. Requests addressed to it (or to
	// nothing at all) target the gateway itself.
	Domain string

	// ConcatIdentities merges all identities of an entity during
	// classification instead of using only the first relevant one.
	ConcatIdentities bool

	// BrowseTimeout bounds one browse pipeline run. Zero selects the
	// default.
	BrowseTimeout time.Duration
}

// BrowseService answers inbound IQ requests. Safe for concurrent use.
type BrowseService struct {
	domain  xmpp.JID
	timeout time.Duration
	builder *browse.TreeBuilder
	logger  *slog.Logger

	mu     sync.RWMutex
	concat bool
}

// New creates a service answering for cfg.Domain through builder. A nil
// logger discards logs.
func New(cfg Config, builder *browse.TreeBuilder, logger *slog.Logger) (*BrowseService, error) {
	domain, err := xmpp.Parse(cfg.Domain)
	if err != nil {
		return nil, fmt.Errorf("invalid service domain: %w", err)
	}
	if cfg.BrowseTimeout <= 0 {
		cfg.BrowseTimeout = DefaultBrowseTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BrowseService{
		domain:  domain,
		timeout: cfg.BrowseTimeout,
		builder: builder,
		logger:  logger,
		concat:  cfg.ConcatIdentities,
	}, nil
}

// Domain returns the gateway's own address.
func (s *BrowseService) Domain() xmpp.JID {
	return s.domain
}

// ConcatIdentities reports the current identity-merge setting.
func (s *BrowseService) ConcatIdentities() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.concat
}

// SetConcatIdentities changes the identity-merge setting for subsequent
// browse calls.
func (s *BrowseService) SetConcatIdentities(concat bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concat = concat
}

// HandleIQ processes one inbound IQ and returns the reply to send, or nil
// when the stanza warrants none. Responses must be routed to the discovery
// gateway before reaching this method; any that still arrive are dropped.
func (s *BrowseService) HandleIQ(ctx context.Context, iq *stanza.IQ) *stanza.IQ {
	if !iq.IsRequest() {
		return nil
	}

	requester, err := xmpp.Parse(iq.From)
	if err != nil {
		s.logger.Debug("dropping request with invalid sender",
			"from", iq.From, "id", iq.ID, "error", err)
		return nil
	}

	target := s.domain
	if iq.To != "" {
		target, err = xmpp.Parse(iq.To)
		if err != nil {
			s.logger.Debug("rejecting request with invalid target",
				"to", iq.To, "id", iq.ID, "error", err)
			return iq.ErrorReply(stanza.ErrorModify, stanza.BadRequest)
		}
	}

	switch {
	case iq.Browse != nil:
		return s.handleBrowse(ctx, iq, target, requester)
	case iq.DiscoInfo != nil:
		return s.handleDiscoInfo(iq)
	case iq.Version != nil:
		return s.handleVersion(iq)
	default:
		return iq.ErrorReply(stanza.ErrorCancel, stanza.ServiceUnavailable)
	}
}

// handleBrowse runs the browse pipeline for a get request. The pipeline
// itself never fails; upstream trouble shows up as absent fields in the
// reply, not as an error stanza.
func (s *BrowseService) handleBrowse(ctx context.Context, iq *stanza.IQ, target, requester xmpp.JID) *stanza.IQ {
	if iq.Type == stanza.IQSet {
		return iq.ErrorReply(stanza.ErrorCancel, stanza.FeatureNotImplemented)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("handling browse request",
		"target", target.String(), "requester", requester.String(), "id", iq.ID)

	result := s.builder.Browse(ctx, target, requester, browse.Options{
		ConcatIdentities: s.ConcatIdentities(),
	})

	reply := iq.Result()
	reply.Browse = result.Query()
	return reply
}

func (s *BrowseService) handleDiscoInfo(iq *stanza.IQ) *stanza.IQ {
	if iq.Type == stanza.IQSet {
		return iq.ErrorReply(stanza.ErrorCancel, stanza.ServiceUnavailable)
	}
	if iq.DiscoInfo.Node != "" {
		return iq.ErrorReply(stanza.ErrorCancel, stanza.ItemNotFound)
	}

	reply := iq.Result()
	reply.DiscoInfo = &stanza.DiscoInfoQuery{
		Identities: []stanza.Identity{
			{Category: "component", Type: "generic", Name: version.Name},
		},
		Features: []stanza.Feature{
			{Var: stanza.NSDiscoInfo},
			{Var: stanza.NSBrowse},
			{Var: stanza.NSVersion},
		},
	}
	return reply
}

func (s *BrowseService) handleVersion(iq *stanza.IQ) *stanza.IQ {
	if iq.Type == stanza.IQSet {
		return iq.ErrorReply(stanza.ErrorCancel, stanza.ServiceUnavailable)
	}

	reply := iq.Result()
	reply.Version = &stanza.VersionQuery{
		Name:    version.Name,
		Version: version.Number,
		OS:      version.OS(),
	}
	return reply
}
