package browse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/browse-protocol/browse-go/pkg/disco"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// Options carries the per-request resolution settings. The concat flag is
// resolved once per browse call so the resolver stays a pure function of its
// inputs.
type Options struct {
	// ConcatIdentities merges all identities of an entity instead of using
	// only the first relevant one.
	ConcatIdentities bool
}

// TreeBuilder builds two-level browse trees by querying a discovery gateway.
// Safe for concurrent use; each call builds an independent tree.
type TreeBuilder struct {
	gateway  disco.Gateway
	resolver *Resolver
	logger   *slog.Logger
}

// NewTreeBuilder creates a builder querying through gateway. A nil logger
// discards logs.
func NewTreeBuilder(gateway disco.Gateway, resolver *Resolver, logger *slog.Logger) *TreeBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TreeBuilder{
		gateway:  gateway,
		resolver: resolver,
		logger:   logger,
	}
}

// Browse resolves the target entity and one level of its children on behalf
// of the requester. Upstream failures degrade to absent fields; the call
// itself never fails.
func (b *TreeBuilder) Browse(ctx context.Context, target, requester xmpp.JID, opts Options) *BrowseResult {
	b.logger.Debug("browsing entity", "target", target.String(), "requester", requester.String())

	root := b.ResolveEntity(ctx, target, requester, opts)

	items, err := b.gateway.Items(ctx, target, requester)
	if err != nil {
		// No items is a partial answer, not a failed browse.
		b.logger.Debug("disco#items query failed", "target", target.String(), "error", err)
		return root
	}

	addresses := make([]xmpp.JID, 0, len(items))
	for _, item := range items {
		jid, err := xmpp.Parse(item.JID)
		if err != nil {
			b.logger.Debug("dropping item with invalid JID",
				"target", target.String(), "jid", item.JID, "error", err)
			continue
		}
		addresses = append(addresses, jid)
	}

	// Child resolutions are independent round trips; fan out. The children
	// set is unordered, so concurrency cannot change the result.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		children []*BrowseResult
	)
	for _, addr := range addresses {
		wg.Add(1)
		go func(addr xmpp.JID) {
			defer wg.Done()
			child := b.ResolveEntity(ctx, addr, requester, opts)
			mu.Lock()
			children = append(children, child)
			mu.Unlock()
		}(addr)
	}
	wg.Wait()

	root.Children = sortChildren(children)
	return root
}

// ResolveEntity resolves the classification of a single address without
// descending into its children. Each failed or unusable query leaves the
// corresponding fields absent.
func (b *TreeBuilder) ResolveEntity(ctx context.Context, address, requester xmpp.JID, opts Options) *BrowseResult {
	result := &BrowseResult{JID: address}

	info, err := b.gateway.Info(ctx, address, requester)
	if err != nil {
		b.logger.Debug("disco#info query failed", "target", address.String(), "error", err)
		info = nil
	}
	if info != nil {
		result.Category = b.resolver.Category(info.Identities, opts.ConcatIdentities)
		result.Type = b.resolver.Type(result.Category, info.Identities, opts.ConcatIdentities)
		result.Name = b.resolver.Name(info.Identities)
		result.Namespaces = b.resolver.Namespaces(info.Features)
	}

	version, err := b.gateway.Version(ctx, address, requester)
	if err != nil {
		b.logger.Debug("version query failed", "target", address.String(), "error", err)
	} else if version != "" {
		result.Version = &version
	}

	return result
}
