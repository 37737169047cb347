package browse

import (
	"sort"

	"github.com/browse-protocol/browse-go/pkg/stanza"
	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

// BrowseResult describes one addressable entity: its XEP-0011 classification
// and, for the root of a browse call only, its direct children.
//
// Classification fields are nil when the underlying discovery queries yielded
// nothing. Namespaces and Children are kept sorted and free of duplicates
// (children are unique by address).
type BrowseResult struct {
	JID      xmpp.JID
	Category *string
	Type     *string
	Name     *string
	Version  *string

	Namespaces []string
	Children   []*BrowseResult
}

// Equal reports value equality of two trees, including children.
func (r *BrowseResult) Equal(other *BrowseResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.JID.Equal(other.JID) {
		return false
	}
	if !ptrEqual(r.Category, other.Category) ||
		!ptrEqual(r.Type, other.Type) ||
		!ptrEqual(r.Name, other.Name) ||
		!ptrEqual(r.Version, other.Version) {
		return false
	}
	if len(r.Namespaces) != len(other.Namespaces) {
		return false
	}
	for i := range r.Namespaces {
		if r.Namespaces[i] != other.Namespaces[i] {
			return false
		}
	}
	if len(r.Children) != len(other.Children) {
		return false
	}
	for i := range r.Children {
		if !r.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Query transcribes the tree into its jabber:iq:browse wire form.
func (r *BrowseResult) Query() *stanza.BrowseQuery {
	q := &stanza.BrowseQuery{
		JID:      r.JID.String(),
		Category: r.Category,
		Type:     r.Type,
		Name:     r.Name,
		Version:  r.Version,
		NS:       r.Namespaces,
	}
	for _, child := range r.Children {
		q.Items = append(q.Items, stanza.BrowseItem{
			JID:      child.JID.String(),
			Category: child.Category,
			Type:     child.Type,
			Name:     child.Name,
			Version:  child.Version,
			NS:       child.Namespaces,
		})
	}
	return q
}

// sortChildren orders children by address and drops duplicates. The first
// occurrence of an address wins.
func sortChildren(children []*BrowseResult) []*BrowseResult {
	seen := make(map[string]bool, len(children))
	unique := children[:0]
	for _, child := range children {
		key := child.JID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, child)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].JID.String() < unique[j].JID.String()
	})
	return unique
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
