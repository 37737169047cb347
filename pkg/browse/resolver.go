package browse

import (
	"sort"
	"strings"

	"github.com/browse-protocol/browse-go/pkg/disco"
)

// valueSeparator joins multiple distinct categories or types into one
// "x-"-prefixed value.
const valueSeparator = "_and_"

// Resolver normalizes disco#info identities and features into XEP-0011
// category, type, name and namespace values. It is stateless apart from the
// vocabulary table and safe for concurrent use.
type Resolver struct {
	vocab Vocabulary
}

// NewResolver creates a resolver using the given vocabulary. A nil vocabulary
// selects the XEP-0011 table.
func NewResolver(vocab Vocabulary) *Resolver {
	if vocab == nil {
		vocab = LegacyVocabulary()
	}
	return &Resolver{vocab: vocab}
}

// Category derives the browse category from the identity list.
//
// Identities are scanned in order, folding non-empty trimmed categories and
// types into two sets. Without concat the scan stops once at least one
// category has been recorded; identities with a blank category keep the scan
// alive and still contribute their type. With concat all identities are
// scanned.
//
// Returns nil when no identity carries a category.
func (r *Resolver) Category(identities []disco.Identity, concat bool) *string {
	categories := make(map[string]bool)
	types := make(map[string]bool)

	for _, id := range identities {
		if c := strings.TrimSpace(id.Category); c != "" {
			categories[c] = true
		}
		if t := strings.TrimSpace(id.Type); t != "" {
			types[t] = true
		}
		if len(categories) > 0 && !concat {
			break
		}
	}

	switch len(categories) {
	case 0:
		return nil
	case 1:
		category := anyKey(categories)
		if category == "gateway" {
			return ptr("service")
		}
		if category == "server" && len(types) == 1 && types["im"] {
			return ptr("service")
		}
		if category == "collaboration" && len(types) == 1 && types["whiteboard"] {
			return ptr("application")
		}
		if r.vocab.HasCategory(category) {
			return ptr(category)
		}
		return ptr("x-" + category)
	default:
		return ptr("x-" + joinSorted(categories))
	}
}

// Type derives the browse type for an already-resolved category.
//
// The identity list is scanned independently of Category, with its own stop
// rule: without concat the scan ends as soon as one non-empty type has been
// recorded, so an identity with a blank type does not keep the scan alive
// past the first hit.
//
// A nil category yields a nil type. An "x-" category passes the accumulated
// type set through as-is, possibly as the empty string.
func (r *Resolver) Type(category *string, identities []disco.Identity, concat bool) *string {
	if category == nil {
		return nil
	}

	types := make(map[string]bool)
	for _, id := range identities {
		if t := strings.TrimSpace(id.Type); t != "" {
			types[t] = true
			if !concat {
				break
			}
		}
	}

	if strings.HasPrefix(*category, "x-") {
		return ptr(joinSorted(types))
	}

	switch len(types) {
	case 0:
		return nil
	case 1:
		typ := anyKey(types)
		if *category == "service" && typ == "im" {
			return ptr("jabber")
		}
		if r.vocab.Allows(*category, typ) {
			return ptr(typ)
		}
		return ptr("x-" + typ)
	default:
		return ptr("x-" + joinSorted(types))
	}
}

// Name joins the distinct non-empty identity names with ", ". All identities
// contribute, regardless of the concat setting. Returns nil when no identity
// carries a name.
func (r *Resolver) Name(identities []disco.Identity) *string {
	names := make(map[string]bool)
	for _, id := range identities {
		if n := strings.TrimSpace(id.Name); n != "" {
			names[n] = true
		}
	}
	if len(names) == 0 {
		return nil
	}

	sorted := sortedKeys(names)
	return ptr(strings.Join(sorted, ", "))
}

// Namespaces collects the distinct non-empty feature namespaces, sorted.
func (r *Resolver) Namespaces(features []disco.Feature) []string {
	namespaces := make(map[string]bool)
	for _, f := range features {
		if ns := strings.TrimSpace(f.Var); ns != "" {
			namespaces[ns] = true
		}
	}
	return sortedKeys(namespaces)
}

// joinSorted joins set members with the value separator in lexical order.
// The iteration order of the accumulating sets is undefined; sorting pins
// the join to a deterministic output.
func joinSorted(values map[string]bool) string {
	return strings.Join(sortedKeys(values), valueSeparator)
}

func sortedKeys(values map[string]bool) []string {
	keys := make([]string, 0, len(values))
	for v := range values {
		keys = append(keys, v)
	}
	sort.Strings(keys)
	return keys
}

func anyKey(values map[string]bool) string {
	for v := range values {
		return v
	}
	return ""
}

func ptr(s string) *string {
	return &s
}
