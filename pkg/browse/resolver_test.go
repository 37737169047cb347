package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/browse-protocol/browse-go/pkg/disco"
)

func TestCategoryNoIdentities(t *testing.T) {
	r := NewResolver(nil)

	for _, concat := range []bool{false, true} {
		assert.Nil(t, r.Category(nil, concat))
		assert.Nil(t, r.Category([]disco.Identity{}, concat))
	}
}

func TestCategoryKnown(t *testing.T) {
	r := NewResolver(nil)

	got := r.Category([]disco.Identity{{Category: "conference", Type: "public"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "conference", *got)
}

func TestCategoryGatewayRewrite(t *testing.T) {
	r := NewResolver(nil)

	for _, typ := range []string{"", "msn", "aim", "whatever"} {
		got := r.Category([]disco.Identity{{Category: "gateway", Type: typ}}, false)
		require.NotNil(t, got)
		assert.Equal(t, "service", *got, "gateway with type %q", typ)
	}
}

func TestCategoryServerRewrite(t *testing.T) {
	r := NewResolver(nil)

	got := r.Category([]disco.Identity{{Category: "server", Type: "im"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "service", *got)

	// Any type set other than exactly {"im"} falls through to the generic
	// rule; "server" is not a XEP-0011 category.
	got = r.Category([]disco.Identity{{Category: "server", Type: "chat"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "x-server", *got)

	got = r.Category([]disco.Identity{{Category: "server"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "x-server", *got)
}

func TestCategoryCollaborationRewrite(t *testing.T) {
	r := NewResolver(nil)

	got := r.Category([]disco.Identity{{Category: "collaboration", Type: "whiteboard"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "application", *got)

	got = r.Category([]disco.Identity{{Category: "collaboration", Type: "docs"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "x-collaboration", *got)
}

func TestCategoryUnknownGetsPrefix(t *testing.T) {
	r := NewResolver(nil)

	got := r.Category([]disco.Identity{{Category: "pubsub", Type: "pep"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "x-pubsub", *got)
}

func TestCategoryTrimsAndSkipsBlank(t *testing.T) {
	r := NewResolver(nil)

	// A blank category does not stop the scan, and its type still folds
	// into the type set seen by the special-case rules.
	identities := []disco.Identity{
		{Category: "  ", Type: "im"},
		{Category: " server ", Type: ""},
	}
	got := r.Category(identities, false)
	require.NotNil(t, got)
	assert.Equal(t, "service", *got)
}

func TestCategoryFirstWinsWithoutConcat(t *testing.T) {
	r := NewResolver(nil)

	identities := []disco.Identity{
		{Category: "conference", Type: "public"},
		{Category: "headline", Type: "rss"},
	}
	got := r.Category(identities, false)
	require.NotNil(t, got)
	assert.Equal(t, "conference", *got)
}

func TestCategoryConcatJoinsDistinct(t *testing.T) {
	r := NewResolver(nil)

	identities := []disco.Identity{
		{Category: "conference", Type: "public"},
		{Category: "headline", Type: "rss"},
	}
	got := r.Category(identities, true)
	require.NotNil(t, got)

	// The join order over the accumulated set is an implementation choice;
	// assert on the token set.
	assert.True(t, *got == "x-conference_and_headline" || *got == "x-headline_and_conference",
		"got %q", *got)
}

func TestCategoryConcatDuplicatesCollapse(t *testing.T) {
	r := NewResolver(nil)

	identities := []disco.Identity{
		{Category: "conference", Type: "public"},
		{Category: "conference", Type: "irc"},
	}
	got := r.Category(identities, true)
	require.NotNil(t, got)
	assert.Equal(t, "conference", *got)
}

func TestTypeNilCategory(t *testing.T) {
	r := NewResolver(nil)

	assert.Nil(t, r.Type(nil, []disco.Identity{{Type: "im"}}, false))
	assert.Nil(t, r.Type(nil, nil, true))
}

func TestTypeNoIdentities(t *testing.T) {
	r := NewResolver(nil)

	for _, concat := range []bool{false, true} {
		assert.Nil(t, r.Type(ptr("service"), nil, concat))
	}
}

func TestTypeServiceIMRewrite(t *testing.T) {
	r := NewResolver(nil)

	got := r.Type(ptr("service"), []disco.Identity{{Category: "server", Type: "im"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "jabber", *got)
}

func TestTypeLegalForCategory(t *testing.T) {
	r := NewResolver(nil)

	got := r.Type(ptr("conference"), []disco.Identity{{Type: "public"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "public", *got)
}

func TestTypeIllegalGetsPrefix(t *testing.T) {
	r := NewResolver(nil)

	got := r.Type(ptr("conference"), []disco.Identity{{Type: "pep"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "x-pep", *got)
}

func TestTypeXCategoryPassthrough(t *testing.T) {
	r := NewResolver(nil)

	got := r.Type(ptr("x-pubsub"), []disco.Identity{{Type: "pep"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "pep", *got)

	// With no types at all the passthrough is intentionally the empty
	// string, not nil: unknown category, unknown type, pass through as-is.
	got = r.Type(ptr("x-pubsub"), []disco.Identity{{Category: "pubsub"}}, false)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)
}

func TestTypeStopsAtFirstNonEmpty(t *testing.T) {
	r := NewResolver(nil)

	// Unlike category resolution, the type scan stops at the first
	// non-empty type even when a later identity differs.
	identities := []disco.Identity{
		{Category: "conference", Type: ""},
		{Category: "conference", Type: "public"},
		{Category: "conference", Type: "irc"},
	}
	got := r.Type(ptr("conference"), identities, false)
	require.NotNil(t, got)
	assert.Equal(t, "public", *got)
}

func TestTypeConcatJoinsDistinct(t *testing.T) {
	r := NewResolver(nil)

	identities := []disco.Identity{
		{Type: "public"},
		{Type: "irc"},
	}
	got := r.Type(ptr("conference"), identities, true)
	require.NotNil(t, got)
	assert.True(t, *got == "x-public_and_irc" || *got == "x-irc_and_public", "got %q", *got)
}

func TestTypeCategoryScansAreIndependent(t *testing.T) {
	r := NewResolver(nil)

	// The category scan stops after the first identity (it has a category),
	// but the type scan keeps going past it because its type is blank.
	identities := []disco.Identity{
		{Category: "conference", Type: ""},
		{Category: "headline", Type: "public"},
	}
	category := r.Category(identities, false)
	require.NotNil(t, category)
	assert.Equal(t, "conference", *category)

	typ := r.Type(category, identities, false)
	require.NotNil(t, typ)
	assert.Equal(t, "public", *typ)
}

func TestName(t *testing.T) {
	r := NewResolver(nil)

	assert.Nil(t, r.Name(nil))
	assert.Nil(t, r.Name([]disco.Identity{{Category: "server", Name: "  "}}))

	got := r.Name([]disco.Identity{{Name: " Example "}})
	require.NotNil(t, got)
	assert.Equal(t, "Example", *got)
}

func TestNameCollectsAllIdentities(t *testing.T) {
	r := NewResolver(nil)

	// Names come from every identity, regardless of the concat flag's
	// effect on the category scan.
	identities := []disco.Identity{
		{Category: "conference", Name: "Rooms"},
		{Category: "headline", Name: "News"},
		{Category: "headline", Name: "Rooms"},
	}
	got := r.Name(identities)
	require.NotNil(t, got)
	assert.Equal(t, "News, Rooms", *got)
}

func TestNamespaces(t *testing.T) {
	r := NewResolver(nil)

	assert.Empty(t, r.Namespaces(nil))

	got := r.Namespaces([]disco.Feature{
		{Var: "jabber:iq:version"},
		{Var: " http://jabber.org/protocol/muc "},
		{Var: "jabber:iq:version"},
		{Var: "   "},
	})
	assert.Equal(t, []string{"http://jabber.org/protocol/muc", "jabber:iq:version"}, got)
}

func TestVocabulary(t *testing.T) {
	v := LegacyVocabulary()

	assert.True(t, v.HasCategory("service"))
	assert.True(t, v.HasCategory("render"))
	assert.False(t, v.HasCategory("server"))
	assert.False(t, v.HasCategory("gateway"))
	assert.False(t, v.HasCategory("collaboration"))

	assert.True(t, v.Allows("service", "jabber"))
	assert.True(t, v.Allows("render", "*2*"))
	assert.False(t, v.Allows("service", "public"))
	assert.False(t, v.Allows("nope", "jabber"))
}
