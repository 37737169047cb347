package stanza

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBrowseResult(t *testing.T) {
	category := "service"
	typ := "jabber"
	name := "Example Server"
	iq := &IQ{
		To:   "alice@example.org/home",
		From: "browse.example.org",
		ID:   "b1",
		Type: IQResult,
		Browse: &BrowseQuery{
			JID:      "example.org",
			Category: &category,
			Type:     &typ,
			Name:     &name,
			NS:       []string{"jabber:iq:browse", "jabber:iq:version"},
			Items: []BrowseItem{
				{JID: "conference.example.org", Category: &category},
			},
		},
	}

	data, err := Marshal(iq)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `<query xmlns="jabber:iq:browse"`)
	assert.Contains(t, out, `jid="example.org"`)
	assert.Contains(t, out, `category="service"`)
	assert.Contains(t, out, `type="jabber"`)
	assert.Contains(t, out, `name="Example Server"`)
	assert.Contains(t, out, `<ns>jabber:iq:version</ns>`)
	assert.Contains(t, out, `jid="conference.example.org"`)
	assert.NotContains(t, out, "version=")
}

func TestMarshalOmitsAbsentAttributes(t *testing.T) {
	iq := &IQ{
		To:     "alice@example.org",
		ID:     "b2",
		Type:   IQResult,
		Browse: &BrowseQuery{JID: "example.org"},
	}

	data, err := Marshal(iq)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "category=")
	assert.NotContains(t, out, "type=")
	assert.NotContains(t, out, "name=")
	assert.NotContains(t, out, "version=")
	assert.NotContains(t, out, "<ns>")
}

func TestMarshalEmptyTypeAttribute(t *testing.T) {
	// A non-standard category passes its type set through as-is, which may
	// be the empty string. An empty attribute is distinct from no attribute.
	category := "x-unknown"
	typ := ""
	iq := &IQ{
		ID:   "b3",
		Type: IQResult,
		Browse: &BrowseQuery{
			JID:      "example.org",
			Category: &category,
			Type:     &typ,
		},
	}

	data, err := Marshal(iq)
	require.NoError(t, err)
	assert.Contains(t, string(data), `type=""`)
}

func TestMarshalRequiresType(t *testing.T) {
	_, err := Marshal(&IQ{ID: "x"})
	require.Error(t, err)
}

func TestUnmarshalDiscoInfo(t *testing.T) {
	raw := `<iq type="result" from="example.org" to="browse.example.org" id="i1">
		<query xmlns="http://jabber.org/protocol/disco#info">
			<identity category="server" type="im" name="Example"/>
			<identity category="pubsub" type="pep"/>
			<feature var="http://jabber.org/protocol/disco#info"/>
			<feature var="jabber:iq:version"/>
		</query>
	</iq>`

	iq, err := Unmarshal([]byte(raw))
	require.NoError(t, err)
	require.NotNil(t, iq.DiscoInfo)
	require.Len(t, iq.DiscoInfo.Identities, 2)
	assert.Equal(t, Identity{Category: "server", Type: "im", Name: "Example"}, iq.DiscoInfo.Identities[0])
	require.Len(t, iq.DiscoInfo.Features, 2)
	assert.Equal(t, "jabber:iq:version", iq.DiscoInfo.Features[1].Var)
	assert.True(t, iq.IsResponse())
	assert.False(t, iq.IsRequest())
}

func TestUnmarshalDiscoItems(t *testing.T) {
	raw := `<iq type="result" id="i2">
		<query xmlns="http://jabber.org/protocol/disco#items">
			<item jid="conference.example.org" name="Chatrooms"/>
			<item jid="not a valid jid"/>
		</query>
	</iq>`

	iq, err := Unmarshal([]byte(raw))
	require.NoError(t, err)
	require.NotNil(t, iq.DiscoItems)
	require.Len(t, iq.DiscoItems.Items, 2)
	assert.Equal(t, "conference.example.org", iq.DiscoItems.Items[0].JID)
	assert.Equal(t, "Chatrooms", iq.DiscoItems.Items[0].Name)
}

func TestUnmarshalUnknownPayload(t *testing.T) {
	raw := `<iq type="get" id="i3"><query xmlns="jabber:iq:private"/></iq>`

	iq, err := Unmarshal([]byte(raw))
	require.NoError(t, err)
	assert.Nil(t, iq.Browse)
	assert.Nil(t, iq.DiscoInfo)
	require.Len(t, iq.Other, 1)
	assert.Equal(t, "jabber:iq:private", iq.Other[0].XMLName.Space)
}

func TestResultAddressing(t *testing.T) {
	req := &IQ{To: "browse.example.org", From: "alice@example.org/home", ID: "r1", Type: IQGet}
	res := req.Result()

	assert.Equal(t, "alice@example.org/home", res.To)
	assert.Equal(t, "browse.example.org", res.From)
	assert.Equal(t, "r1", res.ID)
	assert.Equal(t, IQResult, res.Type)
}

func TestBrowseQueryRoundTrip(t *testing.T) {
	category := "conference"
	typ := "public"
	name := "Rooms, More Rooms"
	version := "1.2.3"
	in := &IQ{
		ID:   "rt1",
		Type: IQResult,
		Browse: &BrowseQuery{
			JID:      "conference.example.org",
			Category: &category,
			Type:     &typ,
			Name:     &name,
			Version:  &version,
			NS:       []string{"http://jabber.org/protocol/muc", "jabber:iq:browse"},
			Items: []BrowseItem{
				{JID: "room@conference.example.org", NS: []string{"http://jabber.org/protocol/muc"}},
			},
		},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.NotNil(t, out.Browse)
	assert.Equal(t, in.Browse.JID, out.Browse.JID)
	require.NotNil(t, out.Browse.Category)
	assert.Equal(t, category, *out.Browse.Category)
	require.NotNil(t, out.Browse.Version)
	assert.Equal(t, version, *out.Browse.Version)
	assert.Equal(t, in.Browse.NS, out.Browse.NS)
	require.Len(t, out.Browse.Items, 1)
	assert.Equal(t, in.Browse.Items[0].JID, out.Browse.Items[0].JID)
	assert.Equal(t, in.Browse.Items[0].NS, out.Browse.Items[0].NS)
}

func TestStreamOpenEscapesDomain(t *testing.T) {
	open := string(StreamOpen("examp<le.org"))
	assert.False(t, strings.Contains(open, "examp<le.org"))
	assert.Contains(t, open, NSComponentAccept)
	assert.Contains(t, open, NSStream)
}
