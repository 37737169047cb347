package stanza

import "encoding/xml"

// Namespaces handled by this gateway.
const (
	NSBrowse          = "jabber:iq:browse"
	NSDiscoInfo       = "http://jabber.org/protocol/disco#info"
	NSDiscoItems      = "http://jabber.org/protocol/disco#items"
	NSVersion         = "jabber:iq:version"
	NSComponentAccept = "jabber:component:accept"
	NSStream          = "http://etherx.jabber.org/streams"
	NSStanzaErrors    = "urn:ietf:params:xml:ns:xmpp-stanzas"
)

// IQType is the type attribute of an IQ stanza.
type IQType string

const (
	IQGet    IQType = "get"
	IQSet    IQType = "set"
	IQResult IQType = "result"
	IQError  IQType = "error"
)

// IQ is an info/query stanza with at most one recognized payload. Exactly one
// of the payload pointers is set for stanzas this gateway produces; inbound
// stanzas with a payload in an unhandled namespace populate Other instead.
type IQ struct {
	XMLName xml.Name `xml:"iq"`
	To      string   `xml:"to,attr,omitempty"`
	From    string   `xml:"from,attr,omitempty"`
	ID      string   `xml:"id,attr,omitempty"`
	Type    IQType   `xml:"type,attr"`

	Browse     *BrowseQuery     `xml:"jabber:iq:browse query,omitempty"`
	DiscoInfo  *DiscoInfoQuery  `xml:"http://jabber.org/protocol/disco#info query,omitempty"`
	DiscoItems *DiscoItemsQuery `xml:"http://jabber.org/protocol/disco#items query,omitempty"`
	Version    *VersionQuery    `xml:"jabber:iq:version query,omitempty"`
	Error      *Error           `xml:"error,omitempty"`

	Other []AnyPayload `xml:",any"`
}

// AnyPayload captures a payload element in a namespace this gateway does not
// handle. Only the element name is retained.
type AnyPayload struct {
	XMLName xml.Name
}

// IsRequest reports whether the stanza expects a reply.
func (iq *IQ) IsRequest() bool {
	return iq.Type == IQGet || iq.Type == IQSet
}

// IsResponse reports whether the stanza is itself a reply and must not be
// answered.
func (iq *IQ) IsResponse() bool {
	return iq.Type == IQResult || iq.Type == IQError
}

// Result creates an empty result stanza addressed back to the sender of iq.
func (iq *IQ) Result() *IQ {
	return &IQ{
		To:   iq.From,
		From: iq.To,
		ID:   iq.ID,
		Type: IQResult,
	}
}

// ErrorReply creates an error reply to iq carrying the given condition. The
// original payload is not echoed.
func (iq *IQ) ErrorReply(errType ErrorType, condition Condition) *IQ {
	return &IQ{
		To:   iq.From,
		From: iq.To,
		ID:   iq.ID,
		Type: IQError,
		Error: &Error{
			Type:      errType,
			Condition: condition,
		},
	}
}
