package stanza

import "encoding/xml"

// Identity is one category/type/name classification tuple advertised by an
// entity in a disco#info result. An entity may advertise more than one.
type Identity struct {
	Category string `xml:"category,attr,omitempty"`
	Type     string `xml:"type,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
}

// Feature advertises support for one namespace in a disco#info result.
type Feature struct {
	Var string `xml:"var,attr"`
}

// DiscoInfoQuery is the payload of a disco#info request or result.
type DiscoInfoQuery struct {
	XMLName    xml.Name   `xml:"http://jabber.org/protocol/disco#info query"`
	Node       string     `xml:"node,attr,omitempty"`
	Identities []Identity `xml:"identity"`
	Features   []Feature  `xml:"feature"`
}

// DiscoItem is one child entity in a disco#items result.
type DiscoItem struct {
	JID  string `xml:"jid,attr,omitempty"`
	Name string `xml:"name,attr,omitempty"`
	Node string `xml:"node,attr,omitempty"`
}

// DiscoItemsQuery is the payload of a disco#items request or result.
type DiscoItemsQuery struct {
	XMLName xml.Name    `xml:"http://jabber.org/protocol/disco#items query"`
	Node    string      `xml:"node,attr,omitempty"`
	Items   []DiscoItem `xml:"item"`
}
