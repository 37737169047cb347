package stanza

import "encoding/xml"

// BrowseQuery is the payload of a jabber:iq:browse request or result. In a
// request the element is empty; in a result it describes the target entity
// and its direct children.
//
// The classification attributes are pointers: a nil pointer omits the
// attribute entirely, while a pointer to the empty string emits an empty
// attribute value. XEP-0011 distinguishes the two for non-standard types.
type BrowseQuery struct {
	XMLName  xml.Name `xml:"jabber:iq:browse query"`
	JID      string   `xml:"jid,attr,omitempty"`
	Category *string  `xml:"category,attr,omitempty"`
	Type     *string  `xml:"type,attr,omitempty"`
	Name     *string  `xml:"name,attr,omitempty"`
	Version  *string  `xml:"version,attr,omitempty"`

	NS    []string     `xml:"ns"`
	Items []BrowseItem `xml:"item"`
}

// BrowseItem describes one direct child in a browse result. Items never nest:
// the tree a single browse reply describes is at most two levels deep.
type BrowseItem struct {
	JID      string  `xml:"jid,attr,omitempty"`
	Category *string `xml:"category,attr,omitempty"`
	Type     *string `xml:"type,attr,omitempty"`
	Name     *string `xml:"name,attr,omitempty"`
	Version  *string `xml:"version,attr,omitempty"`

	NS []string `xml:"ns"`
}
