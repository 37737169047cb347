package stanza

import "encoding/xml"

// VersionQuery is the payload of a jabber:iq:version request or result.
// Requests carry an empty query element; results carry at least name and
// version.
type VersionQuery struct {
	XMLName xml.Name `xml:"jabber:iq:version query"`
	Name    string   `xml:"name,omitempty"`
	Version string   `xml:"version,omitempty"`
	OS      string   `xml:"os,omitempty"`
}
