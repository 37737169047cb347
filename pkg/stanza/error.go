package stanza

import "encoding/xml"

// ErrorType is the type attribute of a stanza error, indicating how the
// sender should react.
type ErrorType string

const (
	ErrorCancel ErrorType = "cancel"
	ErrorModify ErrorType = "modify"
	ErrorWait   ErrorType = "wait"
)

// Condition is a defined stanza error condition from RFC 6120.
type Condition string

const (
	BadRequest            Condition = "bad-request"
	FeatureNotImplemented Condition = "feature-not-implemented"
	InternalServerError   Condition = "internal-server-error"
	ItemNotFound          Condition = "item-not-found"
	RemoteServerTimeout   Condition = "remote-server-timeout"
	ServiceUnavailable    Condition = "service-unavailable"
)

// Error is the error child of an IQ stanza of type error. The condition is
// carried as an empty element named after the condition, qualified by the
// urn:ietf:params:xml:ns:xmpp-stanzas namespace.
type Error struct {
	Type      ErrorType
	Condition Condition
	Text      string
}

// MarshalXML implements xml.Marshaler.
func (e *Error) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "error"}
	start.Attr = nil
	if e.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: string(e.Type)})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	cond := xml.StartElement{
		Name: xml.Name{Space: NSStanzaErrors, Local: string(e.Condition)},
	}
	if err := enc.EncodeToken(cond); err != nil {
		return err
	}
	if err := enc.EncodeToken(cond.End()); err != nil {
		return err
	}

	if e.Text != "" {
		text := xml.StartElement{Name: xml.Name{Space: NSStanzaErrors, Local: "text"}}
		if err := enc.EncodeToken(text); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
		if err := enc.EncodeToken(text.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// UnmarshalXML implements xml.Unmarshaler. The first element in the stanza
// errors namespace that is not a text element is taken as the condition.
func (e *Error) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "type" {
			e.Type = ErrorType(attr.Value)
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == NSStanzaErrors && t.Name.Local == "text" {
				var text struct {
					Value string `xml:",chardata"`
				}
				if err := dec.DecodeElement(&text, &t); err != nil {
					return err
				}
				e.Text = text.Value
				continue
			}
			if e.Condition == "" && t.Name.Space == NSStanzaErrors {
				e.Condition = Condition(t.Name.Local)
			}
			if err := dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}
