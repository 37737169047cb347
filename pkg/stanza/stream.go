package stanza

import (
	"encoding/xml"
	"fmt"
	"io"
)

// StreamHeader carries the attributes of the stream open element the server
// sends in response to ours. The ID seeds the handshake digest.
type StreamHeader struct {
	ID   string
	From string
}

// StreamError is a stream-level error element. Receiving one means the
// server is about to close the connection.
type StreamError struct {
	Condition string
	Text      string
}

// Element is one decoded top-level element from a component stream. Exactly
// one of the pointer fields is set, except for skipped stanzas, where only
// Skipped carries the element name.
type Element struct {
	IQ *IQ

	// Handshake is non-nil for handshake elements. The string is the digest
	// text; acknowledgements carry an empty string.
	Handshake *string

	Err *StreamError

	// Skipped is the name of a well-formed top-level element this decoder
	// does not model (message, presence). Such elements are consumed and
	// reported so callers can count or log them.
	Skipped xml.Name
}

// StreamDecoder reads top-level elements from an XMPP component stream.
//
// The reader should be buffered by the caller. The decoder is not safe for
// concurrent use; a connection owns exactly one.
type StreamDecoder struct {
	d *xml.Decoder
}

// NewStreamDecoder creates a decoder reading from r.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	return &StreamDecoder{d: d}
}

// ReadStreamOpen consumes tokens until the stream open element and returns
// its header. Must be called exactly once, before Next.
func (sd *StreamDecoder) ReadStreamOpen() (*StreamHeader, error) {
	for {
		tok, err := sd.d.Token()
		if err != nil {
			return nil, fmt.Errorf("reading stream open: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "stream" || start.Name.Space != NSStream {
			return nil, fmt.Errorf("unexpected stream open element <%s>", start.Name.Local)
		}

		header := &StreamHeader{}
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "id":
				header.ID = attr.Value
			case "from":
				header.From = attr.Value
			}
		}
		return header, nil
	}
}

// Next reads the next top-level element. It returns io.EOF on a clean stream
// close as well as on connection EOF.
func (sd *StreamDecoder) Next() (*Element, error) {
	for {
		tok, err := sd.d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "iq":
				var iq IQ
				if err := sd.d.DecodeElement(&iq, &t); err != nil {
					return nil, fmt.Errorf("decoding iq: %w", err)
				}
				return &Element{IQ: &iq}, nil

			case t.Name.Local == "handshake":
				var hs struct {
					Digest string `xml:",chardata"`
				}
				if err := sd.d.DecodeElement(&hs, &t); err != nil {
					return nil, fmt.Errorf("decoding handshake: %w", err)
				}
				return &Element{Handshake: &hs.Digest}, nil

			case t.Name.Local == "error" && t.Name.Space == NSStream:
				se, err := sd.decodeStreamError(&t)
				if err != nil {
					return nil, err
				}
				return &Element{Err: se}, nil

			default:
				if err := sd.d.Skip(); err != nil {
					return nil, err
				}
				return &Element{Skipped: t.Name}, nil
			}

		case xml.EndElement:
			// The only end element seen at this depth is </stream:stream>.
			return nil, io.EOF
		}
	}
}

func (sd *StreamDecoder) decodeStreamError(start *xml.StartElement) (*StreamError, error) {
	se := &StreamError{}
	for {
		tok, err := sd.d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" {
				var text struct {
					Value string `xml:",chardata"`
				}
				if err := sd.d.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				se.Text = text.Value
				continue
			}
			if se.Condition == "" {
				se.Condition = t.Name.Local
			}
			if err := sd.d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return se, nil
		}
	}
}
