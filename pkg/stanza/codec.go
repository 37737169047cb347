package stanza

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Marshal encodes an IQ stanza to its wire form.
func Marshal(iq *IQ) ([]byte, error) {
	if iq.Type == "" {
		return nil, fmt.Errorf("invalid IQ: missing type")
	}
	data, err := xml.Marshal(iq)
	if err != nil {
		return nil, fmt.Errorf("encoding IQ: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a complete iq element.
func Unmarshal(data []byte) (*IQ, error) {
	var iq IQ
	if err := xml.Unmarshal(data, &iq); err != nil {
		return nil, fmt.Errorf("decoding IQ: %w", err)
	}
	return &iq, nil
}

// StreamOpen returns the stream header that opens a component connection to
// the given serving domain. The element is deliberately left unclosed; the
// matching end tag is StreamClose.
func StreamOpen(domain string) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version='1.0'?>`)
	b.WriteString(`<stream:stream xmlns='`)
	xml.EscapeText(&b, []byte(NSComponentAccept))
	b.WriteString(`' xmlns:stream='`)
	xml.EscapeText(&b, []byte(NSStream))
	b.WriteString(`' to='`)
	xml.EscapeText(&b, []byte(domain))
	b.WriteString(`'>`)
	return b.Bytes()
}

// StreamClose returns the end tag that closes a component stream.
func StreamClose() []byte {
	return []byte(`</stream:stream>`)
}

// HandshakeElement returns the handshake element carrying the hex digest
// computed from the stream ID and the shared secret.
func HandshakeElement(digest string) []byte {
	var b bytes.Buffer
	b.WriteString(`<handshake>`)
	xml.EscapeText(&b, []byte(digest))
	b.WriteString(`</handshake>`)
	return b.Bytes()
}
