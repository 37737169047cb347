// Package xmpp provides XMPP address (JID) parsing and comparison.
package xmpp

import (
	"fmt"
	"strings"
)

// MaxPartLen is the maximum length in bytes of each JID part.
const MaxPartLen = 1023

// localForbidden lists the characters that must not appear in a localpart.
const localForbidden = "\"&'/:<>@ "

// JID is a parsed XMPP address of the form localpart@domainpart/resourcepart.
// The localpart and resourcepart are optional. The zero value is not a valid
// address; use Parse to construct one.
type JID struct {
	Local    string
	Domain   string
	Resource string
}

// Parse parses an address string into a JID.
func Parse(s string) (JID, error) {
	if s == "" {
		return JID{}, fmt.Errorf("invalid JID: empty address")
	}

	var j JID
	rest := s

	// The resourcepart starts at the first slash and may itself contain
	// slashes and '@'.
	if idx := strings.Index(rest, "/"); idx >= 0 {
		j.Resource = rest[idx+1:]
		rest = rest[:idx]
		if j.Resource == "" {
			return JID{}, fmt.Errorf("invalid JID %q: empty resourcepart", s)
		}
	}

	if idx := strings.Index(rest, "@"); idx >= 0 {
		j.Local = rest[:idx]
		rest = rest[idx+1:]
		if j.Local == "" {
			return JID{}, fmt.Errorf("invalid JID %q: empty localpart", s)
		}
	}
	j.Domain = rest

	if err := j.validate(); err != nil {
		return JID{}, fmt.Errorf("invalid JID %q: %w", s, err)
	}
	return j, nil
}

// MustParse parses an address string and panics on error. Intended for
// constants and tests.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return j
}

func (j JID) validate() error {
	if j.Domain == "" {
		return fmt.Errorf("empty domainpart")
	}
	if len(j.Local) > MaxPartLen || len(j.Domain) > MaxPartLen || len(j.Resource) > MaxPartLen {
		return fmt.Errorf("part exceeds %d bytes", MaxPartLen)
	}
	if strings.ContainsAny(j.Local, localForbidden) {
		return fmt.Errorf("forbidden character in localpart")
	}
	if strings.ContainsAny(j.Domain, "@/ ") {
		return fmt.Errorf("forbidden character in domainpart")
	}
	for _, label := range strings.Split(j.Domain, ".") {
		if label == "" {
			return fmt.Errorf("empty label in domainpart")
		}
	}
	return nil
}

// String returns the canonical string form of the address.
func (j JID) String() string {
	var b strings.Builder
	if j.Local != "" {
		b.WriteString(j.Local)
		b.WriteByte('@')
	}
	b.WriteString(j.Domain)
	if j.Resource != "" {
		b.WriteByte('/')
		b.WriteString(j.Resource)
	}
	return b.String()
}

// Bare returns the address without its resourcepart.
func (j JID) Bare() JID {
	return JID{Local: j.Local, Domain: j.Domain}
}

// IsBare reports whether the address has no resourcepart.
func (j JID) IsBare() bool {
	return j.Resource == ""
}

// Equal reports whether two addresses are identical part for part.
func (j JID) Equal(other JID) bool {
	return j == other
}
