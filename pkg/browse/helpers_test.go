package browse_test

import (
	"testing"

	"github.com/browse-protocol/browse-go/pkg/xmpp"
)

func mustJID(t *testing.T, s string) xmpp.JID {
	t.Helper()
	j, err := xmpp.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return j
}

func strPtr(s string) *string {
	return &s
}
