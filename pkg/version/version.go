// Package version identifies this gateway software. The values answer
// jabber:iq:version queries addressed to the gateway itself and tag its mDNS
// presence.
package version

import "runtime"

// Name is the software name reported to version queries.
const Name = "browse-go"

// Number is the software version reported to version queries.
const Number = "0.3.0"

// OS returns the operating system identifier reported to version queries.
func OS() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
