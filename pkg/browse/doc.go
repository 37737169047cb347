// Package browse derives XEP-0011 Jabber Browsing results from XEP-0030
// Service Discovery and XEP-0092 version data.
//
// XEP-0011 describes every entity with a single category/type/name/version
// tuple plus a feature namespace list, while disco#info may return any number
// of identities. The Resolver normalizes the many-identity answer into the
// fixed XEP-0011 vocabulary:
//
//   - a single known category passes through, with a handful of rewrites
//     ("gateway" is a "service", an IM "server" is a "service", a whiteboard
//     "collaboration" is an "application")
//   - unknown or ambiguous values are prefixed with "x-", multiple distinct
//     values joined with "_and_"
//   - names from all identities are joined with ", "
//
// Category and type are resolved by two independent scans over the same
// identity list with different stop conditions. This asymmetry is inherited
// from XEP-0011's reading of category as a coarse classification and type as
// a refinement; unifying the scans changes observable output.
//
// TreeBuilder runs the two-phase pipeline: resolve the target, enumerate its
// disco#items children, and resolve each child the same way, one level deep.
// Every upstream failure degrades to absent fields rather than failing the
// browse.
package browse
