// Package quickopen is the host-independent core of the quick-open picker.
//
// A picker invocation runs in two phases. Aggregate collects paths from the
// enabled sources, merges them into a set of unique absolute paths, resolves
// their metadata and orders them. The resulting candidates are handed to a
// Session, which filters them against the query the user types and tracks a
// single selection until the user activates it or cancels.
//
// Nothing is cached between sessions; every invocation collects afresh.
package quickopen
