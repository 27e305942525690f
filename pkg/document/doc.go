// Package document addresses slots inside the shared scoreboard document.
//
// A document is a plain map[string]any decoded from JSON. Every bound control
// holds the same map, so writes made through Set are visible to all readers
// immediately. Paths use dotted segment names with optional bracketed indices
// (`left.40kRoundScores[2].primaryScore`). Reads never fail: anything missing
// resolves to the Absent value. Writes create missing intermediate mappings but
// never grow arrays; EnsureArray is the explicit way to do that.
package document
