// Package model defines field descriptors: the schema data a form is built
// from. A Descriptor names the control kind, its label, the document path it
// binds to and, for choices, where candidates come from and how they are
// filtered. Descriptors are plain values. Templates carrying `{roundNumber}`
// and `{roundIndex}` placeholders are expanded into fresh copies per round, so
// shared layout tables are never mutated at runtime. Candidate predicates are
// tagged data (PredicateKind plus a sibling path) that the form builder binds
// to the live document when it instantiates a control.
package model
