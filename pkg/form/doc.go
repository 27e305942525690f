// Package form interprets descriptor layouts against a document, producing an
// ordered list of bound controls used for navigation and bulk reset/rebind.
//
// Choice predicates are declared as data on the descriptor and resolved here
// into filters bound to the form's live scope. When a control writes a path
// that some choice predicate reads, that choice repopulates immediately.
package form
