// Package records edits an array of named records inside a document: a list
// of lines with add, edit and confirmed delete, plus a detail form bound to
// the active record. Records are identified by their `name` field.
package records
