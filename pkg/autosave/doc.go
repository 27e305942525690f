// Package autosave persists a document on a fixed period. Each tick calls
// Save on the store, whose dirty check makes idle ticks free.
package autosave
