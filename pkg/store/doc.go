// Package store keeps the scoreboard document in memory for a single backing
// JSON file. Load never fails on a missing or malformed file; the store simply
// reports itself invalid so callers can offer a file picker instead of a form.
// Save compares the live document with the snapshot taken at the last load or
// save and touches the disk only when they differ.
package store
