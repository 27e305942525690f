// Package board assembles a game screen into a working scoreboard: one main
// form for the header, player columns and round tabs, and a record list
// editor per list. Round arrays are grown before round fields bind to them.
package board
