// Package layout loads scoreboard screen definitions. A screen declares the
// two player columns, the per-round scoring template, the record lists edited
// in their own tabs, one-click actions and the overlay text files. The
// Warhammer 40k and Age of Sigmar screens are embedded; LoadFS also accepts a
// caller directory of JSON or YAML files.
package layout
