// Package controls implements the bound controls of a scoreboard form: text,
// integer and filtered choice fields plus a decorative separator. Controls are
// headless. A front end forwards user input (SetText, Step, Select) and
// renders Text, Enabled and, for choices, Options and Selected.
//
// Every control keeps a reference to the shared document, never a copy, and
// writes through on each edit. Rebind re-points a control at a new document
// or record after the old one was replaced wholesale. A control whose document
// is nil is disabled and renders empty.
package controls
