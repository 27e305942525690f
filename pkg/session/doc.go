// Package session hosts one editing session: the document store, the lock
// that stands in for the UI thread, and the listeners that rebind editors
// when a new document is opened.
//
// Every mutation of the live document happens under the session lock, either
// through Do or while a reload listener runs. Listeners run synchronously in
// registration order and must not call Do themselves.
package session
