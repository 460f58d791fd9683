// Package notify implements the core of the notification gateway: the
// three event variants (contact, modification, order), presence validation,
// deterministic rendering into subject + HTML body, and concurrent dispatch
// through the mail transport with per-recipient outcomes.
package notify
