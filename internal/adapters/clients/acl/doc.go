// Package acl keeps the remote posts API's shapes out of the quote domain.
//
// The posts source speaks JSONPlaceholder: posts carry a numeric id, a title
// and a body, and writes are accepted but never persisted. Adapters in this
// package decode those DTOs, turn them into [domain.Quote] values and map
// every transport or status failure onto a domain error:
//
//   - 404 → [domain.ErrNotFound]
//   - 409 → [domain.ErrConflict]
//   - other 4xx → [domain.ErrValidation]
//   - 5xx, 429, circuit open, retries exhausted, network → [domain.ErrUnavailable]
//
// External DTOs stay unexported so nothing outside the adapter depends on them.
package acl
