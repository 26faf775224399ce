// Package app holds the quote keeper's use cases.
//
// QuoteService covers what a user does with the local collection: browse,
// add, filter, export, import and resolve conflicts. SyncService reconciles
// that collection with the remote posts source. Both share one State, which
// persists every change through a ports.StateRepository before publishing it.
//
// Nothing here knows about HTTP or the storage backend; adapters are
// injected through the interfaces in package ports.
package app
