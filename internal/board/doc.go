// Package board implements the shared coordination document and its
// collections: the agent roster, findings feed, message queue, task
// queue, question board, and free-form context map.
//
// # Architecture
//
// All coordination state for one working tree lives in a single JSON
// document, board.json, inside the coordination directory. A sibling
// sentinel file carries the cross-process advisory lock (see the
// lockfile package). Every operation follows one discipline:
//
//	acquire lock → load document → mutate or inspect → save if changed → release
//
// The document is always rewritten whole; there are no partial field
// updates, which is what keeps racing writers from losing each other's
// changes. Writes go through a temp file and rename, so a reader never
// observes a half-written document. An absent, empty, or corrupt file
// loads as the default empty document: the board is advisory state,
// and availability beats preserving a broken history.
//
// The collections enforce no cross-record invariants. Exclusive
// resource ownership lives one level up, in the claims package, which
// stores its chains in this same document.
//
// # Basic Usage
//
//	store := board.NewStore(".accordo")
//	if err := store.Init(); err != nil {
//	    return err
//	}
//
//	if _, err := store.RegisterAgent("a1", "refactor auth", nil); err != nil {
//	    return err
//	}
//	finding, err := store.PostFinding("a1", "auth middleware also parses cookies", nil)
//
// # Thread Safety
//
// Store serializes same-process callers with an internal mutex before
// taking the cross-process file lock, so it is safe for concurrent use
// from multiple goroutines as well as multiple processes.
package board
