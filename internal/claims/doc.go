// Package claims implements exclusive, time-bounded leasing of shared
// resources for independent agent processes.
//
// A claim chain grants one owner control of a set of resource
// identifiers (typically file paths) until the owner releases or
// completes it, or its TTL lapses. Chains live in the shared board
// document, so the guarantee spans every process coordinating through
// the same directory.
//
// # Architecture
//
// The Manager holds no state of its own between calls. Every operation
// is one locked read-modify-write cycle against the board store, which
// makes the Manager correct across process restarts for free. The
// single invariant it enforces: a resource belongs to at most one
// active, non-lapsed chain at a time.
//
// Claims are atomic across resources. A request for N resources either
// leases all N under one new chain or fails as a whole with a
// BlockedError naming exactly the resources that conflicted and the
// chains holding them. An owner re-claiming a resource it already
// holds succeeds and gets a new, independent chain; old chains keep
// their own lifecycle for audit.
//
// Expiry is lazy. No timer watches the leases; instead every operation
// flips chains whose deadline has passed to expired before it does its
// own work. A lapsed lease therefore lingers in storage as "active"
// until the next touch, but no reader ever observes it as holding its
// resources. Enumerations surface such chains already tagged expired.
//
// # Basic Usage
//
//	mgr := claims.NewManager(store)
//
//	chain, err := mgr.Claim("a1", []string{"src/auth.py"}, "refactor login", 10*time.Minute)
//	if err != nil {
//	    if blocked, ok := claims.IsBlocked(err); ok {
//	        // blocked.Conflicting and blocked.Blocking say who holds what
//	    }
//	    return err
//	}
//	defer mgr.Release("a1", chain.ID)
//
// # Thread Safety
//
// Manager is safe for concurrent use; serialization happens in the
// store, across goroutines and across processes.
package claims
