package claims

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/logging"
)

// DefaultTTL is the lease duration used when a claim passes a
// non-positive TTL.
const DefaultTTL = 15 * time.Minute

// Manager implements exclusive, time-bounded resource leasing over the
// board document. It enforces the one invariant the storage layer does
// not: a resource belongs to at most one active, non-lapsed chain at a
// time.
type Manager struct {
	store      *board.Store
	defaultTTL time.Duration
	now        func() time.Time
	logger     *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultTTL sets the lease duration applied when Claim is called
// with a non-positive TTL.
func WithDefaultTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.defaultTTL = d
		}
	}
}

// WithClock overrides the time source. Tests use this to cross lease
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for claim activity.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store *board.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		defaultTTL: DefaultTTL,
		now:        time.Now,
		logger:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Claim leases the given resources to owner as a single new chain.
// The call is atomic: if any requested resource is held by an active,
// non-lapsed chain belonging to a different owner, nothing is claimed
// and the returned error is a *BlockedError naming the conflicting
// resources and the chains holding them. Resources already held by
// owner itself do not conflict; the claim creates a new, independent
// chain and the older chains keep their own lifecycle (re-claiming is
// idempotent, prior audit records survive).
//
// Resource identifiers are normalized before comparison and storage.
// A non-positive ttl uses the manager default; any positive ttl is
// valid, however small.
func (m *Manager) Claim(owner string, resources []string, reason string, ttl time.Duration) (*board.ClaimChain, error) {
	if owner == "" {
		return nil, fmt.Errorf("claim owner is required")
	}
	normalized := NormalizeAll(resources)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("claim requires at least one resource")
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	var chain board.ClaimChain
	err := m.store.Update(func(d *board.Document) error {
		now := m.now().UTC()
		expireLapsed(d, now)

		conflicting, blocking := conflictsIn(d, owner, normalized, now)
		if len(conflicting) > 0 {
			return &BlockedError{Conflicting: conflicting, Blocking: blocking}
		}

		c := &board.ClaimChain{
			ID:        uuid.NewString(),
			Owner:     owner,
			Resources: normalized,
			Reason:    reason,
			ClaimedAt: now,
			ExpiresAt: now.Add(ttl),
			Status:    board.ChainActive,
		}
		d.Chains[c.ID] = c
		chain = cloneChain(c)
		return nil
	})
	if err != nil {
		if blocked, ok := IsBlocked(err); ok {
			m.logger.Info("claim blocked",
				"owner", owner,
				"conflicting", blocked.Conflicting,
				"blocking_chains", len(blocked.Blocking))
		}
		return nil, err
	}

	m.logger.Info("claim granted",
		"chain_id", chain.ID,
		"owner", owner,
		"resources", chain.Resources,
		"expires_at", chain.ExpiresAt)
	return &chain, nil
}

// Release marks a chain released. It returns true only if the chain
// exists, is active, and belongs to owner; in every other case it
// returns false and changes nothing. Releasing a chain that is gone or
// foreign is routine, not an error, so retried cleanup is always safe.
func (m *Manager) Release(owner, chainID string) (bool, error) {
	return m.finish(owner, chainID, board.ChainReleased)
}

// Complete marks a chain completed. Eligibility is identical to
// Release; only the recorded terminal status differs, separating
// "finished the work" from "abandoned the claim" in the audit trail.
func (m *Manager) Complete(owner, chainID string) (bool, error) {
	return m.finish(owner, chainID, board.ChainCompleted)
}

func (m *Manager) finish(owner, chainID string, terminal board.ChainStatus) (bool, error) {
	done := false
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		now := m.now().UTC()
		flipped := expireLapsed(d, now)

		c, ok := d.Chains[chainID]
		if ok && c.Status == board.ChainActive && c.Owner == owner {
			c.Status = terminal
			released := now
			c.ReleasedAt = &released
			done = true
		}
		return flipped > 0 || done, nil
	})
	if err != nil {
		return false, err
	}
	if done {
		m.logger.Debug("chain finished",
			"chain_id", chainID, "owner", owner, "status", string(terminal))
	}
	return done, nil
}

// ClaimForResource returns the chain currently holding the resource,
// or nil when it is unclaimed. Like every read path, it lazily flips
// lapsed chains to expired as it scans.
func (m *Manager) ClaimForResource(resource string) (*board.ClaimChain, error) {
	res := Normalize(resource)
	if res == "" {
		return nil, nil
	}

	var holder *board.ClaimChain
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		now := m.now().UTC()
		flipped := expireLapsed(d, now)
		for _, c := range d.Chains {
			if c.Holding(now) && c.HasResource(res) {
				cp := cloneChain(c)
				holder = &cp
				break
			}
		}
		return flipped > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return holder, nil
}

// BlockingChains returns the distinct active chains intersecting the
// given resources, ordered by claim time. Callers use it to build
// actionable conflict reports: who holds what, why, and for how much
// longer.
func (m *Manager) BlockingChains(resources []string) ([]board.ClaimChain, error) {
	normalized := NormalizeAll(resources)
	if len(normalized) == 0 {
		return nil, nil
	}

	var chains []board.ClaimChain
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		now := m.now().UTC()
		flipped := expireLapsed(d, now)

		seen := make(map[string]bool)
		for _, res := range normalized {
			for _, c := range d.Chains {
				if !c.Holding(now) || !c.HasResource(res) || seen[c.ID] {
					continue
				}
				seen[c.ID] = true
				chains = append(chains, cloneChain(c))
			}
		}
		return flipped > 0, nil
	})
	if err != nil {
		return nil, err
	}
	sortChains(chains)
	return chains, nil
}

// AgentChains returns every chain ever owned by owner, including
// terminal ones, ordered by claim time. Lapsed chains surface already
// tagged expired.
func (m *Manager) AgentChains(owner string) ([]board.ClaimChain, error) {
	var chains []board.ClaimChain
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		flipped := expireLapsed(d, m.now().UTC())
		for _, c := range d.Chains {
			if c.Owner == owner {
				chains = append(chains, cloneChain(c))
			}
		}
		return flipped > 0, nil
	})
	if err != nil {
		return nil, err
	}
	sortChains(chains)
	return chains, nil
}

// ActiveChains returns every chain currently holding resources,
// ordered by claim time.
func (m *Manager) ActiveChains() ([]board.ClaimChain, error) {
	var chains []board.ClaimChain
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		now := m.now().UTC()
		flipped := expireLapsed(d, now)
		for _, c := range d.Chains {
			if c.Status == board.ChainActive {
				chains = append(chains, cloneChain(c))
			}
		}
		return flipped > 0, nil
	})
	if err != nil {
		return nil, err
	}
	sortChains(chains)
	return chains, nil
}

// AllChains returns every chain on the board regardless of owner or
// status, ordered by claim time. Lapsed chains surface already tagged
// expired.
func (m *Manager) AllChains() ([]board.ClaimChain, error) {
	var chains []board.ClaimChain
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		flipped := expireLapsed(d, m.now().UTC())
		for _, c := range d.Chains {
			chains = append(chains, cloneChain(c))
		}
		return flipped > 0, nil
	})
	if err != nil {
		return nil, err
	}
	sortChains(chains)
	return chains, nil
}

// PruneTerminal deletes released, completed, and expired chains that
// ended more than olderThan ago, returning how many were removed.
// Terminal chains are otherwise retained indefinitely for audit;
// pruning is an explicit operator decision.
func (m *Manager) PruneTerminal(olderThan time.Duration) (int, error) {
	if olderThan < 0 {
		olderThan = 0
	}

	pruned := 0
	err := m.store.Apply(func(d *board.Document) (bool, error) {
		now := m.now().UTC()
		flipped := expireLapsed(d, now)
		cutoff := now.Add(-olderThan)

		for id, c := range d.Chains {
			if !c.Status.IsTerminal() {
				continue
			}
			endedAt := c.ExpiresAt
			if c.ReleasedAt != nil {
				endedAt = *c.ReleasedAt
			}
			if endedAt.Before(cutoff) {
				delete(d.Chains, id)
				pruned++
			}
		}
		return flipped > 0 || pruned > 0, nil
	})
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		m.logger.Info("pruned terminal chains", "count", pruned)
	}
	return pruned, nil
}

// expireLapsed flips every active chain past its TTL to expired and
// returns how many it flipped. This is the lazy expiry the whole
// design leans on: no background timer, leases lapse the first time
// any operation touches the board after the deadline.
func expireLapsed(d *board.Document, now time.Time) int {
	flipped := 0
	for _, c := range d.Chains {
		if c.Status == board.ChainActive && c.Lapsed(now) {
			c.Status = board.ChainExpired
			flipped++
		}
	}
	return flipped
}

// conflictsIn returns the requested resources held by owners other
// than owner, in request order, plus the distinct chains holding them.
func conflictsIn(d *board.Document, owner string, resources []string, now time.Time) ([]string, []board.ClaimChain) {
	var (
		conflicting []string
		blocking    []board.ClaimChain
	)
	seen := make(map[string]bool)
	for _, res := range resources {
		for _, c := range d.Chains {
			if !c.Holding(now) || c.Owner == owner || !c.HasResource(res) {
				continue
			}
			conflicting = append(conflicting, res)
			if !seen[c.ID] {
				seen[c.ID] = true
				blocking = append(blocking, cloneChain(c))
			}
			break
		}
	}
	return conflicting, blocking
}

// cloneChain copies a chain so callers never alias board state.
func cloneChain(c *board.ClaimChain) board.ClaimChain {
	cp := *c
	cp.Resources = slices.Clone(c.Resources)
	if c.ReleasedAt != nil {
		released := *c.ReleasedAt
		cp.ReleasedAt = &released
	}
	return cp
}

// sortChains orders chains by claim time, then ID for stability.
func sortChains(chains []board.ClaimChain) {
	sort.Slice(chains, func(i, j int) bool {
		if chains[i].ClaimedAt.Equal(chains[j].ClaimedAt) {
			return chains[i].ID < chains[j].ID
		}
		return chains[i].ClaimedAt.Before(chains[j].ClaimedAt)
	})
}
