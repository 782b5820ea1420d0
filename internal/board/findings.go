package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostFinding appends a discovery to the shared findings feed.
func (s *Store) PostFinding(agent, body string, tags []string) (*Finding, error) {
	if agent == "" {
		return nil, fmt.Errorf("finding agent is required")
	}
	if body == "" {
		return nil, fmt.Errorf("finding body is required")
	}

	finding := Finding{
		ID:        uuid.NewString(),
		Agent:     agent,
		Body:      body,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
	err := s.Update(func(d *Document) error {
		d.Findings = append(d.Findings, finding)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &finding, nil
}

// Findings returns the whole feed, oldest first.
func (s *Store) Findings() ([]Finding, error) {
	var findings []Finding
	err := s.View(func(d *Document) error {
		findings = append(findings, d.Findings...)
		return nil
	})
	return findings, err
}

// FindingsSince returns the feed entries at or after cursor together
// with the cursor for the next call. Cursors are indexes into the
// append-only feed, so a caller that stores the returned cursor reads
// each finding exactly once.
func (s *Store) FindingsSince(cursor int) ([]Finding, int, error) {
	var (
		findings []Finding
		next     int
	)
	err := s.View(func(d *Document) error {
		if cursor < 0 {
			cursor = 0
		}
		if cursor < len(d.Findings) {
			findings = append(findings, d.Findings[cursor:]...)
		}
		next = len(d.Findings)
		return nil
	})
	return findings, next, err
}

// AdvanceFindingsCursor records how far into the feed an agent has
// read. Returns false for an unknown agent. The cursor never moves
// backwards.
func (s *Store) AdvanceFindingsCursor(agentID string, cursor int) (bool, error) {
	found := false
	err := s.Apply(func(d *Document) (bool, error) {
		r, ok := d.Agents[agentID]
		if !ok {
			return false, nil
		}
		found = true
		if cursor <= r.FindingsCursor {
			return false, nil
		}
		r.FindingsCursor = cursor
		return true, nil
	})
	return found, err
}
