package board

import (
	"fmt"
	"sort"
	"time"
)

// RegisterAgent adds or refreshes an agent on the board. Re-registering
// an existing ID refreshes StartedAt and replaces task and scope; the
// findings cursor survives so a restarted agent resumes where it left
// off.
func (s *Store) RegisterAgent(id, task string, scope []string) (*AgentRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("agent id is required")
	}

	var rec *AgentRecord
	err := s.Update(func(d *Document) error {
		now := time.Now().UTC()
		r, ok := d.Agents[id]
		if !ok {
			r = &AgentRecord{ID: id}
			d.Agents[id] = r
		}
		r.Task = task
		r.Scope = scope
		r.Status = AgentWorking
		r.StartedAt = now
		r.LastSeen = now
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent registered", "agent_id", id, "task", task)
	return rec, nil
}

// TouchAgent updates an agent's LastSeen and, if status is non-empty,
// its status. Returns false for an unknown agent.
func (s *Store) TouchAgent(id string, status AgentStatus) (bool, error) {
	found := false
	err := s.Apply(func(d *Document) (bool, error) {
		r, ok := d.Agents[id]
		if !ok {
			return false, nil
		}
		r.LastSeen = time.Now().UTC()
		if status != "" {
			r.Status = status
		}
		found = true
		return true, nil
	})
	return found, err
}

// Agent returns the record for id, or false if the agent is unknown.
func (s *Store) Agent(id string) (*AgentRecord, bool, error) {
	var rec *AgentRecord
	err := s.View(func(d *Document) error {
		if r, ok := d.Agents[id]; ok {
			cp := *r
			rec = &cp
		}
		return nil
	})
	return rec, rec != nil, err
}

// Agents returns every registered agent, sorted by ID.
func (s *Store) Agents() ([]AgentRecord, error) {
	var agents []AgentRecord
	err := s.View(func(d *Document) error {
		for _, r := range d.Agents {
			agents = append(agents, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

// ActiveAgents returns agents seen within staleAfter, sorted by ID.
// A non-positive staleAfter returns every agent.
func (s *Store) ActiveAgents(staleAfter time.Duration) ([]AgentRecord, error) {
	agents, err := s.Agents()
	if err != nil {
		return nil, err
	}
	if staleAfter <= 0 {
		return agents, nil
	}

	cutoff := time.Now().UTC().Add(-staleAfter)
	active := agents[:0]
	for _, a := range agents {
		if !a.LastSeen.Before(cutoff) {
			active = append(active, a)
		}
	}
	return active, nil
}
