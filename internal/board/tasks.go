package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddTask appends a pending task to the shared queue.
func (s *Store) AddTask(description, createdBy string, priority int) (*TaskItem, error) {
	if description == "" {
		return nil, fmt.Errorf("task description is required")
	}

	task := TaskItem{
		ID:          uuid.NewString(),
		Description: description,
		CreatedBy:   createdBy,
		Priority:    priority,
		Status:      TaskPending,
		CreatedAt:   time.Now().UTC(),
	}
	err := s.Update(func(d *Document) error {
		d.Tasks = append(d.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ClaimNextTask marks the best pending task in_progress for agent and
// returns it. Highest priority wins, ties go to the oldest. Returns
// nil with no error when nothing is pending.
func (s *Store) ClaimNextTask(agent string) (*TaskItem, error) {
	if agent == "" {
		return nil, fmt.Errorf("agent is required")
	}

	var claimed *TaskItem
	err := s.Apply(func(d *Document) (bool, error) {
		best := -1
		for i := range d.Tasks {
			if d.Tasks[i].Status != TaskPending {
				continue
			}
			if best == -1 || d.Tasks[i].Priority > d.Tasks[best].Priority {
				best = i
			}
		}
		if best == -1 {
			return false, nil
		}

		d.Tasks[best].Status = TaskInProgress
		d.Tasks[best].ClaimedBy = agent
		cp := d.Tasks[best]
		claimed = &cp
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// CompleteTask marks an in_progress task completed. Returns false if
// the task is unknown, not in progress, or claimed by someone else.
func (s *Store) CompleteTask(agent, taskID string) (bool, error) {
	done := false
	err := s.Apply(func(d *Document) (bool, error) {
		for i := range d.Tasks {
			t := &d.Tasks[i]
			if t.ID != taskID {
				continue
			}
			if t.Status != TaskInProgress || t.ClaimedBy != agent {
				return false, nil
			}
			now := time.Now().UTC()
			t.Status = TaskCompleted
			t.CompletedAt = &now
			done = true
			return true, nil
		}
		return false, nil
	})
	return done, err
}

// ReleaseTask puts an in_progress task back to pending so another
// agent can pick it up. Returns false if the task is unknown, not in
// progress, or claimed by someone else.
func (s *Store) ReleaseTask(agent, taskID string) (bool, error) {
	released := false
	err := s.Apply(func(d *Document) (bool, error) {
		for i := range d.Tasks {
			t := &d.Tasks[i]
			if t.ID != taskID {
				continue
			}
			if t.Status != TaskInProgress || t.ClaimedBy != agent {
				return false, nil
			}
			t.Status = TaskPending
			t.ClaimedBy = ""
			released = true
			return true, nil
		}
		return false, nil
	})
	return released, err
}

// Tasks returns tasks with the given status, oldest first. An empty
// status returns every task.
func (s *Store) Tasks(status TaskStatus) ([]TaskItem, error) {
	var tasks []TaskItem
	err := s.View(func(d *Document) error {
		for _, t := range d.Tasks {
			if status == "" || t.Status == status {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	return tasks, err
}
