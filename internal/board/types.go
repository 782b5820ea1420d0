package board

import (
	"slices"
	"time"
)

// Broadcast is the recipient token that addresses a message to every
// agent on the board.
const Broadcast = "*"

// AgentStatus represents the self-reported state of a registered agent.
type AgentStatus string

const (
	// AgentWorking indicates the agent is actively working its task.
	AgentWorking AgentStatus = "working"

	// AgentIdle indicates the agent is registered but between tasks.
	AgentIdle AgentStatus = "idle"

	// AgentBlocked indicates the agent is waiting on a resource or an
	// answer from another agent.
	AgentBlocked AgentStatus = "blocked"

	// AgentDone indicates the agent finished its task and will not be
	// seen again.
	AgentDone AgentStatus = "done"
)

// String returns the string representation of the agent status.
func (s AgentStatus) String() string {
	return string(s)
}

// AgentRecord describes one registered worker agent.
type AgentRecord struct {
	// ID is the agent's unique identifier, chosen by the agent.
	ID string `json:"id"`

	// Task is a human-readable description of what the agent is doing.
	Task string `json:"task,omitempty"`

	// Scope lists the areas the agent declared interest in.
	Scope []string `json:"scope,omitempty"`

	// Status is the agent's last reported state.
	Status AgentStatus `json:"status"`

	// StartedAt is when the agent registered (refreshed on re-register).
	StartedAt time.Time `json:"started_at"`

	// LastSeen is the last time the agent touched the board.
	LastSeen time.Time `json:"last_seen"`

	// FindingsCursor is the agent's read position in the findings feed.
	FindingsCursor int `json:"findings_cursor"`
}

// Finding is one entry in the shared append-only findings feed.
type Finding struct {
	ID        string    `json:"id"`
	Agent     string    `json:"agent"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageKind classifies a message for its recipient.
type MessageKind string

const (
	// KindInfo carries general information.
	KindInfo MessageKind = "info"

	// KindWarning flags something the recipient should look at before
	// continuing.
	KindWarning MessageKind = "warning"

	// KindStatus reports progress on the sender's task.
	KindStatus MessageKind = "status"

	// KindHandoff passes responsibility for a piece of work.
	KindHandoff MessageKind = "handoff"
)

// Message is a directed or broadcast note between agents.
type Message struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Kind      MessageKind `json:"kind"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`

	// ReadBy lists the agents that marked this message read.
	ReadBy []string `json:"read_by,omitempty"`
}

// ReadByAgent reports whether agent already marked the message read.
func (m *Message) ReadByAgent(agent string) bool {
	return slices.Contains(m.ReadBy, agent)
}

// TaskStatus represents the current state of a shared task.
type TaskStatus string

const (
	// TaskPending indicates the task is waiting to be claimed.
	TaskPending TaskStatus = "pending"

	// TaskInProgress indicates an agent claimed the task and is working it.
	TaskInProgress TaskStatus = "in_progress"

	// TaskCompleted indicates the task finished.
	TaskCompleted TaskStatus = "completed"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted
}

// TaskItem is one entry in the shared task queue.
type TaskItem struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by,omitempty"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	ClaimedBy   string     `json:"claimed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// QuestionStatus represents the lifecycle of a posted question.
type QuestionStatus string

const (
	// QuestionOpen indicates the question awaits an answer.
	QuestionOpen QuestionStatus = "open"

	// QuestionAnswered indicates someone answered.
	QuestionAnswered QuestionStatus = "answered"
)

// Question is one entry on the shared question board. To is empty for
// questions open to anyone.
type Question struct {
	ID         string         `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to,omitempty"`
	Body       string         `json:"body"`
	Status     QuestionStatus `json:"status"`
	Answer     string         `json:"answer,omitempty"`
	AnsweredBy string         `json:"answered_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	AnsweredAt *time.Time     `json:"answered_at,omitempty"`
}

// ChainStatus represents the lifecycle state of a claim chain.
type ChainStatus string

const (
	// ChainActive indicates the chain currently holds its resources.
	ChainActive ChainStatus = "active"

	// ChainReleased indicates the owner abandoned the claim.
	ChainReleased ChainStatus = "released"

	// ChainCompleted indicates the owner finished the work the claim
	// protected.
	ChainCompleted ChainStatus = "completed"

	// ChainExpired indicates the lease lapsed before the owner released
	// or completed it.
	ChainExpired ChainStatus = "expired"
)

// String returns the string representation of the chain status.
func (s ChainStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
// Terminal chains are kept for audit, never deleted on transition.
func (s ChainStatus) IsTerminal() bool {
	return s != ChainActive
}

// ClaimChain is a lease granting one owner exclusive, time-bounded
// control over a set of resource identifiers. Resources are stored in
// normalized form.
type ClaimChain struct {
	ID        string      `json:"id"`
	Owner     string      `json:"owner"`
	Resources []string    `json:"resources"`
	Reason    string      `json:"reason,omitempty"`
	ClaimedAt time.Time   `json:"claimed_at"`
	ExpiresAt time.Time   `json:"expires_at"`
	Status    ChainStatus `json:"status"`

	// ReleasedAt records when the owner released or completed the
	// chain. Nil for active chains and for leases that lapsed.
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// Lapsed reports whether the chain's lease has run out at now,
// regardless of its recorded status. A chain blocks others up to and
// including the expiry instant and is claimable strictly after it.
func (c *ClaimChain) Lapsed(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Holding reports whether the chain holds its resources at now: status
// active and lease not lapsed.
func (c *ClaimChain) Holding(now time.Time) bool {
	return c.Status == ChainActive && !c.Lapsed(now)
}

// Remaining returns the lease time left at now, zero once lapsed.
func (c *ClaimChain) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// HasResource reports whether the chain covers the given resource. The
// argument must already be normalized.
func (c *ClaimChain) HasResource(resource string) bool {
	return slices.Contains(c.Resources, resource)
}
