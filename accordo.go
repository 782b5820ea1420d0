// Package accordo exposes the coordination board as a library.
// It wraps the internal packages behind a stable public API so tooling
// can drive a board directly instead of shelling out to the CLI.
package accordo

import (
	"fmt"
	"os"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/config"
	"github.com/Iron-Ham/accordo/internal/lockfile"
	"github.com/Iron-Ham/accordo/internal/logging"
)

// ErrLockTimeout reports that the board lock could not be acquired
// within the configured window. Callers match it with errors.Is and
// retry the whole operation.
var ErrLockTimeout = lockfile.ErrLockTimeout

// Re-exported board types. Aliases keep the library surface and the
// document schema in one place.
type (
	AgentRecord  = board.AgentRecord
	AgentStatus  = board.AgentStatus
	ClaimChain   = board.ClaimChain
	ChainStatus  = board.ChainStatus
	Finding      = board.Finding
	Message      = board.Message
	MessageKind  = board.MessageKind
	Question     = board.Question
	TaskItem     = board.TaskItem
	TaskStatus   = board.TaskStatus
	BlockedError = claims.BlockedError
	LogEntry     = logging.Entry
	LogFilter    = logging.Filter
)

// Broadcast addresses a message to every agent.
const Broadcast = board.Broadcast

const (
	AgentWorking = board.AgentWorking
	AgentIdle    = board.AgentIdle
	AgentBlocked = board.AgentBlocked
	AgentDone    = board.AgentDone

	ChainActive    = board.ChainActive
	ChainReleased  = board.ChainReleased
	ChainCompleted = board.ChainCompleted
	ChainExpired   = board.ChainExpired

	KindInfo    = board.KindInfo
	KindWarning = board.KindWarning
	KindStatus  = board.KindStatus
	KindHandoff = board.KindHandoff

	TaskPending    = board.TaskPending
	TaskInProgress = board.TaskInProgress
	TaskCompleted  = board.TaskCompleted
)

// IsBlocked reports whether err is a claim conflict and, if so, returns
// the chains holding the contested resources.
func IsBlocked(err error) (*BlockedError, bool) {
	return claims.IsBlocked(err)
}

// Board is an open coordination board bound to one agent identity.
// All methods are safe to call from multiple goroutines and from
// multiple processes sharing the same directory.
type Board struct {
	agent  string
	store  *board.Store
	mgr    *claims.Manager
	logger *logging.Logger
}

type settings struct {
	agent       string
	lockTimeout time.Duration
	ttl         time.Duration
	logLevel    string
	clock       func() time.Time
}

// Option configures Open and Init.
type Option func(*settings)

// WithAgent sets the identity operations act under. The default is
// user@host.
func WithAgent(id string) Option {
	return func(s *settings) { s.agent = id }
}

// WithLockTimeout bounds how long operations wait for the board lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *settings) { s.lockTimeout = d }
}

// WithTTL sets the default lease length for claims made through this
// board.
func WithTTL(d time.Duration) Option {
	return func(s *settings) { s.ttl = d }
}

// WithLogging writes an activity log next to the board document at the
// given level (debug, info, warn, error). Logging is off by default.
func WithLogging(level string) Option {
	return func(s *settings) { s.logLevel = level }
}

// WithClock overrides the time source used for lease expiry. Tests use
// it to step through TTL boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.clock = now }
}

// Open opens an existing board directory. It fails if the directory
// does not exist; use Init to create one.
func Open(dir string, opts ...Option) (*Board, error) {
	// Stat before anything else: building the logger would create the
	// directory and defeat the existence check.
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no board at %s", dir)
		}
		return nil, err
	}
	return newBoard(dir, opts)
}

// Init creates the board directory and document if needed and returns
// the open board. Calling Init on an existing board leaves its state
// untouched.
func Init(dir string, opts ...Option) (*Board, error) {
	b, err := newBoard(dir, opts)
	if err != nil {
		return nil, err
	}
	if err := b.store.Init(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func newBoard(dir string, opts []Option) (*Board, error) {
	defaults := config.Default()
	s := settings{
		lockTimeout: defaults.Board.LockTimeout(),
		ttl:         defaults.Claims.DefaultTTL(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.agent != "" && !config.IsValidAgentID(s.agent) {
		return nil, fmt.Errorf("invalid agent id %q", s.agent)
	}
	if s.agent == "" {
		s.agent = fallbackAgentID()
	}

	logger := logging.NopLogger()
	if s.logLevel != "" {
		l, err := logging.NewLogger(dir, s.logLevel, logging.DefaultRotationConfig())
		if err != nil {
			return nil, fmt.Errorf("open activity log: %w", err)
		}
		logger = l
	}

	store := board.NewStore(dir,
		board.WithLockTimeout(s.lockTimeout),
		board.WithLogger(logger))
	mgrOpts := []claims.Option{
		claims.WithDefaultTTL(s.ttl),
		claims.WithLogger(logger),
	}
	if s.clock != nil {
		mgrOpts = append(mgrOpts, claims.WithClock(s.clock))
	}
	mgr := claims.NewManager(store, mgrOpts...)

	return &Board{agent: s.agent, store: store, mgr: mgr, logger: logger}, nil
}

// fallbackAgentID builds a stable identity for callers that did not
// pick one.
func fallbackAgentID() string {
	user := os.Getenv("USER")
	if user == "" {
		user = "agent"
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return user
	}
	return user + "@" + host
}

// Agent returns the identity this board operates under.
func (b *Board) Agent() string { return b.agent }

// Dir returns the board directory.
func (b *Board) Dir() string { return b.store.Dir() }

// Close releases the activity log. The board itself holds no long-lived
// handles.
func (b *Board) Close() error {
	return b.logger.Close()
}

// Register announces the bound agent on the roster with its task
// description and intended scope.
func (b *Board) Register(task string, scope ...string) (*AgentRecord, error) {
	return b.store.RegisterAgent(b.agent, task, scope)
}

// Touch refreshes the agent's heartbeat and, with a non-empty status,
// updates it.
func (b *Board) Touch(status AgentStatus) error {
	ok, err := b.store.TouchAgent(b.agent, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("agent %s is not registered", b.agent)
	}
	return nil
}

// Agents lists every agent on the roster.
func (b *Board) Agents() ([]AgentRecord, error) {
	return b.store.Agents()
}

// Claim acquires an exclusive lease on resources, using the board's
// default TTL. A conflict returns a BlockedError naming the holders.
func (b *Board) Claim(resources []string, reason string) (*ClaimChain, error) {
	return b.mgr.Claim(b.agent, resources, reason, 0)
}

// ClaimFor is Claim with an explicit lease length.
func (b *Board) ClaimFor(resources []string, reason string, ttl time.Duration) (*ClaimChain, error) {
	return b.mgr.Claim(b.agent, resources, reason, ttl)
}

// Release abandons an active chain owned by the bound agent.
func (b *Board) Release(chainID string) error {
	ok, err := b.mgr.Release(b.agent, chainID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("chain %s is not an active chain owned by %s", chainID, b.agent)
	}
	return nil
}

// Complete marks an active chain's work finished.
func (b *Board) Complete(chainID string) error {
	ok, err := b.mgr.Complete(b.agent, chainID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("chain %s is not an active chain owned by %s", chainID, b.agent)
	}
	return nil
}

// Owner returns the active chain holding resource, or nil when it is
// unclaimed.
func (b *Board) Owner(resource string) (*ClaimChain, error) {
	return b.mgr.ClaimForResource(resource)
}

// Blocking returns the active chains that would block a claim on
// resources.
func (b *Board) Blocking(resources ...string) ([]ClaimChain, error) {
	return b.mgr.BlockingChains(resources)
}

// ActiveChains lists every live claim on the board.
func (b *Board) ActiveChains() ([]ClaimChain, error) {
	return b.mgr.ActiveChains()
}

// AllChains lists every chain including released, completed, and
// expired ones.
func (b *Board) AllChains() ([]ClaimChain, error) {
	return b.mgr.AllChains()
}

// History lists the bound agent's chains, terminal ones included.
func (b *Board) History() ([]ClaimChain, error) {
	return b.mgr.AgentChains(b.agent)
}

// Prune removes terminal chains that ended more than olderThan ago and
// returns how many were dropped.
func (b *Board) Prune(olderThan time.Duration) (int, error) {
	return b.mgr.PruneTerminal(olderThan)
}

// PostFinding appends a discovery to the shared feed.
func (b *Board) PostFinding(body string, tags ...string) (*Finding, error) {
	return b.store.PostFinding(b.agent, body, tags)
}

// Findings returns the whole feed, oldest first.
func (b *Board) Findings() ([]Finding, error) {
	return b.store.Findings()
}

// NewFindings returns feed entries the bound agent has not seen and
// advances its cursor past them. Unregistered agents read from the
// start of the feed each call.
func (b *Board) NewFindings() ([]Finding, error) {
	cursor := 0
	if rec, ok, err := b.store.Agent(b.agent); err != nil {
		return nil, err
	} else if ok {
		cursor = rec.FindingsCursor
	}

	findings, next, err := b.store.FindingsSince(cursor)
	if err != nil {
		return nil, err
	}
	if _, err := b.store.AdvanceFindingsCursor(b.agent, next); err != nil {
		return nil, err
	}
	return findings, nil
}

// Send delivers a message to one agent, or everyone with Broadcast.
func (b *Board) Send(to string, kind MessageKind, body string) (*Message, error) {
	return b.store.SendMessage(b.agent, to, kind, body)
}

// Inbox returns the bound agent's unread messages, oldest first.
func (b *Board) Inbox() ([]Message, error) {
	return b.store.UnreadMessagesFor(b.agent)
}

// Messages returns every message addressed to the bound agent,
// broadcasts included.
func (b *Board) Messages() ([]Message, error) {
	return b.store.MessagesFor(b.agent)
}

// MarkRead records that the bound agent has read a message.
func (b *Board) MarkRead(messageID string) error {
	ok, err := b.store.MarkMessageRead(b.agent, messageID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no message %s", messageID)
	}
	return nil
}

// AddTask queues work on the shared backlog. Higher priority is
// claimed first.
func (b *Board) AddTask(description string, priority int) (*TaskItem, error) {
	return b.store.AddTask(description, b.agent, priority)
}

// NextTask atomically claims the highest-priority pending task for the
// bound agent. It returns nil when the backlog is empty.
func (b *Board) NextTask() (*TaskItem, error) {
	return b.store.ClaimNextTask(b.agent)
}

// CompleteTask finishes a task the bound agent claimed.
func (b *Board) CompleteTask(taskID string) error {
	ok, err := b.store.CompleteTask(b.agent, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s is not in progress under %s", taskID, b.agent)
	}
	return nil
}

// ReleaseTask puts a claimed task back on the backlog.
func (b *Board) ReleaseTask(taskID string) error {
	ok, err := b.store.ReleaseTask(b.agent, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s is not in progress under %s", taskID, b.agent)
	}
	return nil
}

// Tasks lists backlog entries, filtered by status unless status is
// empty.
func (b *Board) Tasks(status TaskStatus) ([]TaskItem, error) {
	return b.store.Tasks(status)
}

// Ask posts a question. An empty recipient addresses anyone.
func (b *Board) Ask(to, body string) (*Question, error) {
	return b.store.AskQuestion(b.agent, to, body)
}

// Answer resolves an open question.
func (b *Board) Answer(questionID, answer string) error {
	ok, err := b.store.AnswerQuestion(questionID, b.agent, answer)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("question %s is unknown or already answered", questionID)
	}
	return nil
}

// OpenQuestions lists unanswered questions the bound agent may answer:
// ones addressed to it or to anyone.
func (b *Board) OpenQuestions() ([]Question, error) {
	return b.store.OpenQuestions(b.agent)
}

// Questions lists every question, answered ones included.
func (b *Board) Questions() ([]Question, error) {
	return b.store.Questions()
}

// SetContext stores a shared key/value pair.
func (b *Board) SetContext(key, value string) error {
	return b.store.SetContext(key, value)
}

// Context returns a shared value and whether the key exists.
func (b *Board) Context(key string) (string, bool, error) {
	return b.store.GetContext(key)
}

// UnsetContext removes a shared key.
func (b *Board) UnsetContext(key string) error {
	ok, err := b.store.DeleteContext(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no context key %q", key)
	}
	return nil
}

// ContextSnapshot returns a copy of the whole shared context map.
func (b *Board) ContextSnapshot() (map[string]string, error) {
	return b.store.ContextSnapshot()
}

// Logs reads the board's activity log, filtered. It returns nothing
// when logging was never enabled.
func (b *Board) Logs(f LogFilter) ([]LogEntry, error) {
	entries, err := logging.ReadEntries(b.store.Dir())
	if err != nil {
		return nil, err
	}
	return logging.FilterEntries(entries, f), nil
}
