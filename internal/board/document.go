package board

import "time"

// Version is the schema version stamped into new documents. Readers
// accept any version and backfill missing collections, so older
// writers never poison the board.
const Version = 1

// Document is the root aggregate: the entire coordination state of one
// working tree, persisted as a single JSON file. All mutation is
// whole-document read-modify-write under the board lock; there are no
// partial field updates.
type Document struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Agents    map[string]*AgentRecord `json:"agents"`
	Chains    map[string]*ClaimChain  `json:"chains"`
	Findings  []Finding               `json:"findings"`
	Messages  []Message               `json:"messages"`
	Tasks     []TaskItem              `json:"tasks"`
	Questions []Question              `json:"questions"`
	Context   map[string]string       `json:"context"`
}

// NewDocument returns the default empty document. This is also the
// shape an absent, empty, or unreadable board file falls back to.
func NewDocument() *Document {
	now := time.Now().UTC()
	return &Document{
		Version:   Version,
		CreatedAt: now,
		UpdatedAt: now,
		Agents:    make(map[string]*AgentRecord),
		Chains:    make(map[string]*ClaimChain),
		Findings:  []Finding{},
		Messages:  []Message{},
		Tasks:     []TaskItem{},
		Questions: []Question{},
		Context:   make(map[string]string),
	}
}

// normalize backfills collections a partial or older document may have
// omitted, so callers never see nil maps or slices.
func (d *Document) normalize() {
	if d.Version == 0 {
		d.Version = Version
	}
	if d.Agents == nil {
		d.Agents = make(map[string]*AgentRecord)
	}
	if d.Chains == nil {
		d.Chains = make(map[string]*ClaimChain)
	}
	if d.Findings == nil {
		d.Findings = []Finding{}
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}
	if d.Tasks == nil {
		d.Tasks = []TaskItem{}
	}
	if d.Questions == nil {
		d.Questions = []Question{}
	}
	if d.Context == nil {
		d.Context = make(map[string]string)
	}
}

// ActiveChains returns the chains currently holding resources at now,
// in no particular order. It does not mutate chain status; lazy expiry
// is the claim manager's job.
func (d *Document) ActiveChains(now time.Time) []*ClaimChain {
	var active []*ClaimChain
	for _, c := range d.Chains {
		if c.Holding(now) {
			active = append(active, c)
		}
	}
	return active
}
