package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SendMessage appends a message addressed to one agent or, with
// Broadcast as recipient, to everyone.
func (s *Store) SendMessage(from, to string, kind MessageKind, body string) (*Message, error) {
	if from == "" {
		return nil, fmt.Errorf("message sender is required")
	}
	if to == "" {
		return nil, fmt.Errorf("message recipient is required")
	}
	if kind == "" {
		return nil, fmt.Errorf("message kind is required")
	}

	msg := Message{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Kind:      kind,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	err := s.Update(func(d *Document) error {
		d.Messages = append(d.Messages, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("message sent", "from", from, "to", to, "kind", string(kind))
	return &msg, nil
}

// MessagesFor returns broadcast messages plus those addressed to
// agent, oldest first.
func (s *Store) MessagesFor(agent string) ([]Message, error) {
	var msgs []Message
	err := s.View(func(d *Document) error {
		for _, m := range d.Messages {
			if m.To == agent || m.To == Broadcast {
				msgs = append(msgs, m)
			}
		}
		return nil
	})
	return msgs, err
}

// UnreadMessagesFor returns the agent's messages it has not yet marked
// read, oldest first.
func (s *Store) UnreadMessagesFor(agent string) ([]Message, error) {
	msgs, err := s.MessagesFor(agent)
	if err != nil {
		return nil, err
	}
	unread := msgs[:0]
	for _, m := range msgs {
		if !m.ReadByAgent(agent) {
			unread = append(unread, m)
		}
	}
	return unread, nil
}

// MarkMessageRead records that agent has read the message. Returns
// false for an unknown message ID; marking twice is a no-op.
func (s *Store) MarkMessageRead(agent, messageID string) (bool, error) {
	found := false
	err := s.Apply(func(d *Document) (bool, error) {
		for i := range d.Messages {
			if d.Messages[i].ID != messageID {
				continue
			}
			found = true
			if d.Messages[i].ReadByAgent(agent) {
				return false, nil
			}
			d.Messages[i].ReadBy = append(d.Messages[i].ReadBy, agent)
			return true, nil
		}
		return false, nil
	})
	return found, err
}
