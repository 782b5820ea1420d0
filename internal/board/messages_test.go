package board

import "testing"

func TestSendMessage_Validation(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name string
		from string
		to   string
		kind MessageKind
	}{
		{"empty sender", "", "a2", KindInfo},
		{"empty recipient", "a1", "", KindInfo},
		{"empty kind", "a1", "a2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SendMessage(tt.from, tt.to, tt.kind, "body"); err == nil {
				t.Error("SendMessage should fail validation")
			}
		})
	}
}

func TestMessagesFor(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SendMessage("a1", "a2", KindInfo, "direct to a2"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := store.SendMessage("a1", "a3", KindInfo, "direct to a3"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := store.SendMessage("a1", Broadcast, KindWarning, "heads up everyone"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	msgs, err := store.MessagesFor("a2")
	if err != nil {
		t.Fatalf("MessagesFor: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("MessagesFor(a2) = %d, want direct plus broadcast", len(msgs))
	}
	if msgs[0].Body != "direct to a2" || msgs[1].Body != "heads up everyone" {
		t.Errorf("messages = %q, %q; want oldest first", msgs[0].Body, msgs[1].Body)
	}
}

func TestMarkMessageRead(t *testing.T) {
	store := newTestStore(t)

	msg, err := store.SendMessage("a1", Broadcast, KindStatus, "halfway done")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if ok, err := store.MarkMessageRead("a2", "no-such-id"); err != nil || ok {
		t.Errorf("mark unknown message = %v, %v; want false, nil", ok, err)
	}

	if ok, err := store.MarkMessageRead("a2", msg.ID); err != nil || !ok {
		t.Fatalf("MarkMessageRead = %v, %v", ok, err)
	}

	// a2 has read it; a3 has not. A broadcast read state is per agent.
	unread, err := store.UnreadMessagesFor("a2")
	if err != nil {
		t.Fatalf("UnreadMessagesFor: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("UnreadMessagesFor(a2) = %d, want 0", len(unread))
	}
	unread, err = store.UnreadMessagesFor("a3")
	if err != nil {
		t.Fatalf("UnreadMessagesFor: %v", err)
	}
	if len(unread) != 1 {
		t.Errorf("UnreadMessagesFor(a3) = %d, want 1", len(unread))
	}

	// Marking twice stays found and does not duplicate the entry.
	if ok, err := store.MarkMessageRead("a2", msg.ID); err != nil || !ok {
		t.Errorf("second mark = %v, %v; want true, nil", ok, err)
	}
	msgs, err := store.MessagesFor("a2")
	if err != nil {
		t.Fatalf("MessagesFor: %v", err)
	}
	if got := len(msgs[0].ReadBy); got != 1 {
		t.Errorf("ReadBy has %d entries, want 1", got)
	}
}
