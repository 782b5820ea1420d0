package board

import "testing"

func TestPostFinding(t *testing.T) {
	store := newTestStore(t)

	finding, err := store.PostFinding("a1", "auth module has no rate limiting", []string{"security"})
	if err != nil {
		t.Fatalf("PostFinding: %v", err)
	}
	if finding.ID == "" || finding.Agent != "a1" {
		t.Errorf("finding = %+v, want ID set and agent a1", finding)
	}

	if _, err := store.PostFinding("", "body", nil); err == nil {
		t.Error("empty agent should be rejected")
	}
	if _, err := store.PostFinding("a1", "", nil); err == nil {
		t.Error("empty body should be rejected")
	}
}

func TestFindingsSince_Cursor(t *testing.T) {
	store := newTestStore(t)

	for _, body := range []string{"one", "two", "three"} {
		if _, err := store.PostFinding("a1", body, nil); err != nil {
			t.Fatalf("PostFinding: %v", err)
		}
	}

	findings, next, err := store.FindingsSince(0)
	if err != nil {
		t.Fatalf("FindingsSince(0): %v", err)
	}
	if len(findings) != 3 || next != 3 {
		t.Fatalf("FindingsSince(0) = %d entries, next %d; want 3, 3", len(findings), next)
	}
	if findings[0].Body != "one" || findings[2].Body != "three" {
		t.Error("feed should come back oldest first")
	}

	// Caught up: nothing new.
	findings, next, err = store.FindingsSince(next)
	if err != nil {
		t.Fatalf("FindingsSince(3): %v", err)
	}
	if len(findings) != 0 || next != 3 {
		t.Errorf("caught-up read = %d entries, next %d; want 0, 3", len(findings), next)
	}

	// A later post shows up, exactly once.
	if _, err := store.PostFinding("a2", "four", nil); err != nil {
		t.Fatalf("PostFinding: %v", err)
	}
	findings, next, err = store.FindingsSince(next)
	if err != nil {
		t.Fatalf("FindingsSince: %v", err)
	}
	if len(findings) != 1 || findings[0].Body != "four" || next != 4 {
		t.Errorf("incremental read = %v, next %d; want just four, 4", findings, next)
	}

	// Negative cursors read from the beginning; cursors past the end
	// return nothing.
	findings, _, err = store.FindingsSince(-5)
	if err != nil {
		t.Fatalf("FindingsSince(-5): %v", err)
	}
	if len(findings) != 4 {
		t.Errorf("FindingsSince(-5) = %d entries, want 4", len(findings))
	}
	findings, next, err = store.FindingsSince(99)
	if err != nil {
		t.Fatalf("FindingsSince(99): %v", err)
	}
	if len(findings) != 0 || next != 4 {
		t.Errorf("FindingsSince(99) = %d entries, next %d; want 0, 4", len(findings), next)
	}
}

func TestAdvanceFindingsCursor(t *testing.T) {
	store := newTestStore(t)

	if ok, err := store.AdvanceFindingsCursor("ghost", 3); err != nil || ok {
		t.Errorf("advance for unknown agent = %v, %v; want false, nil", ok, err)
	}

	if _, err := store.RegisterAgent("a1", "", nil); err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if ok, err := store.AdvanceFindingsCursor("a1", 5); err != nil || !ok {
		t.Fatalf("AdvanceFindingsCursor = %v, %v", ok, err)
	}

	// Cursors never move backwards.
	if ok, err := store.AdvanceFindingsCursor("a1", 2); err != nil || !ok {
		t.Fatalf("AdvanceFindingsCursor = %v, %v", ok, err)
	}
	rec, _, err := store.Agent("a1")
	if err != nil {
		t.Fatalf("Agent: %v", err)
	}
	if rec.FindingsCursor != 5 {
		t.Errorf("FindingsCursor = %d, want 5", rec.FindingsCursor)
	}
}
