package board

import "testing"

func TestAddTask(t *testing.T) {
	store := newTestStore(t)

	task, err := store.AddTask("write migration", "a1", 3)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Status != TaskPending || task.Priority != 3 {
		t.Errorf("task = %+v, want pending with priority 3", task)
	}

	if _, err := store.AddTask("", "a1", 0); err == nil {
		t.Error("empty description should be rejected")
	}
}

func TestClaimNextTask_PriorityThenFIFO(t *testing.T) {
	store := newTestStore(t)

	low, err := store.AddTask("low", "", 1)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	highOld, err := store.AddTask("high old", "", 5)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	highNew, err := store.AddTask("high new", "", 5)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	mid, err := store.AddTask("mid", "", 3)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	wantOrder := []string{highOld.ID, highNew.ID, mid.ID, low.ID}
	for i, wantID := range wantOrder {
		got, err := store.ClaimNextTask("worker")
		if err != nil {
			t.Fatalf("ClaimNextTask #%d: %v", i, err)
		}
		if got == nil || got.ID != wantID {
			t.Fatalf("claim #%d = %+v, want task %s", i, got, wantID)
		}
		if got.Status != TaskInProgress || got.ClaimedBy != "worker" {
			t.Errorf("claim #%d status = %s/%s, want in_progress/worker", i, got.Status, got.ClaimedBy)
		}
	}

	// Queue drained: nil result, no error.
	got, err := store.ClaimNextTask("worker")
	if err != nil {
		t.Fatalf("ClaimNextTask on empty queue: %v", err)
	}
	if got != nil {
		t.Errorf("ClaimNextTask = %+v, want nil when nothing is pending", got)
	}
}

func TestCompleteTask(t *testing.T) {
	store := newTestStore(t)

	task, err := store.AddTask("work", "", 1)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	// Pending tasks cannot be completed directly.
	if ok, _ := store.CompleteTask("worker", task.ID); ok {
		t.Error("completing a pending task should return false")
	}

	claimed, err := store.ClaimNextTask("worker")
	if err != nil || claimed == nil {
		t.Fatalf("ClaimNextTask = %+v, %v", claimed, err)
	}

	// Only the claimer may complete.
	if ok, _ := store.CompleteTask("other", task.ID); ok {
		t.Error("completing someone else's task should return false")
	}

	ok, err := store.CompleteTask("worker", task.ID)
	if err != nil || !ok {
		t.Fatalf("CompleteTask = %v, %v", ok, err)
	}

	done, err := store.Tasks(TaskCompleted)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(done) != 1 || done[0].CompletedAt == nil {
		t.Errorf("completed tasks = %+v, want one with CompletedAt set", done)
	}

	if ok, _ := store.CompleteTask("worker", "no-such-task"); ok {
		t.Error("completing an unknown task should return false")
	}
}

func TestReleaseTask(t *testing.T) {
	store := newTestStore(t)

	task, err := store.AddTask("work", "", 1)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := store.ClaimNextTask("w1"); err != nil {
		t.Fatalf("ClaimNextTask: %v", err)
	}

	if ok, _ := store.ReleaseTask("w2", task.ID); ok {
		t.Error("releasing someone else's task should return false")
	}
	if ok, err := store.ReleaseTask("w1", task.ID); err != nil || !ok {
		t.Fatalf("ReleaseTask = %v, %v", ok, err)
	}

	// Back on the queue for anyone.
	got, err := store.ClaimNextTask("w2")
	if err != nil {
		t.Fatalf("ClaimNextTask: %v", err)
	}
	if got == nil || got.ID != task.ID || got.ClaimedBy != "w2" {
		t.Errorf("reclaim = %+v, want the released task claimed by w2", got)
	}
}

func TestTasks_StatusFilter(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.AddTask("one", "", 1); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := store.AddTask("two", "", 1); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := store.ClaimNextTask("worker"); err != nil {
		t.Fatalf("ClaimNextTask: %v", err)
	}

	pending, err := store.Tasks(TaskPending)
	if err != nil {
		t.Fatalf("Tasks(pending): %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}

	all, err := store.Tasks("")
	if err != nil {
		t.Fatalf("Tasks(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}
}
