package game

import "testing"

func TestTrackerOverlaysPendingMoves(t *testing.T) {
	b := newBoard()
	d := b.place(b.actor, Lane1, "Talon Interceptor")
	tr := NewPositionTracker()

	lane, ok := tr.DronePosition(b.actor, d.ID)
	if !ok || lane != Lane1 {
		t.Fatalf("board position expected, got (%q, %v)", lane, ok)
	}

	tr.RecordMove(d.ID, Lane3)
	lane, ok = tr.DronePosition(b.actor, d.ID)
	if !ok || lane != Lane3 {
		t.Fatalf("pending move should win, got (%q, %v)", lane, ok)
	}

	// A later move of the same drone overwrites the earlier one.
	tr.RecordMove(d.ID, Lane2)
	if lane, _ = tr.DronePosition(b.actor, d.ID); lane != Lane2 {
		t.Errorf("latest move should win, got %q", lane)
	}
}

func TestTrackerUnknownDrone(t *testing.T) {
	b := newBoard()
	tr := NewPositionTracker()
	if _, ok := tr.DronePosition(b.actor, "ghost"); ok {
		t.Error("unknown drone should report ok=false")
	}
}

func TestTrackerDiscards(t *testing.T) {
	tr := NewPositionTracker()
	if tr.IsCardDiscarded("c1") {
		t.Error("fresh tracker should have no discards")
	}
	tr.RecordDiscard("c1")
	if !tr.IsCardDiscarded("c1") {
		t.Error("recorded discard should be visible")
	}
}
