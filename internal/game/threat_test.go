package game

import "testing"

func TestThreatLandsOnTheActor(t *testing.T) {
	b := newBoard()
	b.apply(t, SurgeCells().Definition(), []Selection{{}, {}})

	if b.meter.Level != 1 {
		t.Errorf("actor meter should rise by 1, got %d", b.meter.Level)
	}
}

func TestThreatSaturationEmitsRunFailure(t *testing.T) {
	b := newBoard()
	b.meter.Level = DetectionMax - 1

	events := b.apply(t, SurgeCells().Definition(), []Selection{{}, {}})

	if !b.meter.Saturated() {
		t.Fatal("meter should be saturated")
	}
	if countEvents(events, AnimRunFailure) != 1 {
		t.Error("saturating the meter should emit a run failure event")
	}
}

func TestThreatClampsAtMax(t *testing.T) {
	b := newBoard()
	b.meter.Level = DetectionMax

	events := b.apply(t, SurgeCells().Definition(), []Selection{{}, {}})

	if b.meter.Level != DetectionMax {
		t.Errorf("meter should clamp at %d, got %d", DetectionMax, b.meter.Level)
	}
	// Already saturated: raising again is not a fresh failure.
	if countEvents(events, AnimRunFailure) != 0 {
		t.Error("an already saturated meter should not emit another run failure")
	}
}
