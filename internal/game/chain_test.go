package game

import (
	"errors"
	"testing"
)

func TestEmptyDefinitionCompletesImmediately(t *testing.T) {
	b := newBoard()
	c := b.startChain(t, &Definition{Name: "blank"}, "")
	if !c.Complete() {
		t.Fatalf("empty definition should complete, phase=%s", c.phase)
	}
	if len(c.Steps()) != 0 {
		t.Errorf("expected no steps, got %d", len(c.Steps()))
	}
}

func TestNoneEffectsAutoResolve(t *testing.T) {
	b := newBoard()
	// Surge Cells is GAIN_ENERGY then INCREASE_THREAT, both NONE-targeted.
	c := b.startChain(t, SurgeCells().Definition(), "")
	if !c.Complete() {
		t.Fatalf("NONE-only chain should complete without prompts, phase=%s", c.phase)
	}
	sels := c.Selections()
	if len(sels) != 2 {
		t.Fatalf("expected 2 index-aligned selections, got %d", len(sels))
	}
	for i, sel := range sels {
		if sel.Skipped {
			t.Errorf("selection %d should not be skipped", i)
		}
	}
	if len(c.Steps()) != 0 {
		t.Errorf("NONE effects must record no steps, got %d", len(c.Steps()))
	}
}

func TestEmptyCandidatesSkipEffect(t *testing.T) {
	b := newBoard()
	// No enemy drones anywhere: Focused Volley's only effect has no candidates.
	c := b.startChain(t, FocusedVolley().Definition(), "")
	if !c.Complete() {
		t.Fatalf("chain should auto-complete, phase=%s", c.phase)
	}
	if !c.Selections()[0].Skipped {
		t.Error("effect with no candidates should be skipped")
	}
}

func TestSkipPropagatesThroughBackRef(t *testing.T) {
	b := newBoard()
	b.place(b.opponent, Lane2, "Bulwark Sentinel")
	// Feint Maneuver: move a friendly drone, then strike in its new lane. With
	// no friendly drones the move skips, and the strike's destination ref must
	// skip with it even though an enemy drone is on the board.
	c := b.startChain(t, FeintManeuver().Definition(), "")
	if !c.Complete() {
		t.Fatalf("chain should auto-complete, phase=%s", c.phase)
	}
	sels := c.Selections()
	if !sels[0].Skipped || !sels[1].Skipped {
		t.Errorf("both selections should be skipped, got %+v", sels)
	}
}

func TestNoneSelectionInheritsSkipThroughValueRef(t *testing.T) {
	b := newBoard()
	// Salvage Sweep with an empty hand: the discard skips, and the gain's
	// targetCost ref makes the NONE-targeted gain skip too.
	c := b.startChain(t, SalvageSweep().Definition(), "")
	if !c.Complete() {
		t.Fatalf("chain should auto-complete, phase=%s", c.phase)
	}
	sels := c.Selections()
	if !sels[0].Skipped || !sels[1].Skipped {
		t.Errorf("both selections should be skipped, got %+v", sels)
	}
}

func TestMoveDestinationFlow(t *testing.T) {
	b := newBoard()
	talon := b.place(b.actor, Lane1, "Talon Interceptor")
	bulwark := b.place(b.opponent, Lane2, "Bulwark Sentinel")

	c := b.startChain(t, FeintManeuver().Definition(), "")
	if c.phase != PhaseTarget {
		t.Fatalf("expected target phase, got %s", c.phase)
	}
	if err := c.SelectChainTarget(droneTarget(b.actor, talon)); err != nil {
		t.Fatal(err)
	}
	if c.phase != PhaseDestination {
		t.Fatalf("move-shaped effect should enter destination phase, got %s", c.phase)
	}
	for _, d := range c.Snapshot().ValidDests {
		if d == Lane1 {
			t.Error("current lane must not be a destination candidate")
		}
	}
	if err := c.SelectChainDestination(Lane2); err != nil {
		t.Fatal(err)
	}
	// The strike's location ref resolves to the chosen destination, where the
	// enemy drone sits.
	if c.phase != PhaseTarget {
		t.Fatalf("expected strike target phase, got %s", c.phase)
	}
	targets := c.Snapshot().ValidTargets
	if len(targets) != 1 || targets[0].ID != bulwark.ID {
		t.Fatalf("expected the enemy drone in lane2, got %v", targets)
	}
	if err := c.SelectChainTarget(targets[0]); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("expected complete, got %s", c.phase)
	}

	// A move-shaped effect records one step carrying target and destination.
	steps := c.Steps()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Target == nil || steps[0].Target.ID != talon.ID || steps[0].Destination != Lane2 {
		t.Errorf("move step malformed: %+v", steps[0])
	}

	// Applying commits the move and the strike.
	b.apply(t, FeintManeuver().Definition(), c.Selections())
	if lane, _ := b.actor.DroneLane(talon.ID); lane != Lane2 {
		t.Errorf("drone should be in lane2, got %s", lane)
	}
	moved := b.actor.FindDrone(talon.ID)
	if !moved.Exhausted {
		t.Error("moved drone should be exhausted")
	}
	hit := b.opponent.FindDrone(bulwark.ID)
	if hit.Shields != 0 || hit.Hull != 5 {
		t.Errorf("expected 2 shields absorbed and 1 hull lost, got shields=%d hull=%d", hit.Shields, hit.Hull)
	}
}

func TestMoveWithEmptyArrivalLaneSkipsStrike(t *testing.T) {
	b := newBoard()
	talon := b.place(b.actor, Lane1, "Talon Interceptor")

	c := b.startChain(t, FeintManeuver().Definition(), "")
	if err := c.SelectChainTarget(droneTarget(b.actor, talon)); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectChainDestination(Lane3); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("strike with no candidates should skip, phase=%s", c.phase)
	}
	if !c.Selections()[1].Skipped {
		t.Error("strike selection should be skipped")
	}
}

func TestAdjacentDestinations(t *testing.T) {
	b := newBoard()
	talon := b.place(b.actor, Lane1, "Talon Interceptor")

	c := b.startChain(t, RedlineThrusters().Definition(), "")
	if err := c.SelectChainTarget(droneTarget(b.actor, talon)); err != nil {
		t.Fatal(err)
	}
	dests := c.Snapshot().ValidDests
	if len(dests) != 1 || dests[0] != Lane2 {
		t.Fatalf("lane1 drone should only reach lane2, got %v", dests)
	}
}

func TestCancelIsAPureReset(t *testing.T) {
	b := newBoard()
	talon := b.place(b.actor, Lane1, "Talon Interceptor")
	b.place(b.opponent, Lane2, "Specter Scout")

	c := b.startChain(t, FeintManeuver().Definition(), "")
	if err := c.SelectChainTarget(droneTarget(b.actor, talon)); err != nil {
		t.Fatal(err)
	}
	c.CancelEffectChain()
	if c.phase != PhaseIdle {
		t.Errorf("cancel should reset to idle, got %s", c.phase)
	}
	if c.Selections() != nil || c.Steps() != nil {
		t.Error("cancel should drop all recorded selections and steps")
	}
	// Nothing on the board moved.
	if lane, _ := b.actor.DroneLane(talon.ID); lane != Lane1 {
		t.Errorf("drone should still be in lane1, got %s", lane)
	}
	if b.actor.FindDrone(talon.ID).Exhausted {
		t.Error("cancelled chain must not exhaust anything")
	}
}

func TestOutOfPhaseInputsIgnored(t *testing.T) {
	b := newBoard()
	b.place(b.actor, Lane1, "Talon Interceptor")

	c := b.startChain(t, RedlineThrusters().Definition(), "")
	// Destination select during the target phase is a UI race, not an error.
	if err := c.SelectChainDestination(Lane2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.phase != PhaseTarget {
		t.Errorf("phase should be unchanged, got %s", c.phase)
	}
	// A target outside the candidate set is likewise ignored.
	if err := c.SelectChainTarget(Target{Kind: TargetDrone, ID: "nope", Owner: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.phase != PhaseTarget || len(c.Selections()) != 0 {
		t.Error("invalid target should leave the chain untouched")
	}
}

func TestMultiTargetToggleAndCap(t *testing.T) {
	b := newBoard()
	var drones []*Drone
	for i := 0; i < 4; i++ {
		d := b.place(b.actor, Lane1, "Talon Interceptor")
		d.Exhausted = true
		drones = append(drones, d)
	}

	c := b.startChain(t, ScrambleOrder().Definition(), "")
	if c.phase != PhaseMulti {
		t.Fatalf("expected multi phase, got %s", c.phase)
	}
	for _, d := range drones {
		c.ToggleChainMultiTarget(droneTarget(b.actor, d))
	}
	if got := len(c.Snapshot().Picked); got != 3 {
		t.Fatalf("MaxTargets cap should hold at 3, got %d", got)
	}
	// Toggling a picked drone removes it.
	c.ToggleChainMultiTarget(droneTarget(b.actor, drones[0]))
	if got := len(c.Snapshot().Picked); got != 2 {
		t.Fatalf("toggle should remove, got %d picked", got)
	}
	if err := c.ConfirmChainMultiSelect(); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("expected complete, got %s", c.phase)
	}

	b.apply(t, ScrambleOrder().Definition(), c.Selections())
	ready := b.actor.ReadyCount(Lane1)
	if ready != 2 {
		t.Errorf("expected 2 drones readied, got %d ready", ready)
	}
}

func TestMultiTargetConfirmEmpty(t *testing.T) {
	b := newBoard()
	d := b.place(b.actor, Lane1, "Talon Interceptor")
	d.Exhausted = true

	c := b.startChain(t, ScrambleOrder().Definition(), "")
	if err := c.ConfirmChainMultiSelect(); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("confirming an empty set is allowed, phase=%s", c.phase)
	}
	if len(c.Selections()[0].Targets) != 0 {
		t.Error("expected an empty committed target set")
	}
}

func TestSameLaneWithoutAnchorIsConfigurationError(t *testing.T) {
	b := newBoard()
	b.place(b.opponent, Lane1, "Specter Scout")
	def := &Definition{Name: "broken", Effects: []Effect{{
		Type: EffectDamage, Value: 1,
		Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocSame()},
	}}}
	c := NewChainController()
	err := c.StartEffectChain(b.env, def, nil, "")
	if !IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
	if c.phase != PhaseIdle {
		t.Errorf("failed chain should reset to idle, got %s", c.phase)
	}
}

func TestReplayReproducesInteractiveChain(t *testing.T) {
	build := func() (*board, *Drone, *Drone) {
		b := newBoard()
		talon := b.place(b.actor, Lane1, "Talon Interceptor")
		bulwark := b.place(b.opponent, Lane2, "Bulwark Sentinel")
		return b, talon, bulwark
	}

	b1, talon, bulwark := build()
	c1 := b1.startChain(t, FeintManeuver().Definition(), "")
	if err := c1.SelectChainTarget(droneTarget(b1.actor, talon)); err != nil {
		t.Fatal(err)
	}
	if err := c1.SelectChainDestination(Lane2); err != nil {
		t.Fatal(err)
	}
	if err := c1.SelectChainTarget(droneTarget(b1.opponent, bulwark)); err != nil {
		t.Fatal(err)
	}
	steps := c1.Steps()

	b2, _, _ := build()
	c2 := b2.startChain(t, FeintManeuver().Definition(), "")
	if err := c2.Replay(steps); err != nil {
		t.Fatalf("replay: %v", err)
	}
	s1, s2 := c1.Selections(), c2.Selections()
	if len(s1) != len(s2) {
		t.Fatalf("selection counts differ: %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i].Destination != s2[i].Destination || s1[i].Skipped != s2[i].Skipped {
			t.Errorf("selection %d diverged: %+v vs %+v", i, s1[i], s2[i])
		}
	}
}

func TestReplayMismatchIsInvalidAction(t *testing.T) {
	b := newBoard()
	b.place(b.opponent, Lane1, "Specter Scout")

	c := b.startChain(t, GhostSignature().Definition(), "")
	bogus := Target{Kind: TargetDrone, ID: "missing", Owner: 1}
	err := c.Replay([]SelectionStep{{Target: &bogus}})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if c.phase != PhaseIdle {
		t.Errorf("failed replay should reset, got %s", c.phase)
	}
}

func TestReplayShortStepListIsInvalidAction(t *testing.T) {
	b := newBoard()
	b.place(b.opponent, Lane1, "Specter Scout")

	c := b.startChain(t, GhostSignature().Definition(), "")
	if err := c.Replay(nil); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestSelectionCountMismatchAborts(t *testing.T) {
	b := newBoard()
	def := SurgeCells().Definition()
	_, _, _, _, err := ApplyChain(b.actor, b.opponent, b.meter, def, []Selection{{}}, b.idGen)
	if !IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError for misaligned selections, got %v", err)
	}
}

func TestInitialTargetOnMoveEntersDestinationPhase(t *testing.T) {
	b := newBoard()
	d := b.place(b.actor, Lane1, "Talon Interceptor")
	tgt := droneTarget(b.actor, d)

	c := NewChainController()
	if err := c.StartEffectChain(b.env, RedlineThrusters().Definition(), &tgt, ""); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()
	if snap.Phase != PhaseDestination {
		t.Fatalf("a pre-targeted move should prompt for a destination, got %s", snap.Phase)
	}
	if len(snap.ValidDests) != 1 || snap.ValidDests[0] != Lane2 {
		t.Fatalf("lane1 mover should offer lane2 only, got %v", snap.ValidDests)
	}

	if err := c.SelectChainDestination(Lane2); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("expected complete, got %s", c.Snapshot().Phase)
	}
	steps := c.Steps()
	if len(steps) != 1 || steps[0].Target == nil || steps[0].Destination != Lane2 {
		t.Fatalf("one step carrying target and destination expected, got %+v", steps)
	}

	b.apply(t, RedlineThrusters().Definition(), c.Selections())
	if lane, _ := b.actor.DroneLane(d.ID); lane != Lane2 {
		t.Errorf("drone should land in lane2, got %s", lane)
	}
}

func TestInitialTargetOnMoveWithNoDestinationSkips(t *testing.T) {
	b := newBoard()
	d := b.place(b.actor, Lane1, "Talon Interceptor")
	tgt := droneTarget(b.actor, d)

	// Destination pinned to the mover's own lane: nowhere to go.
	def := &Definition{Name: "stuck", Effects: []Effect{{
		Type:        EffectSingleMove,
		Targeting:   Targeting{Type: TargetingDrone, Affinity: AffinityFriendly, Location: LocAny()},
		Destination: &Destination{Location: string(Lane1)},
	}}}
	c := NewChainController()
	if err := c.StartEffectChain(b.env, def, &tgt, ""); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("expected complete, got %s", c.Snapshot().Phase)
	}
	if sels := c.Selections(); len(sels) != 1 || !sels[0].Skipped {
		t.Errorf("dead-end move should record a skip, got %+v", sels)
	}
}

func TestSourceLaneRefFollowsLiveSelection(t *testing.T) {
	b := newBoard()
	friendly := b.place(b.actor, Lane1, "Talon Interceptor")
	b.place(b.actor, Lane2, "Specter Scout")
	inLane := b.place(b.opponent, Lane1, "Specter Scout")
	b.place(b.opponent, Lane3, "Bulwark Sentinel")

	// Exhaust a friendly drone, then an enemy drone in the same lane.
	def := &Definition{Name: "feint pattern", Effects: []Effect{
		{
			Type:      EffectExhaust,
			Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityFriendly, Location: LocAny()},
		},
		{
			Type:      EffectExhaust,
			Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocRef(0, RefSourceLane)},
		},
	}}

	c := b.startChain(t, def, "")
	if err := c.SelectChainTarget(droneTarget(b.actor, friendly)); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()
	if snap.Phase != PhaseTarget {
		t.Fatalf("second exhaust should prompt, got %s", snap.Phase)
	}
	if len(snap.ValidTargets) != 1 || snap.ValidTargets[0].ID != inLane.ID {
		t.Fatalf("candidates should be the enemies sharing lane1, got %+v", snap.ValidTargets)
	}

	if err := c.SelectChainTarget(snap.ValidTargets[0]); err != nil {
		t.Fatal(err)
	}
	if !c.Complete() {
		t.Fatalf("expected complete, got %s", c.Snapshot().Phase)
	}

	b.apply(t, def, c.Selections())
	if !b.actor.FindDrone(friendly.ID).Exhausted {
		t.Error("friendly drone should be exhausted")
	}
	if !b.opponent.FindDrone(inLane.ID).Exhausted {
		t.Error("enemy drone in the referenced lane should be exhausted")
	}
}
