package game

import "testing"

func droneEffect(aff Affinity, loc Location, f *Filter) Effect {
	return Effect{
		Type:      EffectDamage,
		Value:     1,
		Targeting: Targeting{Type: TargetingDrone, Affinity: aff, Location: loc},
		Filter:    f,
	}
}

func TestAffinityRestrictsSides(t *testing.T) {
	b := newBoard()
	mine := b.place(b.actor, Lane1, "Talon Interceptor")
	theirs := b.place(b.opponent, Lane1, "Specter Scout")

	cases := []struct {
		aff  Affinity
		want []string
	}{
		{AffinityFriendly, []string{mine.ID}},
		{"", []string{mine.ID}}, // zero affinity means FRIENDLY
		{AffinityEnemy, []string{theirs.ID}},
		{AffinityAny, []string{mine.ID, theirs.ID}}, // actor side first
	}
	for _, tc := range cases {
		got, err := routeTargeting(b.env, droneEffect(tc.aff, LocAny(), nil), nil, 0)
		if err != nil {
			t.Fatalf("affinity %q: %v", tc.aff, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("affinity %q: expected %d candidates, got %d", tc.aff, len(tc.want), len(got))
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Errorf("affinity %q: candidate %d = %s, want %s", tc.aff, i, got[i].ID, id)
			}
		}
	}
}

func TestUnknownAffinityIsConfigurationError(t *testing.T) {
	b := newBoard()
	_, err := routeTargeting(b.env, droneEffect("SIDEWAYS", LocAny(), nil), nil, 0)
	if !IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}

func TestUnknownLocationIsConfigurationError(t *testing.T) {
	b := newBoard()
	e := droneEffect(AffinityEnemy, Location{Literal: "lane9"}, nil)
	_, err := routeTargeting(b.env, e, nil, 0)
	if !IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}

func TestLaneLiteralLocation(t *testing.T) {
	b := newBoard()
	b.place(b.opponent, Lane1, "Specter Scout")
	in2 := b.place(b.opponent, Lane2, "Specter Scout")

	got, err := routeTargeting(b.env, droneEffect(AffinityEnemy, LocLane(Lane2), nil), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != in2.ID {
		t.Fatalf("expected only the lane2 drone, got %v", got)
	}
}

func TestDroneFilters(t *testing.T) {
	b := newBoard()
	talon := b.place(b.opponent, Lane1, "Talon Interceptor") // cost 2
	bulwark := b.place(b.opponent, Lane1, "Bulwark Sentinel") // cost 3
	bulwark.Exhausted = true

	byName, err := routeTargeting(b.env, droneEffect(AffinityEnemy, LocAny(), &Filter{DroneName: "Talon Interceptor"}), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(byName) != 1 || byName[0].ID != talon.ID {
		t.Errorf("name filter: got %v", byName)
	}

	byCost, err := routeTargeting(b.env, droneEffect(AffinityEnemy, LocAny(), &Filter{MaxCost: 2}), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCost) != 1 || byCost[0].ID != talon.ID {
		t.Errorf("cost filter: got %v", byCost)
	}

	byState, err := routeTargeting(b.env, droneEffect(AffinityEnemy, LocAny(), &Filter{Exhausted: boolPtr(true)}), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(byState) != 1 || byState[0].ID != bulwark.ID {
		t.Errorf("exhausted filter: got %v", byState)
	}
}

func TestPositionPicks(t *testing.T) {
	b := newBoard()
	front := b.place(b.opponent, Lane1, "Specter Scout")
	b.place(b.opponent, Lane1, "Specter Scout")
	back := b.place(b.opponent, Lane1, "Specter Scout")

	got, err := routeTargeting(b.env, droneEffect(AffinityEnemy, LocAny(), &Filter{Position: PickFront}), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != front.ID {
		t.Errorf("front pick: got %v", got)
	}

	got, err = routeTargeting(b.env, droneEffect(AffinityEnemy, LocAny(), &Filter{Position: PickBack}), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != back.ID {
		t.Errorf("back pick: got %v", got)
	}
}

func TestTrackerOverlayRelocatesCandidates(t *testing.T) {
	b := newBoard()
	resident := b.place(b.actor, Lane2, "Bulwark Sentinel")
	mover := b.place(b.actor, Lane1, "Talon Interceptor")
	b.env.tracker.RecordMove(mover.ID, Lane2)

	// The moved drone appears in its pending lane, behind the residents.
	got, err := routeTargeting(b.env, droneEffect(AffinityFriendly, LocLane(Lane2), nil), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != resident.ID || got[1].ID != mover.ID {
		t.Fatalf("expected resident then mover in lane2, got %v", got)
	}

	// And it no longer counts as a lane1 candidate.
	got, err = routeTargeting(b.env, droneEffect(AffinityFriendly, LocLane(Lane1), nil), nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("moved drone should have left lane1, got %v", got)
	}
}

func TestSectionCandidatesSkipDestroyed(t *testing.T) {
	b := newBoard()
	b.opponent.Sections[Lane2].Hull = 0

	e := Effect{
		Type: EffectDamage, Value: 1,
		Targeting: Targeting{Type: TargetingShipSection, Affinity: AffinityEnemy, Location: LocAny()},
	}
	got, err := routeTargeting(b.env, e, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving sections, got %d", len(got))
	}
	for _, tgt := range got {
		if tgt.Lane == Lane2 {
			t.Error("destroyed section must not be a candidate")
		}
	}
}

func TestLaneCandidates(t *testing.T) {
	b := newBoard()
	e := Effect{
		Type: EffectDamage, Value: 1,
		Targeting: Targeting{Type: TargetingLane, Affinity: AffinityEnemy, Location: LocAny()},
	}
	got, err := routeTargeting(b.env, e, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 lane candidates, got %d", len(got))
	}
	for i, lane := range LaneOrder {
		if got[i].Lane != lane || got[i].Owner != 1 {
			t.Errorf("candidate %d = %+v, want enemy %s", i, got[i], lane)
		}
	}
}

func TestCardCandidates(t *testing.T) {
	b := newBoard()
	played := b.addCard(b.actor, "Salvage Sweep")
	cheap := b.addCard(b.actor, "Surge Cells")    // cost 1
	pricey := b.addCard(b.actor, "Lance Overload") // cost 4
	gone := b.addCard(b.actor, "Ghost Signature")

	b.env.excludeCardID = played.ID
	b.env.tracker.RecordDiscard(gone.ID)

	e := Effect{
		Type:      EffectDiscard,
		Targeting: Targeting{Type: TargetingCardInHand, Affinity: AffinityFriendly},
	}
	got, err := routeTargeting(b.env, e, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != cheap.ID || got[1].ID != pricey.ID {
		t.Fatalf("expected the two selectable cards, got %v", got)
	}

	e.Filter = &Filter{MaxCost: 2}
	got, err = routeTargeting(b.env, e, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != cheap.ID {
		t.Fatalf("cost filter should keep only the cheap card, got %v", got)
	}
}

func TestUnknownTargetingTypeIsConfigurationError(t *testing.T) {
	b := newBoard()
	e := Effect{Type: EffectDamage, Targeting: Targeting{Type: "TELEPATHY"}}
	_, err := routeTargeting(b.env, e, nil, 0)
	if !IsConfigurationError(err) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}
