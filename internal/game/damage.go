package game

// processDamage handles the whole damage family: plain and scaling damage,
// splash, overflow, and outright destruction. Victims are snapshotted before
// any damage lands, every hit is applied against that snapshot, and destroyed
// drones are swept off the board in a single board-order pass at the end. A
// drone reduced to zero hull mid-effect therefore still receives later hits
// from the same effect, and removal order never depends on hit order.
func processDamage(ctx *procCtx, e Effect, sel Selection, idx int) error {
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return err
	}

	// A section target short-circuits: sections have no shields and no
	// removal pass.
	if sel.Target != nil && sel.Target.Kind == TargetSection {
		damageSection(ctx, ctx.side(sel.Target.Owner), sel.Target.Lane, amount)
		return nil
	}

	victims, err := damageVictims(ctx, e, sel)
	if err != nil {
		return err
	}
	if len(victims) == 0 {
		return nil
	}

	if e.Type == EffectDestroy {
		for _, v := range victims {
			ctx.emit(AnimationEvent{Kind: AnimDamage, Target: targetFor(v), Owner: v.side.ID, Amount: v.drone.Hull + v.drone.Shields, Name: v.drone.Name})
			v.drone.Shields = 0
			v.drone.Hull = 0
		}
		sweepDestroyed(ctx)
		return nil
	}

	overflow := e.Type == EffectOverflowDamage
	for _, v := range victims {
		hitDrone(ctx, v, amount, e.DamageType, overflow)
		if e.Type == EffectSplashDamage {
			splash := e.SplashValue
			if splash == 0 {
				splash = amount
			}
			for _, n := range laneNeighbors(v) {
				hitDrone(ctx, n, splash, e.DamageType, false)
			}
		}
	}
	sweepDestroyed(ctx)
	return nil
}

// victim pairs a drone with its owning side and lane at snapshot time.
type victim struct {
	side  *PlayerState
	lane  LaneID
	index int
	drone *Drone
}

func targetFor(v victim) *Target {
	return &Target{Kind: TargetDrone, ID: v.drone.ID, Lane: v.lane, Owner: v.side.ID}
}

// damageVictims resolves the concrete drones an effect hits, from the recorded
// selection: a single chosen drone, a committed multi-target set, or a chosen
// lane widened by a FILTERED scope.
func damageVictims(ctx *procCtx, e Effect, sel Selection) ([]victim, error) {
	var out []victim
	if len(sel.Targets) > 0 {
		for _, t := range sel.Targets {
			if v, ok := lookupVictim(ctx, t); ok {
				out = append(out, v)
			}
		}
		return out, nil
	}
	if sel.Target == nil {
		return nil, nil
	}
	t := *sel.Target
	switch t.Kind {
	case TargetDrone:
		if v, ok := lookupVictim(ctx, t); ok {
			out = append(out, v)
		}
		return out, nil
	case TargetLaneKind:
		side := ctx.side(t.Owner)
		var kept []victim
		for i, d := range side.Lanes[t.Lane] {
			if droneMatchesFilter(d, e.Filter) {
				kept = append(kept, victim{side: side, lane: t.Lane, index: i, drone: d})
			}
		}
		if e.Filter != nil && e.Filter.Position != PickAll && len(kept) > 0 {
			if e.Filter.Position == PickFront {
				kept = kept[:1]
			} else {
				kept = kept[len(kept)-1:]
			}
		}
		return kept, nil
	default:
		return nil, configErrorf("damage effect cannot resolve target kind %q", t.Kind)
	}
}

func lookupVictim(ctx *procCtx, t Target) (victim, bool) {
	side := ctx.side(t.Owner)
	lane, idx := side.DroneLane(t.ID)
	if idx < 0 {
		// Already removed earlier in the chain. Not an error: the
		// selection was valid when recorded.
		return victim{}, false
	}
	return victim{side: side, lane: lane, index: idx, drone: side.Lanes[lane][idx]}, true
}

// laneNeighbors returns the drones at the adjacent indexes of the victim's
// lane array, front neighbor first.
func laneNeighbors(v victim) []victim {
	drones := v.side.Lanes[v.lane]
	// Re-derive the index; earlier hits never reorder, but the chain may
	// have moved drones before this effect.
	idx := -1
	for i, d := range drones {
		if d.ID == v.drone.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	var out []victim
	if idx > 0 {
		out = append(out, victim{side: v.side, lane: v.lane, index: idx - 1, drone: drones[idx-1]})
	}
	if idx+1 < len(drones) {
		out = append(out, victim{side: v.side, lane: v.lane, index: idx + 1, drone: drones[idx+1]})
	}
	return out
}

// hitDrone applies one packet of damage to one drone. Standard damage is
// absorbed by shields first; piercing ignores shields entirely. When overflow
// is set, damage beyond what the drone can absorb spills onto the ship
// section behind its lane; otherwise the excess is lost.
func hitDrone(ctx *procCtx, v victim, amount int, dt DamageType, overflow bool) {
	if amount <= 0 {
		return
	}
	remaining := amount
	if dt != DamagePiercing && v.drone.Shields > 0 {
		absorbed := min(v.drone.Shields, remaining)
		v.drone.Shields -= absorbed
		remaining -= absorbed
		ctx.emit(AnimationEvent{Kind: AnimShieldAbsorb, Target: targetFor(v), Owner: v.side.ID, Amount: absorbed, Name: v.drone.Name})
	}
	if remaining <= 0 {
		return
	}
	hull := min(v.drone.Hull, remaining)
	if hull > 0 {
		v.drone.Hull -= hull
		remaining -= hull
		ctx.emit(AnimationEvent{Kind: AnimDamage, Target: targetFor(v), Owner: v.side.ID, Amount: hull, Name: v.drone.Name})
	}
	if remaining > 0 && overflow {
		damageSection(ctx, v.side, v.lane, remaining)
	}
}

// damageSection reduces a section's hull, clamped at zero.
func damageSection(ctx *procCtx, side *PlayerState, lane LaneID, amount int) {
	if amount <= 0 {
		return
	}
	s := side.Sections[lane]
	if s.Destroyed() {
		return
	}
	dealt := min(s.Hull, amount)
	s.Hull -= dealt
	ctx.emit(AnimationEvent{Kind: AnimSectionDamage, Lane: lane, Owner: side.ID, Amount: dealt})
	if s.Destroyed() {
		ctx.emit(AnimationEvent{Kind: AnimSectionDestroyed, Lane: lane, Owner: side.ID})
	}
}

// sweepDestroyed removes every zero-hull drone from both boards in one pass,
// actor first, lanes in board order, front to back.
func sweepDestroyed(ctx *procCtx) {
	for _, side := range []*PlayerState{ctx.actor, ctx.opponent} {
		for _, lane := range LaneOrder {
			kept := side.Lanes[lane][:0]
			for _, d := range side.Lanes[lane] {
				if d.Hull <= 0 {
					ctx.emit(AnimationEvent{Kind: AnimDroneDestroyed, Target: &Target{Kind: TargetDrone, ID: d.ID, Lane: lane, Owner: side.ID}, Owner: side.ID, Name: d.Name})
					continue
				}
				kept = append(kept, d)
			}
			side.Lanes[lane] = kept
		}
	}
}
