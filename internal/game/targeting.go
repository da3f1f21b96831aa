package game

// chainEnv bundles the read-only context targeting and processing run against:
// both board sides, the in-chain position overlay, and the selections recorded
// so far. actor is always the player whose card or ability started the chain.
type chainEnv struct {
	actor    *PlayerState
	opponent *PlayerState
	tracker  *PositionTracker
	// sourceLane anchors SAME_LANE locations. For a drone ability it is the
	// lane of the activating drone; empty for a played card with no anchor.
	sourceLane LaneID
	// excludeCardID keeps the card whose play started the chain out of
	// CARD_IN_HAND candidate sets while it still sits in the hand slice.
	excludeCardID string
}

func (env *chainEnv) side(owner int) *PlayerState {
	if env.actor.ID == owner {
		return env.actor
	}
	return env.opponent
}

// affinitySides returns the board sides an affinity admits, actor first. The
// zero affinity means FRIENDLY, matching how the card set is authored.
func (env *chainEnv) affinitySides(a Affinity) ([]*PlayerState, error) {
	switch a {
	case AffinityFriendly, "":
		return []*PlayerState{env.actor}, nil
	case AffinityEnemy:
		return []*PlayerState{env.opponent}, nil
	case AffinityAny:
		return []*PlayerState{env.actor, env.opponent}, nil
	default:
		return nil, configErrorf("unknown affinity %q", a)
	}
}

// routeTargeting resolves the candidate target set for one effect. An empty
// result is not an error: the chain controller auto-skips the effect. A
// location back-reference into a skipped selection also yields an empty set,
// which propagates the skip. Unknown targeting vocabulary is a
// ConfigurationError.
func routeTargeting(env *chainEnv, e Effect, selections []Selection, current int) ([]Target, error) {
	switch e.Targeting.Type {
	case TargetingDrone, TargetingMultiDrone:
		// MULTI_DRONE reuses the drone candidate processor wholesale; only
		// the selection protocol on top differs.
		return droneCandidates(env, e, selections, current)
	case TargetingLane:
		return laneCandidates(env, e, selections, current)
	case TargetingShipSection:
		return sectionCandidates(env, e, selections, current)
	case TargetingCardInHand:
		return cardCandidates(env, e)
	case TargetingNone:
		return nil, nil
	default:
		return nil, configErrorf("unknown targeting type %q", e.Targeting.Type)
	}
}

// allowedLanes resolves an effect's location constraint to a concrete lane
// list in board order. ok=false means a back-reference resolved to a skipped
// selection and the effect must skip.
func allowedLanes(env *chainEnv, loc Location, selections []Selection, current int) ([]LaneID, bool, error) {
	if loc.Ref != nil {
		lane, ok, err := resolveRefLane(loc.Ref, selections, current)
		if err != nil || !ok {
			return nil, false, err
		}
		return []LaneID{lane}, true, nil
	}
	switch loc.Literal {
	case LocationAnyLane, "":
		return LaneOrder, true, nil
	case LocationSameLane:
		if env.sourceLane == "" {
			return nil, false, configErrorf("SAME_LANE location with no lane context")
		}
		return []LaneID{env.sourceLane}, true, nil
	default:
		lane := LaneID(loc.Literal)
		if !ValidLane(lane) {
			return nil, false, configErrorf("unknown location %q", loc.Literal)
		}
		return []LaneID{lane}, true, nil
	}
}

func droneCandidates(env *chainEnv, e Effect, selections []Selection, current int) ([]Target, error) {
	sides, err := env.affinitySides(e.Targeting.Affinity)
	if err != nil {
		return nil, err
	}
	lanes, ok, err := allowedLanes(env, e.Targeting.Location, selections, current)
	if err != nil || !ok {
		return nil, err
	}

	var out []Target
	for _, side := range sides {
		byLane := effectiveLanes(env, side)
		for _, lane := range lanes {
			drones := byLane[lane]
			var kept []*Drone
			for _, d := range drones {
				if droneMatchesFilter(d, e.Filter) {
					kept = append(kept, d)
				}
			}
			kept = applyPositionPick(kept, e.Filter)
			for _, d := range kept {
				out = append(out, Target{Kind: TargetDrone, ID: d.ID, Lane: lane, Owner: side.ID})
			}
		}
	}
	return out, nil
}

// effectiveLanes rebuilds a side's lane arrays with the chain's pending moves
// applied. Drones moved in mid-chain join the back of their new lane, after
// the drones already there, in board iteration order.
func effectiveLanes(env *chainEnv, side *PlayerState) map[LaneID][]*Drone {
	out := make(map[LaneID][]*Drone, len(LaneOrder))
	var moved []*Drone
	movedTo := make(map[string]LaneID)
	for _, lane := range LaneOrder {
		for _, d := range side.Lanes[lane] {
			eff, ok := env.tracker.DronePosition(side, d.ID)
			if !ok {
				continue
			}
			if eff == lane {
				out[lane] = append(out[lane], d)
			} else {
				moved = append(moved, d)
				movedTo[d.ID] = eff
			}
		}
	}
	for _, d := range moved {
		lane := movedTo[d.ID]
		out[lane] = append(out[lane], d)
	}
	return out
}

func droneMatchesFilter(d *Drone, f *Filter) bool {
	if f == nil {
		return true
	}
	if f.DroneName != "" && d.Name != f.DroneName {
		return false
	}
	if f.MaxCost > 0 && d.Cost > f.MaxCost {
		return false
	}
	if f.Exhausted != nil && d.Exhausted != *f.Exhausted {
		return false
	}
	return true
}

// applyPositionPick narrows a lane's filtered drones to one end of the array.
func applyPositionPick(drones []*Drone, f *Filter) []*Drone {
	if f == nil || f.Position == PickAll || len(drones) == 0 {
		return drones
	}
	switch f.Position {
	case PickFront:
		return drones[:1]
	case PickBack:
		return drones[len(drones)-1:]
	default:
		return drones
	}
}

func laneCandidates(env *chainEnv, e Effect, selections []Selection, current int) ([]Target, error) {
	sides, err := env.affinitySides(e.Targeting.Affinity)
	if err != nil {
		return nil, err
	}
	lanes, ok, err := allowedLanes(env, e.Targeting.Location, selections, current)
	if err != nil || !ok {
		return nil, err
	}
	var out []Target
	for _, side := range sides {
		for _, lane := range lanes {
			out = append(out, Target{Kind: TargetLaneKind, Lane: lane, Owner: side.ID})
		}
	}
	return out, nil
}

func sectionCandidates(env *chainEnv, e Effect, selections []Selection, current int) ([]Target, error) {
	sides, err := env.affinitySides(e.Targeting.Affinity)
	if err != nil {
		return nil, err
	}
	lanes, ok, err := allowedLanes(env, e.Targeting.Location, selections, current)
	if err != nil || !ok {
		return nil, err
	}
	var out []Target
	for _, side := range sides {
		for _, lane := range lanes {
			if side.Sections[lane].Destroyed() {
				continue
			}
			out = append(out, Target{Kind: TargetSection, Lane: lane, Owner: side.ID})
		}
	}
	return out, nil
}

func cardCandidates(env *chainEnv, e Effect) ([]Target, error) {
	sides, err := env.affinitySides(e.Targeting.Affinity)
	if err != nil {
		return nil, err
	}
	var out []Target
	for _, side := range sides {
		for _, ci := range side.Hand {
			if ci.ID == env.excludeCardID || env.tracker.IsCardDiscarded(ci.ID) {
				continue
			}
			if e.Filter != nil && e.Filter.MaxCost > 0 && ci.Card.Cost > e.Filter.MaxCost {
				continue
			}
			out = append(out, Target{Kind: TargetCard, ID: ci.ID, Owner: side.ID})
		}
	}
	return out, nil
}
