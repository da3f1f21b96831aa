package game

// resolveRefLane evaluates a lane-valued back-reference against the selections
// recorded so far. current is the index of the effect doing the referencing; a
// reference at or past it is an authored-data bug. A reference into a skipped
// selection returns ok=false so the referencing effect skips too.
func resolveRefLane(ref *BackRef, selections []Selection, current int) (LaneID, bool, error) {
	sel, err := refSelection(ref, selections, current)
	if err != nil {
		return "", false, err
	}
	if sel.Skipped {
		return "", false, nil
	}
	switch ref.Field {
	case RefTarget:
		if sel.Target == nil {
			return "", false, nil
		}
		if sel.Target.Kind == TargetLaneKind || sel.Target.Kind == TargetSection {
			return sel.Target.Lane, true, nil
		}
		return "", false, configErrorf("ref %d.%s: target kind %q has no lane", ref.Effect, ref.Field, sel.Target.Kind)
	case RefSourceLane:
		if sel.SourceLane == "" {
			return "", false, nil
		}
		return sel.SourceLane, true, nil
	case RefDestinationLane:
		if sel.Destination == "" {
			return "", false, nil
		}
		return sel.Destination, true, nil
	default:
		return "", false, configErrorf("ref %d.%s: field does not yield a lane", ref.Effect, ref.Field)
	}
}

// resolveRefTarget evaluates a target-valued back-reference. ok=false means the
// referenced selection was skipped or empty and the referencing effect should
// skip as well.
func resolveRefTarget(ref *BackRef, selections []Selection, current int) (*Target, bool, error) {
	sel, err := refSelection(ref, selections, current)
	if err != nil {
		return nil, false, err
	}
	if sel.Skipped || sel.Target == nil {
		return nil, false, nil
	}
	if ref.Field != RefTarget {
		return nil, false, configErrorf("ref %d.%s: field does not yield a target", ref.Effect, ref.Field)
	}
	return sel.Target, true, nil
}

// resolveRefValue evaluates a numeric back-reference (currently only
// targetCost, the printed cost of a card chosen by an earlier effect).
func resolveRefValue(ref *BackRef, selections []Selection, current int, ps *PlayerState) (int, bool, error) {
	sel, err := refSelection(ref, selections, current)
	if err != nil {
		return 0, false, err
	}
	if sel.Skipped || sel.Target == nil {
		return 0, false, nil
	}
	switch ref.Field {
	case RefTargetCost:
		if sel.Target.Kind != TargetCard {
			return 0, false, configErrorf("ref %d.%s: target kind %q has no cost", ref.Effect, ref.Field, sel.Target.Kind)
		}
		ci := findCardAnywhere(ps, sel.Target.ID)
		if ci == nil {
			return 0, false, nil
		}
		return ci.Card.Cost, true, nil
	default:
		return 0, false, configErrorf("ref %d.%s: field does not yield a value", ref.Effect, ref.Field)
	}
}

func refSelection(ref *BackRef, selections []Selection, current int) (Selection, error) {
	if ref == nil {
		return Selection{}, configErrorf("nil back-reference")
	}
	if ref.Effect < 0 || ref.Effect >= current || ref.Effect >= len(selections) {
		return Selection{}, configErrorf("ref %d.%s: out of range at effect %d", ref.Effect, ref.Field, current)
	}
	return selections[ref.Effect], nil
}

// findCardAnywhere looks a card up in hand or discard. Cards referenced mid
// chain may already sit in either pile depending on when the chain applies.
func findCardAnywhere(ps *PlayerState, id string) *CardInstance {
	for _, c := range ps.Hand {
		if c.ID == id {
			return c
		}
	}
	for _, c := range ps.Discard {
		if c.ID == id {
			return c
		}
	}
	return nil
}
