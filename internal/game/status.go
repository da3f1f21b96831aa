package game

// processReadiness flips the exhausted flag on the selected drone or committed
// multi-target set. Targets gone from the board by application time are
// skipped without complaint.
func processReadiness(ctx *procCtx, e Effect, sel Selection) error {
	exhaust := e.Type == EffectExhaust
	kind := AnimReady
	if exhaust {
		kind = AnimExhaust
	}
	targets := sel.Targets
	if len(targets) == 0 && sel.Target != nil {
		targets = []Target{*sel.Target}
	}
	for _, t := range targets {
		side := ctx.side(t.Owner)
		d := side.FindDrone(t.ID)
		if d == nil || d.Exhausted == exhaust {
			continue
		}
		d.Exhausted = exhaust
		ctx.emit(AnimationEvent{Kind: kind, Target: &t, Owner: side.ID, Name: d.Name})
	}
	return nil
}

// processRepair restores hull on the selected ship section, clamped to its
// maximum. Destroyed sections stay destroyed.
func processRepair(ctx *procCtx, e Effect, sel Selection, idx int) error {
	if sel.Target == nil || sel.Target.Kind != TargetSection {
		return nil
	}
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return err
	}
	if amount <= 0 {
		return nil
	}
	side := ctx.side(sel.Target.Owner)
	s := side.Sections[sel.Target.Lane]
	if s.Destroyed() {
		return nil
	}
	healed := min(s.MaxHull-s.Hull, amount)
	if healed <= 0 {
		return nil
	}
	s.Hull += healed
	ctx.emit(AnimationEvent{Kind: AnimSectionRepair, Lane: sel.Target.Lane, Owner: side.ID, Amount: healed})
	return nil
}
