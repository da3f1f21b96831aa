package game

// processThreat raises the acting player's own detection meter. Threat is the
// risk cost of loud plays, so it always lands on the side that acted, never
// the opponent. Saturating the meter is recorded as a run failure event; the
// match loop turns that into a loss for the actor.
func processThreat(ctx *procCtx, e Effect, sel Selection, idx int) error {
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return err
	}
	if amount <= 0 {
		return nil
	}
	saturated := ctx.meter.Raise(amount)
	ctx.emit(AnimationEvent{Kind: AnimThreat, Owner: ctx.actor.ID, Amount: amount})
	if saturated {
		ctx.emit(AnimationEvent{Kind: AnimRunFailure, Owner: ctx.actor.ID})
	}
	return nil
}
