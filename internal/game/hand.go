package game

// processDraw moves cards from the top of the acting player's deck into their
// hand, stopping early at the hand cap or an empty deck.
func processDraw(ctx *procCtx, e Effect, sel Selection, idx int) error {
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return err
	}
	for i := 0; i < amount; i++ {
		if len(ctx.actor.Hand) >= MaxHandSize {
			break
		}
		if ctx.actor.DrawCard() == nil {
			break
		}
		ctx.emit(AnimationEvent{Kind: AnimDraw, Owner: ctx.actor.ID, Amount: 1})
	}
	return nil
}

// processDiscard moves the selected card from its owner's hand to their
// discard pile. The selection was validated against hand contents when the
// chain recorded it; a card no longer in hand is silently ignored.
func processDiscard(ctx *procCtx, e Effect, sel Selection) error {
	if sel.Target == nil || sel.Target.Kind != TargetCard {
		return nil
	}
	side := ctx.side(sel.Target.Owner)
	ci := side.RemoveFromHand(sel.Target.ID)
	if ci == nil {
		return nil
	}
	side.Discard = append(side.Discard, ci)
	ctx.emit(AnimationEvent{Kind: AnimDiscard, Owner: side.ID, Name: ci.Card.Name})
	return nil
}
