package game

// processGainEnergy adds energy to the acting side, clamped to the computed
// maximum. Only the amount actually gained fires on-gain triggers, so gaining
// at the cap triggers nothing. Trigger effects run immediately after, in board
// order of the drones carrying them.
func processGainEnergy(ctx *procCtx, e Effect, sel Selection, idx int) ([]Effect, error) {
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return nil, err
	}
	if amount <= 0 {
		return nil, nil
	}
	side := ctx.actor
	if e.Targeting.Affinity == AffinityEnemy {
		side = ctx.opponent
	}
	max := side.ComputedMaxEnergy()
	gained := amount
	if side.Energy+gained > max {
		gained = max - side.Energy
	}
	if gained <= 0 {
		return nil, nil
	}
	side.Energy += gained
	ctx.emit(AnimationEvent{Kind: AnimEnergyGain, Owner: side.ID, Amount: gained})

	var additional []Effect
	for _, lane := range LaneOrder {
		for _, d := range side.Lanes[lane] {
			for _, t := range d.OnEnergyGained {
				additional = append(additional, t.Clone())
			}
		}
	}
	return additional, nil
}

// processDrainEnergy removes energy, flooring at zero. The drained side
// defaults to the opponent; a FRIENDLY affinity drains the actor (self-cost
// effects). Non-positive amounts are no-ops.
func processDrainEnergy(ctx *procCtx, e Effect, sel Selection, idx int) error {
	amount, ok, err := effectValue(ctx, e, sel, idx)
	if err != nil || !ok {
		return err
	}
	if amount <= 0 {
		return nil
	}
	side := ctx.opponent
	if e.Targeting.Affinity == AffinityFriendly {
		side = ctx.actor
	}
	drained := min(side.Energy, amount)
	if drained <= 0 {
		return nil
	}
	side.Energy -= drained
	ctx.emit(AnimationEvent{Kind: AnimEnergyDrain, Owner: side.ID, Amount: drained})
	return nil
}
