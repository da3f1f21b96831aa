package game

// AnimationEvent is one ordered visual beat produced by applying a chain. The
// transport and UI layers replay these in order; the engine itself only
// guarantees the ordering.
type AnimationEvent struct {
	Kind   string  `json:"kind"`
	Target *Target `json:"target,omitempty"`
	Lane   LaneID  `json:"lane,omitempty"`
	Owner  int     `json:"owner,omitempty"`
	Amount int     `json:"amount,omitempty"`
	Name   string  `json:"name,omitempty"`
}

// Animation event kinds.
const (
	AnimDamage           = "damage"
	AnimShieldAbsorb     = "shield_absorb"
	AnimDroneDestroyed   = "drone_destroyed"
	AnimSectionDamage    = "section_damage"
	AnimSectionDestroyed = "section_destroyed"
	AnimSectionRepair    = "section_repair"
	AnimEnergyGain       = "energy_gain"
	AnimEnergyDrain      = "energy_drain"
	AnimThreat           = "threat"
	AnimRunFailure       = "run_failure"
	AnimMove             = "move"
	AnimDeploy           = "deploy"
	AnimExhaust          = "exhaust"
	AnimReady            = "ready"
	AnimDraw             = "draw"
	AnimDiscard          = "discard"
)

// procCtx is the mutable working set one chain application runs against. The
// player states are clones; commit happens only after every effect applies
// cleanly, so a ConfigurationError mid-chain leaves the real board untouched.
type procCtx struct {
	actor      *PlayerState
	opponent   *PlayerState
	meter      *DetectionMeter
	selections []Selection
	events     []AnimationEvent
	idGen      func(prefix string) string
}

func (ctx *procCtx) side(owner int) *PlayerState {
	if ctx.actor.ID == owner {
		return ctx.actor
	}
	return ctx.opponent
}

func (ctx *procCtx) emit(ev AnimationEvent) {
	ctx.events = append(ctx.events, ev)
}

// ApplyChain commits a completed chain's selections against cloned board
// state, then writes the clones back. actorMeter is the acting player's
// detection meter. Returns the ordered animation events. Selections must be
// index-aligned with def.Effects; a skipped selection skips its effect and
// everything it feeds.
func ApplyChain(actor, opponent *PlayerState, actorMeter *DetectionMeter, def *Definition, selections []Selection, idGen func(prefix string) string) (*PlayerState, *PlayerState, *DetectionMeter, []AnimationEvent, error) {
	if len(selections) != len(def.Effects) {
		return nil, nil, nil, nil, configErrorf("%s: %d selections for %d effects", def.Name, len(selections), len(def.Effects))
	}
	ctx := &procCtx{
		actor:      actor.Clone(),
		opponent:   opponent.Clone(),
		meter:      actorMeter.Clone(),
		selections: selections,
		idGen:      idGen,
	}
	for i, e := range def.Effects {
		sel := selections[i]
		if sel.Skipped {
			continue
		}
		additional, err := processEffect(ctx, e, sel, i)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		// Follow-up effects run immediately, before the next authored
		// effect, with no selection of their own.
		for len(additional) > 0 {
			next := additional[0]
			additional = additional[1:]
			more, err := processEffect(ctx, next, Selection{}, i)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			additional = append(more, additional...)
		}
	}
	return ctx.actor, ctx.opponent, ctx.meter, ctx.events, nil
}

// processEffect dispatches one effect to its processor. idx is the effect's
// position in the owning definition, for back-reference evaluation.
func processEffect(ctx *procCtx, e Effect, sel Selection, idx int) ([]Effect, error) {
	switch e.Type {
	case EffectDamage, EffectDamageScaling, EffectSplashDamage, EffectOverflowDamage, EffectDestroy:
		return nil, processDamage(ctx, e, sel, idx)
	case EffectGainEnergy:
		return processGainEnergy(ctx, e, sel, idx)
	case EffectDrainEnergy:
		return nil, processDrainEnergy(ctx, e, sel, idx)
	case EffectIncreaseThreat:
		return nil, processThreat(ctx, e, sel, idx)
	case EffectSingleMove:
		return nil, processMove(ctx, e, sel)
	case EffectDeploy:
		return nil, processDeploy(ctx, e, sel)
	case EffectExhaust, EffectReady:
		return nil, processReadiness(ctx, e, sel)
	case EffectRepairSection:
		return nil, processRepair(ctx, e, sel, idx)
	case EffectDraw:
		return nil, processDraw(ctx, e, sel, idx)
	case EffectDiscard:
		return nil, processDiscard(ctx, e, sel)
	default:
		return nil, configErrorf("unknown effect type %q", e.Type)
	}
}

// effectValue computes an effect's working amount: scaling counts and
// back-referenced values override the printed Value. ok=false means a
// back-reference landed on a skipped selection and the effect is a no-op.
func effectValue(ctx *procCtx, e Effect, sel Selection, idx int) (int, bool, error) {
	if e.ValueFrom != nil {
		return resolveRefValue(e.ValueFrom, ctx.selections, idx, ctx.actor)
	}
	if e.Scaling == nil {
		return e.Value, true, nil
	}
	switch e.Scaling.Count {
	case CountReadyInLane:
		lane := sel.SourceLane
		if lane == "" && sel.Target != nil {
			lane = sel.Target.Lane
		}
		if lane == "" {
			return 0, false, configErrorf("READY_DRONES_IN_LANE scaling with no lane context")
		}
		return ctx.actor.ReadyCount(lane), true, nil
	case CountNamedDrone:
		return ctx.actor.NamedCount(e.Scaling.DroneName), true, nil
	default:
		return 0, false, configErrorf("unknown scaling count %q", e.Scaling.Count)
	}
}
