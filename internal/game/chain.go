package game

// ChainPhase is the chain controller's selection state.
type ChainPhase string

const (
	PhaseIdle        ChainPhase = "idle"
	PhaseTarget      ChainPhase = "target"
	PhaseDestination ChainPhase = "destination"
	PhaseMulti       ChainPhase = "multi_target"
	PhaseComplete    ChainPhase = "complete"
)

// ChainController walks a definition's ordered effect list, gathering one
// selection per effect. It owns no board state: targeting reads the snapshot
// it was started against, pending movement lives in the position overlay, and
// nothing is mutated until the completed selection list is applied. Cancelling
// at any point therefore costs nothing.
type ChainController struct {
	env        *chainEnv
	def        *Definition
	phase      ChainPhase
	current    int
	selections []Selection

	validTargets []Target
	validDests   []LaneID

	// pendingTarget holds a move-shaped effect's chosen drone while its
	// destination is still being picked.
	pendingTarget     *Target
	pendingSourceLane LaneID

	multiPicked []Target

	// steps records every explicit player input so a completed chain can be
	// replayed verbatim on a remote peer or from a journal.
	steps []SelectionStep
}

// NewChainController returns an idle controller.
func NewChainController() *ChainController {
	return &ChainController{phase: PhaseIdle}
}

// StartEffectChain begins resolving a definition against the given board
// sides. initialTarget pre-fills effect 0's selection for plays whose primary
// target was chosen as part of the play gesture itself (drone abilities aimed
// on activation); pass nil to let effect 0 run the normal selection flow.
// sourceLane anchors SAME_LANE locations. An empty definition completes
// immediately. A ConfigurationError aborts the chain back to idle.
func (c *ChainController) StartEffectChain(env *chainEnv, def *Definition, initialTarget *Target, sourceLane LaneID) error {
	c.reset()
	c.env = env
	c.env.sourceLane = sourceLane
	c.def = def
	if def == nil || len(def.Effects) == 0 {
		c.phase = PhaseComplete
		return nil
	}
	if initialTarget != nil {
		e := def.Effects[0]
		if e.MoveShaped() {
			// The gesture already named the mover: go straight to picking
			// where it lands.
			dests, err := c.destinationCandidates(*initialTarget)
			if err != nil {
				c.reset()
				return err
			}
			if len(dests) == 0 {
				c.record(Selection{Skipped: true}, e)
				c.current = 1
				return c.resolve()
			}
			ct := *initialTarget
			c.pendingTarget = &ct
			c.pendingSourceLane = targetLane(env, ct)
			c.validDests = dests
			c.phase = PhaseDestination
			return nil
		}
		c.record(Selection{Target: initialTarget, SourceLane: targetLane(env, *initialTarget)}, e)
		c.steps = append(c.steps, SelectionStep{Target: initialTarget})
		c.current = 1
	}
	return c.resolve()
}

// SelectChainTarget answers the current target prompt. Inputs that do not
// match the controller's phase or candidate set are UI races and are silently
// ignored; the only error surfaced is a ConfigurationError from resolving the
// following effects.
func (c *ChainController) SelectChainTarget(t Target) error {
	if c.phase != PhaseTarget || !c.isValidTarget(t) {
		return nil
	}
	e := c.def.Effects[c.current]
	if e.MoveShaped() {
		dests, err := c.destinationCandidates(t)
		if err != nil {
			c.reset()
			return err
		}
		if len(dests) == 0 {
			// Nowhere to move: the whole effect skips rather than
			// trapping the player in a dead prompt.
			c.record(Selection{Skipped: true}, e)
			c.current++
			return c.resolve()
		}
		ct := t
		c.pendingTarget = &ct
		c.pendingSourceLane = targetLane(c.env, t)
		c.validDests = dests
		c.phase = PhaseDestination
		return nil
	}
	c.steps = append(c.steps, SelectionStep{Target: &t})
	c.record(Selection{Target: &t, SourceLane: targetLane(c.env, t)}, e)
	c.current++
	return c.resolve()
}

// SelectChainDestination answers a move-shaped effect's destination prompt.
// Calls outside the destination sub-phase, or naming a lane outside the valid
// set, are ignored without touching any state.
func (c *ChainController) SelectChainDestination(lane LaneID) error {
	if c.phase != PhaseDestination {
		return nil
	}
	valid := false
	for _, d := range c.validDests {
		if d == lane {
			valid = true
			break
		}
	}
	if !valid {
		return nil
	}
	e := c.def.Effects[c.current]
	c.steps = append(c.steps, SelectionStep{Target: c.pendingTarget, Destination: lane})
	c.record(Selection{Target: c.pendingTarget, SourceLane: c.pendingSourceLane, Destination: lane}, e)
	c.pendingTarget = nil
	c.pendingSourceLane = ""
	c.validDests = nil
	c.current++
	return c.resolve()
}

// ToggleChainMultiTarget adds or removes a candidate from the pending
// multi-target set. Additions past the effect's MaxTargets cap are ignored.
func (c *ChainController) ToggleChainMultiTarget(t Target) {
	if c.phase != PhaseMulti || !c.isValidTarget(t) {
		return
	}
	for i, p := range c.multiPicked {
		if p.Same(t) {
			c.multiPicked = append(c.multiPicked[:i], c.multiPicked[i+1:]...)
			return
		}
	}
	max := c.def.Effects[c.current].MaxTargets
	if max > 0 && len(c.multiPicked) >= max {
		return
	}
	c.multiPicked = append(c.multiPicked, t)
}

// ConfirmChainMultiSelect commits the pending multi-target set, which may be
// any subset of the candidates including none.
func (c *ChainController) ConfirmChainMultiSelect() error {
	if c.phase != PhaseMulti {
		return nil
	}
	e := c.def.Effects[c.current]
	picked := append([]Target(nil), c.multiPicked...)
	c.steps = append(c.steps, SelectionStep{MultiTargets: picked})
	c.record(Selection{Targets: picked}, e)
	c.multiPicked = nil
	c.current++
	return c.resolve()
}

// CancelEffectChain abandons the chain. Because no state has been mutated,
// cancelling is a pure reset regardless of how far selection had progressed.
func (c *ChainController) CancelEffectChain() {
	c.reset()
}

// Active reports whether a chain is mid-selection.
func (c *ChainController) Active() bool {
	return c.phase == PhaseTarget || c.phase == PhaseDestination || c.phase == PhaseMulti
}

// Complete reports whether every effect has a recorded selection.
func (c *ChainController) Complete() bool {
	return c.phase == PhaseComplete
}

// Selections returns the recorded per-effect outcomes of a completed chain.
func (c *ChainController) Selections() []Selection {
	return c.selections
}

// Steps returns the explicit inputs that drove the chain, for replay.
func (c *ChainController) Steps() []SelectionStep {
	return c.steps
}

// Snapshot is the controller's UI-facing view.
type Snapshot struct {
	Phase        ChainPhase  `json:"phase"`
	CurrentIndex int         `json:"currentIndex"`
	Prompt       string      `json:"prompt,omitempty"`
	ValidTargets []Target    `json:"validTargets,omitempty"`
	ValidDests   []LaneID    `json:"validDests,omitempty"`
	Picked       []Target    `json:"picked,omitempty"`
	Selections   []Selection `json:"selections,omitempty"`
}

// Snapshot returns the current selection state for rendering.
func (c *ChainController) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        c.phase,
		CurrentIndex: c.current,
		ValidTargets: append([]Target(nil), c.validTargets...),
		ValidDests:   append([]LaneID(nil), c.validDests...),
		Picked:       append([]Target(nil), c.multiPicked...),
		Selections:   append([]Selection(nil), c.selections...),
	}
	if c.Active() {
		s.Prompt = c.prompt()
	}
	return s
}

// Replay drives the controller with a recorded step list, as when executing a
// peer's action payload. The step list must satisfy every prompt the chain
// raises; a mismatch is ErrInvalidAction.
func (c *ChainController) Replay(steps []SelectionStep) error {
	i := 0
	for c.Active() {
		if i >= len(steps) {
			c.reset()
			return ErrInvalidAction
		}
		step := steps[i]
		i++
		var err error
		switch c.phase {
		case PhaseTarget:
			if step.Target == nil {
				c.reset()
				return ErrInvalidAction
			}
			before := c.current
			if err = c.SelectChainTarget(*step.Target); err != nil {
				return err
			}
			if c.phase == PhaseTarget && c.current == before {
				c.reset()
				return ErrInvalidAction
			}
			// A move-shaped effect consumes the same step's destination.
			if c.phase == PhaseDestination {
				if step.Destination == "" {
					c.reset()
					return ErrInvalidAction
				}
				pre := c.phase
				if err = c.SelectChainDestination(step.Destination); err != nil {
					return err
				}
				if c.phase == pre {
					c.reset()
					return ErrInvalidAction
				}
			}
		case PhaseDestination:
			pre := c.current
			if err = c.SelectChainDestination(step.Destination); err != nil {
				return err
			}
			if c.phase == PhaseDestination && c.current == pre {
				c.reset()
				return ErrInvalidAction
			}
		case PhaseMulti:
			for _, t := range step.MultiTargets {
				c.ToggleChainMultiTarget(t)
			}
			if err = c.ConfirmChainMultiSelect(); err != nil {
				return err
			}
		}
	}
	if !c.Complete() {
		return ErrInvalidAction
	}
	return nil
}

// resolve advances through effects until one needs player input, the list is
// exhausted, or authored data turns out to be broken.
func (c *ChainController) resolve() error {
	for c.current < len(c.def.Effects) {
		e := c.def.Effects[c.current]
		if e.Targeting.Type == TargetingNone || e.Targeting.Type == "" {
			// No selection needed. The effect still gets a slot so
			// back-references stay index-aligned.
			c.record(c.noneSelection(e), e)
			c.current++
			continue
		}
		cands, err := routeTargeting(c.env, e, c.selections, c.current)
		if err != nil {
			c.reset()
			return err
		}
		if len(cands) == 0 {
			c.record(Selection{Skipped: true}, e)
			c.current++
			continue
		}
		c.validTargets = cands
		if e.Targeting.Type == TargetingMultiDrone {
			c.phase = PhaseMulti
		} else {
			c.phase = PhaseTarget
		}
		return nil
	}
	c.phase = PhaseComplete
	c.validTargets = nil
	return nil
}

// noneSelection fills the slot for an effect that needs no targeting. If the
// effect back-references an earlier skipped selection, it inherits the skip.
func (c *ChainController) noneSelection(e Effect) Selection {
	refs := []*BackRef{e.Targeting.Location.Ref, e.ValueFrom}
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if ref.Effect >= 0 && ref.Effect < len(c.selections) && c.selections[ref.Effect].Skipped {
			return Selection{Skipped: true}
		}
	}
	return Selection{}
}

// record appends a selection and routes its side effects into the position
// overlay so later effects in the same chain see them.
func (c *ChainController) record(sel Selection, e Effect) {
	c.selections = append(c.selections, sel)
	if sel.Skipped {
		return
	}
	if sel.Destination != "" && sel.Target != nil {
		c.env.tracker.RecordMove(sel.Target.ID, sel.Destination)
	}
	if e.Type == EffectDiscard && sel.Target != nil && sel.Target.Kind == TargetCard {
		c.env.tracker.RecordDiscard(sel.Target.ID)
	}
}

// destinationCandidates computes where a move-shaped effect may place the
// chosen drone. The drone's current effective lane is never a candidate.
func (c *ChainController) destinationCandidates(t Target) ([]LaneID, error) {
	cur := targetLane(c.env, t)
	e := c.def.Effects[c.current]
	var pool []LaneID
	loc := LocationAnyLane
	if e.Destination != nil && e.Destination.Location != "" {
		loc = e.Destination.Location
	}
	switch loc {
	case LocationAnyLane:
		pool = LaneOrder
	case DestAdjacent:
		pool = AdjacentLanes(cur)
	default:
		lane := LaneID(loc)
		if !ValidLane(lane) {
			return nil, configErrorf("unknown destination location %q", loc)
		}
		pool = []LaneID{lane}
	}
	var out []LaneID
	for _, lane := range pool {
		if lane != cur {
			out = append(out, lane)
		}
	}
	return out, nil
}

func (c *ChainController) isValidTarget(t Target) bool {
	for _, v := range c.validTargets {
		if v.Same(t) {
			return true
		}
	}
	return false
}

func (c *ChainController) prompt() string {
	e := c.def.Effects[c.current]
	switch c.phase {
	case PhaseDestination:
		return "choose a destination lane"
	case PhaseMulti:
		return "choose targets for " + string(e.Type) + " (confirm when done)"
	default:
		return "choose a target for " + string(e.Type)
	}
}

func (c *ChainController) reset() {
	c.env = nil
	c.def = nil
	c.phase = PhaseIdle
	c.current = 0
	c.selections = nil
	c.validTargets = nil
	c.validDests = nil
	c.pendingTarget = nil
	c.pendingSourceLane = ""
	c.multiPicked = nil
	c.steps = nil
}

// targetLane reports the effective lane a target occupies, honoring pending
// in-chain movement for drones.
func targetLane(env *chainEnv, t Target) LaneID {
	switch t.Kind {
	case TargetDrone:
		side := env.side(t.Owner)
		if lane, ok := env.tracker.DronePosition(side, t.ID); ok {
			return lane
		}
		return t.Lane
	default:
		return t.Lane
	}
}
