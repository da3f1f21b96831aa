package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/lanefall/lanefall/internal/log"
)

// board bundles two player states, a fresh overlay, and a detection meter for
// driving chains directly without a full match around them.
type board struct {
	actor    *PlayerState
	opponent *PlayerState
	env      *chainEnv
	meter    *DetectionMeter
	idSeq    int
}

func newBoard() *board {
	b := &board{
		actor:    NewPlayerState(0),
		opponent: NewPlayerState(1),
		meter:    NewDetectionMeter(),
	}
	b.env = &chainEnv{actor: b.actor, opponent: b.opponent, tracker: NewPositionTracker()}
	return b
}

// place stamps a fresh drone from the named spec into a lane.
func (b *board) place(side *PlayerState, lane LaneID, name string) *Drone {
	spec, ok := DroneSpecs[name]
	if !ok {
		panic(fmt.Sprintf("unknown drone spec %q", name))
	}
	b.idSeq++
	d := spec.Instantiate(fmt.Sprintf("d%d", b.idSeq))
	side.AddDrone(lane, d)
	return d
}

// addCard puts a fresh card instance into a player's hand.
func (b *board) addCard(side *PlayerState, name string) *CardInstance {
	b.idSeq++
	ci := &CardInstance{ID: fmt.Sprintf("c%d", b.idSeq), Card: LookupCard(name), Owner: side.ID}
	side.Hand = append(side.Hand, ci)
	return ci
}

func (b *board) idGen(prefix string) string {
	b.idSeq++
	return fmt.Sprintf("%s%d", prefix, b.idSeq)
}

// apply commits a selection list against the board and writes the resulting
// clones back, so assertions read b.actor / b.opponent / b.meter directly.
func (b *board) apply(t *testing.T, def *Definition, sels []Selection) []AnimationEvent {
	t.Helper()
	actor, opp, meter, events, err := ApplyChain(b.actor, b.opponent, b.meter, def, sels, b.idGen)
	if err != nil {
		t.Fatalf("ApplyChain(%s): %v", def.Name, err)
	}
	b.actor, b.opponent, b.meter = actor, opp, meter
	b.env.actor, b.env.opponent = actor, opp
	return events
}

// startChain begins an interactive chain against the board.
func (b *board) startChain(t *testing.T, def *Definition, sourceLane LaneID) *ChainController {
	t.Helper()
	c := NewChainController()
	if err := c.StartEffectChain(b.env, def, nil, sourceLane); err != nil {
		t.Fatalf("StartEffectChain(%s): %v", def.Name, err)
	}
	return c
}

// droneTarget builds the Target a selection prompt would offer for a drone.
func droneTarget(side *PlayerState, d *Drone) Target {
	lane, _ := side.DroneLane(d.ID)
	return Target{Kind: TargetDrone, ID: d.ID, Lane: lane, Owner: side.ID}
}

func laneTarget(side *PlayerState, lane LaneID) Target {
	return Target{Kind: TargetLaneKind, Lane: lane, Owner: side.ID}
}

func sectionTarget(side *PlayerState, lane LaneID) Target {
	return Target{Kind: TargetSection, Lane: lane, Owner: side.ID}
}

func cardTarget(ci *CardInstance) Target {
	return Target{Kind: TargetCard, ID: ci.ID, Owner: ci.Owner}
}

func countEvents(events []AnimationEvent, kind string) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// --- Scripted match driving ---

// scriptStep produces one complete action payload when its owner is prompted.
type scriptStep func(t *testing.T, m *Match, actions []ActionOption) *ActionPayload

// ScriptedController is a PlayerController that follows a predefined script.
// Once the script runs out it ends every turn.
type ScriptedController struct {
	t      *testing.T
	player int
	script []scriptStep
	pos    int
}

func NewScriptedController(t *testing.T, player int, script ...scriptStep) *ScriptedController {
	return &ScriptedController{t: t, player: player, script: script}
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, m *Match, actions []ActionOption) (*ActionPayload, error) {
	if sc.pos >= len(sc.script) {
		return &ActionPayload{Type: ActionEndTurn, Player: sc.player}, nil
	}
	step := sc.script[sc.pos]
	sc.pos++
	return step(sc.t, m, actions), nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// playStep scripts playing the named card, driving every chain prompt with the
// first valid candidate.
func playStep(player int, name string) scriptStep {
	return func(t *testing.T, m *Match, actions []ActionOption) *ActionPayload {
		t.Helper()
		for _, a := range actions {
			if a.Type != ActionPlayCard || a.CardName != name {
				continue
			}
			payload := &ActionPayload{Type: ActionPlayCard, Player: player, CardID: a.CardID}
			chain, err := m.PreviewChain(player, payload)
			if err != nil {
				t.Fatalf("preview %s: %v", name, err)
			}
			autoDrive(t, chain)
			payload.Selections = chain.Steps()
			return payload
		}
		t.Fatalf("card %q not playable; actions: %v", name, actions)
		return nil
	}
}

// endStep scripts an explicit end of turn.
func endStep(player int) scriptStep {
	return func(t *testing.T, m *Match, actions []ActionOption) *ActionPayload {
		return &ActionPayload{Type: ActionEndTurn, Player: player}
	}
}

// autoDrive answers every prompt with the first candidate (or the full set for
// multi-target prompts), which is deterministic by construction.
func autoDrive(t *testing.T, chain *ChainController) {
	t.Helper()
	for chain.Active() {
		snap := chain.Snapshot()
		var err error
		switch snap.Phase {
		case PhaseTarget:
			err = chain.SelectChainTarget(snap.ValidTargets[0])
		case PhaseDestination:
			err = chain.SelectChainDestination(snap.ValidDests[0])
		case PhaseMulti:
			for _, c := range snap.ValidTargets {
				chain.ToggleChainMultiTarget(c)
			}
			err = chain.ConfirmChainMultiSelect()
		}
		if err != nil {
			t.Fatalf("chain drive: %v", err)
		}
	}
	if !chain.Complete() {
		t.Fatalf("chain did not complete")
	}
}

// squadronOf expands card names into a squadron list. Top of deck is the last
// element, so the last name listed is drawn first.
func squadronOf(names ...string) []*Card {
	cards := make([]*Card, 0, len(names))
	for _, n := range names {
		cards = append(cards, LookupCard(n))
	}
	return cards
}

// paddedSquadron puts the named cards on top of the deck (first name drawn
// first) over enough filler to reach minSize.
func paddedSquadron(top []string, minSize int) []*Card {
	var names []string
	for len(names) < minSize-len(top) {
		names = append(names, "Bulwark Sentinel")
	}
	for i := len(top) - 1; i >= 0; i-- {
		names = append(names, top[i])
	}
	return squadronOf(names...)
}

// runMatch runs a scripted match to completion and returns the logger.
func runMatch(t *testing.T, cfg MatchConfig, p0, p1 *ScriptedController) *log.MemoryLogger {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 30
	}
	m := NewMatch(cfg, p0, p1)
	winner, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", logger.FormatAll())
		t.Fatalf("match error: %v", err)
	}
	t.Logf("match result: winner=%d (%s)", winner, m.State.Result)
	return logger
}

// directMatch builds a match with nil controllers for tests that feed payloads
// straight into ExecuteAction.
func directMatch(t *testing.T, deck0, deck1 []*Card) *Match {
	t.Helper()
	m := NewMatch(MatchConfig{
		Squadron0: deck0,
		Squadron1: deck1,
		Logger:    log.NewMemoryLogger(),
		NoShuffle: true,
	}, nil, nil)
	if err := m.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return m
}

// playCard previews the named card from the player's hand, drives the chain,
// and executes the resulting payload.
func playCard(t *testing.T, m *Match, player int, name string, drive func(t *testing.T, chain *ChainController)) {
	t.Helper()
	p := m.State.Players[player]
	var ci *CardInstance
	for _, c := range p.Hand {
		if c.Card.Name == name {
			ci = c
			break
		}
	}
	if ci == nil {
		t.Fatalf("card %q not in hand", name)
	}
	payload := &ActionPayload{Type: ActionPlayCard, Player: player, CardID: ci.ID}
	chain, err := m.PreviewChain(player, payload)
	if err != nil {
		t.Fatalf("preview %s: %v", name, err)
	}
	if drive == nil {
		drive = autoDrive
	}
	drive(t, chain)
	payload.Selections = chain.Steps()
	if err := m.ExecuteAction(payload); err != nil {
		t.Fatalf("execute %s: %v", name, err)
	}
}
