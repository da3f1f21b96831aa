package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/lanefall/lanefall/internal/log"
)

// PlayerController is the interface that human (terminal, WebSocket) and agent
// (MCP) players implement. Controllers produce complete action payloads,
// selection steps included; interactive fronts build them with a preview
// ChainController before committing.
type PlayerController interface {
	// ChooseAction presents the available actions and waits for a payload.
	ChooseAction(ctx context.Context, m *Match, actions []ActionOption) (*ActionPayload, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// ActionOption describes one action currently available to the turn player.
type ActionOption struct {
	Type     string `json:"type"`
	CardID   string `json:"cardId,omitempty"`
	CardName string `json:"cardName,omitempty"`
	DroneID  string `json:"droneId,omitempty"`
	Ability  string `json:"ability,omitempty"`
	Cost     int    `json:"cost,omitempty"`
}

func (a ActionOption) String() string {
	switch a.Type {
	case ActionPlayCard:
		return fmt.Sprintf("play %s (cost %d)", a.CardName, a.Cost)
	case ActionActivateAbility:
		return fmt.Sprintf("activate %s: %s", a.CardName, a.Ability)
	default:
		return "end turn"
	}
}

// MatchState is the full replicated game state. Both peers hold one and apply
// the same action stream to it; the digest of this struct is what they compare.
type MatchState struct {
	Players    [2]*PlayerState
	Meters     [2]*DetectionMeter
	Turn       int
	TurnPlayer int
	Over       bool
	Winner     int // -1 while undecided or on a draw
	Result     string

	// Deterministic instance id counters. Ids are "d1", "d2", ... and
	// "c1", "c2", ... so both peers mint identical ids.
	droneSeq int
	cardSeq  int
}

// NewMatchState creates an empty two-sided state.
func NewMatchState() *MatchState {
	return &MatchState{
		Players: [2]*PlayerState{NewPlayerState(0), NewPlayerState(1)},
		Meters:  [2]*DetectionMeter{NewDetectionMeter(), NewDetectionMeter()},
		Winner:  -1,
	}
}

// Opponent returns the other player index.
func (gs *MatchState) Opponent(p int) int {
	return 1 - p
}

// NextDroneID mints the next deterministic drone instance id.
func (gs *MatchState) NextDroneID() string {
	gs.droneSeq++
	return fmt.Sprintf("d%d", gs.droneSeq)
}

// NextCardID mints the next deterministic card instance id.
func (gs *MatchState) NextCardID() string {
	gs.cardSeq++
	return fmt.Sprintf("c%d", gs.cardSeq)
}

// AddToDeck creates a card instance owned by player p at the bottom of their
// deck.
func (gs *MatchState) AddToDeck(card *Card, p int) *CardInstance {
	ci := &CardInstance{ID: gs.NextCardID(), Card: card, Owner: p}
	gs.Players[p].Deck = append(gs.Players[p].Deck, ci)
	return ci
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Squadron0 []*Card // player 0's squadron (card definitions)
	Squadron1 []*Card // player 1's squadron
	Logger    log.EventLogger
	Seed      int64 // shuffle seed; both peers must use the same one
	NoShuffle bool  // skip squadron shuffle (for deterministic tests)
	MaxTurns  int   // stop after this many turns (0 = default limit)
}

// Match orchestrates an entire match between two players.
type Match struct {
	State       *MatchState
	Controllers [2]PlayerController
	Logger      log.EventLogger

	// Journal receives every executed payload in order, if set. The replay
	// store hangs off this hook.
	Journal func(seq int, payload *ActionPayload)

	ctx      context.Context
	rng      *rand.Rand
	seed     int64
	noShuf   bool
	maxTurns int
	journalN int
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, p0, p1 PlayerController) *Match {
	gs := NewMatchState()
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	for _, card := range cfg.Squadron0 {
		gs.AddToDeck(card, 0)
	}
	for _, card := range cfg.Squadron1 {
		gs.AddToDeck(card, 1)
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 200
	}
	return &Match{
		State:       gs,
		Controllers: [2]PlayerController{p0, p1},
		Logger:      logger,
		ctx:         context.Background(),
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		seed:        cfg.Seed,
		noShuf:      cfg.NoShuffle,
		maxTurns:    maxTurns,
	}
}

// Setup shuffles, deals opening hands, and starts turn one. Replays call it
// directly and then feed journaled payloads through ExecuteAction.
func (m *Match) Setup() error {
	gs := m.State
	m.log(log.NewMatchStartEvent(m.seed))
	if !m.noShuf {
		m.shuffleDeck(0)
		m.shuffleDeck(1)
	}
	for i := 0; i < InitialHandSize; i++ {
		for p := 0; p < 2; p++ {
			if gs.Players[p].DrawCard() == nil {
				return fmt.Errorf("player %d has insufficient cards for initial hand", p)
			}
		}
	}
	m.beginTurn()
	return nil
}

// Run executes the entire match loop. Returns the winner (0, 1, or -1).
func (m *Match) Run(ctx context.Context) (int, error) {
	m.ctx = ctx
	gs := m.State

	if err := m.Setup(); err != nil {
		return -1, err
	}

	for !gs.Over {
		if gs.Turn > m.maxTurns {
			gs.Over = true
			gs.Winner = -1
			gs.Result = fmt.Sprintf("turn limit reached (%d turns)", m.maxTurns)
			break
		}
		if err := m.ctx.Err(); err != nil {
			return -1, err
		}
		actions := m.AvailableActions()
		payload, err := m.Controllers[gs.TurnPlayer].ChooseAction(m.ctx, m, actions)
		if err != nil {
			return -1, fmt.Errorf("player %d controller: %w", gs.TurnPlayer, err)
		}
		if err := m.ExecuteAction(payload); err != nil {
			if IsConfigurationError(err) {
				return -1, err
			}
			// Invalid payloads are dropped and the player re-prompted.
			continue
		}
	}
	return gs.Winner, nil
}

// shuffleDeck permutes a deck with the match's seeded source.
func (m *Match) shuffleDeck(p int) {
	deck := m.State.Players[p].Deck
	m.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// beginTurn runs turn upkeep for the current turn player: increment the turn
// counter, grant income up to the computed cap, ready every drone, draw one.
// Turn income fires no on-gain triggers; only effect-driven gains do.
func (m *Match) beginTurn() {
	gs := m.State
	gs.Turn++
	p := gs.Players[gs.TurnPlayer]

	max := p.ComputedMaxEnergy()
	income := TurnEnergyIncome
	if p.Energy+income > max {
		income = max - p.Energy
	}
	if income > 0 {
		p.Energy += income
	}
	for _, lane := range LaneOrder {
		for _, d := range p.Lanes[lane] {
			d.Exhausted = false
		}
	}
	m.log(log.NewTurnEvent(gs.Turn, gs.TurnPlayer, p.Energy))
	if card := p.DrawCard(); card != nil {
		m.log(log.NewDrawEvent(gs.Turn, gs.TurnPlayer, card.Card.Name))
	}
}

// AvailableActions lists what the turn player can legally do right now.
func (m *Match) AvailableActions() []ActionOption {
	gs := m.State
	p := gs.Players[gs.TurnPlayer]
	var out []ActionOption
	for _, ci := range p.Hand {
		if ci.Card.Cost <= p.Energy {
			out = append(out, ActionOption{Type: ActionPlayCard, CardID: ci.ID, CardName: ci.Card.Name, Cost: ci.Card.Cost})
		}
	}
	for _, lane := range LaneOrder {
		for _, d := range p.Lanes[lane] {
			if !d.Exhausted && d.Ability != nil {
				out = append(out, ActionOption{Type: ActionActivateAbility, DroneID: d.ID, CardName: d.Name, Ability: d.Ability.Name})
			}
		}
	}
	out = append(out, ActionOption{Type: ActionEndTurn})
	return out
}

// ExecuteAction validates and applies one complete action payload. This is the
// single state-advancing entry point: local play, remote peers, agents, and
// journal replay all come through here, so every replica of the match applies
// the identical operation stream.
func (m *Match) ExecuteAction(payload *ActionPayload) error {
	gs := m.State
	if payload == nil || gs.Over {
		return ErrInvalidAction
	}
	if payload.Player != gs.TurnPlayer {
		return fmt.Errorf("%w: not player %d's turn", ErrInvalidAction, payload.Player)
	}
	var err error
	switch payload.Type {
	case ActionEndTurn:
		m.log(log.NewEndTurnEvent(gs.Turn, gs.TurnPlayer))
		gs.TurnPlayer = gs.Opponent(gs.TurnPlayer)
		m.beginTurn()
	case ActionPlayCard:
		err = m.executePlayCard(payload)
	case ActionActivateAbility:
		err = m.executeAbility(payload)
	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, payload.Type)
	}
	if err != nil {
		return err
	}
	if m.Journal != nil {
		m.journalN++
		m.Journal(m.journalN, payload)
	}
	m.checkWin()
	return nil
}

func (m *Match) executePlayCard(payload *ActionPayload) error {
	gs := m.State
	actor := gs.Players[payload.Player]
	opponent := gs.Players[gs.Opponent(payload.Player)]

	ci := actor.FindCard(payload.CardID)
	if ci == nil {
		return fmt.Errorf("%w: card %q not in hand", ErrInvalidAction, payload.CardID)
	}
	if ci.Card.Cost > actor.Energy {
		return fmt.Errorf("%w: cannot afford %s", ErrInvalidAction, ci.Card.Name)
	}

	// Pay the cost and bin the card on a working copy, then resolve the
	// chain against that copy. Nothing touches gs until the whole chain
	// applied cleanly.
	pre := actor.Clone()
	pre.Energy -= ci.Card.Cost
	played := pre.RemoveFromHand(ci.ID)
	pre.Discard = append(pre.Discard, played)

	env := &chainEnv{actor: pre, opponent: opponent, tracker: NewPositionTracker(), excludeCardID: ci.ID}
	chain := NewChainController()
	if err := chain.StartEffectChain(env, ci.Card.Definition(), nil, ""); err != nil {
		return err
	}
	if err := chain.Replay(payload.Selections); err != nil {
		return err
	}
	newActor, newOpp, newMeter, events, err := ApplyChain(pre, opponent, gs.Meters[payload.Player], ci.Card.Definition(), chain.Selections(), m.mintID)
	if err != nil {
		return err
	}

	gs.Players[payload.Player] = newActor
	gs.Players[gs.Opponent(payload.Player)] = newOpp
	gs.Meters[payload.Player] = newMeter
	m.log(log.NewPlayCardEvent(gs.Turn, payload.Player, ci.Card.Name, ci.Card.Cost))
	m.logAnimations(events)
	return nil
}

func (m *Match) executeAbility(payload *ActionPayload) error {
	gs := m.State
	actor := gs.Players[payload.Player]
	opponent := gs.Players[gs.Opponent(payload.Player)]

	d := actor.FindDrone(payload.DroneID)
	if d == nil || d.Ability == nil {
		return fmt.Errorf("%w: drone %q has no ability", ErrInvalidAction, payload.DroneID)
	}
	if d.Exhausted {
		return fmt.Errorf("%w: %s is exhausted", ErrInvalidAction, d.Name)
	}
	lane, _ := actor.DroneLane(d.ID)

	pre := actor.Clone()
	pre.FindDrone(d.ID).Exhausted = true

	env := &chainEnv{actor: pre, opponent: opponent, tracker: NewPositionTracker()}
	chain := NewChainController()
	if err := chain.StartEffectChain(env, d.Ability, nil, lane); err != nil {
		return err
	}
	if err := chain.Replay(payload.Selections); err != nil {
		return err
	}
	newActor, newOpp, newMeter, events, err := ApplyChain(pre, opponent, gs.Meters[payload.Player], d.Ability, chain.Selections(), m.mintID)
	if err != nil {
		return err
	}

	gs.Players[payload.Player] = newActor
	gs.Players[gs.Opponent(payload.Player)] = newOpp
	gs.Meters[payload.Player] = newMeter
	m.log(log.NewAbilityEvent(gs.Turn, payload.Player, d.Name, d.Ability.Name))
	m.logAnimations(events)
	return nil
}

// PreviewChain starts a selection-only chain for interactive fronts to walk
// before committing a payload. It never touches match state; callers take the
// controller's Steps() once complete and submit them as the payload.
func (m *Match) PreviewChain(player int, payload *ActionPayload) (*ChainController, error) {
	gs := m.State
	actor := gs.Players[player]
	opponent := gs.Players[gs.Opponent(player)]
	chain := NewChainController()
	switch payload.Type {
	case ActionPlayCard:
		ci := actor.FindCard(payload.CardID)
		if ci == nil || ci.Card.Cost > actor.Energy {
			return nil, ErrInvalidAction
		}
		env := &chainEnv{actor: actor, opponent: opponent, tracker: NewPositionTracker(), excludeCardID: ci.ID}
		if err := chain.StartEffectChain(env, ci.Card.Definition(), nil, ""); err != nil {
			return nil, err
		}
	case ActionActivateAbility:
		d := actor.FindDrone(payload.DroneID)
		if d == nil || d.Ability == nil || d.Exhausted {
			return nil, ErrInvalidAction
		}
		lane, _ := actor.DroneLane(d.ID)
		env := &chainEnv{actor: actor, opponent: opponent, tracker: NewPositionTracker()}
		if err := chain.StartEffectChain(env, d.Ability, nil, lane); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidAction
	}
	return chain, nil
}

func (m *Match) mintID(prefix string) string {
	if prefix == "c" {
		return m.State.NextCardID()
	}
	return m.State.NextDroneID()
}

// checkWin applies the two terminal conditions: all three of a player's ship
// sections destroyed, or a player's own detection meter saturated.
func (m *Match) checkWin() {
	gs := m.State
	if gs.Over {
		return
	}
	for p := 0; p < 2; p++ {
		if gs.Meters[p].Saturated() {
			gs.Over = true
			gs.Winner = gs.Opponent(p)
			gs.Result = fmt.Sprintf("P%d's run failed: detection meter saturated", p+1)
			m.log(log.NewWinEvent(gs.Turn, gs.Winner, gs.Result))
			return
		}
	}
	for p := 0; p < 2; p++ {
		if gs.Players[p].SectionsDestroyed() {
			gs.Over = true
			gs.Winner = gs.Opponent(p)
			gs.Result = fmt.Sprintf("P%d's ship sections are all destroyed", p+1)
			m.log(log.NewWinEvent(gs.Turn, gs.Winner, gs.Result))
			return
		}
	}
}

// logAnimations translates ordered animation events into the game log.
func (m *Match) logAnimations(events []AnimationEvent) {
	turn := m.State.Turn
	for _, ev := range events {
		switch ev.Kind {
		case AnimDamage:
			m.log(log.NewDroneDamageEvent(turn, ev.Owner, ev.Name, ev.Amount))
		case AnimShieldAbsorb:
			m.log(log.NewShieldAbsorbEvent(turn, ev.Owner, ev.Name, ev.Amount))
		case AnimDroneDestroyed:
			m.log(log.NewDroneDestroyedEvent(turn, ev.Owner, ev.Name))
		case AnimSectionDamage:
			m.log(log.NewSectionDamageEvent(turn, ev.Owner, string(ev.Lane), ev.Amount))
		case AnimSectionDestroyed:
			m.log(log.NewSectionDestroyedEvent(turn, ev.Owner, string(ev.Lane)))
		case AnimSectionRepair:
			m.log(log.NewSectionRepairEvent(turn, ev.Owner, string(ev.Lane), ev.Amount))
		case AnimEnergyGain:
			m.log(log.NewEnergyGainEvent(turn, ev.Owner, ev.Amount))
		case AnimEnergyDrain:
			m.log(log.NewEnergyDrainEvent(turn, ev.Owner, ev.Amount))
		case AnimThreat:
			m.log(log.NewThreatEvent(turn, ev.Owner, ev.Amount, m.State.Meters[ev.Owner].Level))
		case AnimRunFailure:
			m.log(log.NewRunFailureEvent(turn, ev.Owner))
		case AnimMove:
			m.log(log.NewMoveEvent(turn, ev.Owner, ev.Name, string(ev.Lane)))
		case AnimDeploy:
			m.log(log.NewDeployEvent(turn, ev.Owner, ev.Name, string(ev.Lane)))
		case AnimExhaust:
			m.log(log.NewExhaustEvent(turn, ev.Owner, ev.Name))
		case AnimReady:
			m.log(log.NewReadyEvent(turn, ev.Owner, ev.Name))
		case AnimDraw:
			m.log(log.GameEvent{Turn: turn, Player: ev.Owner, Type: log.EventDraw, Details: fmt.Sprintf("P%d draws a card", ev.Owner+1)})
		case AnimDiscard:
			m.log(log.NewDiscardEvent(turn, ev.Owner, ev.Name))
		}
	}
}

func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	for p := 0; p < 2; p++ {
		if m.Controllers[p] != nil {
			_ = m.Controllers[p].Notify(m.ctx, event)
		}
	}
}
