package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
// The chain selection protocol runs server side: the controller walks a
// preview chain against live state and sends the client one numbered prompt
// per selection, so the client stays a dumb terminal.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements game.PlayerController. It loops until the client
// commits a complete payload: cancelling a pending chain returns to the
// action menu with nothing spent and nothing mutated.
func (nc *NetworkController) ChooseAction(ctx context.Context, m *game.Match, actions []game.ActionOption) (*game.ActionPayload, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	for {
		var views []ActionView
		for i, a := range actions {
			views = append(views, ActionView{Index: i, Desc: a.String()})
		}
		if err := nc.send(ServerMessage{Type: "choose_action", Actions: views, State: BuildStateView(m, nc.player)}); err != nil {
			return nil, fmt.Errorf("send choose_action: %w", err)
		}
		resp, err := nc.recvHandlingSync(m)
		if err != nil {
			return nil, fmt.Errorf("recv action: %w", err)
		}
		if resp.Index < 0 || resp.Index >= len(actions) {
			continue
		}
		chosen := actions[resp.Index]
		payload := &game.ActionPayload{
			Type:    chosen.Type,
			Player:  nc.player,
			CardID:  chosen.CardID,
			DroneID: chosen.DroneID,
		}
		if chosen.Type == game.ActionEndTurn {
			return payload, nil
		}

		done, err := nc.runChainPrompts(m, payload)
		if err != nil {
			return nil, err
		}
		if done {
			return payload, nil
		}
		// Cancelled; back to the action menu.
	}
}

// runChainPrompts walks a preview chain with the client, one prompt per
// selection. Returns false if the client cancelled.
func (nc *NetworkController) runChainPrompts(m *game.Match, payload *game.ActionPayload) (bool, error) {
	chain, err := m.PreviewChain(nc.player, payload)
	if err != nil {
		if game.IsConfigurationError(err) {
			return false, err
		}
		return false, nil
	}
	for chain.Active() {
		snap := chain.Snapshot()
		view := BuildChainView(m, snap)
		if err := nc.send(ServerMessage{Type: "chain_prompt", Chain: view, State: BuildStateView(m, nc.player)}); err != nil {
			return false, fmt.Errorf("send chain_prompt: %w", err)
		}
		resp, err := nc.recvHandlingSync(m)
		if err != nil {
			return false, fmt.Errorf("recv chain_select: %w", err)
		}
		if resp.Cancel {
			chain.CancelEffectChain()
			return false, nil
		}
		switch snap.Phase {
		case game.PhaseTarget:
			if resp.Index < 0 || resp.Index >= len(snap.ValidTargets) {
				continue
			}
			err = chain.SelectChainTarget(snap.ValidTargets[resp.Index])
		case game.PhaseDestination:
			if resp.Index < 0 || resp.Index >= len(snap.ValidDests) {
				continue
			}
			err = chain.SelectChainDestination(snap.ValidDests[resp.Index])
		case game.PhaseMulti:
			for _, idx := range resp.Indices {
				if idx >= 0 && idx < len(snap.ValidTargets) {
					chain.ToggleChainMultiTarget(snap.ValidTargets[idx])
				}
			}
			err = chain.ConfirmChainMultiSelect()
		}
		if err != nil {
			return false, err
		}
	}
	if !chain.Complete() {
		return false, nil
	}
	payload.Selections = chain.Steps()
	return true, nil
}

// recvHandlingSync reads the next client message, answering any state_request
// messages inline so the client can resync at any prompt.
func (nc *NetworkController) recvHandlingSync(m *game.Match) (ClientMessage, error) {
	for {
		msg, err := nc.recv()
		if err != nil {
			return msg, err
		}
		if msg.Type != "state_request" {
			return msg, nil
		}
		data, err := game.MarshalState(m.State)
		if err != nil {
			return msg, err
		}
		digest, err := game.StateDigest(m.State)
		if err != nil {
			return msg, err
		}
		if err := nc.send(ServerMessage{Type: "state_sync", StateData: data, Digest: digest}); err != nil {
			return msg, err
		}
	}
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// SendWelcome sends the match handshake: the client's seat, the match id, and
// the shuffle seed.
func (nc *NetworkController) SendWelcome(matchID string, seed int64) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "welcome", MatchID: matchID, Seed: seed, Player: nc.player})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{
		Type: "notify",
		Event: &EventView{
			Turn:    event.Turn,
			Player:  event.Player,
			Type:    event.Type.String(),
			Card:    event.Card,
			Details: event.Details,
		},
	})
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(m *game.Match, player int) *StateView {
	gs := m.State
	digest, _ := game.StateDigest(gs)
	sv := &StateView{
		Turn:       gs.Turn,
		IsYourTurn: gs.TurnPlayer == player,
		Digest:     digest,
	}
	sv.You = buildPlayerView(gs, player, true)
	sv.Opponent = buildPlayerView(gs, gs.Opponent(player), false)
	return sv
}

func buildPlayerView(gs *game.MatchState, player int, isOwner bool) PlayerView {
	p := gs.Players[player]
	pv := PlayerView{
		Energy:       p.Energy,
		MaxEnergy:    p.ComputedMaxEnergy(),
		Threat:       gs.Meters[player].Level,
		ThreatMax:    gs.Meters[player].Max,
		HandCount:    len(p.Hand),
		DeckCount:    len(p.Deck),
		DiscardCount: len(p.Discard),
	}
	if isOwner {
		for _, c := range p.Hand {
			pv.Hand = append(pv.Hand, c.Card.Name)
		}
	}
	for _, lane := range game.LaneOrder {
		lv := LaneView{
			Lane:        string(lane),
			SectionHull: p.Sections[lane].Hull,
			SectionMax:  p.Sections[lane].MaxHull,
		}
		for _, d := range p.Lanes[lane] {
			lv.Drones = append(lv.Drones, DroneView{
				ID:        d.ID,
				Name:      d.Name,
				Attack:    d.Attack,
				Hull:      d.Hull,
				Shields:   d.Shields,
				Exhausted: d.Exhausted,
			})
		}
		pv.Lanes = append(pv.Lanes, lv)
	}
	return pv
}

// BuildChainView numbers the controller's current candidates for the client.
func BuildChainView(m *game.Match, snap game.Snapshot) *ChainView {
	cv := &ChainView{Phase: string(snap.Phase), Prompt: snap.Prompt}
	for i, t := range snap.ValidTargets {
		cv.Candidates = append(cv.Candidates, targetView(m, i, t))
	}
	for _, d := range snap.ValidDests {
		cv.Dests = append(cv.Dests, string(d))
	}
	for i, t := range snap.ValidTargets {
		for _, p := range snap.Picked {
			if p.Same(t) {
				cv.Picked = append(cv.Picked, i)
			}
		}
	}
	return cv
}

func targetView(m *game.Match, idx int, t game.Target) TargetView {
	tv := TargetView{Index: idx, Kind: string(t.Kind), Lane: string(t.Lane), Owner: t.Owner}
	switch t.Kind {
	case game.TargetDrone:
		if d := m.State.Players[t.Owner].FindDrone(t.ID); d != nil {
			tv.Name = d.Name
			tv.Hull = d.Hull
		}
	case game.TargetCard:
		if c := m.State.Players[t.Owner].FindCard(t.ID); c != nil {
			tv.Name = c.Card.Name
		}
	case game.TargetSection:
		tv.Hull = m.State.Players[t.Owner].Sections[t.Lane].Hull
	}
	return tv
}
