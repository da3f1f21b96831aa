package mcp

import (
	"context"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"
	"github.com/lanefall/lanefall/internal/net"
)

// AgentController implements game.PlayerController by posting decisions to
// the MCP session's pending channel and blocking on a response channel. The
// chain selection loop runs here, one tool round-trip per prompt, exactly
// mirroring the network controller's protocol.
type AgentController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewAgentController creates a controller for the given player.
func NewAgentController(player int, session *GameSession) *AgentController {
	return &AgentController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// ChooseAction implements game.PlayerController.
func (c *AgentController) ChooseAction(ctx context.Context, m *game.Match, actions []game.ActionOption) (*game.ActionPayload, error) {
	for {
		var views []net.ActionView
		for i, a := range actions {
			views = append(views, net.ActionView{Index: i, Desc: a.String()})
		}
		c.session.pendingCh <- &PendingDecision{
			Type:    DecisionChooseAction,
			Player:  c.player,
			State:   net.BuildStateView(m, c.player),
			Actions: views,
		}
		ar := (<-c.responseCh).(ActionResponse)
		if ar.Index < 0 || ar.Index >= len(actions) {
			continue
		}
		chosen := actions[ar.Index]
		payload := &game.ActionPayload{
			Type:    chosen.Type,
			Player:  c.player,
			CardID:  chosen.CardID,
			DroneID: chosen.DroneID,
		}
		if chosen.Type == game.ActionEndTurn {
			return payload, nil
		}
		done, err := c.runChain(m, payload)
		if err != nil {
			return nil, err
		}
		if done {
			return payload, nil
		}
	}
}

// runChain walks a preview chain one pending decision per prompt. Returns
// false if the agent cancelled.
func (c *AgentController) runChain(m *game.Match, payload *game.ActionPayload) (bool, error) {
	chain, err := m.PreviewChain(c.player, payload)
	if err != nil {
		if game.IsConfigurationError(err) {
			return false, err
		}
		return false, nil
	}
	for chain.Active() {
		snap := chain.Snapshot()
		decision := DecisionChainTarget
		switch snap.Phase {
		case game.PhaseDestination:
			decision = DecisionChainDestination
		case game.PhaseMulti:
			decision = DecisionChainMulti
		}
		c.session.pendingCh <- &PendingDecision{
			Type:   decision,
			Player: c.player,
			State:  net.BuildStateView(m, c.player),
			Chain:  net.BuildChainView(m, snap),
		}
		cr := (<-c.responseCh).(ChainResponse)
		if cr.Cancel {
			chain.CancelEffectChain()
			return false, nil
		}
		switch snap.Phase {
		case game.PhaseTarget:
			if cr.Index < 0 || cr.Index >= len(snap.ValidTargets) {
				continue
			}
			err = chain.SelectChainTarget(snap.ValidTargets[cr.Index])
		case game.PhaseDestination:
			if cr.Index < 0 || cr.Index >= len(snap.ValidDests) {
				continue
			}
			err = chain.SelectChainDestination(snap.ValidDests[cr.Index])
		case game.PhaseMulti:
			for _, idx := range cr.Indices {
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

// Notify implements game.PlayerController.
// Only the agent controller appends events to avoid duplicates.
func (c *AgentController) Notify(ctx context.Context, event log.GameEvent) error {
	if c.player == c.session.agentPlayer {
		c.session.appendEvent(net.EventView{
			Turn:    event.Turn,
			Player:  event.Player,
			Type:    event.Type.String(),
			Card:    event.Card,
			Details: event.Details,
		})
	}
	return nil
}
