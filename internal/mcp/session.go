package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	lfnet "github.com/lanefall/lanefall/internal/net"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"

	stdnet "net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction     DecisionType = "choose_action"
	DecisionChainTarget      DecisionType = "chain_target"
	DecisionChainDestination DecisionType = "chain_destination"
	DecisionChainMulti       DecisionType = "chain_multi"
	DecisionGameOver         DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type    DecisionType       `json:"type"`
	Player  int                `json:"player"`
	State   *lfnet.StateView   `json:"state"`
	Actions []lfnet.ActionView `json:"actions,omitempty"`
	Chain   *lfnet.ChainView   `json:"chain,omitempty"`
}

// Response types sent back from MCP tools to the agent controller.

type ActionResponse struct {
	Index int
}

type ChainResponse struct {
	Index   int
	Indices []int
	Cancel  bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []lfnet.EventView `json:"events"`
	State    *lfnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView      `json:"pending,omitempty"`
	GameOver bool              `json:"game_over"`
	Winner   int               `json:"winner,omitempty"`
	Result   string            `json:"result,omitempty"`
	Port     string            `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType       `json:"type"`
	ForPlayer string             `json:"for_player"`
	Actions   []lfnet.ActionView `json:"actions,omitempty"`
	Chain     *lfnet.ChainView   `json:"chain,omitempty"`
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	match       *game.Match
	agentCtrl   *AgentController
	humanCtrl   *lfnet.NetworkController
	agentPlayer int

	listener  stdnet.Listener
	humanConn stdnet.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []lfnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession creates a new game session. It starts a TCP listener, waits
// for the human player to connect via `lanefall-cli join`, then starts the
// match.
func NewGameSession(squadronFile string, agentSquadron, agentPlayer int, port string) (*GameSession, error) {
	_, agentCards, err := game.SquadronByNumber(squadronFile, agentSquadron)
	if err != nil {
		return nil, fmt.Errorf("load agent squadron: %w", err)
	}

	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", port, err)
	}
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	dec := json.NewDecoder(conn)
	var joinMsg lfnet.ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}
	humanSquadron := joinMsg.SquadronNumber
	if humanSquadron == 0 {
		humanSquadron = 2
	}
	_, humanCards, err := game.SquadronByNumber(squadronFile, humanSquadron)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("load human squadron: %w", err)
	}

	sess := &GameSession{
		agentPlayer: agentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      -1,
		listener:    ln,
		humanConn:   conn,
	}

	humanPlayer := 1 - agentPlayer
	sess.agentCtrl = NewAgentController(agentPlayer, sess)
	sess.humanCtrl = lfnet.NewNetworkController(conn, humanPlayer)

	var squadron0, squadron1 []*game.Card
	var ctrl0, ctrl1 game.PlayerController
	if agentPlayer == 0 {
		squadron0, squadron1 = agentCards, humanCards
		ctrl0, ctrl1 = sess.agentCtrl, sess.humanCtrl
	} else {
		squadron0, squadron1 = humanCards, agentCards
		ctrl0, ctrl1 = sess.humanCtrl, sess.agentCtrl
	}

	sess.match = game.NewMatch(game.MatchConfig{
		Squadron0: squadron0,
		Squadron1: squadron1,
		Logger:    log.NewMemoryLogger(),
	}, ctrl0, ctrl1)

	go func() {
		winner, err := sess.match.Run(context.Background())
		if err != nil {
			sess.mu.Lock()
			sess.gameOver = true
			sess.result = fmt.Sprintf("error: %v", err)
			sess.mu.Unlock()
		}

		result := sess.match.State.Result
		if result == "" {
			result = fmt.Sprintf("Game over. Winner: player %d", winner)
		}

		_ = sess.humanCtrl.SendGameOver(winner, result)
		sess.humanConn.Close()
		sess.listener.Close()

		sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: winner,
			State:  lfnet.BuildStateView(sess.match, sess.agentPlayer),
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()
	}()

	return sess, nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev lfnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []lfnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events plus the pending decision.
func (s *GameSession) waitForPending() (*ToolResponse, error) {
	pending := <-s.pendingCh
	s.currentPending = pending

	resp := &ToolResponse{Events: s.drainEvents()}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		resp.State = pending.State
		return resp, nil
	}

	resp.State = pending.State
	resp.Pending = &PendingView{
		Type:      pending.Type,
		ForPlayer: s.playerLabel(pending.Player),
		Actions:   pending.Actions,
		Chain:     pending.Chain,
	}
	return resp, nil
}

// playerLabel returns "agent" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
