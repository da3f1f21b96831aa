package net

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "welcome"
	MatchID string `json:"match_id,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
	Player  int    `json:"player,omitempty"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "chain_prompt"
	Chain *ChainView `json:"chain,omitempty"`

	// For "state_sync": the full canonical state, and its digest so the
	// client can verify what it received.
	StateData []byte `json:"state_data,omitempty"`
	Digest    string `json:"digest,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// ChainView presents one selection prompt of an active chain: numbered
// candidates, plus which sub-phase the chain is in.
type ChainView struct {
	Phase      string       `json:"phase"` // "target", "destination", "multi_target"
	Prompt     string       `json:"prompt"`
	Candidates []TargetView `json:"candidates,omitempty"`
	Dests      []string     `json:"dests,omitempty"`
	Picked     []int        `json:"picked,omitempty"` // candidate indexes already toggled on
}

// TargetView describes a numbered targeting candidate.
type TargetView struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Lane  string `json:"lane,omitempty"`
	Owner int    `json:"owner"`
	Hull  int    `json:"hull,omitempty"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	IsYourTurn bool       `json:"is_your_turn"`
	Digest     string     `json:"digest,omitempty"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Energy       int        `json:"energy"`
	MaxEnergy    int        `json:"max_energy"`
	Threat       int        `json:"threat"`
	ThreatMax    int        `json:"threat_max"`
	HandCount    int        `json:"hand_count"`
	Hand         []string   `json:"hand,omitempty"` // card names (only for "you")
	Lanes        []LaneView `json:"lanes"`
	DeckCount    int        `json:"deck_count"`
	DiscardCount int        `json:"discard_count"`
}

// LaneView shows one lane: its drones front to back and the section behind it.
type LaneView struct {
	Lane        string      `json:"lane"`
	Drones      []DroneView `json:"drones"`
	SectionHull int         `json:"section_hull"`
	SectionMax  int         `json:"section_max"`
}

// DroneView describes a single drone on the board.
type DroneView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Attack    int    `json:"attack"`
	Hull      int    `json:"hull"`
	Shields   int    `json:"shields"`
	Exhausted bool   `json:"exhausted,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action" and "chain_select"
	Index int `json:"index,omitempty"`

	// For "chain_select" in a multi-target sub-phase
	Indices []int `json:"indices,omitempty"`

	// For "chain_select": abandon the pending chain and re-choose
	Cancel bool `json:"cancel,omitempty"`

	// For "join" (initial handshake)
	SquadronNumber int `json:"squadron_number,omitempty"`

	// For "state_request"
}
