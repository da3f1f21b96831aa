package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// The wire form is the canonical serialization of a MatchState: fixed field
// order, lanes in board order, cards flattened to instance id plus name. Both
// the state digest and the resync payload are built from it, so a host and a
// guest that agree on the digest can exchange full states losslessly.

type cardWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type laneWire struct {
	Lane   LaneID   `json:"lane"`
	Drones []*Drone `json:"drones"`
}

type playerWire struct {
	ID        int            `json:"id"`
	Energy    int            `json:"energy"`
	MaxEnergy int            `json:"maxEnergy"`
	Hand      []cardWire     `json:"hand"`
	Deck      []cardWire     `json:"deck"`
	Discard   []cardWire     `json:"discard"`
	Lanes     []laneWire     `json:"lanes"`
	Sections  []*ShipSection `json:"sections"`
}

type stateWire struct {
	Turn       int                `json:"turn"`
	TurnPlayer int                `json:"turnPlayer"`
	Players    [2]playerWire      `json:"players"`
	Meters     [2]*DetectionMeter `json:"meters"`
	DroneSeq   int                `json:"droneSeq"`
	CardSeq    int                `json:"cardSeq"`
	Over       bool               `json:"over"`
	Winner     int                `json:"winner"`
	Result     string             `json:"result,omitempty"`
}

func wireCards(cards []*CardInstance) []cardWire {
	out := make([]cardWire, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardWire{ID: c.ID, Name: c.Card.Name})
	}
	return out
}

func wirePlayer(p *PlayerState) playerWire {
	w := playerWire{
		ID:        p.ID,
		Energy:    p.Energy,
		MaxEnergy: p.MaxEnergy,
		Hand:      wireCards(p.Hand),
		Deck:      wireCards(p.Deck),
		Discard:   wireCards(p.Discard),
	}
	for _, lane := range LaneOrder {
		w.Lanes = append(w.Lanes, laneWire{Lane: lane, Drones: append([]*Drone(nil), p.Lanes[lane]...)})
		w.Sections = append(w.Sections, p.Sections[lane])
	}
	return w
}

// MarshalState serializes a MatchState to its canonical wire form.
func MarshalState(gs *MatchState) ([]byte, error) {
	w := stateWire{
		Turn:       gs.Turn,
		TurnPlayer: gs.TurnPlayer,
		Players:    [2]playerWire{wirePlayer(gs.Players[0]), wirePlayer(gs.Players[1])},
		Meters:     gs.Meters,
		DroneSeq:   gs.droneSeq,
		CardSeq:    gs.cardSeq,
		Over:       gs.Over,
		Winner:     gs.Winner,
		Result:     gs.Result,
	}
	return json.Marshal(w)
}

// UnmarshalState rebuilds a MatchState from its wire form. Card and drone
// definitions are re-resolved from the registry by name, so peers only ever
// exchange names and instance ids, never authored data.
func UnmarshalState(data []byte) (*MatchState, error) {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	gs := &MatchState{
		Turn:       w.Turn,
		TurnPlayer: w.TurnPlayer,
		Meters:     w.Meters,
		droneSeq:   w.DroneSeq,
		cardSeq:    w.CardSeq,
		Over:       w.Over,
		Winner:     w.Winner,
		Result:     w.Result,
	}
	for i := 0; i < 2; i++ {
		p, err := unwirePlayer(w.Players[i])
		if err != nil {
			return nil, err
		}
		gs.Players[i] = p
	}
	return gs, nil
}

func unwirePlayer(w playerWire) (*PlayerState, error) {
	p := NewPlayerState(w.ID)
	p.Energy = w.Energy
	p.MaxEnergy = w.MaxEnergy
	var err error
	if p.Hand, err = unwireCards(w.Hand, w.ID); err != nil {
		return nil, err
	}
	if p.Deck, err = unwireCards(w.Deck, w.ID); err != nil {
		return nil, err
	}
	if p.Discard, err = unwireCards(w.Discard, w.ID); err != nil {
		return nil, err
	}
	for _, lw := range w.Lanes {
		if !ValidLane(lw.Lane) {
			return nil, fmt.Errorf("unmarshal state: unknown lane %q", lw.Lane)
		}
		drones := make([]*Drone, 0, len(lw.Drones))
		for _, d := range lw.Drones {
			spec, ok := DroneSpecs[d.Name]
			if !ok {
				return nil, fmt.Errorf("unmarshal state: unknown drone %q", d.Name)
			}
			d.Ability = spec.Ability
			d.OnEnergyGained = spec.OnEnergyGained
			drones = append(drones, d)
		}
		p.Lanes[lw.Lane] = drones
	}
	for _, s := range w.Sections {
		if !ValidLane(s.Lane) {
			return nil, fmt.Errorf("unmarshal state: unknown section lane %q", s.Lane)
		}
		p.Sections[s.Lane] = s
	}
	return p, nil
}

func unwireCards(cards []cardWire, owner int) ([]*CardInstance, error) {
	out := make([]*CardInstance, 0, len(cards))
	for _, cw := range cards {
		ctor, ok := CardRegistry[cw.Name]
		if !ok {
			return nil, fmt.Errorf("unmarshal state: unknown card %q", cw.Name)
		}
		out = append(out, &CardInstance{ID: cw.ID, Card: ctor(), Owner: owner})
	}
	return out, nil
}

// StateDigest hashes the canonical wire form. Two peers whose digests match
// hold byte-identical replicated state.
func StateDigest(gs *MatchState) (string, error) {
	data, err := MarshalState(gs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
