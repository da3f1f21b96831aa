package game

import (
	"strings"
	"testing"
)

func TestStateRoundTripPreservesDigest(t *testing.T) {
	m := directMatch(t,
		paddedSquadron([]string{"Talon Interceptor", "Dynamo Skiff"}, 14),
		paddedSquadron([]string{"Specter Scout"}, 14))
	playCard(t, m, 0, "Talon Interceptor", nil)
	if err := m.ExecuteAction(&ActionPayload{Type: ActionEndTurn, Player: 0}); err != nil {
		t.Fatal(err)
	}
	playCard(t, m, 1, "Specter Scout", nil)

	want, err := StateDigest(m.State)
	if err != nil {
		t.Fatal(err)
	}

	data, err := MarshalState(m.State)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := UnmarshalState(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := StateDigest(rebuilt)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip changed the digest:\n%s\nvs\n%s", want, got)
	}
}

func TestUnmarshalRebindsAuthoredData(t *testing.T) {
	gs := NewMatchState()
	gs.Players[0].AddDrone(Lane1, DroneSpecs["Talon Interceptor"].Instantiate(gs.NextDroneID()))
	gs.Players[1].AddDrone(Lane2, DroneSpecs["Dynamo Skiff"].Instantiate(gs.NextDroneID()))
	gs.AddToDeck(LookupCard("Surge Cells"), 0)

	data, err := MarshalState(gs)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := UnmarshalState(data)
	if err != nil {
		t.Fatal(err)
	}

	talon := rebuilt.Players[0].Lanes[Lane1][0]
	if talon.Ability == nil || talon.Ability.Name != "Strafe" {
		t.Error("drone abilities should be rebound from the spec table")
	}
	skiff := rebuilt.Players[1].Lanes[Lane2][0]
	if len(skiff.OnEnergyGained) == 0 {
		t.Error("on-gain triggers should be rebound from the spec table")
	}
	if rebuilt.Players[0].Deck[0].Card.Cost != 1 {
		t.Error("cards should be rebound from the registry by name")
	}
}

func TestUnmarshalRejectsUnknownCard(t *testing.T) {
	gs := NewMatchState()
	gs.AddToDeck(LookupCard("Surge Cells"), 0)
	data, err := MarshalState(gs)
	if err != nil {
		t.Fatal(err)
	}
	bad := strings.Replace(string(data), "Surge Cells", "Counterfeit Cells", 1)
	if _, err := UnmarshalState([]byte(bad)); err == nil {
		t.Error("unknown card names must be rejected")
	}
}

func TestUnmarshalRejectsUnknownLane(t *testing.T) {
	gs := NewMatchState()
	data, err := MarshalState(gs)
	if err != nil {
		t.Fatal(err)
	}
	bad := strings.ReplaceAll(string(data), `"lane1"`, `"lane9"`)
	if _, err := UnmarshalState([]byte(bad)); err == nil {
		t.Error("unknown lanes must be rejected")
	}
}

func TestDigestTracksMintedIDs(t *testing.T) {
	gs := NewMatchState()
	before, err := StateDigest(gs)
	if err != nil {
		t.Fatal(err)
	}
	// Mint and immediately discard an id. The counters are replicated state,
	// so the digest must move.
	gs.NextDroneID()
	after, err := StateDigest(gs)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("id counters should be part of the digest")
	}
}
