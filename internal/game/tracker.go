package game

// PositionTracker overlays in-chain movement and discards on top of the board
// snapshot a chain was started from. Targeting consults it so "current lane"
// always means the lane a drone would be in if the pending chain resolved,
// without mutating real state before the chain completes.
type PositionTracker struct {
	dronePositions   map[string]LaneID
	discardedCardIDs map[string]bool
}

// NewPositionTracker returns an empty overlay.
func NewPositionTracker() *PositionTracker {
	return &PositionTracker{
		dronePositions:   make(map[string]LaneID),
		discardedCardIDs: make(map[string]bool),
	}
}

// RecordMove notes that a drone will occupy a new lane once the chain applies.
// Later moves of the same drone overwrite earlier ones.
func (t *PositionTracker) RecordMove(droneID string, to LaneID) {
	t.dronePositions[droneID] = to
}

// RecordDiscard notes that a card in hand has been committed to the discard
// pile by an earlier effect in the chain.
func (t *PositionTracker) RecordDiscard(cardID string) {
	t.discardedCardIDs[cardID] = true
}

// DronePosition returns the drone's effective lane: the pending in-chain
// position if one was recorded, otherwise the board position. ok is false if
// the drone is on neither.
func (t *PositionTracker) DronePosition(ps *PlayerState, droneID string) (LaneID, bool) {
	if lane, ok := t.dronePositions[droneID]; ok {
		return lane, true
	}
	lane, idx := ps.DroneLane(droneID)
	if idx < 0 {
		return "", false
	}
	return lane, true
}

// IsCardDiscarded reports whether an earlier effect already committed the card
// to the discard pile. Such cards are excluded from CARD_IN_HAND candidates.
func (t *PositionTracker) IsCardDiscarded(cardID string) bool {
	return t.discardedCardIDs[cardID]
}
