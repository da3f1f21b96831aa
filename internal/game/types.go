package game

// --- Lanes ---

// LaneID identifies one of the three combat lanes.
type LaneID string

const (
	Lane1 LaneID = "lane1"
	Lane2 LaneID = "lane2"
	Lane3 LaneID = "lane3"
)

// LaneOrder fixes board iteration order. Every loop over lanes goes through
// this slice so resolution never depends on map iteration order; host and
// guest must walk the board identically.
var LaneOrder = []LaneID{Lane1, Lane2, Lane3}

// ValidLane reports whether the id names a real lane.
func ValidLane(lane LaneID) bool {
	return lane == Lane1 || lane == Lane2 || lane == Lane3
}

// AdjacentLanes returns the lanes bordering the given lane, in board order.
func AdjacentLanes(lane LaneID) []LaneID {
	switch lane {
	case Lane1:
		return []LaneID{Lane2}
	case Lane2:
		return []LaneID{Lane1, Lane3}
	case Lane3:
		return []LaneID{Lane2}
	default:
		return nil
	}
}

// --- Effect vocabulary ---

// EffectType categorizes the declarative effects a card or ability may carry.
// The values match the authored-data literals used in card definitions.
type EffectType string

const (
	EffectDamage         EffectType = "DAMAGE"
	EffectDamageScaling  EffectType = "DAMAGE_SCALING"
	EffectSplashDamage   EffectType = "SPLASH_DAMAGE"
	EffectOverflowDamage EffectType = "OVERFLOW_DAMAGE"
	EffectDestroy        EffectType = "DESTROY"
	EffectGainEnergy     EffectType = "GAIN_ENERGY"
	EffectDrainEnergy    EffectType = "DRAIN_ENERGY"
	EffectIncreaseThreat EffectType = "INCREASE_THREAT"
	EffectSingleMove     EffectType = "SINGLE_MOVE"
	EffectDeploy         EffectType = "DEPLOY"
	EffectExhaust        EffectType = "EXHAUST"
	EffectReady          EffectType = "READY"
	EffectRepairSection  EffectType = "REPAIR_SECTION"
	EffectDraw           EffectType = "DRAW"
	EffectDiscard        EffectType = "DISCARD"
)

// TargetingType selects which targeting processor resolves candidates.
type TargetingType string

const (
	TargetingNone        TargetingType = "NONE"
	TargetingDrone       TargetingType = "DRONE"
	TargetingMultiDrone  TargetingType = "MULTI_DRONE"
	TargetingLane        TargetingType = "LANE"
	TargetingShipSection TargetingType = "SHIP_SECTION"
	TargetingCardInHand  TargetingType = "CARD_IN_HAND"
)

// Affinity restricts candidates by side, relative to the acting player.
type Affinity string

const (
	AffinityFriendly Affinity = "FRIENDLY"
	AffinityEnemy    Affinity = "ENEMY"
	AffinityAny      Affinity = "ANY"
)

// Location literals. A Location may also be a lane id or a back-reference.
const (
	LocationAnyLane  = "ANY_LANE"
	LocationSameLane = "SAME_LANE"

	// DestAdjacent restricts move destinations to lanes adjacent to the
	// selected drone's current lane.
	DestAdjacent = "ADJACENT_TO_PRIMARY"
)

// DamageType distinguishes how damage interacts with shields.
type DamageType string

const (
	DamageStandard DamageType = "" // shields absorb first
	DamagePiercing DamageType = "PIERCING"
)

// Scope widens a damage effect from a single target to a filtered set.
type Scope string

const (
	ScopeSingle   Scope = ""
	ScopeFiltered Scope = "FILTERED"
)

// PositionPick narrows a filtered set to one end of the lane array.
type PositionPick string

const (
	PickAll   PositionPick = ""
	PickFront PositionPick = "FRONT_MOST" // index 0 of the lane array
	PickBack  PositionPick = "BACK_MOST"  // last index of the lane array
)

// CountKind names a live board count a scaling effect derives its value from.
type CountKind string

const (
	CountReadyInLane CountKind = "READY_DRONES_IN_LANE"
	CountNamedDrone  CountKind = "NAMED_DRONE"
)

// --- Targets & selections ---

// TargetKind identifies what kind of entity a Target points at.
type TargetKind string

const (
	TargetDrone    TargetKind = "drone"
	TargetLaneKind TargetKind = "lane"
	TargetSection  TargetKind = "section"
	TargetCard     TargetKind = "card"
)

// Target is a resolved targeting candidate or a recorded choice. Drone and card
// targets carry an instance id; lane and section targets are identified by lane
// and owner.
type Target struct {
	Kind  TargetKind `json:"kind"`
	ID    string     `json:"id,omitempty"`
	Lane  LaneID     `json:"lane,omitempty"`
	Owner int        `json:"owner"`
}

// Same reports whether two targets identify the same entity.
func (t Target) Same(o Target) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.ID != "" || o.ID != "" {
		return t.ID == o.ID
	}
	return t.Lane == o.Lane && t.Owner == o.Owner
}

// Selection records the outcome for one effect in a chain: the chosen target
// (nil for NONE-targeted effects), the committed multi-target set, the chosen
// destination for move-shaped effects, or skipped.
type Selection struct {
	Target      *Target  `json:"target,omitempty"`
	Targets     []Target `json:"targets,omitempty"`
	SourceLane  LaneID   `json:"sourceLane,omitempty"`
	Destination LaneID   `json:"destination,omitempty"`
	Skipped     bool     `json:"skipped,omitempty"`
}

// --- Action payloads ---

// Action type strings, identical on the wire and locally.
const (
	ActionPlayCard        = "play_card"
	ActionActivateAbility = "activate_ability"
	ActionEndTurn         = "end_turn"
)

// SelectionStep is one recorded input to the chain selection protocol. A
// completed action carries the full step list so any peer can replay the chain
// deterministically.
type SelectionStep struct {
	Target       *Target  `json:"target,omitempty"`
	Lane         LaneID   `json:"lane,omitempty"`
	Destination  LaneID   `json:"destination,omitempty"`
	MultiTargets []Target `json:"multiTargets,omitempty"`
}

// ActionPayload is the unit the action router exchanges between peers. It is
// structurally identical whether produced by a local human, a remote peer, or
// an agent.
type ActionPayload struct {
	Type       string          `json:"type"`
	Player     int             `json:"player"`
	CardID     string          `json:"cardId,omitempty"`
	DroneID    string          `json:"droneId,omitempty"`
	Selections []SelectionStep `json:"selections,omitempty"`
}
