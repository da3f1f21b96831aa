package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventNewTurn
	EventDraw
	EventPlayCard
	EventAbility
	EventDeploy
	EventDroneDamage
	EventShieldAbsorb
	EventDroneDestroyed
	EventSectionDamage
	EventSectionDestroyed
	EventSectionRepair
	EventMove
	EventExhaust
	EventReady
	EventEnergyGain
	EventEnergyDrain
	EventThreat
	EventRunFailure
	EventDiscard
	EventEndTurn
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventPlayCard:
		return "PlayCard"
	case EventAbility:
		return "Ability"
	case EventDeploy:
		return "Deploy"
	case EventDroneDamage:
		return "DroneDamage"
	case EventShieldAbsorb:
		return "ShieldAbsorb"
	case EventDroneDestroyed:
		return "DroneDestroyed"
	case EventSectionDamage:
		return "SectionDamage"
	case EventSectionDestroyed:
		return "SectionDestroyed"
	case EventSectionRepair:
		return "SectionRepair"
	case EventMove:
		return "Move"
	case EventExhaust:
		return "Exhaust"
	case EventReady:
		return "Ready"
	case EventEnergyGain:
		return "EnergyGain"
	case EventEnergyDrain:
		return "EnergyDrain"
	case EventThreat:
		return "Threat"
	case EventRunFailure:
		return "RunFailure"
	case EventDiscard:
		return "Discard"
	case EventEndTurn:
		return "EndTurn"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // turn number the event occurred on
	Player  int       // acting or affected player (0 or 1)
	Type    EventType // event category
	Card    string    // card or drone name, if relevant
	Lane    string    // lane id, if relevant
	Amount  int       // damage, energy, threat, or repair amount
	Details string    // human-readable description
}
