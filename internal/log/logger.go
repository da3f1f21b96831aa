package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// FormatAll renders the logger's full event history as text.
func (l *MemoryLogger) FormatAll() string {
	return FormatAll(l.events)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("T%-2d %-16s| %s", e.Turn, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(seed int64) GameEvent {
	return GameEvent{
		Type:    EventMatchStart,
		Details: fmt.Sprintf("match start (seed %d)", seed),
	}
}

func NewTurnEvent(turn, player, energy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s, %d energy) ===", turn, playerName(player), energy),
	}
}

func NewDrawEvent(turn, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewPlayCardEvent(turn, player int, cardName string, cost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPlayCard,
		Card:    cardName,
		Amount:  cost,
		Details: fmt.Sprintf("%s plays %s (cost %d)", playerName(player), cardName, cost),
	}
}

func NewAbilityEvent(turn, player int, droneName, abilityName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAbility,
		Card:    droneName,
		Details: fmt.Sprintf("%s activates %s's %s", playerName(player), droneName, abilityName),
	}
}

func NewDeployEvent(turn, player int, droneName, lane string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDeploy,
		Card:    droneName,
		Lane:    lane,
		Details: fmt.Sprintf("%s deploys %s to %s", playerName(player), droneName, lane),
	}
}

func NewDroneDamageEvent(turn, owner int, droneName string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventDroneDamage,
		Card:    droneName,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s takes %d damage", playerName(owner), droneName, amount),
	}
}

func NewShieldAbsorbEvent(turn, owner int, droneName string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventShieldAbsorb,
		Card:    droneName,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s shields absorb %d", playerName(owner), droneName, amount),
	}
}

func NewDroneDestroyedEvent(turn, owner int, droneName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventDroneDestroyed,
		Card:    droneName,
		Details: fmt.Sprintf("%s's %s is destroyed", playerName(owner), droneName),
	}
}

func NewSectionDamageEvent(turn, owner int, lane string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventSectionDamage,
		Lane:    lane,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s section takes %d damage", playerName(owner), lane, amount),
	}
}

func NewSectionDestroyedEvent(turn, owner int, lane string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventSectionDestroyed,
		Lane:    lane,
		Details: fmt.Sprintf("%s's %s section is destroyed", playerName(owner), lane),
	}
}

func NewSectionRepairEvent(turn, owner int, lane string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventSectionRepair,
		Lane:    lane,
		Amount:  amount,
		Details: fmt.Sprintf("%s repairs %s section for %d", playerName(owner), lane, amount),
	}
}

func NewMoveEvent(turn, owner int, droneName, lane string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventMove,
		Card:    droneName,
		Lane:    lane,
		Details: fmt.Sprintf("%s's %s moves to %s", playerName(owner), droneName, lane),
	}
}

func NewExhaustEvent(turn, owner int, droneName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventExhaust,
		Card:    droneName,
		Details: fmt.Sprintf("%s's %s is exhausted", playerName(owner), droneName),
	}
}

func NewReadyEvent(turn, owner int, droneName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventReady,
		Card:    droneName,
		Details: fmt.Sprintf("%s's %s readies", playerName(owner), droneName),
	}
}

func NewEnergyGainEvent(turn, player, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEnergyGain,
		Amount:  amount,
		Details: fmt.Sprintf("%s gains %d energy", playerName(player), amount),
	}
}

func NewEnergyDrainEvent(turn, player, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEnergyDrain,
		Amount:  amount,
		Details: fmt.Sprintf("%s loses %d energy", playerName(player), amount),
	}
}

func NewThreatEvent(turn, player, amount, level int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventThreat,
		Amount:  amount,
		Details: fmt.Sprintf("%s raises threat by %d (now %d)", playerName(player), amount, level),
	}
}

func NewRunFailureEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventRunFailure,
		Details: fmt.Sprintf("%s's detection meter saturates: run failed", playerName(player)),
	}
}

func NewDiscardEvent(turn, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", playerName(player), cardName),
	}
}

func NewEndTurnEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEndTurn,
		Details: fmt.Sprintf("%s ends the turn", playerName(player)),
	}
}

func NewWinEvent(turn, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}
