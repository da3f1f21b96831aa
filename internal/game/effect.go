package game

// RefField names which piece of an earlier effect's resolved data a
// back-reference extracts.
type RefField string

const (
	RefTarget          RefField = "target"
	RefSourceLane      RefField = "sourceLane"
	RefDestinationLane RefField = "destinationLane"
	RefTargetCost      RefField = "targetCost"
)

// BackRef points at an earlier effect's resolved Selection instead of naming a
// location or value directly. Effect indexes are zero-based within the owning
// definition.
type BackRef struct {
	Effect int
	Field  RefField
}

// Location names where targeting candidates may come from: a lane literal, one
// of the location keywords (ANY_LANE, SAME_LANE), or a back-reference into an
// earlier Selection. Exactly one of Literal/Ref is set.
type Location struct {
	Literal string
	Ref     *BackRef
}

// Convenience constructors used throughout the card set.

func LocAny() Location            { return Location{Literal: LocationAnyLane} }
func LocSame() Location           { return Location{Literal: LocationSameLane} }
func LocLane(l LaneID) Location   { return Location{Literal: string(l)} }
func LocRef(effect int, field RefField) Location {
	return Location{Ref: &BackRef{Effect: effect, Field: field}}
}

// Targeting declares which entities an effect may select.
type Targeting struct {
	Type     TargetingType
	Affinity Affinity
	Location Location
}

// Destination declares where a move-shaped effect may place its target.
type Destination struct {
	Location string // DestAdjacent, LocationAnyLane, or a lane literal
}

// Filter narrows drone or card candidates. Zero values mean "no restriction".
type Filter struct {
	DroneName string
	MaxCost   int // 0 = no cap
	Exhausted *bool
	Position  PositionPick
}

// Scaling derives an effect's value from a live board count.
type Scaling struct {
	Count     CountKind
	DroneName string // for CountNamedDrone
}

// Effect is one declarative step of a card or ability definition. Which fields
// are meaningful depends on Type; unknown combinations are authored-data bugs
// and surface as ConfigurationErrors during resolution.
type Effect struct {
	Type        EffectType
	Value       int
	Targeting   Targeting
	Destination *Destination
	Filter      *Filter
	DamageType  DamageType
	Scope       Scope
	Scaling     *Scaling

	// SplashValue is the secondary value dealt to lane neighbors by
	// SPLASH_DAMAGE. Zero means "same as Value".
	SplashValue int

	// MaxTargets caps a MULTI_DRONE selection. Zero means unlimited.
	MaxTargets int

	// ValueFrom overrides Value with a back-referenced amount (e.g. gain
	// energy equal to the cost of the card discarded by an earlier effect).
	ValueFrom *BackRef
}

// MoveShaped reports whether the effect needs a destination sub-phase after its
// primary target is chosen.
func (e Effect) MoveShaped() bool {
	return e.Type == EffectSingleMove
}

// Definition is the ordered effect list belonging to one played card or
// activated ability.
type Definition struct {
	Name    string
	Effects []Effect
}

// Clone returns a copy sharing no mutable state with the receiver.
func (e Effect) Clone() Effect {
	c := e
	if e.Destination != nil {
		d := *e.Destination
		c.Destination = &d
	}
	if e.Filter != nil {
		f := *e.Filter
		if e.Filter.Exhausted != nil {
			b := *e.Filter.Exhausted
			f.Exhausted = &b
		}
		c.Filter = &f
	}
	if e.Scaling != nil {
		s := *e.Scaling
		c.Scaling = &s
	}
	if e.ValueFrom != nil {
		v := *e.ValueFrom
		c.ValueFrom = &v
	}
	if e.Targeting.Location.Ref != nil {
		r := *e.Targeting.Location.Ref
		c.Targeting.Location.Ref = &r
	}
	return c
}
