package game

const (
	InitialHandSize  = 5
	MaxHandSize      = 8
	BaseMaxEnergy    = 20
	TurnEnergyIncome = 5
	SectionHull      = 12
	DetectionMax     = 10
)

// --- Drones & ship sections ---

// Drone is a deployed drone on the board. Lane membership is held by the
// owning PlayerState; index 0 of a lane slice is the front of the lane.
type Drone struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Attack     int    `json:"attack"`
	Hull       int    `json:"hull"`
	MaxHull    int    `json:"maxHull"`
	Shields    int    `json:"shields"`
	MaxShields int    `json:"maxShields"`
	Cost       int    `json:"cost"`
	Exhausted  bool   `json:"exhausted,omitempty"`

	// Ability is the drone's activatable definition, if any. OnEnergyGained
	// effects fire whenever the owner actually gains energy. Both point at
	// shared immutable authored data.
	Ability        *Definition `json:"-"`
	OnEnergyGained []Effect    `json:"-"`
}

// Clone returns an independent copy of the drone.
func (d *Drone) Clone() *Drone {
	c := *d
	return &c
}

// ShipSection is the hull segment behind one lane. Overflow damage from drones
// destroyed in the lane lands here.
type ShipSection struct {
	Lane    LaneID `json:"lane"`
	Hull    int    `json:"hull"`
	MaxHull int    `json:"maxHull"`
}

// Destroyed reports whether the section's hull is gone.
func (s *ShipSection) Destroyed() bool {
	return s.Hull <= 0
}

// --- Cards in hand ---

// CardInstance is a card in a player's hand, deck, or discard pile. The Card
// definition is shared and immutable; only slice membership changes.
type CardInstance struct {
	ID    string
	Card  *Card
	Owner int
}

// --- Player state ---

// PlayerState is one player's entire mutable aggregate: drones by lane, hand,
// energy, and ship sections. Effect processors never mutate a PlayerState they
// were handed: they clone it, mutate the clone, and return the clone.
type PlayerState struct {
	ID        int
	Energy    int
	MaxEnergy int
	Hand      []*CardInstance
	Deck      []*CardInstance // top of deck is the last element
	Discard   []*CardInstance
	Lanes     map[LaneID][]*Drone
	Sections  map[LaneID]*ShipSection
}

// NewPlayerState creates an empty board side with full sections.
func NewPlayerState(id int) *PlayerState {
	ps := &PlayerState{
		ID:        id,
		Energy:    BaseMaxEnergy,
		MaxEnergy: BaseMaxEnergy,
		Lanes:     make(map[LaneID][]*Drone, len(LaneOrder)),
		Sections:  make(map[LaneID]*ShipSection, len(LaneOrder)),
	}
	for _, lane := range LaneOrder {
		ps.Lanes[lane] = nil
		ps.Sections[lane] = &ShipSection{Lane: lane, Hull: SectionHull, MaxHull: SectionHull}
	}
	return ps
}

// Clone deep-copies the player state. Drones and sections are copied since
// processors mutate them; CardInstances are shared since only slice membership
// ever changes.
func (p *PlayerState) Clone() *PlayerState {
	c := &PlayerState{
		ID:        p.ID,
		Energy:    p.Energy,
		MaxEnergy: p.MaxEnergy,
		Hand:      append([]*CardInstance(nil), p.Hand...),
		Deck:      append([]*CardInstance(nil), p.Deck...),
		Discard:   append([]*CardInstance(nil), p.Discard...),
		Lanes:     make(map[LaneID][]*Drone, len(LaneOrder)),
		Sections:  make(map[LaneID]*ShipSection, len(LaneOrder)),
	}
	for _, lane := range LaneOrder {
		drones := make([]*Drone, 0, len(p.Lanes[lane]))
		for _, d := range p.Lanes[lane] {
			drones = append(drones, d.Clone())
		}
		c.Lanes[lane] = drones
		s := *p.Sections[lane]
		c.Sections[lane] = &s
	}
	return c
}

// ComputedMaxEnergy is the energy cap GAIN_ENERGY clamps to. Power Relay hulls
// on the board raise the cap while they survive.
func (p *PlayerState) ComputedMaxEnergy() int {
	max := p.MaxEnergy
	for _, lane := range LaneOrder {
		for _, d := range p.Lanes[lane] {
			if d.Name == relayDroneName {
				max += relayEnergyBonus
			}
		}
	}
	return max
}

// FindDrone returns the drone with the given id, or nil.
func (p *PlayerState) FindDrone(id string) *Drone {
	for _, lane := range LaneOrder {
		for _, d := range p.Lanes[lane] {
			if d.ID == id {
				return d
			}
		}
	}
	return nil
}

// DroneLane returns the lane and index of the drone with the given id, or
// ("", -1) if it is not on the board.
func (p *PlayerState) DroneLane(id string) (LaneID, int) {
	for _, lane := range LaneOrder {
		for i, d := range p.Lanes[lane] {
			if d.ID == id {
				return lane, i
			}
		}
	}
	return "", -1
}

// RemoveDrone removes the drone with the given id, preserving lane order.
func (p *PlayerState) RemoveDrone(id string) bool {
	for _, lane := range LaneOrder {
		for i, d := range p.Lanes[lane] {
			if d.ID == id {
				p.Lanes[lane] = append(p.Lanes[lane][:i], p.Lanes[lane][i+1:]...)
				return true
			}
		}
	}
	return false
}

// AddDrone appends a drone to the back of a lane.
func (p *PlayerState) AddDrone(lane LaneID, d *Drone) {
	p.Lanes[lane] = append(p.Lanes[lane], d)
}

// MoveDrone relocates a drone to the back of the destination lane.
func (p *PlayerState) MoveDrone(id string, to LaneID) bool {
	for _, lane := range LaneOrder {
		for i, d := range p.Lanes[lane] {
			if d.ID == id {
				p.Lanes[lane] = append(p.Lanes[lane][:i], p.Lanes[lane][i+1:]...)
				p.Lanes[to] = append(p.Lanes[to], d)
				return true
			}
		}
	}
	return false
}

// DroneCount returns the number of drones on the board.
func (p *PlayerState) DroneCount() int {
	n := 0
	for _, lane := range LaneOrder {
		n += len(p.Lanes[lane])
	}
	return n
}

// ReadyCount returns the number of un-exhausted drones in a lane.
func (p *PlayerState) ReadyCount(lane LaneID) int {
	n := 0
	for _, d := range p.Lanes[lane] {
		if !d.Exhausted {
			n++
		}
	}
	return n
}

// NamedCount returns how many copies of the named drone are on the board.
func (p *PlayerState) NamedCount(name string) int {
	n := 0
	for _, lane := range LaneOrder {
		for _, d := range p.Lanes[lane] {
			if d.Name == name {
				n++
			}
		}
	}
	return n
}

// FindCard returns the card instance with the given id from the hand, or nil.
func (p *PlayerState) FindCard(id string) *CardInstance {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes and returns the card with the given id, or nil.
func (p *PlayerState) RemoveFromHand(id string) *CardInstance {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// DrawCard moves the top deck card into the hand. Returns nil on an empty
// deck; decking out is not a loss condition, just a dry draw.
func (p *PlayerState) DrawCard() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, card)
	return card
}

// SectionsDestroyed reports whether every ship section has fallen.
func (p *PlayerState) SectionsDestroyed() bool {
	for _, lane := range LaneOrder {
		if !p.Sections[lane].Destroyed() {
			return false
		}
	}
	return true
}

// --- Detection meter ---

// DetectionMeter is the meta-game threat gauge. It is match-level state, not
// player energy or hull, and saturating it fails the run for its owner.
type DetectionMeter struct {
	Level int `json:"level"`
	Max   int `json:"max"`
}

// NewDetectionMeter returns a zeroed meter with the standard cap.
func NewDetectionMeter() *DetectionMeter {
	return &DetectionMeter{Max: DetectionMax}
}

// Clone returns an independent copy.
func (m *DetectionMeter) Clone() *DetectionMeter {
	c := *m
	return &c
}

// Raise increases the meter, clamped to Max, and reports whether this raise
// saturated it. Negative amounts are ignored.
func (m *DetectionMeter) Raise(amount int) bool {
	if amount <= 0 {
		return false
	}
	wasBelow := m.Level < m.Max
	m.Level += amount
	if m.Level > m.Max {
		m.Level = m.Max
	}
	return wasBelow && m.Level >= m.Max
}

// Saturated reports whether the meter has hit its cap.
func (m *DetectionMeter) Saturated() bool {
	return m.Level >= m.Max
}
