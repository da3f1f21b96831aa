package game

// CardType separates one-shot tactic cards from drone cards, which put a hull
// on the board when played.
type CardType string

const (
	CardTactic CardType = "tactic"
	CardDrone  CardType = "drone"
)

// Card is an authored, immutable card definition. Tactic cards carry their
// effect list directly; drone cards carry a deploy effect plus the spec of the
// drone they field.
type Card struct {
	Name        string
	Description string
	Cost        int
	Type        CardType
	Effects     []Effect
	Drone       *DroneSpec
}

// Definition returns the card's effect list as a chain definition.
func (c *Card) Definition() *Definition {
	return &Definition{Name: c.Name, Effects: c.Effects}
}

// DroneSpec is the authored stat line a drone instance is stamped from.
type DroneSpec struct {
	Name           string
	Attack         int
	Hull           int
	Shields        int
	Cost           int
	Ability        *Definition
	OnEnergyGained []Effect
}

// Instantiate stamps a fresh board instance from the spec.
func (s *DroneSpec) Instantiate(id string) *Drone {
	return &Drone{
		ID:             id,
		Name:           s.Name,
		Attack:         s.Attack,
		Hull:           s.Hull,
		MaxHull:        s.Hull,
		Shields:        s.Shields,
		MaxShields:     s.Shields,
		Cost:           s.Cost,
		Ability:        s.Ability,
		OnEnergyGained: s.OnEnergyGained,
	}
}

// Power Relay hulls raise the owner's energy cap while they survive.
const (
	relayDroneName   = "Power Relay"
	relayEnergyBonus = 2
)

// droneCard builds the standard drone card shape: pick a friendly lane, field
// the drone there. extra effects (a deploy rider like Specter Scout's draw)
// run after the deploy.
func droneCard(spec *DroneSpec, desc string, extra ...Effect) *Card {
	effects := []Effect{{
		Type:      EffectDeploy,
		Targeting: Targeting{Type: TargetingLane, Affinity: AffinityFriendly, Location: LocAny()},
		Filter:    &Filter{DroneName: spec.Name},
	}}
	effects = append(effects, extra...)
	return &Card{
		Name:        spec.Name,
		Description: desc,
		Cost:        spec.Cost,
		Type:        CardDrone,
		Effects:     effects,
		Drone:       spec,
	}
}

// --- Drone specs ---

func talonInterceptorSpec() *DroneSpec {
	return &DroneSpec{
		Name: "Talon Interceptor", Attack: 2, Hull: 3, Shields: 1, Cost: 2,
		Ability: &Definition{
			Name: "Strafe",
			Effects: []Effect{{
				Type: EffectDamage, Value: 2,
				Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocSame()},
			}},
		},
	}
}

func bulwarkSentinelSpec() *DroneSpec {
	return &DroneSpec{Name: "Bulwark Sentinel", Attack: 1, Hull: 6, Shields: 2, Cost: 3}
}

func dynamoSkiffSpec() *DroneSpec {
	return &DroneSpec{
		Name: "Dynamo Skiff", Attack: 1, Hull: 3, Cost: 2,
		OnEnergyGained: []Effect{{
			Type: EffectDrainEnergy, Value: 1,
			Targeting: Targeting{Type: TargetingNone, Affinity: AffinityEnemy},
		}},
	}
}

func specterScoutSpec() *DroneSpec {
	return &DroneSpec{Name: "Specter Scout", Attack: 1, Hull: 2, Cost: 1}
}

func powerRelaySpec() *DroneSpec {
	return &DroneSpec{Name: relayDroneName, Attack: 0, Hull: 4, Cost: 3}
}

func decoyHuskSpec() *DroneSpec {
	return &DroneSpec{Name: "Decoy Husk", Attack: 0, Hull: 1, Cost: 0}
}

// DroneSpecs maps drone names to specs, for DEPLOY effects and squadron
// validation.
var DroneSpecs = map[string]*DroneSpec{
	"Talon Interceptor": talonInterceptorSpec(),
	"Bulwark Sentinel":  bulwarkSentinelSpec(),
	"Dynamo Skiff":      dynamoSkiffSpec(),
	"Specter Scout":     specterScoutSpec(),
	relayDroneName:      powerRelaySpec(),
	"Decoy Husk":        decoyHuskSpec(),
}

// --- Drone cards ---

func TalonInterceptor() *Card {
	return droneCard(talonInterceptorSpec(), "Fast attack drone. Strafe: deal 2 damage to an enemy drone in its lane.")
}

func BulwarkSentinel() *Card {
	return droneCard(bulwarkSentinelSpec(), "Heavy shielded hull. Holds a lane.")
}

func DynamoSkiff() *Card {
	return droneCard(dynamoSkiffSpec(), "Whenever you gain energy, drain 1 energy from the enemy.")
}

func SpecterScout() *Card {
	return droneCard(specterScoutSpec(), "Cheap eyes forward. Draw a card when it deploys.",
		Effect{Type: EffectDraw, Value: 1, Targeting: Targeting{Type: TargetingNone}})
}

func PowerRelay() *Card {
	return droneCard(powerRelaySpec(), "Raises your energy cap by 2 while it survives.")
}

// --- Tactic cards ---

// FocusedVolley deals damage to an enemy drone equal to the number of ready
// friendly drones sharing its lane.
func FocusedVolley() *Card {
	return &Card{
		Name:        "Focused Volley",
		Description: "Deal damage to an enemy drone equal to your ready drones in its lane.",
		Cost:        2,
		Type:        CardTactic,
		Effects: []Effect{{
			Type:      EffectDamageScaling,
			Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocAny()},
			Scaling:   &Scaling{Count: CountReadyInLane},
		}},
	}
}

// FeintManeuver moves a friendly drone, then strikes an enemy drone in the
// lane it arrived in. If the move never happens the strike never happens.
func FeintManeuver() *Card {
	return &Card{
		Name:        "Feint Maneuver",
		Description: "Move a friendly drone, then deal 3 damage to an enemy drone in its new lane.",
		Cost:        3,
		Type:        CardTactic,
		Effects: []Effect{
			{
				Type:      EffectSingleMove,
				Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityFriendly, Location: LocAny()},
			},
			{
				Type: EffectDamage, Value: 3,
				Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocRef(0, RefDestinationLane)},
			},
		},
	}
}

// ArcBarrage hits one enemy drone hard and its lane neighbors lightly.
func ArcBarrage() *Card {
	return &Card{
		Name:        "Arc Barrage",
		Description: "Deal 3 damage to an enemy drone and 1 to its lane neighbors.",
		Cost:        3,
		Type:        CardTactic,
		Effects: []Effect{{
			Type: EffectSplashDamage, Value: 3, SplashValue: 1,
			Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocAny()},
		}},
	}
}

// LanceOverload overkills a drone and spills the excess onto the ship section
// behind its lane.
func LanceOverload() *Card {
	return &Card{
		Name:        "Lance Overload",
		Description: "Deal 5 damage to an enemy drone; excess damage hits the section behind it.",
		Cost:        4,
		Type:        CardTactic,
		Effects: []Effect{
			{
				Type: EffectOverflowDamage, Value: 5,
				Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocAny()},
			},
			{Type: EffectIncreaseThreat, Value: 1, Targeting: Targeting{Type: TargetingNone}},
		},
	}
}

// SuppressionSweep rakes a whole enemy lane, loudly.
func SuppressionSweep() *Card {
	return &Card{
		Name:        "Suppression Sweep",
		Description: "Deal 1 damage to every drone in an enemy lane. Raise threat by 2.",
		Cost:        2,
		Type:        CardTactic,
		Effects: []Effect{
			{
				Type: EffectDamage, Value: 1, Scope: ScopeFiltered,
				Targeting: Targeting{Type: TargetingLane, Affinity: AffinityEnemy, Location: LocAny()},
			},
			{Type: EffectIncreaseThreat, Value: 2, Targeting: Targeting{Type: TargetingNone}},
		},
	}
}

// SurgeCells trades threat for a burst of energy.
func SurgeCells() *Card {
	return &Card{
		Name:        "Surge Cells",
		Description: "Gain 5 energy. Raise threat by 1.",
		Cost:        1,
		Type:        CardTactic,
		Effects: []Effect{
			{Type: EffectGainEnergy, Value: 5, Targeting: Targeting{Type: TargetingNone}},
			{Type: EffectIncreaseThreat, Value: 1, Targeting: Targeting{Type: TargetingNone}},
		},
	}
}

// SiphonProbe bleeds the enemy reserve into yours.
func SiphonProbe() *Card {
	return &Card{
		Name:        "Siphon Probe",
		Description: "Drain 3 energy from the enemy, then gain 2 energy.",
		Cost:        2,
		Type:        CardTactic,
		Effects: []Effect{
			{Type: EffectDrainEnergy, Value: 3, Targeting: Targeting{Type: TargetingNone, Affinity: AffinityEnemy}},
			{Type: EffectGainEnergy, Value: 2, Targeting: Targeting{Type: TargetingNone}},
		},
	}
}

// GhostSignature locks down an enemy drone and cycles a card.
func GhostSignature() *Card {
	return &Card{
		Name:        "Ghost Signature",
		Description: "Exhaust an enemy drone. Draw a card.",
		Cost:        1,
		Type:        CardTactic,
		Effects: []Effect{
			{
				Type:      EffectExhaust,
				Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocAny()},
			},
			{Type: EffectDraw, Value: 1, Targeting: Targeting{Type: TargetingNone}},
		},
	}
}

// RedlineThrusters shoves a friendly drone one lane over.
func RedlineThrusters() *Card {
	return &Card{
		Name:        "Redline Thrusters",
		Description: "Move a friendly drone to an adjacent lane.",
		Cost:        1,
		Type:        CardTactic,
		Effects: []Effect{{
			Type:        EffectSingleMove,
			Targeting:   Targeting{Type: TargetingDrone, Affinity: AffinityFriendly, Location: LocAny()},
			Destination: &Destination{Location: DestAdjacent},
		}},
	}
}

// SalvageSweep converts a card in hand into energy worth its printed cost.
func SalvageSweep() *Card {
	return &Card{
		Name:        "Salvage Sweep",
		Description: "Discard a card, then gain energy equal to its cost.",
		Cost:        0,
		Type:        CardTactic,
		Effects: []Effect{
			{
				Type:      EffectDiscard,
				Targeting: Targeting{Type: TargetingCardInHand, Affinity: AffinityFriendly},
			},
			{
				Type:      EffectGainEnergy,
				Targeting: Targeting{Type: TargetingNone},
				ValueFrom: &BackRef{Effect: 0, Field: RefTargetCost},
			},
		},
	}
}

// CoordinatedStrike scales with the Talon wing on the board.
func CoordinatedStrike() *Card {
	return &Card{
		Name:        "Coordinated Strike",
		Description: "Deal damage to an enemy drone equal to your Talon Interceptors in play.",
		Cost:        2,
		Type:        CardTactic,
		Effects: []Effect{{
			Type:      EffectDamageScaling,
			Targeting: Targeting{Type: TargetingDrone, Affinity: AffinityEnemy, Location: LocAny()},
			Scaling:   &Scaling{Count: CountNamedDrone, DroneName: "Talon Interceptor"},
		}},
	}
}

// AegisPatch restores a battered ship section.
func AegisPatch() *Card {
	return &Card{
		Name:        "Aegis Patch",
		Description: "Repair 4 hull on one of your ship sections.",
		Cost:        2,
		Type:        CardTactic,
		Effects: []Effect{{
			Type: EffectRepairSection, Value: 4,
			Targeting: Targeting{Type: TargetingShipSection, Affinity: AffinityFriendly, Location: LocAny()},
		}},
	}
}

// ScrambleOrder readies up to three friendly drones.
func ScrambleOrder() *Card {
	return &Card{
		Name:        "Scramble Order",
		Description: "Ready up to 3 of your exhausted drones.",
		Cost:        3,
		Type:        CardTactic,
		Effects: []Effect{{
			Type:       EffectReady,
			Targeting:  Targeting{Type: TargetingMultiDrone, Affinity: AffinityFriendly, Location: LocAny()},
			Filter:     &Filter{Exhausted: boolPtr(true)},
			MaxTargets: 3,
		}},
	}
}

// LaunchDecoys floods a friendly lane with expendable husks.
func LaunchDecoys() *Card {
	return &Card{
		Name:        "Launch Decoys",
		Description: "Deploy 2 Decoy Husks into one of your lanes.",
		Cost:        1,
		Type:        CardTactic,
		Effects: []Effect{{
			Type: EffectDeploy, Value: 2,
			Targeting: Targeting{Type: TargetingLane, Affinity: AffinityFriendly, Location: LocAny()},
			Filter:    &Filter{DroneName: "Decoy Husk"},
		}},
	}
}

func boolPtr(b bool) *bool { return &b }
