package game

import "fmt"

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() *Card{
	"Talon Interceptor":  TalonInterceptor,
	"Bulwark Sentinel":   BulwarkSentinel,
	"Dynamo Skiff":       DynamoSkiff,
	"Specter Scout":      SpecterScout,
	"Power Relay":        PowerRelay,
	"Focused Volley":     FocusedVolley,
	"Feint Maneuver":     FeintManeuver,
	"Arc Barrage":        ArcBarrage,
	"Lance Overload":     LanceOverload,
	"Suppression Sweep":  SuppressionSweep,
	"Surge Cells":        SurgeCells,
	"Siphon Probe":       SiphonProbe,
	"Ghost Signature":    GhostSignature,
	"Redline Thrusters":  RedlineThrusters,
	"Salvage Sweep":      SalvageSweep,
	"Coordinated Strike": CoordinatedStrike,
	"Aegis Patch":        AegisPatch,
	"Scramble Order":     ScrambleOrder,
	"Launch Decoys":      LaunchDecoys,
}

// LookupCard looks up a card by name and returns a new instance.
// Panics if the card is not found.
func LookupCard(name string) *Card {
	ctor, ok := CardRegistry[name]
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return ctor()
}
