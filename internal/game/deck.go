package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SquadronFile represents the top-level YAML structure.
type SquadronFile struct {
	Squadrons []SquadronEntry `yaml:"squadrons"`
}

// SquadronEntry represents a single squadron list in the YAML file.
type SquadronEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a squadron.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseSquadronFile parses a YAML squadron file and returns a map of squadron
// name to card slice.
func ParseSquadronFile(path string) (map[string][]*Card, error) {
	df, err := readSquadronFile(path)
	if err != nil {
		return nil, err
	}
	squadrons := make(map[string][]*Card)
	for _, sq := range df.Squadrons {
		squadrons[sq.Name] = expandEntries(sq.Cards)
	}
	return squadrons, nil
}

// SquadronByNumber returns the Nth squadron (1-indexed) from the file.
func SquadronByNumber(path string, n int) (string, []*Card, error) {
	df, err := readSquadronFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(df.Squadrons) {
		return "", nil, fmt.Errorf("squadron %d not found (have %d squadrons)", n, len(df.Squadrons))
	}
	sq := df.Squadrons[n-1]
	return sq.Name, expandEntries(sq.Cards), nil
}

func readSquadronFile(path string) (*SquadronFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df SquadronFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse squadron YAML: %w", err)
	}
	return &df, nil
}

func expandEntries(entries []CardEntry) []*Card {
	var cards []*Card
	for _, entry := range entries {
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, LookupCard(entry.Name))
		}
	}
	return cards
}
