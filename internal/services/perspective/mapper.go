// Package perspective translates board-zone names between the two players'
// frames of reference. Every zone exists in a "my" and an "opponent" variant;
// a position crossing the table swaps prefixes.
package perspective

import "fmt"

const (
	myPrefix       = "my"
	opponentPrefix = "opponent"

	// fieldSlots is the number of indexed battle-field positions per side
	fieldSlots = 15
)

// namedZones are the non-indexed zones, without their my/opponent prefix
var namedZones = []string{
	"Hand",
	"Security",
	"DeckField",
	"EggDeck",
	"BreedingArea",
	"Trash",
	"Reveal",
}

var table = buildTable()

// buildTable generates the full zone-name mapping from the zone lists, so
// adding a field slot or named zone is a one-line change.
func buildTable() map[string]string {
	zones := make([]string, 0, len(namedZones)+fieldSlots)
	zones = append(zones, namedZones...)
	for i := 1; i <= fieldSlots; i++ {
		zones = append(zones, fmt.Sprintf("Digi%d", i))
	}

	t := make(map[string]string, 2*len(zones))
	for _, zone := range zones {
		mine := myPrefix + zone
		theirs := opponentPrefix + zone
		t[mine] = theirs
		t[theirs] = mine
	}
	return t
}

// Map returns the given zone name as seen from the other player's
// perspective. It is its own inverse over the known zone set; any name
// outside that set maps to the empty string.
func Map(zone string) string {
	return table[zone]
}
