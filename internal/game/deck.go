package game

import (
	"slices"

	"github.com/talgya/hexharbor/internal/entropy"
)

// DevCard is a development card kind.
type DevCard string

const (
	Knight       DevCard = "Knight"
	VictoryPoint DevCard = "VictoryPoint"
	RoadBuilding DevCard = "RoadBuilding"
	Monopoly     DevCard = "Monopoly"
	YearOfPlenty DevCard = "YearOfPlenty"
)

var devCardLabels = map[DevCard]string{
	Knight:       "Knight",
	VictoryPoint: "Victory Point",
	RoadBuilding: "Road Building",
	Monopoly:     "Monopoly",
	YearOfPlenty: "Year of Plenty",
}

// Label returns the display name of the card.
func (c DevCard) Label() string {
	if l, ok := devCardLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is a known card kind.
func (c DevCard) Valid() bool {
	_, ok := devCardLabels[c]
	return ok
}

// deckMix is the standard card composition.
var deckMix = []struct {
	card  DevCard
	count int
}{
	{Knight, 14},
	{VictoryPoint, 5},
	{RoadBuilding, 2},
	{Monopoly, 2},
	{YearOfPlenty, 2},
}

// DeckSize is the total number of development cards.
const DeckSize = 25

// NewDeck returns a shuffled development deck. Index 0 is drawn first.
func NewDeck(rng entropy.Source) []DevCard {
	deck := make([]DevCard, 0, DeckSize)
	for _, m := range deckMix {
		for range m.count {
			deck = append(deck, m.card)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// removeCard returns cards without the first c, on a fresh slice.
func removeCard(cards []DevCard, c DevCard) ([]DevCard, bool) {
	i := slices.Index(cards, c)
	if i < 0 {
		return cards, false
	}
	return slices.Delete(slices.Clone(cards), i, i+1), true
}
