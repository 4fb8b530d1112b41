package game

// Point values.
const (
	SettlementPoints = 1
	CityPoints       = 2
)

// Score breaks a player's victory points down by source.
type Score struct {
	Settlements  int `json:"settlements"`
	Cities       int `json:"cities"`
	VictoryCards int `json:"victoryCards"`
	Total        int `json:"total"`
}

// Score derives the breakdown from piece counts. Victory cards are whatever
// the building points do not account for, since played VP cards leave the hand
// but keep their point.
func (p Player) Score() Score {
	s := Score{
		Settlements: StartSettlements - p.SettlementsLeft,
		Cities:      StartCities - p.CitiesLeft,
		Total:       p.VP,
	}
	s.VictoryCards = p.VP - s.Settlements*SettlementPoints - s.Cities*CityPoints
	return s
}
