package model

// Coordinate identifies a cell on a player's grid. The core performs no
// range validation; legality is the client's concern.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Ship is one placed piece: the cells it occupies plus the subset of
// those cells that have been struck. A ship is sunk when every occupied
// cell has been struck at least once.
type Ship struct {
	Cells []Coordinate `json:"cells"`
	Hits  []Coordinate `json:"hits"`
}

// Occupies returns true if the ship covers the given coordinate
func (s *Ship) Occupies(c Coordinate) bool {
	for _, cell := range s.Cells {
		if cell == c {
			return true
		}
	}
	return false
}

// IsStruck returns true if the given coordinate has already been hit
func (s *Ship) IsStruck(c Coordinate) bool {
	for _, hit := range s.Hits {
		if hit == c {
			return true
		}
	}
	return false
}

// RecordHit marks the coordinate as struck. Striking the same cell twice
// leaves the hit set unchanged; membership, not count, drives sinking.
func (s *Ship) RecordHit(c Coordinate) {
	if !s.IsStruck(c) {
		s.Hits = append(s.Hits, c)
	}
}

// IsSunk returns true when every occupied cell has been struck
func (s *Ship) IsSunk() bool {
	for _, cell := range s.Cells {
		if !s.IsStruck(cell) {
			return false
		}
	}
	return true
}

// Board holds one player's placed ships and accumulated strikes. Its
// shape is fixed at creation; only the hit sets mutate afterwards.
type Board struct {
	Owner ConnectionID
	Ships []Ship
}

// NewBoard creates a board from a fresh layout with empty strike history
func NewBoard(owner ConnectionID, ships []Ship) *Board {
	placed := make([]Ship, len(ships))
	for i, s := range ships {
		placed[i] = Ship{Cells: append([]Coordinate(nil), s.Cells...)}
	}
	return &Board{
		Owner: owner,
		Ships: placed,
	}
}

// ShipAt returns the ship occupying the given coordinate, or nil
func (b *Board) ShipAt(c Coordinate) *Ship {
	for i := range b.Ships {
		if b.Ships[i].Occupies(c) {
			return &b.Ships[i]
		}
	}
	return nil
}

// ReceiveHit marks the coordinate as struck if it falls on any ship and
// returns whether it was a hit. Re-hitting a struck cell still reports a
// hit.
func (b *Board) ReceiveHit(c Coordinate) bool {
	ship := b.ShipAt(c)
	if ship == nil {
		return false
	}
	ship.RecordHit(c)
	return true
}

// FirstSunkShip returns the first fully struck ship in placement order,
// or nil if none is sunk
func (b *Board) FirstSunkShip() *Ship {
	for i := range b.Ships {
		if b.Ships[i].IsSunk() {
			return &b.Ships[i]
		}
	}
	return nil
}

// AllSunk returns true when every ship on the board is sunk
func (b *Board) AllSunk() bool {
	for i := range b.Ships {
		if !b.Ships[i].IsSunk() {
			return false
		}
	}
	return len(b.Ships) > 0
}
