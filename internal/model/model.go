package model

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Side represents which role a team holds in a round.
type Side int

const (
	SideUnknown Side = 0
	SideT       Side = 2
	SideCT      Side = 3
)

func (s Side) String() string {
	switch s {
	case SideT:
		return "T"
	case SideCT:
		return "CT"
	default:
		return "?"
	}
}

// ParseSide maps the usual spellings of a side to a Side.
// Unrecognised input yields SideUnknown.
func ParseSide(s string) Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "T", "TERRORIST", "TERRORISTS", "ATTACKER", "ATTACKERS":
		return SideT
	case "CT", "COUNTERTERRORIST", "COUNTER-TERRORIST", "COUNTERTERRORISTS", "DEFENDER", "DEFENDERS":
		return SideCT
	default:
		return SideUnknown
	}
}

// Item is one inventory entry. Class is set only when the source records it.
type Item struct {
	Name  string
	Class string
}

// Point is a 2D map-space position in Hammer units.
type Point = r2.Point

// Record is one player at one sampled tick.
type Record struct {
	Round    int
	Team     string
	Side     Side
	Tick     int
	Player   string
	Position r3.Vector
	Area     string // map place name, e.g. "BombsiteB"
	Alive    bool

	Inventory []Item

	// Seconds since round start, when the source has a round clock.
	Clock    float64
	HasClock bool

	RoundStartTick int
	HasRoundStart  bool
}

// XY returns the record's position projected onto the map plane.
func (r Record) XY() Point {
	return Point{X: r.Position.X, Y: r.Position.Y}
}

// PlayerRound identifies one player within one round.
type PlayerRound struct {
	Player string
	Round  int
}
