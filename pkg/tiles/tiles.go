package tiles

import "fmt"

// Tile is a single level symbol as it appears in the corpus text format.
type Tile byte

// Markers and terrain
const (
	Empty  Tile = '-'
	Start  Tile = 'M'
	End    Tile = 'F'
	Ground Tile = 'X'
	Block  Tile = '#'
	Coin   Tile = 'o'
)

// Pipes. Only PipeTop and PipeBody take part in pipe continuity repair,
// the four edge pieces count for the pipe silhouette.
const (
	PipeTop       Tile = 'T'
	PipeBody      Tile = 't'
	PipeTopLeft   Tile = '<'
	PipeTopRight  Tile = '>'
	PipeBodyLeft  Tile = '['
	PipeBodyRight Tile = ']'
)

// HelperPlatform is placed by jump-assist repair.
const HelperPlatform = Block

// Enemies
const (
	Goomba           Tile = 'g'
	GoombaWinged     Tile = 'G'
	RedKoopa         Tile = 'r'
	RedKoopaWinged   Tile = 'R'
	GreenKoopa       Tile = 'k'
	GreenKoopaWinged Tile = 'K'
	Spiky            Tile = 'y'
	SpikyWinged      Tile = 'Y'
)

var enemies = []Tile{
	Goomba, GoombaWinged,
	RedKoopa, RedKoopaWinged,
	GreenKoopa, GreenKoopaWinged,
	Spiky, SpikyWinged,
}

var solid = map[Tile]bool{
	'X': true, '#': true, '@': true, '!': true, 'B': true, 'C': true,
	'Q': true, '<': true, '>': true, '[': true, ']': true, '?': true,
	'S': true, 'U': true, 'D': true, '%': true, 't': true, 'T': true,
}

// Category groups tiles for rendering and statistics.
type Category uint8

const (
	CategoryBackground Category = iota
	CategoryMarker
	CategorySolid
	CategoryPipe
	CategoryEnemy
	CategoryCollectible
	CategoryOther
)

var categoryToString = map[Category]string{
	CategoryBackground:  "BACKGROUND",
	CategoryMarker:      "MARKER",
	CategorySolid:       "SOLID",
	CategoryPipe:        "PIPE",
	CategoryEnemy:       "ENEMY",
	CategoryCollectible: "COLLECTIBLE",
	CategoryOther:       "OTHER",
}

func (c Category) String() string {
	if val, ok := categoryToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsMarker reports whether t is the start or end marker.
func IsMarker(t Tile) bool {
	return t == Start || t == End
}

// IsSolid reports whether the player can stand on t.
func IsSolid(t Tile) bool {
	return solid[t]
}

// IsPipe reports whether t is any part of a pipe.
func IsPipe(t Tile) bool {
	switch t {
	case PipeTop, PipeBody, PipeTopLeft, PipeTopRight, PipeBodyLeft, PipeBodyRight:
		return true
	}
	return false
}

// IsContinuablePipe reports whether t is one of the two symbols pipe repair copies.
func IsContinuablePipe(t Tile) bool {
	return t == PipeTop || t == PipeBody
}

func IsEnemy(t Tile) bool {
	for _, e := range enemies {
		if e == t {
			return true
		}
	}
	return false
}

// Enemies returns the enemy symbol set. The result is a copy.
func Enemies() []Tile {
	out := make([]Tile, len(enemies))
	copy(out, enemies)
	return out
}

// CategoryOf classifies t. Pipes win over solid, markers over everything.
func CategoryOf(t Tile) Category {
	switch {
	case t == Start || t == End:
		return CategoryMarker
	case t == Empty:
		return CategoryBackground
	case IsPipe(t):
		return CategoryPipe
	case IsSolid(t):
		return CategorySolid
	case IsEnemy(t):
		return CategoryEnemy
	case t == Coin:
		return CategoryCollectible
	}
	return CategoryOther
}

// String returns the symbol itself, or a hex escape for non-printable bytes.
func (t Tile) String() string {
	if t < 32 || t > 126 {
		return fmt.Sprintf("\\x%02X", byte(t))
	}
	return string([]byte{byte(t)})
}
