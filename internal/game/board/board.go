package board

import "fmt"

// The board is a 7x7 grid walked as three concentric rings plus the
// shared center cell. Every color traverses all 49 cells, but each
// color's path is rotated so that it begins at that color's entry cell.
const (
	GridSize    = 7
	PathLength  = 49
	CenterIndex = PathLength - 1
)

// Position identifies a cell on the grid. Equality is by value.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns the cell offset from p by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Sub returns the offset from q to p.
func (p Position) Sub(q Position) Position {
	return Position{Row: p.Row - q.Row, Col: p.Col - q.Col}
}

// Center is the shared finish cell for every color.
var Center = Position{Row: 3, Col: 3}

// Color identifies one of the four player colors.
type Color int

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
)

var colorNames = map[Color]string{
	ColorRed:    "RED",
	ColorBlue:   "BLUE",
	ColorGreen:  "GREEN",
	ColorYellow: "YELLOW",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// Colors lists all playable colors in fixed turn order.
var Colors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// CellKind classifies a grid cell.
type CellKind int

const (
	KindEmpty CellKind = iota // off the grid
	KindPath
	KindSafe
	KindEntry
	KindSummon
	KindCenter
)

var kindNames = map[CellKind]string{
	KindEmpty:  "EMPTY",
	KindPath:   "PATH",
	KindSafe:   "SAFE",
	KindEntry:  "ENTRY",
	KindSummon: "SUMMON",
	KindCenter: "CENTER",
}

func (k CellKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// entryCells maps each color to the midpoint of its board edge.
var entryCells = map[Color]Position{
	ColorRed:    {Row: 0, Col: 3},
	ColorBlue:   {Row: 3, Col: 6},
	ColorGreen:  {Row: 6, Col: 3},
	ColorYellow: {Row: 3, Col: 0},
}

// summonCells maps each color to its quadrant corner on the first inner
// ring. These are the claimable portal cells.
var summonCells = map[Color]Position{
	ColorRed:    {Row: 1, Col: 1},
	ColorBlue:   {Row: 1, Col: 5},
	ColorGreen:  {Row: 5, Col: 5},
	ColorYellow: {Row: 5, Col: 1},
}

// innermost ring corners, used as rotation anchors for the second ring
var innerCorners = map[Color]Position{
	ColorRed:    {Row: 2, Col: 2},
	ColorBlue:   {Row: 2, Col: 4},
	ColorGreen:  {Row: 4, Col: 4},
	ColorYellow: {Row: 4, Col: 2},
}

// restCells are the outer corners; pieces standing there cannot have
// their hero captured by a landing move.
var restCells = map[Position]bool{
	{Row: 0, Col: 0}: true,
	{Row: 0, Col: 6}: true,
	{Row: 6, Col: 0}: true,
	{Row: 6, Col: 6}: true,
}

var (
	paths       map[Color][]Position
	pathIndexes map[Color]map[Position]int
)

func init() {
	paths = make(map[Color][]Position, len(Colors))
	pathIndexes = make(map[Color]map[Position]int, len(Colors))
	for _, c := range Colors {
		p := buildPath(c)
		paths[c] = p
		idx := make(map[Position]int, len(p))
		for i, pos := range p {
			idx[pos] = i
		}
		pathIndexes[c] = idx
	}
}

// ringPerimeter walks the square ring with corners (lo,lo)..(hi,hi)
// clockwise starting at (lo,lo).
func ringPerimeter(lo, hi int) []Position {
	ring := make([]Position, 0, 4*(hi-lo))
	for col := lo; col <= hi; col++ {
		ring = append(ring, Position{Row: lo, Col: col})
	}
	for row := lo + 1; row <= hi; row++ {
		ring = append(ring, Position{Row: row, Col: hi})
	}
	for col := hi - 1; col >= lo; col-- {
		ring = append(ring, Position{Row: hi, Col: col})
	}
	for row := hi - 1; row > lo; row-- {
		ring = append(ring, Position{Row: row, Col: lo})
	}
	return ring
}

// rotateTo returns ring rotated so that it begins at start.
func rotateTo(ring []Position, start Position) []Position {
	for i, pos := range ring {
		if pos == start {
			out := make([]Position, 0, len(ring))
			out = append(out, ring[i:]...)
			out = append(out, ring[:i]...)
			return out
		}
	}
	// start not on ring; callers only pass ring anchors
	return ring
}

// buildPath concatenates the three rings rotated to the color's anchors
// plus the center cell.
func buildPath(c Color) []Position {
	path := make([]Position, 0, PathLength)
	path = append(path, rotateTo(ringPerimeter(0, 6), entryCells[c])...)
	path = append(path, rotateTo(ringPerimeter(1, 5), summonCells[c])...)
	path = append(path, rotateTo(ringPerimeter(2, 4), innerCorners[c])...)
	path = append(path, Center)
	return path
}

// Path returns the full ordered path for a color. The returned slice is
// shared; callers must not modify it.
func Path(c Color) []Position {
	return paths[c]
}

// PathCell returns the cell at index idx of the color's path.
func PathCell(c Color, idx int) (Position, bool) {
	p, ok := paths[c]
	if !ok || idx < 0 || idx >= len(p) {
		return Position{}, false
	}
	return p[idx], true
}

// PathIndexOf returns the index of pos within the color's path. Every
// on-grid cell appears on every color's path.
func PathIndexOf(c Color, pos Position) (int, bool) {
	idx, ok := pathIndexes[c][pos]
	return idx, ok
}

// EntryCell returns the color's default entry cell (path index 0).
func EntryCell(c Color) Position {
	return entryCells[c]
}

// SummonCell returns the portal cell in the color's home quadrant.
func SummonCell(c Color) Position {
	return summonCells[c]
}

// SummonCells lists all four portal cells.
func SummonCells() []Position {
	out := make([]Position, 0, len(Colors))
	for _, c := range Colors {
		out = append(out, summonCells[c])
	}
	return out
}

// OnGrid reports whether pos lies on the board.
func OnGrid(pos Position) bool {
	return pos.Row >= 0 && pos.Row < GridSize && pos.Col >= 0 && pos.Col < GridSize
}

// Classify returns the kind of cell at pos.
func Classify(pos Position) CellKind {
	if !OnGrid(pos) {
		return KindEmpty
	}
	if pos == Center {
		return KindCenter
	}
	for _, p := range entryCells {
		if p == pos {
			return KindEntry
		}
	}
	for _, p := range summonCells {
		if p == pos {
			return KindSummon
		}
	}
	if restCells[pos] {
		return KindSafe
	}
	return KindPath
}

// IsSafe reports whether pos protects a hero standing on it from being
// captured by a landing move. Entry, summon and rest cells are safe.
func IsSafe(pos Position) bool {
	switch Classify(pos) {
	case KindSafe, KindEntry, KindSummon:
		return true
	}
	return false
}

// Adjacent reports whether a and b are within Chebyshev distance 1 of
// each other, excluding a == b.
func Adjacent(a, b Position) bool {
	if a == b || !OnGrid(a) || !OnGrid(b) {
		return false
	}
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr <= 1 && dc <= 1
}

// Neighbors returns the on-grid cells adjacent to pos.
func Neighbors(pos Position) []Position {
	out := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: pos.Row + dr, Col: pos.Col + dc}
			if OnGrid(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// PushDestination computes the cell one step further from the pusher
// through the target along the pusher->target vector. It returns false
// when the destination would leave the board; pushing off the board is
// illegal.
func PushDestination(pusher, target Position) (Position, bool) {
	if !Adjacent(pusher, target) {
		return Position{}, false
	}
	dest := target.Add(target.Sub(pusher))
	if !OnGrid(dest) {
		return Position{}, false
	}
	return dest, true
}
