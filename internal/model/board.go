package model

import (
	"fmt"
	"sort"
	"strings"
)

const BoardSize = 8

type Rank string

const (
	Pion Rank = "pion"
	Dame Rank = "dame"
)

func (r Rank) valid() bool {
	return r == Pion || r == Dame
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Less orders positions by row, then column.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

func (p Position) Step(d Direction, n int) Position {
	return Position{Row: p.Row + d.DRow*n, Col: p.Col + d.DCol*n}
}

// Notation renders the square as file letter plus 1-based row, e.g. "c3".
func (p Position) Notation() string {
	return fmt.Sprintf("%c%d", p.Col+'a', p.Row+1)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

type Direction struct {
	DRow int
	DCol int
}

var diagonals = [4]Direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

type Piece struct {
	Side     Side     `json:"side"`
	Rank     Rank     `json:"rank"`
	Position Position `json:"position"`
}

func (p Piece) IsDame() bool { return p.Rank == Dame }

// Slot is one square of the grid. The zero value is an empty square.
type Slot struct {
	Piece    Piece
	Occupied bool
}

// Grid is a value type: assigning it copies every piece.
type Grid [BoardSize][BoardSize]Slot

func (g *Grid) at(p Position) (Piece, bool) {
	if !p.InBounds() {
		return Piece{}, false
	}
	s := g[p.Row][p.Col]
	return s.Piece, s.Occupied
}

func (g *Grid) place(pc Piece) {
	g[pc.Position.Row][pc.Position.Col] = Slot{Piece: pc, Occupied: true}
}

func (g *Grid) clear(p Position) {
	g[p.Row][p.Col] = Slot{}
}

// Rules holds the optional rule toggles that differ between variants.
type Rules struct {
	// InsufficientMaterialDraw ends the game as a draw once each side is
	// down to a single Dame.
	InsufficientMaterialDraw bool `json:"insufficientMaterialDraw"`
}

func DefaultRules() Rules {
	return Rules{InsufficientMaterialDraw: true}
}

type Option func(*BoardState)

func WithRules(r Rules) Option {
	return func(b *BoardState) { b.rules = r }
}

// BoardState is the live position of one game: the grid, whose turn it is
// and the log of executed moves. It is only mutated through ExecuteMove and
// SetCurrentSide.
type BoardState struct {
	grid    Grid
	toMove  Side
	history []Move
	labels  [2]string
	rules   Rules
}

// NewStandardBoard sets up the opening layout: two rows per side on
// alternating squares. first plays Black and moves first.
func NewStandardBoard(first, second string, opts ...Option) *BoardState {
	b := newBoardState(opts...)
	b.labels = [2]string{first, second}
	for row := 0; row < 2; row++ {
		for col := row % 2; col < BoardSize; col += 2 {
			b.grid.place(Piece{Side: Black, Rank: Pion, Position: Position{Row: row, Col: col}})
		}
	}
	for row := BoardSize - 2; row < BoardSize; row++ {
		for col := row % 2; col < BoardSize; col += 2 {
			b.grid.place(Piece{Side: White, Rank: Pion, Position: Position{Row: row, Col: col}})
		}
	}
	return b
}

type Placement struct {
	Owner string
	Rank  Rank
}

// Layout is an externally supplied grid; nil entries are empty squares.
type Layout [BoardSize][BoardSize]*Placement

// NewBoardFromLayout builds a position from an arbitrary grid. Owner labels
// are sorted; the first one plays Black and moves first.
func NewBoardFromLayout(layout Layout, opts ...Option) (*BoardState, error) {
	seen := map[string]bool{}
	for row := range layout {
		for col, pl := range layout[row] {
			if pl == nil {
				continue
			}
			if pl.Owner == "" {
				return nil, &LayoutError{Square: &Position{Row: row, Col: col}, Reason: "piece without owner"}
			}
			if !pl.Rank.valid() {
				return nil, &LayoutError{Square: &Position{Row: row, Col: col}, Reason: fmt.Sprintf("unknown rank %q", pl.Rank)}
			}
			seen[pl.Owner] = true
		}
	}
	owners := make([]string, 0, len(seen))
	for o := range seen {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	if len(owners) > 2 {
		return nil, &LayoutError{Owners: owners, Reason: "more than two owners"}
	}

	b := newBoardState(opts...)
	for i, o := range owners {
		b.labels[i] = o
	}
	for row := range layout {
		for col, pl := range layout[row] {
			if pl == nil {
				continue
			}
			side := Black
			if pl.Owner != owners[0] {
				side = White
			}
			b.grid.place(Piece{Side: side, Rank: pl.Rank, Position: Position{Row: row, Col: col}})
		}
	}
	return b, nil
}

func newBoardState(opts ...Option) *BoardState {
	b := &BoardState{
		toMove:  Black,
		history: make([]Move, 0),
		rules:   DefaultRules(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Board returns a snapshot of the grid.
func (b *BoardState) Board() Grid { return b.grid }

func (b *BoardState) PieceAt(p Position) (Piece, bool) { return b.grid.at(p) }

func (b *BoardState) CurrentSide() Side { return b.toMove }

func (b *BoardState) SetCurrentSide(s Side) { b.toMove = s }

func (b *BoardState) Rules() Rules { return b.rules }

// History returns a copy of the executed moves, oldest first.
func (b *BoardState) History() []Move {
	out := make([]Move, len(b.history))
	copy(out, b.history)
	return out
}

// Label returns the display name of a side, falling back to the side's
// colour when none was given.
func (b *BoardState) Label(s Side) string {
	if l := b.labels[s]; l != "" {
		return l
	}
	return s.String()
}

func (b *BoardState) PieceCount(s Side) int {
	n := 0
	for row := range b.grid {
		for _, slot := range b.grid[row] {
			if slot.Occupied && slot.Piece.Side == s {
				n++
			}
		}
	}
	return n
}

func (b *BoardState) pieces(s Side) []Piece {
	var out []Piece
	for row := range b.grid {
		for _, slot := range b.grid[row] {
			if slot.Occupied && slot.Piece.Side == s {
				out = append(out, slot.Piece)
			}
		}
	}
	return out
}

// Clone returns an independent copy; nothing is shared with b.
func (b *BoardState) Clone() *BoardState {
	c := *b
	c.history = b.History()
	return &c
}

// String draws the grid with row 0 at the top: b/B for Black pion/dame,
// w/W for White.
func (b *BoardState) String() string {
	var sb strings.Builder
	sb.WriteString("  abcdefgh\n")
	for row := 0; row < BoardSize; row++ {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(symbol(b.grid[row][col]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func symbol(s Slot) byte {
	if !s.Occupied {
		return '.'
	}
	c := byte('b')
	if s.Piece.Side == White {
		c = 'w'
	}
	if s.Piece.IsDame() {
		c -= 'a' - 'A'
	}
	return c
}
