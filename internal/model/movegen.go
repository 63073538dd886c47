package model

import "sort"

// CanAnyPieceCapture reports whether some piece of side has a capture. When
// it does, no simple move is legal for that side this turn.
func (b *BoardState) CanAnyPieceCapture(side Side) bool {
	for _, pc := range b.pieces(side) {
		if len(b.captureSequences(pc)) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves returns the legal moves of the piece on pos. Under forced
// capture this is only its capture chains, which may be none at all.
func (b *BoardState) ValidMoves(pos Position) []Move {
	pc, ok := b.grid.at(pos)
	if !ok || pc.Side != b.toMove {
		return nil
	}
	if b.CanAnyPieceCapture(pc.Side) {
		return b.captureSequences(pc)
	}
	return b.simpleMoves(pc)
}

// AllValidMoves maps every movable piece of the side to move onto its legal
// moves.
func (b *BoardState) AllValidMoves() map[Position][]Move {
	return b.ValidMovesFor(b.toMove)
}

func (b *BoardState) ValidMovesFor(side Side) map[Position][]Move {
	pieces := b.pieces(side)
	moves := make(map[Position][]Move)
	for _, pc := range pieces {
		if caps := b.captureSequences(pc); len(caps) > 0 {
			moves[pc.Position] = caps
		}
	}
	if len(moves) > 0 {
		return moves
	}
	for _, pc := range pieces {
		if simple := b.simpleMoves(pc); len(simple) > 0 {
			moves[pc.Position] = simple
		}
	}
	return moves
}

// MovablePieces lists the squares of the pieces that have a legal move, in
// row-major order.
func (b *BoardState) MovablePieces() []Position {
	all := b.AllValidMoves()
	out := make([]Position, 0, len(all))
	for p := range all {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// IsValidMove reports whether m is one of the moves the engine would
// generate for the side to move.
func (b *BoardState) IsValidMove(m Move) bool {
	if m.Side != b.toMove {
		return false
	}
	for _, legal := range b.ValidMoves(m.From) {
		if legal.Equal(m) {
			return true
		}
	}
	return false
}

func (b *BoardState) simpleMoves(pc Piece) []Move {
	var moves []Move
	if pc.IsDame() {
		for _, d := range diagonals {
			for dist := 1; ; dist++ {
				dest := pc.Position.Step(d, dist)
				if _, occupied := b.grid.at(dest); occupied || !dest.InBounds() {
					break
				}
				moves = append(moves, simpleMove(pc, dest))
			}
		}
		return moves
	}
	for _, dcol := range []int{-1, 1} {
		dest := pc.Position.Step(Direction{DRow: pc.Side.Forward(), DCol: dcol}, 1)
		if _, occupied := b.grid.at(dest); !occupied && dest.InBounds() {
			moves = append(moves, simpleMove(pc, dest))
		}
	}
	return moves
}

func simpleMove(pc Piece, dest Position) Move {
	return Move{From: pc.Position, Path: []Position{dest}, Side: pc.Side}
}

func (b *BoardState) captureSequences(pc Piece) []Move {
	cs := &chainSearch{grid: &b.grid, mover: pc}
	if pc.IsDame() {
		cs.searchDame(pc.Position)
	} else {
		cs.searchPion(pc.Position)
	}
	return cs.moves
}

// chainSearch walks capture chains depth first. The grid is never written:
// the mover's origin and the pieces already jumped in the current chain are
// treated as empty squares instead.
type chainSearch struct {
	grid     *Grid
	mover    Piece
	path     []Position
	captured []Position
	moves    []Move
}

func (cs *chainSearch) occupant(p Position) (Piece, bool) {
	if p == cs.mover.Position {
		return Piece{}, false
	}
	for _, c := range cs.captured {
		if c == p {
			return Piece{}, false
		}
	}
	return cs.grid.at(p)
}

func (cs *chainSearch) isEnemy(p Position) bool {
	pc, ok := cs.occupant(p)
	return ok && pc.Side != cs.mover.Side
}

func (cs *chainSearch) isEmpty(p Position) bool {
	_, ok := cs.occupant(p)
	return p.InBounds() && !ok
}

func (cs *chainSearch) searchPion(cur Position) {
	found := false
	for _, dcol := range []int{-1, 1} {
		d := Direction{DRow: cs.mover.Side.Forward(), DCol: dcol}
		enemy, landing := cur.Step(d, 1), cur.Step(d, 2)
		if !landing.InBounds() || !cs.isEnemy(enemy) || !cs.isEmpty(landing) {
			continue
		}
		found = true
		cs.jump(enemy, landing, cs.searchPion)
	}
	cs.emit(found)
}

func (cs *chainSearch) searchDame(cur Position) {
	found := false
	for _, d := range diagonals {
		for dist := 1; ; dist++ {
			sq := cur.Step(d, dist)
			if !sq.InBounds() {
				break
			}
			pc, ok := cs.occupant(sq)
			if !ok {
				continue
			}
			if pc.Side == cs.mover.Side {
				break
			}
			// Only the square directly behind the enemy is a landing square.
			if landing := sq.Step(d, 1); cs.isEmpty(landing) {
				found = true
				cs.jump(sq, landing, cs.searchDame)
			}
			break
		}
	}
	cs.emit(found)
}

func (cs *chainSearch) jump(enemy, landing Position, next func(Position)) {
	cs.path = append(cs.path, landing)
	cs.captured = append(cs.captured, enemy)
	next(landing)
	cs.path = cs.path[:len(cs.path)-1]
	cs.captured = cs.captured[:len(cs.captured)-1]
}

// emit records the current chain once it cannot be extended. The root
// node, with nothing captured yet, never produces a move.
func (cs *chainSearch) emit(extended bool) {
	if extended || len(cs.captured) == 0 {
		return
	}
	cs.moves = append(cs.moves, Move{
		From:     cs.mover.Position,
		Path:     append([]Position(nil), cs.path...),
		Captured: append([]Position(nil), cs.captured...),
		Side:     cs.mover.Side,
	})
}
