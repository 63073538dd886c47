package model

// ExecuteMove applies m: the piece is lifted from m.From and set down on the
// last square of the path, every captured piece is removed, a Pion resting
// on its back rank is promoted, and the turn passes to the other side.
//
// m is trusted to come from the move generator. A move whose origin is
// empty, or whose path leaves the board, is ignored.
func (b *BoardState) ExecuteMove(m Move) {
	pc, ok := b.grid.at(m.From)
	if !ok || len(m.Path) == 0 || !m.To().InBounds() {
		return
	}
	dest := m.To()
	b.grid.clear(m.From)
	pc.Position = dest
	b.grid.place(pc)
	for _, c := range m.Captured {
		if c.InBounds() && c != dest {
			b.grid.clear(c)
		}
	}
	b.checkPromotion(dest)
	b.history = append(b.history, m)
	b.switchTurn()
}

// checkPromotion only ever looks at the final square of a move; a chain
// that passes over the back rank does not promote.
func (b *BoardState) checkPromotion(p Position) {
	pc, ok := b.grid.at(p)
	if !ok || pc.IsDame() || p.Row != pc.Side.BackRank() {
		return
	}
	pc.Rank = Dame
	b.grid.place(pc)
}

func (b *BoardState) switchTurn() {
	b.toMove = b.toMove.Opponent()
}
