package model

type Resolution string

const (
	ResolutionNone                 Resolution = ""
	ResolutionNoPieces             Resolution = "no_pieces"
	ResolutionNoMoves              Resolution = "no_moves"
	ResolutionInsufficientMaterial Resolution = "insufficient_material"
)

// Outcome summarises whether and how the game ended.
type Outcome struct {
	Over      bool       `json:"over"`
	Winner    Side       `json:"winner"`
	HasWinner bool       `json:"hasWinner"`
	Reason    Resolution `json:"reason"`
}

// IsInsufficientMaterial reports the two-lone-Dames position. It does not
// consult the rule toggle, so it can be checked on any variant.
func (b *BoardState) IsInsufficientMaterial() bool {
	black, white := b.pieces(Black), b.pieces(White)
	return len(black) == 1 && len(white) == 1 && black[0].IsDame() && white[0].IsDame()
}

func (b *BoardState) Outcome() Outcome {
	switch {
	case b.PieceCount(Black) == 0 && b.PieceCount(White) == 0:
		return Outcome{Over: true, Reason: ResolutionNoPieces}
	case b.PieceCount(Black) == 0:
		return Outcome{Over: true, Winner: White, HasWinner: true, Reason: ResolutionNoPieces}
	case b.PieceCount(White) == 0:
		return Outcome{Over: true, Winner: Black, HasWinner: true, Reason: ResolutionNoPieces}
	case b.rules.InsufficientMaterialDraw && b.IsInsufficientMaterial():
		return Outcome{Over: true, Reason: ResolutionInsufficientMaterial}
	case len(b.AllValidMoves()) == 0:
		return Outcome{Over: true, Winner: b.toMove.Opponent(), HasWinner: true, Reason: ResolutionNoMoves}
	}
	return Outcome{}
}

func (b *BoardState) IsGameOver() bool {
	return b.Outcome().Over
}

// Winner returns the winning side; ok is false while the game is running
// and for a draw.
func (b *BoardState) Winner() (Side, bool) {
	o := b.Outcome()
	return o.Winner, o.HasWinner
}
