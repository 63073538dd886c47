package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		pieces []Piece
		toMove Side
		rules  Rules
		want   Outcome
	}{
		{
			name:   "empty board",
			toMove: Black,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Reason: ResolutionNoPieces},
		},
		{
			name:   "white has no pieces",
			pieces: []Piece{pion(Black, 2, 2)},
			toMove: White,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Winner: Black, HasWinner: true, Reason: ResolutionNoPieces},
		},
		{
			name:   "black has no pieces",
			pieces: []Piece{dame(White, 2, 2)},
			toMove: Black,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Winner: White, HasWinner: true, Reason: ResolutionNoPieces},
		},
		{
			name:   "side to move is stuck",
			pieces: []Piece{pion(Black, 7, 7), pion(White, 0, 0)},
			toMove: Black,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Winner: White, HasWinner: true, Reason: ResolutionNoMoves},
		},
		{
			name:   "blocked pion",
			pieces: []Piece{pion(White, 1, 0), pion(Black, 0, 1), dame(Black, 7, 7)},
			toMove: White,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Winner: Black, HasWinner: true, Reason: ResolutionNoMoves},
		},
		{
			name:   "lone dames",
			pieces: []Piece{dame(Black, 0, 0), dame(White, 7, 7)},
			toMove: Black,
			rules:  DefaultRules(),
			want:   Outcome{Over: true, Reason: ResolutionInsufficientMaterial},
		},
		{
			name:   "lone dames without the draw rule",
			pieces: []Piece{dame(Black, 0, 0), dame(White, 7, 7)},
			toMove: Black,
			rules:  Rules{InsufficientMaterialDraw: false},
			want:   Outcome{},
		},
		{
			name:   "dame against pion",
			pieces: []Piece{dame(Black, 0, 0), pion(White, 7, 7)},
			toMove: Black,
			rules:  DefaultRules(),
			want:   Outcome{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(tt.pieces...)
			b.rules = tt.rules
			b.SetCurrentSide(tt.toMove)

			got := b.Outcome()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Outcome mismatch (-want +got):\n%s", diff)
			}
			if b.IsGameOver() != tt.want.Over {
				t.Errorf("IsGameOver() = %v, want %v", b.IsGameOver(), tt.want.Over)
			}
			winner, ok := b.Winner()
			if ok != tt.want.HasWinner || (ok && winner != tt.want.Winner) {
				t.Errorf("Winner() = %s, %v; want %s, %v", winner, ok, tt.want.Winner, tt.want.HasWinner)
			}
		})
	}
}

func TestOutcome_OpeningPosition(t *testing.T) {
	b := NewStandardBoard("", "")
	if diff := cmp.Diff(Outcome{}, b.Outcome()); diff != "" {
		t.Errorf("Outcome mismatch (-want +got):\n%s", diff)
	}
	if _, ok := b.Winner(); ok {
		t.Errorf("Winner() reported a winner for a running game")
	}
}

func TestIsInsufficientMaterial_IgnoresRuleToggle(t *testing.T) {
	b := boardWith(dame(Black, 0, 0), dame(White, 7, 7))
	b.rules = Rules{InsufficientMaterialDraw: false}

	if !b.IsInsufficientMaterial() {
		t.Errorf("IsInsufficientMaterial() = false, want true")
	}
	if b.IsGameOver() {
		t.Errorf("IsGameOver() = true with the draw rule off")
	}
}

func TestOutcome_FromLayout(t *testing.T) {
	// "Alpha" sorts first, so it plays Black and moves first; its only
	// piece sits on its promotion row and cannot move.
	var layout Layout
	layout[7][7] = &Placement{Owner: "Alpha", Rank: Pion}
	layout[0][0] = &Placement{Owner: "Beta", Rank: Pion}

	b, err := NewBoardFromLayout(layout)
	if err != nil {
		t.Fatalf("NewBoardFromLayout: %v", err)
	}
	if !b.IsGameOver() {
		t.Fatalf("IsGameOver() = false, want true")
	}
	winner, ok := b.Winner()
	if !ok || winner != White {
		t.Errorf("Winner() = %s, %v; want white, true", winner, ok)
	}
	if b.Label(winner) != "Beta" {
		t.Errorf("Label(winner) = %q, want Beta", b.Label(winner))
	}
}
