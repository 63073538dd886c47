package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/dame-backend/internal/model"
	"github.com/google/go-cmp/cmp"
)

func newTestService() (*GameService, *GameManager) {
	gm := NewGameManager()
	return NewGameService(gm, model.DefaultRules()), gm
}

func TestGameManager_Registry(t *testing.T) {
	gm := NewGameManager()
	game := model.NewGame("g1", model.NewStandardBoard("", ""), model.GameOptions{})

	if err := gm.AddGame(game); err != nil {
		t.Fatalf("AddGame: %v", err)
	}
	if err := gm.AddGame(game); !errors.Is(err, ErrGameExists) {
		t.Errorf("second AddGame error = %v, want ErrGameExists", err)
	}
	if got, err := gm.GetGame("g1"); err != nil || got != game {
		t.Errorf("GetGame = %p, %v", got, err)
	}
	if gm.Count() != 1 {
		t.Errorf("Count() = %d, want 1", gm.Count())
	}
	if err := gm.RemoveGame("g1"); err != nil {
		t.Fatalf("RemoveGame: %v", err)
	}
	if _, err := gm.GetGame("g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame after remove error = %v, want ErrGameNotFound", err)
	}
	if err := gm.RemoveGame("g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("RemoveGame twice error = %v, want ErrGameNotFound", err)
	}
}

func TestGameManager_UnknownGame(t *testing.T) {
	gm := NewGameManager()

	if _, err := gm.AddPlayerToGame("nope", "p1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("AddPlayerToGame error = %v", err)
	}
	if _, err := gm.GetGameState("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState error = %v", err)
	}
	if err := gm.MakeMove("nope", "p1", model.MoveRequest{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("MakeMove error = %v", err)
	}
	if _, err := gm.ValidMoves("nope", model.Position{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("ValidMoves error = %v", err)
	}
	if err := gm.RegisterConnection("nope", "p1", nil); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("RegisterConnection error = %v", err)
	}
	gm.UnregisterConnection("nope", "p1", nil)
}

func TestGameService_PlayStandardGame(t *testing.T) {
	gs, gm := newTestService()

	id, err := gs.CreateGame(CreateGameRequest{Labels: [2]string{"alice", "bob"}})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if gm.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", gm.Count())
	}

	if side, err := gs.JoinGame(id, "p1"); err != nil || side != model.Black {
		t.Fatalf("JoinGame(p1) = %s, %v", side, err)
	}
	if side, err := gs.JoinGame(id, "p2"); err != nil || side != model.White {
		t.Fatalf("JoinGame(p2) = %s, %v", side, err)
	}

	moves, err := gs.ValidMoves(id, model.Position{Row: 1, Col: 1})
	if err != nil || len(moves) != 2 {
		t.Fatalf("ValidMoves = %v, %v", moves, err)
	}
	req := model.MoveRequest{From: moves[0].From, Path: moves[0].Path}
	if err := gs.HandleMove(id, "p1", req); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if err := gs.HandleMove(id, "p1", req); !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("second HandleMove error = %v, want ErrNotYourTurn", err)
	}

	st, err := gs.GetGameState(id)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if st.ToMove != model.White || len(st.MoveHistory) != 1 {
		t.Errorf("state after one move: toMove %s, %d plies", st.ToMove, len(st.MoveHistory))
	}
	if st.Players.Black.Label != "alice" {
		t.Errorf("black label = %q", st.Players.Black.Label)
	}
}

func TestGameService_CreateFromLayout(t *testing.T) {
	gs, _ := newTestService()
	white := model.White

	id, err := gs.CreateGame(CreateGameRequest{
		Hotseat: true,
		ToMove:  &white,
		Layout: []PlacedPiece{
			{Owner: "north", Row: 2, Col: 2},
			{Owner: "south", Rank: model.Dame, Row: 5, Col: 5},
		},
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	st, err := gs.GetGameState(id)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if st.ToMove != model.White {
		t.Errorf("ToMove = %s, want white", st.ToMove)
	}
	if !st.Hotseat {
		t.Errorf("Hotseat = false")
	}
	want := &model.Piece{Side: model.Black, Rank: model.Pion, Position: model.Position{Row: 2, Col: 2}}
	if diff := cmp.Diff(want, st.Board[2][2]); diff != "" {
		t.Errorf("Board[2][2] mismatch (-want +got):\n%s", diff)
	}
	want = &model.Piece{Side: model.White, Rank: model.Dame, Position: model.Position{Row: 5, Col: 5}}
	if diff := cmp.Diff(want, st.Board[5][5]); diff != "" {
		t.Errorf("Board[5][5] mismatch (-want +got):\n%s", diff)
	}
	if st.Players.Black.Label != "north" || st.Players.White.Label != "south" {
		t.Errorf("labels = %q, %q", st.Players.Black.Label, st.Players.White.Label)
	}
}

func TestGameService_CreateRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout []PlacedPiece
	}{
		{
			name:   "off the board",
			layout: []PlacedPiece{{Owner: "a", Row: 8, Col: 0}},
		},
		{
			name: "same square twice",
			layout: []PlacedPiece{
				{Owner: "a", Row: 3, Col: 3},
				{Owner: "b", Row: 3, Col: 3},
			},
		},
		{
			name: "three owners",
			layout: []PlacedPiece{
				{Owner: "a", Row: 0, Col: 0},
				{Owner: "b", Row: 2, Col: 2},
				{Owner: "c", Row: 4, Col: 4},
			},
		},
		{
			name:   "unknown rank",
			layout: []PlacedPiece{{Owner: "a", Rank: "queen", Row: 0, Col: 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, gm := newTestService()
			_, err := gs.CreateGame(CreateGameRequest{Layout: tt.layout})
			if !errors.Is(err, model.ErrInvalidLayout) {
				t.Errorf("CreateGame error = %v, want ErrInvalidLayout", err)
			}
			if gm.Count() != 0 {
				t.Errorf("a game was registered for a bad layout")
			}
		})
	}
}
