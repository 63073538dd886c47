package service

import (
	"fmt"

	"github.com/benbeisheim/dame-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// PlacedPiece is one entry of a custom starting layout.
type PlacedPiece struct {
	Owner string     `json:"owner"`
	Rank  model.Rank `json:"rank"`
	Row   int        `json:"row"`
	Col   int        `json:"col"`
}

type CreateGameRequest struct {
	Labels  [2]string     `json:"labels"`
	Hotseat bool          `json:"hotseat"`
	Layout  []PlacedPiece `json:"layout"`
	ToMove  *model.Side   `json:"toMove"`
}

type GameService struct {
	gameManager *GameManager
	rules       model.Rules
}

func NewGameService(gameManager *GameManager, rules model.Rules) *GameService {
	return &GameService{
		gameManager: gameManager,
		rules:       rules,
	}
}

// CreateGame starts a game from the standard layout, or from req.Layout
// when one is given.
func (gs *GameService) CreateGame(req CreateGameRequest) (string, error) {
	board, err := gs.newBoard(req)
	if err != nil {
		return "", err
	}
	if req.ToMove != nil {
		board.SetCurrentSide(*req.ToMove)
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, board, model.GameOptions{Hotseat: req.Hotseat})
	if err := gs.gameManager.AddGame(game); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) newBoard(req CreateGameRequest) (*model.BoardState, error) {
	opts := model.WithRules(gs.rules)
	if len(req.Layout) == 0 {
		return model.NewStandardBoard(req.Labels[0], req.Labels[1], opts), nil
	}

	var layout model.Layout
	for _, p := range req.Layout {
		pos := model.Position{Row: p.Row, Col: p.Col}
		if !pos.InBounds() {
			return nil, &model.LayoutError{Square: &pos, Reason: "square off the board"}
		}
		if layout[p.Row][p.Col] != nil {
			return nil, &model.LayoutError{Square: &pos, Reason: "square used twice"}
		}
		rank := p.Rank
		if rank == "" {
			rank = model.Pion
		}
		layout[p.Row][p.Col] = &model.Placement{Owner: p.Owner, Rank: rank}
	}
	return model.NewBoardFromLayout(layout, opts)
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) ValidMoves(gameID string, pos model.Position) ([]model.Move, error) {
	return gs.gameManager.ValidMoves(gameID, pos)
}

func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, req); err != nil {
		return err
	}

	return nil
}

func (gs *GameService) GetGame(gameID string) (*model.Game, error) {
	return gs.gameManager.GetGame(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
