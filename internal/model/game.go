package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/dame-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // one writer per connection at a time
}

// Game owns one live position and the people looking at it. All access to
// the board goes through the game's mutex.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *BoardState
	hotseat     bool
	players     [2]ClientPlayer
	clocks      [2]*Clock
	history     []Ply
	sound       string
	lastMove    *Move
	connections *GameConnections
}

type GameOptions struct {
	// Hotseat lets the first player to join control both sides.
	Hotseat bool
	// Now is the clock source; time.Now when nil.
	Now func() time.Time
}

type GameState struct {
	ID            string       `json:"id"`
	Sound         string       `json:"sound"`
	Board         [][]*Piece   `json:"board"`
	ToMove        Side         `json:"toMove"`
	MoveHistory   []Ply        `json:"moveHistory"`
	LegalMoves    []PieceMoves `json:"legalMoves"`
	CaptureForced bool         `json:"captureForced"`
	Outcome       Outcome      `json:"outcome"`
	Rules         Rules        `json:"rules"`
	Hotseat       bool         `json:"hotseat"`
	Players       struct {
		Black ClientPlayer `json:"black"`
		White ClientPlayer `json:"white"`
	} `json:"players"`
	LastMove *Move `json:"lastMove"`
}

type PieceMoves struct {
	From  Position `json:"from"`
	Moves []Move   `json:"moves"`
}

func NewGame(id string, board *BoardState, opts GameOptions) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		hotseat:     opts.Hotseat,
		history:     make([]Ply, 0),
		connections: NewGameConnections(),
		clocks:      [2]*Clock{NewClock(opts.Now), NewClock(opts.Now)},
	}
	for _, s := range []Side{Black, White} {
		g.players[s] = ClientPlayer{Side: s, Label: board.Label(s)}
	}
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// AddPlayer seats playerID on the first free side, Black first. A player
// who is already seated gets their side back.
func (g *Game) AddPlayer(playerID string) (Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if s, ok := g.sideOf(playerID); ok {
		return s, nil
	}
	if g.players[Black].ID == "" {
		g.players[Black].ID = playerID
		if g.hotseat {
			g.players[White].ID = playerID
		}
		g.startClock()
		log.Infof("game %s: %s plays %s", g.ID, playerID, Black)
		return Black, nil
	}
	if g.players[White].ID == "" {
		g.players[White].ID = playerID
		log.Infof("game %s: %s plays %s", g.ID, playerID, White)
		return White, nil
	}
	return 0, ErrGameFull
}

func (g *Game) sideOf(playerID string) (Side, bool) {
	switch playerID {
	case "":
		return 0, false
	case g.players[Black].ID:
		return Black, true
	case g.players[White].ID:
		return White, true
	}
	return 0, false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.sideOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return g.players[Black].ID == "" || g.players[White].ID == ""
}

func (g *Game) controls(playerID string, s Side) bool {
	return playerID != "" && g.players[s].ID == playerID
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

// Snapshot returns a copy of the current position.
func (g *Game) Snapshot() *BoardState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone()
}

func (g *Game) ValidMoves(pos Position) []Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.ValidMoves(pos)
}

// MakeMove plays req for playerID and pushes the new state to every
// connected client.
func (g *Game) MakeMove(playerID string, req MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.IsGameOver() {
		return ErrGameOver
	}
	side := g.board.CurrentSide()
	if !g.controls(playerID, side) {
		if _, ok := g.sideOf(playerID); !ok {
			return ErrNotAPlayer
		}
		return ErrNotYourTurn
	}

	move, err := g.resolveMove(req)
	if err != nil {
		return err
	}
	wasDame := false
	if pc, ok := g.board.PieceAt(move.From); ok {
		wasDame = pc.IsDame()
	}

	g.clocks[side].Stop()
	g.board.ExecuteMove(move)
	log.Debugf("game %s: %s played %s", g.ID, side, move.Notation())

	landed, _ := g.board.PieceAt(move.To())
	promoted := !wasDame && landed.IsDame()
	g.history = append(g.history, Ply{Move: move, Notation: move.Notation(), Promotion: promoted})
	g.lastMove = &move

	outcome := g.board.Outcome()
	switch {
	case outcome.Over:
		g.sound = "gameOver"
		log.Infof("game %s: over (%s)", g.ID, outcome.Reason)
	case promoted:
		g.sound = "promotion"
	case move.IsCapture():
		g.sound = "capture"
	default:
		g.sound = "move"
	}
	if !outcome.Over {
		g.startClock()
	}

	go g.broadcastState(g.state())
	return nil
}

// resolveMove matches a client request against the legal moves of the
// piece on req.From. A single-square path is accepted as the destination
// of a chain when only one legal move ends there.
func (g *Game) resolveMove(req MoveRequest) (Move, error) {
	legal := g.board.ValidMoves(req.From)
	if len(legal) == 0 {
		return Move{}, fmt.Errorf("%w: no legal move from %s", ErrIllegalMove, req.From.Notation())
	}
	for _, m := range legal {
		if samePositions(m.Path, req.Path) {
			return m, nil
		}
	}
	if len(req.Path) != 1 {
		return Move{}, ErrIllegalMove
	}
	var match []Move
	for _, m := range legal {
		if m.To() == req.Path[0] {
			match = append(match, m)
		}
	}
	switch len(match) {
	case 0:
		return Move{}, ErrIllegalMove
	case 1:
		return match[0], nil
	default:
		return Move{}, fmt.Errorf("%w: %d chains end on %s, send the full path", ErrIllegalMove, len(match), req.Path[0].Notation())
	}
}

func (g *Game) startClock() {
	g.clocks[g.board.CurrentSide()].Start()
}

func (g *Game) state() GameState {
	st := GameState{
		ID:          g.ID,
		Sound:       g.sound,
		Board:       boardRows(g.board.Board()),
		ToMove:      g.board.CurrentSide(),
		MoveHistory: append([]Ply(nil), g.history...),
		LegalMoves:  groupMoves(g.board.AllValidMoves()),
		Outcome:     g.board.Outcome(),
		Rules:       g.board.Rules(),
		Hotseat:     g.hotseat,
		LastMove:    g.lastMove,
	}
	st.CaptureForced = g.board.CanAnyPieceCapture(st.ToMove)
	st.Players.Black = g.players[Black]
	st.Players.Black.TimeUsed = g.clocks[Black].Client().TimeUsed
	st.Players.White = g.players[White]
	st.Players.White.TimeUsed = g.clocks[White].Client().TimeUsed
	return st
}

func boardRows(grid Grid) [][]*Piece {
	rows := make([][]*Piece, BoardSize)
	for r := range grid {
		rows[r] = make([]*Piece, BoardSize)
		for c, slot := range grid[r] {
			if slot.Occupied {
				pc := slot.Piece
				rows[r][c] = &pc
			}
		}
	}
	return rows
}

func groupMoves(all map[Position][]Move) []PieceMoves {
	out := make([]PieceMoves, 0, len(all))
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := Position{Row: row, Col: col}
			if moves, ok := all[p]; ok {
				out = append(out, PieceMoves{From: p, Moves: moves})
			}
		}
	}
	return out
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.controls(playerID, Black) || g.controls(playerID, White) || g.canSpectate()
	snapshot := g.state()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and turn the new one away.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: connection registered for %s", g.ID, playerID)

	go g.broadcastState(snapshot)
	return nil
}

// UnregisterConnection drops conn if it is still the player's current one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Infof("game %s: connection closed for %s", g.ID, playerID)
	}
}

func (g *Game) broadcastState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: send state to %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}

// Send writes one message to conn, serialised with broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()

	return conn.WriteJSON(msg)
}
