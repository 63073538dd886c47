package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/dame-backend/internal/model"
	"github.com/benbeisheim/dame-backend/internal/service"
	"github.com/benbeisheim/dame-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)

	game, err := wsc.gameService.GetGame(gameID)
	if err != nil {
		log.Warnf("websocket for unknown game %s: %v", gameID, err)
		c.Close()
		return
	}
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("failed to register connection: %v", err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s: %v", gameID, playerID, err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("game %s: parse error: %v", gameID, err)
			wsc.sendError(game, c, "malformed message")
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			wsc.sendError(game, c, err.Error())
			continue
		}
		if reply != nil {
			if err := game.Send(c, *reply); err != nil {
				log.Warnf("game %s: reply to %s: %v", gameID, playerID, err)
			}
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

// handleMessage dispatches one client message. Moves are answered by the
// game's broadcast, so only queries produce a direct reply.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleMove(gameID, playerID, req)

	case ws.MessageTypeValidMoves:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.ValidMoves(gameID, pos)
		if err != nil {
			return nil, err
		}
		if moves == nil {
			moves = []model.Move{}
		}
		reply, err := ws.NewMessage(ws.MessageTypeValidMoves, moves)
		return &reply, err

	case ws.MessageTypeGameState:
		state, err := wsc.gameService.GetGameState(gameID)
		if err != nil {
			return nil, err
		}
		reply, err := ws.NewMessage(ws.MessageTypeGameState, state)
		return &reply, err

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(game *model.Game, c *websocket.Conn, errorMsg string) {
	msg, err := ws.NewMessage(ws.MessageTypeError, errorMsg)
	if err != nil {
		return
	}
	if err := game.Send(c, msg); err != nil {
		log.Debugf("game %s: send error: %v", game.ID, err)
	}
}
