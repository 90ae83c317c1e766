package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ashtagame/ashta-server-go/internal/bot"
	"github.com/ashtagame/ashta-server-go/internal/game"
	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// wsMessage is the envelope for both directions.
type wsMessage struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type createGameRequest struct {
	Players    int    `json:"players"`
	HumanColor string `json:"human_color"`
	Hotseat    bool   `json:"hotseat"`
	Seed       int64  `json:"seed"`
}

// actionRequest mirrors game.Action on the wire.
type actionRequest struct {
	Type      string    `json:"type"`
	CardID    string    `json:"card_id,omitempty"`
	PieceID   string    `json:"piece_id,omitempty"`
	Support   string    `json:"support,omitempty"`
	ViaPortal bool      `json:"via_portal,omitempty"`
	Cell      *CellView `json:"cell,omitempty"`
}

func (r actionRequest) toAction(playerID string) game.Action {
	a := game.Action{
		Type:      game.ActionType(r.Type),
		PlayerID:  playerID,
		CardID:    r.CardID,
		PieceID:   r.PieceID,
		Support:   game.SupportType(r.Support),
		ViaPortal: r.ViaPortal,
	}
	if r.Cell != nil {
		a.Cell = board.Position{Row: r.Cell.Row, Col: r.Cell.Col}
	}
	return a
}

func parseColor(name string) (board.Color, bool) {
	for _, c := range board.Colors {
		if strings.EqualFold(c.String(), name) {
			return c, true
		}
	}
	return board.ColorRed, false
}

// Hub routes client messages into the engine and fans state snapshots
// back out. The run loop owns the client set; everything crossing a
// goroutine boundary goes through a channel.
type Hub struct {
	engine   *game.Engine
	brain    bot.Brain
	logger   *zap.Logger
	botDelay time.Duration

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	notify     chan string // game ids whose state changed, from bot drivers

	clients map[*Client]bool // owned by the run loop

	mu      sync.Mutex
	botBusy map[string]bool
}

type inbound struct {
	client *Client
	msg    wsMessage
}

// NewHub wires the hub. A nil brain disables computer opponents.
func NewHub(engine *game.Engine, brain bot.Brain, botDelay time.Duration, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		engine:     engine,
		brain:      brain,
		logger:     logger,
		botDelay:   botDelay,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		notify:     make(chan string, 16),
		clients:    make(map[*Client]bool),
		botBusy:    make(map[string]bool),
	}
}

// Run processes hub events until the context is cancelled. It is the
// only goroutine that touches the client set.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*Client]bool)
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Info("client connected", zap.String("remote", c.remote))

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("client disconnected", zap.String("remote", c.remote))
			}

		case in := <-h.inbound:
			h.handleMessage(in.client, in.msg)

		case gameID := <-h.notify:
			h.broadcastGame(gameID)
		}
	}
}

// broadcastGame sends each subscribed client its own view of the game.
// Run-loop only.
func (h *Hub) broadcastGame(gameID string) {
	state, err := h.engine.State(gameID)
	if err != nil {
		return
	}
	for c := range h.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.send <- h.statePayload(gameID, state, c.playerID):
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) statePayload(gameID string, state *game.GameState, viewerID string) []byte {
	view := NewStateView(gameID, state, viewerID)
	data, _ := json.Marshal(view)
	payload, _ := json.Marshal(wsMessage{Type: "game_state", GameID: gameID, Data: data})
	return payload
}

func (h *Hub) sendError(c *Client, gameID, text string) {
	payload, _ := json.Marshal(wsMessage{Type: "error", GameID: gameID, Error: text})
	select {
	case c.send <- payload:
	default:
	}
}

func (h *Hub) handleMessage(c *Client, msg wsMessage) {
	switch msg.Type {
	case "create_game":
		var req createGameRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				h.sendError(c, "", "malformed create_game payload")
				return
			}
		}
		action := game.Action{
			Type:        game.ActionResetGame,
			PlayerCount: req.Players,
			Hotseat:     req.Hotseat,
			Seed:        req.Seed,
		}
		if color, ok := parseColor(req.HumanColor); ok {
			action.HumanColor = color
		}
		gameID, state, err := h.engine.NewGame(action)
		if err != nil {
			h.sendError(c, "", err.Error())
			return
		}
		c.gameID = gameID
		for _, p := range state.Players {
			if p.Human {
				c.playerID = p.ID
				break
			}
		}
		select {
		case c.send <- h.statePayload(gameID, state, c.playerID):
		default:
		}
		h.driveBots(gameID)

	case "join_game":
		state, err := h.engine.State(msg.GameID)
		if err != nil {
			h.sendError(c, msg.GameID, err.Error())
			return
		}
		c.gameID = msg.GameID
		if msg.PlayerID != "" {
			c.playerID = msg.PlayerID
		}
		select {
		case c.send <- h.statePayload(msg.GameID, state, c.playerID):
		default:
		}

	case "action":
		var req actionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.sendError(c, c.gameID, "malformed action payload")
			return
		}
		gameID := msg.GameID
		if gameID == "" {
			gameID = c.gameID
		}
		playerID := msg.PlayerID
		if playerID == "" {
			playerID = c.playerID
		}
		_, changed, err := h.engine.Dispatch(gameID, req.toAction(playerID))
		if err != nil {
			h.sendError(c, gameID, err.Error())
			return
		}
		if !changed {
			h.sendError(c, gameID, "action rejected")
			return
		}
		h.broadcastGame(gameID)
		h.driveBots(gameID)

	case "state":
		gameID := msg.GameID
		if gameID == "" {
			gameID = c.gameID
		}
		state, err := h.engine.State(gameID)
		if err != nil {
			h.sendError(c, gameID, err.Error())
			return
		}
		select {
		case c.send <- h.statePayload(gameID, state, c.playerID):
		default:
		}

	default:
		h.sendError(c, c.gameID, "unknown message type "+msg.Type)
	}
}

// driveBots plays out consecutive computer turns for a game. At most
// one driver per game runs at a time; human turns and game over stop
// the loop.
func (h *Hub) driveBots(gameID string) {
	if h.brain == nil {
		return
	}
	h.mu.Lock()
	if h.botBusy[gameID] {
		h.mu.Unlock()
		return
	}
	h.botBusy[gameID] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.botBusy, gameID)
			h.mu.Unlock()
		}()
		for {
			state, err := h.engine.State(gameID)
			if err != nil || state.Phase == game.PhaseGameOver {
				return
			}
			if state.CurrentPlayer().Human {
				return
			}
			action, ok := h.brain.NextAction(state)
			if !ok {
				return
			}
			if h.botDelay > 0 {
				time.Sleep(h.botDelay)
			}
			_, changed, err := h.engine.Dispatch(gameID, action)
			if err != nil || !changed {
				h.logger.Warn("bot action stalled",
					zap.String("game_id", gameID),
					zap.String("action", string(action.Type)),
					zap.Error(err),
				)
				return
			}
			h.notify <- gameID
		}
	}()
}
