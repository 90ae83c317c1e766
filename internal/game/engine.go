package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine owns the single mutable current-state reference per game and
// funnels every action through the pure reducer. It is the only
// stateful layer; everything below it is value-in, value-out.
type Engine struct {
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*gameEntry
}

type gameEntry struct {
	state  *GameState
	record *Record
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		logger: logger,
		games:  make(map[string]*gameEntry),
	}
}

// NewGame creates a game from a RESET_GAME action and returns its id
// and initial state. A zero seed is replaced so the recorded action
// sequence stays replayable.
func (e *Engine) NewGame(a Action) (string, *GameState, error) {
	if a.Type != ActionResetGame {
		return "", nil, fmt.Errorf("expected %s action, got %s", ActionResetGame, a.Type)
	}
	if a.Seed == 0 {
		a.Seed = time.Now().UnixNano()
	}
	state := Reduce(nil, a)
	if state == nil {
		return "", nil, fmt.Errorf("reset action rejected")
	}

	gameID := uuid.NewString()
	record := NewRecord(gameID)
	record.Append(a)

	e.mu.Lock()
	e.games[gameID] = &gameEntry{state: state, record: record}
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("game created",
			zap.String("game_id", gameID),
			zap.Int("players", len(state.Players)),
			zap.Bool("hotseat", state.Hotseat),
			zap.Int64("seed", state.Seed),
		)
	}
	return gameID, state, nil
}

// Dispatch applies one action to a game. It returns the resulting
// state and whether the action changed anything; rejected actions are
// reported but never error.
func (e *Engine) Dispatch(gameID string, a Action) (*GameState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.games[gameID]
	if !ok {
		return nil, false, fmt.Errorf("game %s not found", gameID)
	}

	next := Reduce(entry.state, a)
	changed := next != entry.state
	if changed {
		entry.state = next
		entry.record.Append(a)
	}

	if e.logger != nil {
		if changed {
			e.logger.Info("action applied",
				zap.String("game_id", gameID),
				zap.String("action", string(a.Type)),
				zap.String("player_id", a.PlayerID),
				zap.String("phase", next.Phase.String()),
			)
		} else {
			e.logger.Debug("action rejected",
				zap.String("game_id", gameID),
				zap.String("action", string(a.Type)),
				zap.String("player_id", a.PlayerID),
			)
		}
	}
	return next, changed, nil
}

// State returns the current state snapshot of a game.
func (e *Engine) State(gameID string) (*GameState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return entry.state, nil
}

// RecordOf returns the recorded action sequence of a game.
func (e *Engine) RecordOf(gameID string) (*Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return entry.record, nil
}

// DropGame removes a finished or abandoned game.
func (e *Engine) DropGame(gameID string) {
	e.mu.Lock()
	delete(e.games, gameID)
	e.mu.Unlock()
	if e.logger != nil {
		e.logger.Info("game dropped", zap.String("game_id", gameID))
	}
}

// GameIDs lists the ids of all live games.
func (e *Engine) GameIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.games))
	for id := range e.games {
		out = append(out, id)
	}
	return out
}
