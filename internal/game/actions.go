package game

import "github.com/ashtagame/ashta-server-go/internal/game/board"

// ActionType enumerates the closed set of dispatchable actions. The
// reducer switches exhaustively over these; anything else is a no-op.
type ActionType string

const (
	ActionResetGame      ActionType = "RESET_GAME"
	ActionStartTurn      ActionType = "START_TURN"
	ActionSelectCard     ActionType = "SELECT_CARD"
	ActionUnselectCard   ActionType = "UNSELECT_CARD"
	ActionEnterPiece     ActionType = "ENTER_PIECE"
	ActionMovePiece      ActionType = "MOVE_PIECE"
	ActionSummonSupport  ActionType = "SUMMON_SUPPORT"
	ActionClaimPortal    ActionType = "CLAIM_PORTAL"
	ActionSkipPortal     ActionType = "SKIP_PORTAL"
	ActionStealPortal    ActionType = "STEAL_PORTAL"
	ActionActivatePusher ActionType = "ACTIVATE_PUSHER"
	ActionExecutePush    ActionType = "EXECUTE_PUSH"
	ActionCancelAbility  ActionType = "CANCEL_ABILITY"
	ActionEndTurn        ActionType = "END_TURN"
	ActionRefreshHand    ActionType = "REFRESH_HAND"
)

// Action is the tagged union dispatched into the reducer. Only the
// fields relevant to Type are read; the rest are ignored.
type Action struct {
	Type     ActionType
	PlayerID string // acting player; empty means the current player

	CardID    string         // SELECT_CARD
	PieceID   string         // MOVE_PIECE, ACTIVATE_PUSHER (pusher), EXECUTE_PUSH (target)
	Support   SupportType    // SUMMON_SUPPORT
	ViaPortal bool           // ENTER_PIECE, SUMMON_SUPPORT
	Cell      board.Position // STEAL_PORTAL (the portal cell)

	// RESET_GAME setup
	PlayerCount int
	HumanColor  board.Color
	Hotseat     bool
	Seed        int64
}
