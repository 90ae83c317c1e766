package game

import (
	"fmt"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
	"github.com/ashtagame/ashta-server-go/internal/game/deck"
)

// Phase represents the turn phases of the state machine.
type Phase int

const (
	PhaseSelectCard Phase = iota
	PhaseSelectAction
	PhasePortalChoice
	PhaseSelectPushTarget
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSelectCard:       "SELECT_CARD",
	PhaseSelectAction:     "SELECT_ACTION",
	PhasePortalChoice:     "PORTAL_CHOICE",
	PhaseSelectPushTarget: "SELECT_PUSH_TARGET",
	PhaseGameOver:         "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// PieceKind distinguishes the win-condition hero from summoned supports.
type PieceKind int

const (
	KindHero PieceKind = iota
	KindSupport
)

func (k PieceKind) String() string {
	if k == KindHero {
		return "HERO"
	}
	return "SUPPORT"
}

// SupportType identifies a summonable support unit.
type SupportType string

const (
	SupportEscort   SupportType = "ESCORT"
	SupportBlocker  SupportType = "BLOCKER"
	SupportAssassin SupportType = "ASSASSIN"
	SupportPusher   SupportType = "PUSHER"
)

// SupportTypes lists all summonable support types.
var SupportTypes = []SupportType{SupportEscort, SupportBlocker, SupportAssassin, SupportPusher}

// MaxSupportsOnField caps the number of supports a player may have
// deployed at once.
const MaxSupportsOnField = 3

// Piece is a unit on (or off) the board. Support is set only when Kind
// is KindSupport. Pos nil and PathIndex -1 together mean off-board.
type Piece struct {
	ID        string
	PlayerID  string
	Color     board.Color
	Kind      PieceKind
	Support   SupportType
	Pos       *board.Position
	PathIndex int
	Finished  bool
}

// AtHome reports whether the piece is off the board.
func (p *Piece) AtHome() bool {
	return p.Pos == nil
}

// SupportRoster tracks a player's summonable and deployed support
// types. A type never appears in Available while one of the deployed
// pieces carries it.
type SupportRoster struct {
	Available []SupportType
	OnField   []string // piece ids
}

func (r *SupportRoster) hasAvailable(t SupportType) bool {
	for _, a := range r.Available {
		if a == t {
			return true
		}
	}
	return false
}

func (r *SupportRoster) takeAvailable(t SupportType) bool {
	for i, a := range r.Available {
		if a == t {
			r.Available = append(r.Available[:i:i], r.Available[i+1:]...)
			return true
		}
	}
	return false
}

func (r *SupportRoster) removeDeployed(pieceID string) {
	for i, id := range r.OnField {
		if id == pieceID {
			r.OnField = append(r.OnField[:i:i], r.OnField[i+1:]...)
			return
		}
	}
}

// Player is a seat at the table.
type Player struct {
	ID    string
	Name  string
	Color board.Color
	Human bool
}

// LogEntry is one line of the append-only game log.
type LogEntry struct {
	Turn      int
	PlayerID  string
	Action    string
	CardValue int    // 0 when no card was involved
	Target    string // target player name or piece type, when relevant
	Message   string
}

// GameState is the complete immutable game snapshot. The reducer never
// mutates a state it was handed; every transition produces a new value.
type GameState struct {
	Players       []Player
	Pieces        []*Piece
	Hands         map[string]*deck.Hand
	Rosters       map[string]*SupportRoster
	Current       int // index into Players
	Phase         Phase
	SelectedCard  string // held card id, empty when none selected
	Winner        string // player id, empty until game over
	Log           []LogEntry
	Turn          int
	TurnReady     bool
	Hotseat       bool
	Portals       map[board.Color]board.Position
	PendingPortal *board.Position
	AbilityPiece  string // pusher piece id while targeting
	PusherUsed    bool
	Seed          int64
	PieceSeq      int // monotonic counter for summoned piece ids
}

// Clone deep-copies the state. Reducer handlers mutate only clones so a
// rejected action can return the prior state untouched.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Players:      append([]Player(nil), s.Players...),
		Pieces:       make([]*Piece, len(s.Pieces)),
		Hands:        make(map[string]*deck.Hand, len(s.Hands)),
		Rosters:      make(map[string]*SupportRoster, len(s.Rosters)),
		Current:      s.Current,
		Phase:        s.Phase,
		SelectedCard: s.SelectedCard,
		Winner:       s.Winner,
		Log:          append([]LogEntry(nil), s.Log...),
		Turn:         s.Turn,
		TurnReady:    s.TurnReady,
		Hotseat:      s.Hotseat,
		Portals:      make(map[board.Color]board.Position, len(s.Portals)),
		AbilityPiece: s.AbilityPiece,
		PusherUsed:   s.PusherUsed,
		Seed:         s.Seed,
		PieceSeq:     s.PieceSeq,
	}
	for i, p := range s.Pieces {
		cp := *p
		if p.Pos != nil {
			pos := *p.Pos
			cp.Pos = &pos
		}
		out.Pieces[i] = &cp
	}
	for id, h := range s.Hands {
		out.Hands[id] = h.Clone()
	}
	for id, r := range s.Rosters {
		out.Rosters[id] = &SupportRoster{
			Available: append([]SupportType(nil), r.Available...),
			OnField:   append([]string(nil), r.OnField...),
		}
	}
	for c, pos := range s.Portals {
		out.Portals[c] = pos
	}
	if s.PendingPortal != nil {
		pos := *s.PendingPortal
		out.PendingPortal = &pos
	}
	return out
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() Player {
	return s.Players[s.Current]
}

// PlayerByID looks up a player.
func (s *GameState) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// PieceByID looks up a piece.
func (s *GameState) PieceByID(id string) (*Piece, bool) {
	for _, p := range s.Pieces {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// HeroOf returns a player's hero piece.
func (s *GameState) HeroOf(playerID string) (*Piece, bool) {
	for _, p := range s.Pieces {
		if p.PlayerID == playerID && p.Kind == KindHero {
			return p, true
		}
	}
	return nil, false
}

// PiecesAt returns the non-finished pieces occupying pos.
func (s *GameState) PiecesAt(pos board.Position) []*Piece {
	var out []*Piece
	for _, p := range s.Pieces {
		if p.Finished || p.Pos == nil {
			continue
		}
		if *p.Pos == pos {
			out = append(out, p)
		}
	}
	return out
}

func (s *GameState) removePiece(pieceID string) {
	for i, p := range s.Pieces {
		if p.ID == pieceID {
			s.Pieces = append(s.Pieces[:i:i], s.Pieces[i+1:]...)
			return
		}
	}
}

func (s *GameState) appendLog(playerID, action string, cardValue int, target, message string) {
	s.Log = append(s.Log, LogEntry{
		Turn:      s.Turn,
		PlayerID:  playerID,
		Action:    action,
		CardValue: cardValue,
		Target:    target,
		Message:   message,
	})
}
