package server

import (
	"github.com/ashtagame/ashta-server-go/internal/game"
	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// Wire views. The engine types carry no JSON tags on purpose; this
// layer decides what each viewer is allowed to see.

type CellView struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CardView struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

type PieceView struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Color     string    `json:"color"`
	Kind      string    `json:"kind"`
	Support   string    `json:"support,omitempty"`
	Cell      *CellView `json:"cell,omitempty"` // nil while at home
	PathIndex int       `json:"path_index"`
	Finished  bool      `json:"finished"`
}

type PlayerView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Human     bool     `json:"human"`
	HandCount int      `json:"hand_count"`
	DeckCount int      `json:"deck_count"`
	Available []string `json:"available_supports"`
	OnField   []string `json:"deployed_supports"`
}

type PortalView struct {
	Color string   `json:"color"`
	Cell  CellView `json:"cell"`
}

type LogView struct {
	Turn    int    `json:"turn"`
	Player  string `json:"player_id"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// StateView is the full game snapshot sent to one viewer. Hand holds
// only the cards that viewer may see: their own hand, or in hotseat
// games the current player's.
type StateView struct {
	GameID        string       `json:"game_id"`
	Phase         string       `json:"phase"`
	Turn          int          `json:"turn"`
	CurrentPlayer string       `json:"current_player"`
	TurnReady     bool         `json:"turn_ready"`
	Hotseat       bool         `json:"hotseat"`
	SelectedCard  string       `json:"selected_card,omitempty"`
	Winner        string       `json:"winner,omitempty"`
	Players       []PlayerView `json:"players"`
	Pieces        []PieceView  `json:"pieces"`
	Portals       []PortalView `json:"portals"`
	PendingPortal *CellView    `json:"pending_portal,omitempty"`
	AbilityPiece  string       `json:"ability_piece,omitempty"`
	PusherUsed    bool         `json:"pusher_used"`
	Hand          []CardView   `json:"hand"`
	Log           []LogView    `json:"log"`
}

// logTail caps how much of the game log a snapshot carries.
const logTail = 50

// NewStateView projects a state for one viewer.
func NewStateView(gameID string, s *game.GameState, viewerID string) StateView {
	view := StateView{
		GameID:        gameID,
		Phase:         s.Phase.String(),
		Turn:          s.Turn,
		CurrentPlayer: s.CurrentPlayer().ID,
		TurnReady:     s.TurnReady,
		Hotseat:       s.Hotseat,
		SelectedCard:  s.SelectedCard,
		Winner:        s.Winner,
		AbilityPiece:  s.AbilityPiece,
		PusherUsed:    s.PusherUsed,
	}

	for _, p := range s.Players {
		pv := PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Color: p.Color.String(),
			Human: p.Human,
		}
		if hand, ok := s.Hands[p.ID]; ok {
			pv.HandCount = len(hand.Held)
			pv.DeckCount = len(hand.Deck)
		}
		if roster, ok := s.Rosters[p.ID]; ok {
			for _, st := range roster.Available {
				pv.Available = append(pv.Available, string(st))
			}
			pv.OnField = append(pv.OnField, roster.OnField...)
		}
		view.Players = append(view.Players, pv)
	}

	for _, p := range s.Pieces {
		pv := PieceView{
			ID:        p.ID,
			PlayerID:  p.PlayerID,
			Color:     p.Color.String(),
			Kind:      p.Kind.String(),
			Support:   string(p.Support),
			PathIndex: p.PathIndex,
			Finished:  p.Finished,
		}
		if p.Pos != nil {
			pv.Cell = &CellView{Row: p.Pos.Row, Col: p.Pos.Col}
		}
		view.Pieces = append(view.Pieces, pv)
	}

	for _, c := range board.Colors {
		if cell, ok := s.Portals[c]; ok {
			view.Portals = append(view.Portals, PortalView{
				Color: c.String(),
				Cell:  CellView{Row: cell.Row, Col: cell.Col},
			})
		}
	}
	if s.PendingPortal != nil {
		view.PendingPortal = &CellView{Row: s.PendingPortal.Row, Col: s.PendingPortal.Col}
	}

	handOwner := viewerID
	if s.Hotseat {
		handOwner = s.CurrentPlayer().ID
	}
	if hand, ok := s.Hands[handOwner]; ok {
		for _, c := range hand.Held {
			view.Hand = append(view.Hand, CardView{ID: c.ID, Value: c.Value})
		}
	}

	log := s.Log
	if len(log) > logTail {
		log = log[len(log)-logTail:]
	}
	for _, e := range log {
		view.Log = append(view.Log, LogView{
			Turn:    e.Turn,
			Player:  e.PlayerID,
			Action:  e.Action,
			Message: e.Message,
		})
	}
	return view
}
