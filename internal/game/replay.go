package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// Record is the append-only action sequence of one game. Because the
// reducer is pure and all identities and shuffles derive from the game
// seed, replaying the record rebuilds an identical state.
type Record struct {
	GameID string

	mu      sync.RWMutex
	actions []Action
}

// NewRecord creates an empty record.
func NewRecord(gameID string) *Record {
	return &Record{GameID: gameID}
}

// Append records one accepted action.
func (r *Record) Append(a Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

// Len returns the number of recorded actions.
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Actions returns a copy of the recorded sequence.
func (r *Record) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Action(nil), r.actions...)
}

// Rebuild replays the record through the reducer from scratch.
func (r *Record) Rebuild() *GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s *GameState
	for _, a := range r.actions {
		s = Reduce(s, a)
	}
	return s
}

// Checksum computes a deterministic SHA-256 over a canonical rendering
// of the state. Two states with equal checksums hold the same pieces,
// hands, portals and turn bookkeeping; replay divergence shows up as a
// checksum mismatch.
func Checksum(s *GameState) string {
	if s == nil {
		return ""
	}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%s|%d|%s|%s|%v|%v|%d\n",
		s.Current, s.Phase, s.Turn, s.SelectedCard, s.Winner,
		s.TurnReady, s.PusherUsed, s.PieceSeq)

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%v\n", p.ID, p.Color, p.Human)
	}

	pieces := append([]*Piece(nil), s.Pieces...)
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].ID < pieces[j].ID })
	for _, p := range pieces {
		pos := "home"
		if p.Pos != nil {
			pos = p.Pos.String()
		}
		fmt.Fprintf(&buf, "PIECE:%s|%s|%s|%s|%s|%d|%v\n",
			p.ID, p.PlayerID, p.Kind, p.Support, pos, p.PathIndex, p.Finished)
	}

	playerIDs := make([]string, 0, len(s.Hands))
	for id := range s.Hands {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)
	for _, id := range playerIDs {
		h := s.Hands[id]
		fmt.Fprintf(&buf, "HAND:%s|", id)
		for _, c := range h.Deck {
			fmt.Fprintf(&buf, "d%s,", c.ID)
		}
		for _, c := range h.Held {
			fmt.Fprintf(&buf, "h%s,", c.ID)
		}
		for _, c := range h.Discard {
			fmt.Fprintf(&buf, "x%s,", c.ID)
		}
		buf.WriteString("\n")
	}

	for _, id := range playerIDs {
		if r, ok := s.Rosters[id]; ok {
			avail := append([]SupportType(nil), r.Available...)
			sort.Slice(avail, func(i, j int) bool { return avail[i] < avail[j] })
			deployed := append([]string(nil), r.OnField...)
			sort.Strings(deployed)
			fmt.Fprintf(&buf, "ROSTER:%s|%v|%v\n", id, avail, deployed)
		}
	}

	for _, c := range board.Colors {
		if cell, ok := s.Portals[c]; ok {
			fmt.Fprintf(&buf, "PORTAL:%s|%s\n", c, cell)
		}
	}
	if s.PendingPortal != nil {
		fmt.Fprintf(&buf, "PENDING:%s\n", *s.PendingPortal)
	}
	fmt.Fprintf(&buf, "ABILITY:%s\nLOG:%d\n", s.AbilityPiece, len(s.Log))

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
